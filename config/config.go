package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	App      AppConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Firebase FirebaseConfig
	Oracle   OracleConfig
	Images   ImagesConfig
	Jobs     JobsConfig
}

type ServerConfig struct {
	Port               string
	CorsAllowedOrigins string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	LogFilePath string
	Version     string
	// AuthMode is "firebase" (verify ID tokens) or "dev" (trust X-User-Id).
	AuthMode string
}

type StoreConfig struct {
	Backend string // redis, postgres, firestore
}

type DatabaseConfig struct {
	Driver   string // postgres (lib/pq) or pgx
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type FirebaseConfig struct {
	CredentialsPath string
	ProjectID       string
}

type OracleConfig struct {
	Provider      string // gemini or openai
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

type ImagesConfig struct {
	UnsplashAccessKey string
}

type JobsConfig struct {
	ReconcileSchedule string
	Enabled           bool
}

const (
	BackendRedis     = "redis"
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"

	AuthModeFirebase = "firebase"
	AuthModeDev      = "dev"
)

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFilePath: getEnv("LOG_FILE_PATH", "logs/portal.log"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			AuthMode:    getEnv("AUTH_MODE", AuthModeFirebase),
		},
		Store: StoreConfig{
			Backend: getEnv("STORE_BACKEND", BackendRedis),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "talenthub"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		},
		Oracle: OracleConfig{
			Provider:      getEnv("ORACLE_PROVIDER", "gemini"),
			GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
			GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
			OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout:       getEnvAsDuration("ORACLE_TIMEOUT", 30*time.Second),
			RatePerSecond: getEnvAsFloat("ORACLE_RATE_PER_SEC", 2),
			Burst:         getEnvAsInt("ORACLE_BURST", 4),
		},
		Images: ImagesConfig{
			UnsplashAccessKey: getEnv("UNSPLASH_ACCESS_KEY", ""),
		},
		Jobs: JobsConfig{
			ReconcileSchedule: getEnv("RECONCILE_SCHEDULE", "0 */10 * * * *"),
			Enabled:           getEnvAsBool("JOBS_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Store.Backend {
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required")
		}
	case BackendPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Driver != "postgres" && c.Database.Driver != "pgx" {
			return fmt.Errorf("DB_DRIVER must be postgres or pgx")
		}
	case BackendFirestore:
		if c.Firebase.CredentialsPath == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required for the firestore backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}

	switch c.App.AuthMode {
	case AuthModeFirebase:
		if c.Firebase.CredentialsPath == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
		}
	case AuthModeDev:
		if c.App.Environment == "production" {
			return fmt.Errorf("AUTH_MODE=dev is not allowed in production")
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.App.AuthMode)
	}

	if c.Oracle.Provider != "gemini" && c.Oracle.Provider != "openai" {
		return fmt.Errorf("ORACLE_PROVIDER must be gemini or openai")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}
