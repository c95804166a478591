package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/talenthub/portal-backend/config"
	"github.com/talenthub/portal-backend/internal/policychat"
	"github.com/talenthub/portal-backend/internal/store"
	usersdomain "github.com/talenthub/portal-backend/internal/users/domain"
)

func newTestContainer(t *testing.T) *Container {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0", CorsAllowedOrigins: "http://localhost:5173"},
		App:    config.AppConfig{Environment: "test", Version: "test", AuthMode: config.AuthModeDev},
		Store:  config.StoreConfig{Backend: config.BackendRedis},
		Redis:  config.RedisConfig{Addr: mr.Addr()},
		Oracle: config.OracleConfig{Provider: "openai", Timeout: time.Second, RatePerSecond: 1, Burst: 1},
		Jobs:   config.JobsConfig{ReconcileSchedule: "0 */10 * * * *"},
	}

	c, err := NewContainer(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	for _, u := range []usersdomain.User{
		{ID: "cand-1", Name: "Lerato Mokoena", Role: usersdomain.RoleCandidate, Status: usersdomain.StatusActive},
		{ID: "tc-1", Name: "Sipho Dube", Role: usersdomain.RoleTechChampion, Status: usersdomain.StatusActive},
	} {
		require.NoError(t, c.Store.Set(context.Background(), store.Users, u.ID, u))
	}
	return c
}

func do(r http.Handler, method, path, uid string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if uid != "" {
		req.Header.Set("X-User-Id", uid)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBuildRouter_Wiring(t *testing.T) {
	r := BuildRouter(newTestContainer(t))

	w := do(r, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = do(r, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")

	w = do(r, http.MethodGet, "/api/v1/session", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/api/v1/session", "tc-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var session struct {
		User  usersdomain.User `json:"user"`
		Views []string         `json:"views"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, "tc-1", session.User.ID)
	assert.Contains(t, session.Views, "risk")

	w = do(r, http.MethodGet, "/api/v1/requests/queue", "cand-1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = do(r, http.MethodGet, "/api/v1/requests/queue", "tc-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/api/v1/analytics/risk", "cand-1", map[string]any{"candidates": []any{}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodGet, "/api/v1/analytics/dashboard", "cand-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "1.25 Days")
}

func TestBuildRouter_OracleFallbacks(t *testing.T) {
	r := BuildRouter(newTestContainer(t))

	w := do(r, http.MethodPost, "/api/v1/policy/ask", "cand-1", map[string]any{"message": "Can I work from home?"})
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, policychat.FallbackReply, body["reply"])
}

func TestCorsConfig(t *testing.T) {
	cc := corsConfig(" http://a.test , http://b.test ")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cc.AllowOrigins)
	assert.True(t, cc.AllowCredentials)

	cc = corsConfig("*")
	assert.True(t, cc.AllowAllOrigins)
	assert.False(t, cc.AllowCredentials)
}
