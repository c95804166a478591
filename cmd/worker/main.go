package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/talenthub/portal-backend/config"
	"github.com/talenthub/portal-backend/internal/bootstrap"
	"github.com/talenthub/portal-backend/internal/logging"
)

const usage = "usage: worker <reconcile|rescore|migrate>"

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(&cfg.App)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	switch os.Args[1] {
	case "reconcile":
		c := mustContainer(ctx, cfg, logger)
		defer c.Close()
		res, err := c.Sweeper.Sweep(ctx)
		printJSON(res)
		if err != nil {
			logger.Fatal("reconcile finished with errors", zap.Error(err))
		}
	case "rescore":
		c := mustContainer(ctx, cfg, logger)
		defer c.Close()
		n, err := c.Analytics.Rescore(ctx)
		if err != nil {
			logger.Fatal("rescore failed", zap.Int("saved", n), zap.Error(err))
		}
		printJSON(map[string]int{"saved": n})
	case "migrate":
		if cfg.Store.Backend != config.BackendPostgres {
			logger.Info("nothing to migrate", zap.String("backend", cfg.Store.Backend))
			return
		}
		// OpenStore migrates the postgres schema on connect
		_, closeStore, err := bootstrap.OpenStore(ctx, cfg, nil, logger)
		if err != nil {
			logger.Fatal("migrate failed", zap.Error(err))
		}
		_ = closeStore()
		logger.Info("migration complete")
	default:
		log.Fatalf("unknown command: %s\n%s", os.Args[1], usage)
	}
}

func mustContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger) *bootstrap.Container {
	c, err := bootstrap.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize services", zap.Error(err))
	}
	return c
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
