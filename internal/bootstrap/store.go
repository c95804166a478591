package bootstrap

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"

	"github.com/talenthub/portal-backend/config"
	"github.com/talenthub/portal-backend/internal/auth"
	"github.com/talenthub/portal-backend/internal/store"
	"github.com/talenthub/portal-backend/internal/store/firestorestore"
	"github.com/talenthub/portal-backend/internal/store/pgstore"
	"github.com/talenthub/portal-backend/internal/store/redisstore"
)

// OpenStore connects the configured backend. The returned close func releases
// the underlying client. app is only needed for the firestore backend.
func OpenStore(ctx context.Context, cfg *config.Config, app *firebase.App, logger *zap.Logger) (store.Store, func() error, error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		client, err := redisstore.Connect(ctx, &cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("store connected", zap.String("backend", "redis"), zap.String("addr", cfg.Redis.Addr))
		return redisstore.New(client), client.Close, nil

	case config.BackendPostgres:
		db, err := pgstore.Open(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		s := pgstore.New(db)
		if err := s.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate documents table: %w", err)
		}
		logger.Info("store connected",
			zap.String("backend", "postgres"),
			zap.String("driver", cfg.Database.Driver),
			zap.String("host", cfg.Database.Host),
		)
		return s, db.Close, nil

	case config.BackendFirestore:
		if app == nil {
			return nil, nil, fmt.Errorf("firestore backend requires a firebase app")
		}
		client, err := auth.Firestore(ctx, app)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("store connected", zap.String("backend", "firestore"))
		return firestorestore.New(client), client.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
