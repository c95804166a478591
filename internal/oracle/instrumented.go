package oracle

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/talenthub/portal-backend/internal/logging"
	"github.com/talenthub/portal-backend/internal/metrics"
)

// Instrumented bounds each call with a timeout and records its outcome.
type Instrumented struct {
	next    Client
	timeout time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewInstrumented(next Client, timeout time.Duration, m *metrics.Metrics, logger *zap.Logger) *Instrumented {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Instrumented{next: next, timeout: timeout, metrics: m, logger: logger}
}

func (i *Instrumented) Complete(ctx context.Context, req Request) (string, error) {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	started := time.Now()
	text, err := i.next.Complete(ctx, req)
	i.metrics.ObserveOracle(req.Operation, started, err)
	if err != nil {
		logging.WithRequest(ctx, i.logger).Warn("oracle call failed",
			zap.String("operation", req.Operation),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err),
		)
		return "", external(err)
	}
	return text, nil
}
