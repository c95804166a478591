package reconcile

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs Sweep on a cron spec with a seconds field.
type Scheduler struct {
	sweeper *Sweeper
	spec    string
	timeout time.Duration
	logger  *zap.Logger
	cron    *cron.Cron
}

func NewScheduler(sweeper *Sweeper, spec string, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		sweeper: sweeper,
		spec:    spec,
		timeout: 2 * time.Minute,
		logger:  logger,
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// Start registers the sweep and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.run); err != nil {
		s.logger.Error("failed to create reconcile job", zap.String("schedule", s.spec), zap.Error(err))
		return err
	}
	s.cron.Start()
	s.logger.Info("reconcile scheduler started", zap.String("schedule", s.spec))
	return nil
}

// Stop waits for a running sweep to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.sweeper.Sweep(ctx); err != nil {
		s.logger.Warn("reconcile sweep finished with errors", zap.Error(err))
	}
}
