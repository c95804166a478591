// Package reconcile finishes profile-update approvals whose user write
// succeeded but whose status write did not.
package reconcile

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/talenthub/portal-backend/internal/metrics"
	"github.com/talenthub/portal-backend/internal/requests/domain"
	"github.com/talenthub/portal-backend/internal/requests/repository"
	"github.com/talenthub/portal-backend/internal/requests/service"
	"github.com/talenthub/portal-backend/internal/store"
	usersdomain "github.com/talenthub/portal-backend/internal/users/domain"
)

// Result counts what one sweep did with each flagged record.
type Result struct {
	Resolved int `json:"resolved"`
	Cleared  int `json:"cleared"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

type Sweeper struct {
	repo    *repository.RequestRepository
	users   service.ProfileApplier
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewSweeper(repo *repository.RequestRepository, users service.ProfileApplier, m *metrics.Metrics, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{repo: repo, users: users, metrics: m, logger: logger}
}

// Sweep visits every flagged profile update once. A Pending record gets its
// fields re-applied and is moved to Approved; an Approved record only has its
// flag cleared; a Rejected record is left flagged for a human. Per-record
// failures are counted and joined into the returned error.
func (s *Sweeper) Sweep(ctx context.Context) (Result, error) {
	var res Result

	flagged, err := s.repo.ListNeedingReconciliation(ctx)
	if err != nil {
		s.logger.Error("failed to list flagged profile updates", zap.Error(err))
		return res, err
	}

	var errs []error
	for i := range flagged {
		req := &flagged[i]
		log := s.logger.With(zap.String("record_id", req.ID), zap.String("user_id", req.UserID))

		switch req.Status {
		case domain.StatusPending:
			if err := s.resolve(ctx, req); err != nil {
				res.Failed++
				errs = append(errs, err)
				s.metrics.Reconciliation("failed")
				log.Error("reconciliation failed", zap.Error(err))
				continue
			}
			res.Resolved++
			s.metrics.Reconciliation("resolved")
			log.Info("profile update reconciled")

		case domain.StatusApproved:
			if err := s.repo.ClearReconciliation(ctx, req.ID); err != nil {
				res.Failed++
				errs = append(errs, err)
				log.Error("failed to clear reconciliation flag", zap.Error(err))
				continue
			}
			res.Cleared++
			s.metrics.Reconciliation("cleared")
			log.Info("reconciliation flag cleared on approved record")

		default:
			res.Skipped++
			s.metrics.Reconciliation("skipped")
			log.Warn("flagged profile update is not pending, leaving for manual review", zap.String("status", string(req.Status)))
		}
	}

	if len(flagged) > 0 {
		s.logger.Info("reconciliation sweep finished",
			zap.Int("resolved", res.Resolved),
			zap.Int("cleared", res.Cleared),
			zap.Int("skipped", res.Skipped),
			zap.Int("failed", res.Failed),
		)
	}
	return res, errors.Join(errs...)
}

func (s *Sweeper) resolve(ctx context.Context, req *domain.Request) error {
	fields := usersdomain.ProfileFields{}
	switch {
	case req.Applied != nil:
		fields = *req.Applied
	case req.Updates != nil:
		fields = *req.Updates
	}

	if err := s.users.ApplyProfileFields(ctx, req.UserID, fields); err != nil {
		return err
	}

	err := s.repo.UpdateStatus(ctx, domain.KindProfileUpdate, req.ID, domain.StatusPending, domain.StatusApproved, map[string]any{
		"applied":              fields,
		"reconciliationNeeded": false,
		"reconciliationReason": "",
	})
	if errors.Is(err, store.ErrConflict) {
		// someone else decided it since we listed; the next sweep sees the new status
		return nil
	}
	return err
}
