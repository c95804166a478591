package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/talenthub/portal-backend/internal/logging"
	"github.com/talenthub/portal-backend/internal/metrics"
	"github.com/talenthub/portal-backend/internal/requests/domain"
	"github.com/talenthub/portal-backend/internal/requests/repository"
	"github.com/talenthub/portal-backend/internal/store"
	usersdomain "github.com/talenthub/portal-backend/internal/users/domain"
	"github.com/talenthub/portal-backend/internal/validation"
)

// ProfileApplier writes approved profile fields onto a user.
type ProfileApplier interface {
	ApplyProfileFields(ctx context.Context, userID string, fields usersdomain.ProfileFields) error
}

// ApprovalService performs approver-only status transitions.
type ApprovalService struct {
	repo    *repository.RequestRepository
	users   ProfileApplier
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewApprovalService(repo *repository.RequestRepository, users ProfileApplier, logger *zap.Logger, m *metrics.Metrics) *ApprovalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApprovalService{repo: repo, users: users, logger: logger, metrics: m, now: time.Now}
}

// Approve moves a record to its kind's success terminal (Approved, or
// Resolved for IT tickets). For profile updates the user record is written
// first; applied, when non-nil, overrides the proposed fields.
func (s *ApprovalService) Approve(ctx context.Context, approver *usersdomain.User, kind domain.Kind, id string, applied *usersdomain.ProfileFields) (*domain.Request, error) {
	if kind == domain.KindProfileUpdate {
		return s.approveProfileUpdate(ctx, approver, id, applied)
	}
	return s.transition(ctx, approver, kind, id, kind.SuccessStatus())
}

// Reject moves a leave or profile request to Rejected. IT tickets have no
// reject path and return ErrInvalidTransition.
func (s *ApprovalService) Reject(ctx context.Context, approver *usersdomain.User, kind domain.Kind, id string) (*domain.Request, error) {
	if kind == domain.KindITTicket {
		return nil, fmt.Errorf("%w: IT tickets are resolved, not rejected", domain.ErrInvalidTransition)
	}
	return s.transition(ctx, approver, kind, id, domain.StatusRejected)
}

// StartProgress marks an Open IT ticket as In Progress.
func (s *ApprovalService) StartProgress(ctx context.Context, approver *usersdomain.User, id string) (*domain.Request, error) {
	return s.transition(ctx, approver, domain.KindITTicket, id, domain.StatusInProgress)
}

// PendingProfileUpdates lists profile updates awaiting a decision.
func (s *ApprovalService) PendingProfileUpdates(ctx context.Context) ([]domain.Request, error) {
	reqs, err := s.repo.ListByStatus(ctx, domain.KindProfileUpdate, domain.StatusPending)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(reqs)
	return reqs, nil
}

func (s *ApprovalService) transition(ctx context.Context, approver *usersdomain.User, kind domain.Kind, id string, next domain.Status) (*domain.Request, error) {
	log := logging.WithRequest(ctx, s.logger).With(
		zap.String("operation", "transition"),
		zap.String("kind", string(kind)),
		zap.String("record_id", id),
		zap.String("next", string(next)),
	)

	if err := s.requireApprover(approver); err != nil {
		return nil, err
	}

	req, err := s.repo.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if !kind.CanTransition(req.Status, next) {
		return nil, fmt.Errorf("%w: %s %s -> %s", domain.ErrInvalidTransition, kind, req.Status, next)
	}

	decidedAt := s.now().UTC().Format(time.RFC3339)
	extra := map[string]any{"decidedBy": approver.ID, "decidedAt": decidedAt}

	err = s.repo.UpdateStatus(ctx, kind, id, req.Status, next, extra)
	s.metrics.Transition(string(kind), string(next), err)
	if err != nil {
		log.Warn("status transition failed", zap.Error(err))
		return nil, err
	}

	req.Status = next
	req.DecidedBy = approver.ID
	req.DecidedAt = decidedAt
	log.Info("status transitioned", zap.String("approver", approver.ID))
	return req, nil
}

func (s *ApprovalService) approveProfileUpdate(ctx context.Context, approver *usersdomain.User, id string, applied *usersdomain.ProfileFields) (*domain.Request, error) {
	kind := domain.KindProfileUpdate
	log := logging.WithRequest(ctx, s.logger).With(
		zap.String("operation", "approve_profile_update"),
		zap.String("record_id", id),
	)

	if err := s.requireApprover(approver); err != nil {
		return nil, err
	}

	req, err := s.repo.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if !kind.CanTransition(req.Status, domain.StatusApproved) {
		return nil, fmt.Errorf("%w: %s %s -> %s", domain.ErrInvalidTransition, kind, req.Status, domain.StatusApproved)
	}

	fields := usersdomain.ProfileFields{}
	if req.Updates != nil {
		fields = *req.Updates
	}
	if applied != nil {
		if applied.IsEmpty() {
			return nil, validation.New("applied", "at least one of phone, location or bio is required")
		}
		fields = *applied
	}

	// user first: a failure here leaves the request Pending and untouched
	if err := s.users.ApplyProfileFields(ctx, req.UserID, fields); err != nil {
		log.Error("failed to apply profile fields", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, err
	}

	decidedAt := s.now().UTC().Format(time.RFC3339)
	extra := map[string]any{
		"decidedBy": approver.ID,
		"decidedAt": decidedAt,
		"applied":   fields,
	}
	err = s.repo.UpdateStatus(ctx, kind, id, domain.StatusPending, domain.StatusApproved, extra)
	s.metrics.Transition(string(kind), string(domain.StatusApproved), err)
	if err != nil {
		reason := fmt.Sprintf("status write failed after user update: %v", err)
		decision := extra
		if errors.Is(err, store.ErrConflict) {
			// another approver decided first; their decision fields stay
			decision = nil
			reason = "user fields written but record was decided concurrently"
			if current, gerr := s.repo.Get(ctx, kind, id); gerr == nil {
				reason += " as " + string(current.Status)
			}
		}
		if merr := s.repo.MarkReconciliation(ctx, id, reason, decision); merr != nil {
			log.Error("failed to flag request for reconciliation", zap.Error(merr))
		} else {
			s.metrics.Reconciliation("flagged")
		}
		log.Error("profile applied but status write failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrReconciliationNeeded, err)
	}

	req.Status = domain.StatusApproved
	req.DecidedBy = approver.ID
	req.DecidedAt = decidedAt
	req.Applied = &fields
	log.Info("profile update approved", zap.String("user_id", req.UserID), zap.String("approver", approver.ID))
	return req, nil
}

func (s *ApprovalService) requireApprover(approver *usersdomain.User) error {
	if approver == nil || !approver.Role.IsApprover() {
		return domain.ErrNotApprover
	}
	return nil
}

// IsReconciliation reports whether err came from a half-applied approval.
func IsReconciliation(err error) bool {
	return errors.Is(err, domain.ErrReconciliationNeeded)
}
