package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/talenthub/portal-backend/internal/logging"
	"github.com/talenthub/portal-backend/internal/metrics"
	"github.com/talenthub/portal-backend/internal/requests/domain"
	"github.com/talenthub/portal-backend/internal/requests/repository"
	usersdomain "github.com/talenthub/portal-backend/internal/users/domain"
	"github.com/talenthub/portal-backend/internal/validation"
)

// SubmissionService turns user-filled forms into Pending/Open records.
type SubmissionService struct {
	repo    *repository.RequestRepository
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewSubmissionService(repo *repository.RequestRepository, logger *zap.Logger, m *metrics.Metrics) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{repo: repo, logger: logger, metrics: m}
}

func (s *SubmissionService) SubmitLeave(ctx context.Context, requester *usersdomain.User, in domain.LeaveInput) (*domain.Request, error) {
	in.Type = strings.TrimSpace(in.Type)
	in.Reason = strings.TrimSpace(in.Reason)

	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	start, err := validation.ParseDate("startDate", in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := validation.ParseDate("endDate", in.EndDate)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, validation.New("endDate", "must not be before startDate")
	}

	req := &domain.Request{
		Kind:      domain.KindLeave,
		UserID:    requester.ID,
		UserName:  requester.Name,
		Type:      in.Type,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Dates:     in.StartDate + " to " + in.EndDate,
		Reason:    in.Reason,
	}
	return s.create(ctx, req)
}

func (s *SubmissionService) SubmitITTicket(ctx context.Context, requester *usersdomain.User, in domain.ITTicketInput) (*domain.Request, error) {
	in.Description = strings.TrimSpace(in.Description)
	if strings.TrimSpace(in.Category) == "" {
		in.Category = domain.DefaultITCategory
	}
	if in.Priority == "" {
		in.Priority = domain.DefaultITPriority
	}

	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	req := &domain.Request{
		Kind:        domain.KindITTicket,
		UserID:      requester.ID,
		UserName:    requester.Name,
		Category:    in.Category,
		Priority:    in.Priority,
		Description: in.Description,
	}
	return s.create(ctx, req)
}

// SubmitProfileUpdate rejects a second request while one is still Pending.
func (s *SubmissionService) SubmitProfileUpdate(ctx context.Context, requester *usersdomain.User, fields usersdomain.ProfileFields) (*domain.Request, error) {
	proposed := usersdomain.ProfileFields{
		Phone:    strings.TrimSpace(fields.Phone),
		Location: strings.TrimSpace(fields.Location),
		Bio:      strings.TrimSpace(fields.Bio),
	}
	if proposed.IsEmpty() {
		return nil, validation.New("updates", "at least one of phone, location or bio is required")
	}

	pending, err := s.repo.HasPendingProfileUpdate(ctx, requester.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, validation.New("updates", "pending update exists")
	}

	req := &domain.Request{
		Kind:     domain.KindProfileUpdate,
		UserID:   requester.ID,
		UserName: requester.Name,
		Updates:  &proposed,
	}
	return s.create(ctx, req)
}

func (s *SubmissionService) HasPendingProfileUpdate(ctx context.Context, userID string) (bool, error) {
	return s.repo.HasPendingProfileUpdate(ctx, userID)
}

func (s *SubmissionService) create(ctx context.Context, req *domain.Request) (*domain.Request, error) {
	log := logging.WithRequest(ctx, s.logger).With(
		zap.String("operation", "submit_"+string(req.Kind)),
		zap.String("user_id", req.UserID),
	)

	err := s.repo.Create(ctx, req)
	s.metrics.Submission(string(req.Kind), err)
	if err != nil {
		log.Error("failed to persist request", zap.Error(err))
		return nil, err
	}

	log.Info("request submitted", zap.String("record_id", req.ID), zap.String("status", string(req.Status)))
	return req, nil
}
