package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/talenthub/portal-backend/internal/logging"
	"github.com/talenthub/portal-backend/internal/scorecards/domain"
	"github.com/talenthub/portal-backend/internal/scorecards/repository"
	"github.com/talenthub/portal-backend/internal/store"
	usersdomain "github.com/talenthub/portal-backend/internal/users/domain"
	"github.com/talenthub/portal-backend/internal/validation"
)

type UserLookup interface {
	Get(ctx context.Context, id string) (*usersdomain.User, error)
}

type ScoreCardService struct {
	repo   *repository.ScoreCardRepository
	users  UserLookup
	logger *zap.Logger
	now    func() time.Time
}

func NewScoreCardService(repo *repository.ScoreCardRepository, users UserLookup, logger *zap.Logger) *ScoreCardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoreCardService{repo: repo, users: users, logger: logger, now: time.Now}
}

// Create records a review of an existing candidate, dated today.
func (s *ScoreCardService) Create(ctx context.Context, reviewer *usersdomain.User, in domain.ScoreCardInput) (*domain.ScoreCard, error) {
	in.CandidateID = strings.TrimSpace(in.CandidateID)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	candidate, err := s.users.Get(ctx, in.CandidateID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, validation.New("candidateId", "unknown candidate")
		}
		return nil, err
	}
	if candidate.Role != usersdomain.RoleCandidate {
		return nil, validation.New("candidateId", "is not a candidate")
	}

	now := s.now()
	sc := &domain.ScoreCard{
		CandidateID:         candidate.ID,
		CandidateName:       candidate.Name,
		ReviewerID:          reviewer.ID,
		ReviewerName:        reviewer.Name,
		Date:                now.Format(validation.DateLayout),
		Week:                in.Week,
		Attendance:          in.Attendance,
		Communication:       in.Communication,
		Accountability:      in.Accountability,
		CreativityOwnership: in.CreativityOwnership,
		ObjectDelivery:      in.ObjectDelivery,
		TechSkills:          in.TechSkills,
		Comments:            strings.TrimSpace(in.Comments),
		CreatedAt:           now.UTC(),
	}
	if err := s.repo.Create(ctx, sc); err != nil {
		logging.WithRequest(ctx, s.logger).Error("failed to save scorecard",
			zap.String("candidate_id", candidate.ID), zap.Error(err))
		return nil, err
	}
	return sc, nil
}

func (s *ScoreCardService) List(ctx context.Context) ([]domain.ScoreCard, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(items)
	return items, nil
}

func (s *ScoreCardService) ListForCandidate(ctx context.Context, candidateID string) ([]domain.ScoreCard, error) {
	items, err := s.repo.ListForCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(items)
	return items, nil
}

func sortNewestFirst(items []domain.ScoreCard) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date > items[j].Date
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
