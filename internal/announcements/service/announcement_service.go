package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/talenthub/portal-backend/internal/announcements/domain"
	"github.com/talenthub/portal-backend/internal/announcements/repository"
	cohortsdomain "github.com/talenthub/portal-backend/internal/cohorts/domain"
	"github.com/talenthub/portal-backend/internal/logging"
	"github.com/talenthub/portal-backend/internal/store"
	usersdomain "github.com/talenthub/portal-backend/internal/users/domain"
	"github.com/talenthub/portal-backend/internal/validation"
)

// CohortLookup resolves a target cohort id to its display name.
type CohortLookup interface {
	Get(ctx context.Context, id string) (*cohortsdomain.Cohort, error)
}

type AnnouncementService struct {
	repo    *repository.AnnouncementRepository
	cohorts CohortLookup
	logger  *zap.Logger
	now     func() time.Time
}

func NewAnnouncementService(repo *repository.AnnouncementRepository, cohorts CohortLookup, logger *zap.Logger) *AnnouncementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{repo: repo, cohorts: cohorts, logger: logger, now: time.Now}
}

// Create posts an announcement dated today. An empty target means all
// cohorts; an unknown cohort id is a validation error.
func (s *AnnouncementService) Create(ctx context.Context, author *usersdomain.User, in domain.AnnouncementInput) (*domain.Announcement, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.TargetCohortID = strings.TrimSpace(in.TargetCohortID)
	if in.Type == "" {
		in.Type = domain.TypeGeneral
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	targetID, targetName := cohortsdomain.AllCohorts, "All Cohorts"
	if in.TargetCohortID != "" && in.TargetCohortID != cohortsdomain.AllCohorts {
		c, err := s.cohorts.Get(ctx, in.TargetCohortID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, validation.New("targetCohortId", "unknown cohort")
			}
			return nil, err
		}
		targetID, targetName = c.ID, c.Name
	}

	now := s.now()
	a := &domain.Announcement{
		Title:            in.Title,
		Content:          in.Content,
		Type:             in.Type,
		Date:             now.Format(validation.DateLayout),
		TargetCohortID:   targetID,
		TargetCohortName: targetName,
		ImageURL:         in.ImageURL,
		AuthorID:         author.ID,
		AuthorName:       author.Name,
		CreatedAt:        now.UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		logging.WithRequest(ctx, s.logger).Error("failed to create announcement", zap.Error(err))
		return nil, err
	}
	return a, nil
}

// List returns every announcement, newest first.
func (s *AnnouncementService) List(ctx context.Context) ([]domain.Announcement, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(items)
	return items, nil
}

// ListForCohort returns announcements addressed to everyone or to cohortID.
func (s *AnnouncementService) ListForCohort(ctx context.Context, cohortID string) ([]domain.Announcement, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []domain.Announcement{}
	for _, a := range items {
		if a.TargetCohortID == cohortsdomain.AllCohorts || (cohortID != "" && a.TargetCohortID == cohortID) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logging.WithRequest(ctx, s.logger).Info("announcement deleted", zap.String("announcement_id", id))
	return nil
}

func sortNewestFirst(items []domain.Announcement) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date > items[j].Date
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
