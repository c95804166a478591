package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/talenthub/portal-backend/internal/cohorts/domain"
	"github.com/talenthub/portal-backend/internal/cohorts/repository"
	"github.com/talenthub/portal-backend/internal/logging"
	usersdomain "github.com/talenthub/portal-backend/internal/users/domain"
	"github.com/talenthub/portal-backend/internal/validation"
)

// Members lists the users assigned to a cohort.
type Members interface {
	ByCohort(ctx context.Context, cohortID string) ([]usersdomain.User, error)
}

type CohortService struct {
	repo    *repository.CohortRepository
	members Members
	logger  *zap.Logger
}

func NewCohortService(repo *repository.CohortRepository, members Members, logger *zap.Logger) *CohortService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CohortService{repo: repo, members: members, logger: logger}
}

func (s *CohortService) Create(ctx context.Context, in domain.CohortInput) (*domain.Cohort, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Program = strings.TrimSpace(in.Program)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	c := &domain.Cohort{
		Name:      in.Name,
		Program:   in.Program,
		Sponsor:   strings.TrimSpace(in.Sponsor),
		StartDate: in.StartDate,
		Size:      in.Size,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		logging.WithRequest(ctx, s.logger).Error("failed to create cohort", zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (s *CohortService) Get(ctx context.Context, id string) (*domain.Cohort, error) {
	return s.repo.Get(ctx, id)
}

// List returns cohorts ordered by start date, newest first.
func (s *CohortService) List(ctx context.Context) ([]domain.Cohort, error) {
	cohorts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(cohorts, func(i, j int) bool {
		if cohorts[i].StartDate != cohorts[j].StartDate {
			return cohorts[i].StartDate > cohorts[j].StartDate
		}
		return cohorts[i].Name < cohorts[j].Name
	})
	return cohorts, nil
}

// Roster returns the cohort's members. An unknown cohort is ErrCohortNotFound.
func (s *CohortService) Roster(ctx context.Context, id string) (*domain.Cohort, []usersdomain.User, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	members, err := s.members.ByCohort(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return c, members, nil
}
