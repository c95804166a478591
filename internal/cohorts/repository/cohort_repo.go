package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/talenthub/portal-backend/internal/cohorts/domain"
	"github.com/talenthub/portal-backend/internal/store"
)

type CohortRepository struct {
	store store.Store
}

func NewCohortRepository(s store.Store) *CohortRepository {
	return &CohortRepository{store: s}
}

func (r *CohortRepository) Create(ctx context.Context, c *domain.Cohort) error {
	c.ID = uuid.NewString()
	return r.store.Create(ctx, store.Cohorts, c.ID, c)
}

func (r *CohortRepository) Get(ctx context.Context, id string) (*domain.Cohort, error) {
	var c domain.Cohort
	if err := r.store.Get(ctx, store.Cohorts, id, &c); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrCohortNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CohortRepository) List(ctx context.Context) ([]domain.Cohort, error) {
	var out []domain.Cohort
	if err := r.store.Query(ctx, store.Cohorts, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
