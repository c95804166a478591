package repository

import (
	"context"
	"errors"

	analyticsdomain "github.com/talenthub/portal-backend/internal/analytics/domain"
	"github.com/talenthub/portal-backend/internal/store"
	"github.com/talenthub/portal-backend/internal/users/domain"
)

// UserRepository persists users and their candidate_metrics companion rows.
type UserRepository struct {
	store store.Store
}

func NewUserRepository(s store.Store) *UserRepository {
	return &UserRepository{store: s}
}

func (r *UserRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := r.store.Get(ctx, store.Users, id, &u); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if u.ID == "" {
		u.ID = id
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.query(ctx, nil)
}

func (r *UserRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	return r.query(ctx, []store.Filter{store.Eq("role", string(role))})
}

func (r *UserRepository) ListByCohort(ctx context.Context, cohortID string) ([]domain.User, error) {
	return r.query(ctx, []store.Filter{store.Eq("cohortId", cohortID)})
}

// Create writes a new user document keyed by the auth uid.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return r.store.Create(ctx, store.Users, u.ID, u)
}

// Update merges fields into the user document.
func (r *UserRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	err := r.store.Update(ctx, store.Users, id, fields)
	if errors.Is(err, store.ErrNotFound) {
		return domain.ErrUserNotFound
	}
	return err
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, store.Users, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.ErrUserNotFound
	}
	return err
}

func (r *UserRepository) CreateMetrics(ctx context.Context, m *analyticsdomain.CandidateMetric) error {
	return r.store.Set(ctx, store.CandidateMetrics, m.ID, m)
}

// DeleteMetrics removes the candidate_metrics row; a missing row is not an error.
func (r *UserRepository) DeleteMetrics(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, store.CandidateMetrics, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

func (r *UserRepository) query(ctx context.Context, filters []store.Filter) ([]domain.User, error) {
	var out []domain.User
	if err := r.store.Query(ctx, store.Users, filters, &out); err != nil {
		return nil, err
	}
	return out, nil
}
