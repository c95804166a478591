package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/talenthub/portal-backend/internal/feedback/domain"
	"github.com/talenthub/portal-backend/internal/store"
)

type FeedbackRepository struct {
	store store.Store
}

func NewFeedbackRepository(s store.Store) *FeedbackRepository {
	return &FeedbackRepository{store: s}
}

func (r *FeedbackRepository) Create(ctx context.Context, e *domain.Entry) error {
	e.ID = uuid.NewString()
	return r.store.Create(ctx, store.Feedback, e.ID, e)
}

// List returns all entries, or only userID's when it is set.
func (r *FeedbackRepository) List(ctx context.Context, userID string) ([]domain.Entry, error) {
	var filters []store.Filter
	if userID != "" {
		filters = append(filters, store.Eq("userId", userID))
	}
	var out []domain.Entry
	if err := r.store.Query(ctx, store.Feedback, filters, &out); err != nil {
		return nil, err
	}
	return out, nil
}
