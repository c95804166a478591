package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/talenthub/portal-backend/internal/scorecards/domain"
	"github.com/talenthub/portal-backend/internal/store"
)

type ScoreCardRepository struct {
	store store.Store
}

func NewScoreCardRepository(s store.Store) *ScoreCardRepository {
	return &ScoreCardRepository{store: s}
}

func (r *ScoreCardRepository) Create(ctx context.Context, sc *domain.ScoreCard) error {
	sc.ID = uuid.NewString()
	return r.store.Create(ctx, store.Scorecards, sc.ID, sc)
}

func (r *ScoreCardRepository) List(ctx context.Context) ([]domain.ScoreCard, error) {
	return r.query(ctx, nil)
}

func (r *ScoreCardRepository) ListForCandidate(ctx context.Context, candidateID string) ([]domain.ScoreCard, error) {
	return r.query(ctx, []store.Filter{store.Eq("candidateId", candidateID)})
}

func (r *ScoreCardRepository) query(ctx context.Context, filters []store.Filter) ([]domain.ScoreCard, error) {
	var out []domain.ScoreCard
	if err := r.store.Query(ctx, store.Scorecards, filters, &out); err != nil {
		return nil, err
	}
	return out, nil
}
