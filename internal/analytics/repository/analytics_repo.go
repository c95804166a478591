package repository

import (
	"context"

	"github.com/talenthub/portal-backend/internal/analytics/domain"
	certdomain "github.com/talenthub/portal-backend/internal/certificates/domain"
	requestdomain "github.com/talenthub/portal-backend/internal/requests/domain"
	scorecardsdomain "github.com/talenthub/portal-backend/internal/scorecards/domain"
	"github.com/talenthub/portal-backend/internal/store"
	usersdomain "github.com/talenthub/portal-backend/internal/users/domain"
)

// AnalyticsRepository reads across collections for dashboards and owns the
// candidate_metrics collection.
type AnalyticsRepository struct {
	store store.Store
}

func NewAnalyticsRepository(s store.Store) *AnalyticsRepository {
	return &AnalyticsRepository{store: s}
}

func (r *AnalyticsRepository) ListMetrics(ctx context.Context) ([]domain.CandidateMetric, error) {
	var out []domain.CandidateMetric
	if err := r.store.Query(ctx, store.CandidateMetrics, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AnalyticsRepository) SaveMetric(ctx context.Context, m *domain.CandidateMetric) error {
	return r.store.Set(ctx, store.CandidateMetrics, m.ID, m)
}

func (r *AnalyticsRepository) CountUsersByRole(ctx context.Context, role usersdomain.Role) (int, error) {
	return r.count(ctx, store.Users, store.Eq("role", string(role)))
}

// Scorecards lists candidateID's scorecards, or all when candidateID is empty.
func (r *AnalyticsRepository) Scorecards(ctx context.Context, candidateID string) ([]scorecardsdomain.ScoreCard, error) {
	var filters []store.Filter
	if candidateID != "" {
		filters = append(filters, store.Eq("candidateId", candidateID))
	}
	var out []scorecardsdomain.ScoreCard
	if err := r.store.Query(ctx, store.Scorecards, filters, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AnalyticsRepository) CountRequests(ctx context.Context, kind requestdomain.Kind, userID string, status requestdomain.Status) (int, error) {
	return r.count(ctx, kind.Collection(), store.Eq("userId", userID), store.Eq("status", string(status)))
}

func (r *AnalyticsRepository) CountVerifiedCertificates(ctx context.Context, userID string) (int, error) {
	return r.count(ctx, store.VerifiedCertificates,
		store.Eq("userId", userID),
		store.Eq("verificationStatus", certdomain.StatusVerified),
	)
}

func (r *AnalyticsRepository) count(ctx context.Context, collection string, filters ...store.Filter) (int, error) {
	var docs []map[string]any
	if err := r.store.Query(ctx, collection, filters, &docs); err != nil {
		return 0, err
	}
	return len(docs), nil
}
