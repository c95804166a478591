package service

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/talenthub/portal-backend/internal/requests/domain"
	"github.com/talenthub/portal-backend/internal/requests/repository"
)

// HistoryService merges leave and IT records into one feed.
type HistoryService struct {
	repo *repository.RequestRepository
}

func NewHistoryService(repo *repository.RequestRepository) *HistoryService {
	return &HistoryService{repo: repo}
}

// OwnerHistory returns every leave request and IT ticket owned by ownerID,
// newest submission first.
func (s *HistoryService) OwnerHistory(ctx context.Context, ownerID string) ([]domain.Request, error) {
	return s.merge(ctx,
		func(ctx context.Context) ([]domain.Request, error) {
			return s.repo.ListByOwner(ctx, domain.KindLeave, ownerID)
		},
		func(ctx context.Context) ([]domain.Request, error) {
			return s.repo.ListByOwner(ctx, domain.KindITTicket, ownerID)
		},
	)
}

// PendingQueue returns the approver queue: Pending leave requests plus Open
// IT tickets, newest first.
func (s *HistoryService) PendingQueue(ctx context.Context) ([]domain.Request, error) {
	return s.merge(ctx,
		func(ctx context.Context) ([]domain.Request, error) {
			return s.repo.ListByStatus(ctx, domain.KindLeave, domain.StatusPending)
		},
		func(ctx context.Context) ([]domain.Request, error) {
			return s.repo.ListByStatus(ctx, domain.KindITTicket, domain.StatusOpen)
		},
	)
}

// InProgressTickets lists IT tickets an approver has picked up but not yet
// resolved, newest first.
func (s *HistoryService) InProgressTickets(ctx context.Context) ([]domain.Request, error) {
	return s.merge(ctx,
		func(ctx context.Context) ([]domain.Request, error) {
			return s.repo.ListByStatus(ctx, domain.KindITTicket, domain.StatusInProgress)
		},
	)
}

// merge runs the queries concurrently; any failure fails the whole feed.
func (s *HistoryService) merge(ctx context.Context, queries ...func(context.Context) ([]domain.Request, error)) ([]domain.Request, error) {
	results := make([][]domain.Request, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			reqs, err := q(gctx)
			if err != nil {
				return err
			}
			results[i] = reqs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := []domain.Request{}
	for _, r := range results {
		merged = append(merged, r...)
	}
	sortNewestFirst(merged)
	return merged, nil
}

// sortNewestFirst orders by submission date descending. Same-day records
// fall back to creation time, then id, so the order is deterministic.
func sortNewestFirst(reqs []domain.Request) {
	sort.SliceStable(reqs, func(i, j int) bool {
		a, b := reqs[i], reqs[j]
		if a.SubmittedDate != b.SubmittedDate {
			return a.SubmittedDate > b.SubmittedDate
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
