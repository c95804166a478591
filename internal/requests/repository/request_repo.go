package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/talenthub/portal-backend/internal/requests/domain"
	"github.com/talenthub/portal-backend/internal/store"
	"github.com/talenthub/portal-backend/internal/validation"
)

// RequestRepository is the record store for leave requests, IT tickets and
// profile updates.
type RequestRepository struct {
	store store.Store
	now   func() time.Time
}

func NewRequestRepository(s store.Store) *RequestRepository {
	return &RequestRepository{store: s, now: time.Now}
}

// WithClock overrides the clock used for submission dates.
func (r *RequestRepository) WithClock(now func() time.Time) *RequestRepository {
	return &RequestRepository{store: r.store, now: now}
}

// Create assigns a fresh id, the kind's initial status and today's date,
// then persists req. Any id/status/date on req is overwritten.
func (r *RequestRepository) Create(ctx context.Context, req *domain.Request) error {
	now := r.now()

	req.ID = uuid.NewString()
	req.Status = req.Kind.InitialStatus()
	req.SubmittedDate = now.Format(validation.DateLayout)
	req.CreatedAt = now.UTC()

	return r.store.Create(ctx, req.Kind.Collection(), req.ID, req)
}

func (r *RequestRepository) Get(ctx context.Context, kind domain.Kind, id string) (*domain.Request, error) {
	var req domain.Request
	if err := r.store.Get(ctx, kind.Collection(), id, &req); err != nil {
		return nil, err
	}
	if req.Kind == "" {
		req.Kind = kind
	}
	if req.ID == "" {
		req.ID = id
	}
	return &req, nil
}

func (r *RequestRepository) ListByStatus(ctx context.Context, kind domain.Kind, status domain.Status) ([]domain.Request, error) {
	return r.query(ctx, kind, store.Eq("status", string(status)))
}

func (r *RequestRepository) ListByOwner(ctx context.Context, kind domain.Kind, ownerID string) ([]domain.Request, error) {
	return r.query(ctx, kind, store.Eq("userId", ownerID))
}

// UpdateStatus moves id from expected to next, merging extra fields in the
// same write. ErrConflict means the stored status was no longer expected.
func (r *RequestRepository) UpdateStatus(ctx context.Context, kind domain.Kind, id string, expected, next domain.Status, extra map[string]any) error {
	fields := map[string]any{"status": string(next)}
	for k, v := range extra {
		fields[k] = v
	}
	return r.store.UpdateIf(ctx, kind.Collection(), id, store.Eq("status", string(expected)), fields)
}

// HasPendingProfileUpdate answers the edit-gate question. Check-then-create
// is not atomic; two concurrent submissions can both pass.
func (r *RequestRepository) HasPendingProfileUpdate(ctx context.Context, userID string) (bool, error) {
	pending, err := r.query(ctx, domain.KindProfileUpdate,
		store.Eq("userId", userID),
		store.Eq("status", string(domain.StatusPending)),
	)
	if err != nil {
		return false, err
	}
	return len(pending) > 0, nil
}

// MarkReconciliation flags id for the reconcile sweep. extra records the
// decision that could not be written, so the sweep can finish it.
func (r *RequestRepository) MarkReconciliation(ctx context.Context, id, reason string, extra map[string]any) error {
	fields := map[string]any{
		"reconciliationNeeded": true,
		"reconciliationReason": reason,
	}
	for k, v := range extra {
		fields[k] = v
	}
	return r.store.Update(ctx, store.ProfileUpdates, id, fields)
}

func (r *RequestRepository) ClearReconciliation(ctx context.Context, id string) error {
	return r.store.Update(ctx, store.ProfileUpdates, id, map[string]any{
		"reconciliationNeeded": false,
		"reconciliationReason": "",
	})
}

func (r *RequestRepository) ListNeedingReconciliation(ctx context.Context) ([]domain.Request, error) {
	return r.query(ctx, domain.KindProfileUpdate, store.Eq("reconciliationNeeded", true))
}

func (r *RequestRepository) query(ctx context.Context, kind domain.Kind, filters ...store.Filter) ([]domain.Request, error) {
	var out []domain.Request
	if err := r.store.Query(ctx, kind.Collection(), filters, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Kind == "" {
			out[i].Kind = kind
		}
	}
	return out, nil
}
