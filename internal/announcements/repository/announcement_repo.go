package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/talenthub/portal-backend/internal/announcements/domain"
	"github.com/talenthub/portal-backend/internal/store"
)

type AnnouncementRepository struct {
	store store.Store
}

func NewAnnouncementRepository(s store.Store) *AnnouncementRepository {
	return &AnnouncementRepository{store: s}
}

func (r *AnnouncementRepository) Create(ctx context.Context, a *domain.Announcement) error {
	a.ID = uuid.NewString()
	return r.store.Create(ctx, store.Announcements, a.ID, a)
}

func (r *AnnouncementRepository) List(ctx context.Context) ([]domain.Announcement, error) {
	var out []domain.Announcement
	if err := r.store.Query(ctx, store.Announcements, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, store.Announcements, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.ErrAnnouncementNotFound
	}
	return err
}
