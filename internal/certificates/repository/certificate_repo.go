package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/talenthub/portal-backend/internal/certificates/domain"
	"github.com/talenthub/portal-backend/internal/store"
)

type CertificateRepository struct {
	store store.Store
}

func NewCertificateRepository(s store.Store) *CertificateRepository {
	return &CertificateRepository{store: s}
}

func (r *CertificateRepository) Create(ctx context.Context, c *domain.VerifiedCertificate) error {
	c.ID = uuid.NewString()
	return r.store.Create(ctx, store.VerifiedCertificates, c.ID, c)
}

func (r *CertificateRepository) ListForUser(ctx context.Context, userID string) ([]domain.VerifiedCertificate, error) {
	var out []domain.VerifiedCertificate
	if err := r.store.Query(ctx, store.VerifiedCertificates, []store.Filter{store.Eq("userId", userID)}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
