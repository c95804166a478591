package service

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/talenthub/portal-backend/internal/certificates/domain"
	"github.com/talenthub/portal-backend/internal/certificates/repository"
	"github.com/talenthub/portal-backend/internal/logging"
	"github.com/talenthub/portal-backend/internal/metrics"
	"github.com/talenthub/portal-backend/internal/oracle"
	usersdomain "github.com/talenthub/portal-backend/internal/users/domain"
	"github.com/talenthub/portal-backend/internal/validation"
)

const (
	operation = "certificate"

	verifyPrompt = `Analyze this image strictly. It must be a legitimate academic, course completion, or professional certificate.

1. Look for: Issuer Name, Candidate Name, Date, Signatures, Seals/Logos.
2. If it is a generic image, a random screenshot, a meme, or unrelated document, set verificationStatus to 'REJECTED' and give a reason (e.g. "Image does not resemble a certificate").
3. If it looks authentic, set verificationStatus to 'VERIFIED'.
4. Extract the data if available.`
)

var resultSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"candidateName":      map[string]any{"type": "STRING", "nullable": true},
		"courseName":         map[string]any{"type": "STRING", "nullable": true},
		"issueDate":          map[string]any{"type": "STRING", "nullable": true},
		"issuer":             map[string]any{"type": "STRING", "nullable": true},
		"verificationStatus": map[string]any{"type": "STRING", "enum": []string{domain.StatusVerified, domain.StatusRejected, domain.StatusPending}},
		"confidenceScore":    map[string]any{"type": "NUMBER", "description": "A number between 0 and 100 representing confidence in extraction"},
		"reason":             map[string]any{"type": "STRING", "description": "A short explanation of why it was verified or rejected."},
	},
	"required": []string{"verificationStatus", "confidenceScore", "reason"},
}

type CertificateService struct {
	repo    *repository.CertificateRepository
	oracle  oracle.Client
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewCertificateService(repo *repository.CertificateRepository, client oracle.Client, m *metrics.Metrics, logger *zap.Logger) *CertificateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CertificateService{repo: repo, oracle: client, metrics: m, logger: logger, now: time.Now}
}

// Verify asks the oracle to judge a certificate image. Only VERIFIED results
// are persisted; oracle failures yield FallbackResult and nothing is stored.
// A save failure after a VERIFIED verdict is returned as an error.
func (s *CertificateService) Verify(ctx context.Context, owner *usersdomain.User, image []byte, mime string) (*domain.Result, error) {
	if len(image) == 0 {
		return nil, validation.New("file", "is required")
	}
	if len(image) > domain.MaxImageBytes {
		return nil, validation.New("file", "is too large")
	}
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(image)
	}
	if !strings.HasPrefix(mime, "image/") && mime != "application/pdf" {
		return nil, validation.New("file", "must be an image or PDF")
	}

	log := logging.WithRequest(ctx, s.logger).With(
		zap.String("operation", "verify_certificate"),
		zap.String("user_id", owner.ID),
	)

	result := domain.FallbackResult
	if s.oracle != nil {
		var got domain.Result
		err := oracle.Decode(ctx, s.oracle, oracle.Request{
			Operation: operation,
			Prompt:    verifyPrompt,
			Image:     image,
			ImageMIME: mime,
			Schema:    resultSchema,
		}, &got)
		if err != nil {
			log.Warn("certificate verification unavailable", zap.Error(err))
			s.metrics.Fallback(operation)
		} else {
			result = got
		}
	} else {
		s.metrics.Fallback(operation)
	}

	if result.VerificationStatus != domain.StatusVerified {
		return &result, nil
	}

	cert := &domain.VerifiedCertificate{
		UserID:     owner.ID,
		UserName:   owner.Name,
		VerifiedAt: s.now().UTC().Format(time.RFC3339),
		Result:     result,
	}
	if err := s.repo.Create(ctx, cert); err != nil {
		log.Error("failed to save verified certificate", zap.Error(err))
		return nil, err
	}
	log.Info("certificate verified", zap.String("certificate_id", cert.ID))
	return &result, nil
}

// ListForUser returns the user's verified certificates, newest first.
func (s *CertificateService) ListForUser(ctx context.Context, userID string) ([]domain.VerifiedCertificate, error) {
	items, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].VerifiedAt > items[j].VerifiedAt
	})
	return items, nil
}
