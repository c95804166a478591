package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/talenthub/portal-backend/internal/feedback/domain"
	"github.com/talenthub/portal-backend/internal/feedback/repository"
	"github.com/talenthub/portal-backend/internal/logging"
	"github.com/talenthub/portal-backend/internal/metrics"
	"github.com/talenthub/portal-backend/internal/oracle"
	usersdomain "github.com/talenthub/portal-backend/internal/users/domain"
	"github.com/talenthub/portal-backend/internal/validation"
)

const operation = "feedback"

var analysisSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"sentiment": map[string]any{"type": "STRING", "enum": []string{"Positive", "Neutral", "Negative"}},
		"topics":    map[string]any{"type": "ARRAY", "items": map[string]any{"type": "STRING"}},
		"aiSummary": map[string]any{"type": "STRING"},
		"urgency":   map[string]any{"type": "STRING", "enum": []string{"Low", "Medium", "High"}},
	},
	"required": []string{"sentiment", "topics", "aiSummary", "urgency"},
}

type FeedbackService struct {
	repo    *repository.FeedbackRepository
	oracle  oracle.Client
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewFeedbackService(repo *repository.FeedbackRepository, client oracle.Client, m *metrics.Metrics, logger *zap.Logger) *FeedbackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackService{repo: repo, oracle: client, metrics: m, logger: logger, now: time.Now}
}

// Submit analyzes and stores feedback. An oracle failure never blocks the
// write; the entry is stored with the fallback analysis instead.
func (s *FeedbackService) Submit(ctx context.Context, author *usersdomain.User, in domain.Input) (*domain.Entry, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	log := logging.WithRequest(ctx, s.logger).With(zap.String("operation", "submit_feedback"))

	analysis, analyzed := s.analyze(ctx, in)
	if !analyzed {
		s.metrics.Fallback(operation)
		log.Warn("feedback analysis unavailable, storing fallback")
	}

	now := s.now()
	e := &domain.Entry{
		UserID:    author.ID,
		UserName:  author.Name,
		Date:      now.Format(validation.DateLayout),
		Category:  in.Category,
		Content:   in.Content,
		Sentiment: analysis.Sentiment,
		Topics:    analysis.Topics,
		AISummary: analysis.AISummary,
		Urgency:   analysis.Urgency,
		Analyzed:  analyzed,
		CreatedAt: now.UTC(),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		log.Error("failed to store feedback", zap.Error(err))
		return nil, err
	}
	return e, nil
}

func (s *FeedbackService) analyze(ctx context.Context, in domain.Input) (domain.Analysis, bool) {
	if s.oracle == nil {
		return domain.FallbackAnalysis, false
	}

	var a domain.Analysis
	err := oracle.Decode(ctx, s.oracle, oracle.Request{
		Operation: operation,
		Prompt: fmt.Sprintf(`Analyze this student feedback about %s.
Feedback: %q

Tasks:
1. Determine Sentiment (Positive, Neutral, Negative).
2. Extract up to 3 key topics (e.g., "Pacing", "Instructor", "Material").
3. Summarize the feedback in one short sentence.
4. Rate Urgency (High if it mentions harassment, severe blockers, or mental health; Medium for confusion/complaints; Low for praise/suggestions).`,
			in.Category, in.Content),
		Schema: analysisSchema,
	}, &a)
	if err != nil {
		return domain.FallbackAnalysis, false
	}
	if a.Topics == nil {
		a.Topics = []string{}
	}
	return a, true
}

// List returns entries newest first; an empty userID lists everyone's.
func (s *FeedbackService) List(ctx context.Context, userID string) ([]domain.Entry, error) {
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}
