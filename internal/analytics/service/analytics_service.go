package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/talenthub/portal-backend/internal/analytics/domain"
	"github.com/talenthub/portal-backend/internal/analytics/repository"
	"github.com/talenthub/portal-backend/internal/logging"
	"github.com/talenthub/portal-backend/internal/metrics"
	"github.com/talenthub/portal-backend/internal/oracle"
	requestdomain "github.com/talenthub/portal-backend/internal/requests/domain"
	scorecardsdomain "github.com/talenthub/portal-backend/internal/scorecards/domain"
	usersdomain "github.com/talenthub/portal-backend/internal/users/domain"
	"github.com/talenthub/portal-backend/internal/validation"
)

const (
	operation = "risk"

	// LeaveAccrual is the fixed monthly leave accrual shown to candidates.
	LeaveAccrual = "1.25 Days"

	flagTechSkills = 60
	flagAttendance = 80
)

var riskSchema = map[string]any{
	"type": "ARRAY",
	"items": map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"id":         map[string]any{"type": "STRING"},
			"riskScore":  map[string]any{"type": "NUMBER"},
			"riskLevel":  map[string]any{"type": "STRING", "enum": []string{"Low", "Medium", "High"}},
			"aiAnalysis": map[string]any{"type": "STRING"},
		},
	},
}

type AnalyticsService struct {
	repo    *repository.AnalyticsRepository
	oracle  oracle.Client
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewAnalyticsService(repo *repository.AnalyticsRepository, client oracle.Client, m *metrics.Metrics, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{repo: repo, oracle: client, metrics: m, logger: logger, now: time.Now}
}

// ScoreRisk asks the oracle for a risk score per candidate and merges the
// answers back by id. Candidates the oracle skips, or every candidate when the
// oracle fails, are returned unchanged.
func (s *AnalyticsService) ScoreRisk(ctx context.Context, candidates []domain.CandidateMetric) ([]domain.CandidateMetric, error) {
	for i := range candidates {
		if err := validation.Struct(candidates[i]); err != nil {
			return nil, err
		}
	}
	out := make([]domain.CandidateMetric, len(candidates))
	copy(out, candidates)
	if len(out) == 0 {
		return out, nil
	}

	log := logging.WithRequest(ctx, s.logger).With(zap.String("operation", "score_risk"))

	assessments, err := s.assess(ctx, candidates)
	if err != nil {
		s.metrics.Fallback(operation)
		log.Warn("risk scoring unavailable, returning input unchanged", zap.Error(err))
		return out, nil
	}

	byID := make(map[string]domain.RiskAssessment, len(assessments))
	for _, a := range assessments {
		byID[a.ID] = a
	}
	scoredAt := s.now().UTC().Format(time.RFC3339)
	for i := range out {
		a, ok := byID[out[i].ID]
		if !ok {
			continue
		}
		score := a.RiskScore
		out[i].RiskScore = &score
		out[i].RiskLevel = a.RiskLevel
		out[i].AIAnalysis = a.AIAnalysis
		out[i].ScoredAt = scoredAt
	}
	return out, nil
}

func (s *AnalyticsService) assess(ctx context.Context, candidates []domain.CandidateMetric) ([]domain.RiskAssessment, error) {
	if s.oracle == nil {
		return nil, fmt.Errorf("%w: no oracle configured", oracle.ErrExternalService)
	}
	data, err := json.Marshal(candidates)
	if err != nil {
		return nil, err
	}

	var assessments []domain.RiskAssessment
	err = oracle.Decode(ctx, s.oracle, oracle.Request{
		Operation: operation,
		Prompt: `Analyze the following candidate performance data.
Calculate a 'riskScore' (0-100, where 100 is high risk of dropping out) based on low attendance, low technical scores, or low soft skills.
Assign a 'riskLevel' (Low, Medium, High).
Provide a short 'aiAnalysis' sentence explaining the reason.

Input Data:
` + string(data),
		Schema: riskSchema,
	}, &assessments)
	return assessments, err
}

// Rescore refreshes every candidate_metrics row from its scorecards, scores
// the lot and writes them back. It returns how many rows were saved.
func (s *AnalyticsService) Rescore(ctx context.Context) (int, error) {
	log := logging.WithRequest(ctx, s.logger).With(zap.String("operation", "rescore"))

	rows, err := s.repo.ListMetrics(ctx)
	if err != nil {
		return 0, err
	}
	cards, err := s.repo.Scorecards(ctx, "")
	if err != nil {
		return 0, err
	}

	byCandidate := map[string][]scorecardsdomain.ScoreCard{}
	for _, c := range cards {
		byCandidate[c.CandidateID] = append(byCandidate[c.CandidateID], c)
	}
	for i := range rows {
		applyScorecards(&rows[i], byCandidate[rows[i].ID])
	}

	scored, err := s.ScoreRisk(ctx, rows)
	if err != nil {
		return 0, err
	}

	saved := 0
	for i := range scored {
		if err := s.repo.SaveMetric(ctx, &scored[i]); err != nil {
			log.Error("failed to save candidate metric", zap.String("candidate_id", scored[i].ID), zap.Error(err))
			return saved, err
		}
		saved++
	}
	log.Info("candidate metrics rescored", zap.Int("count", saved))
	return saved, nil
}

// applyScorecards averages the candidate's reviews into the metric row. Rows
// without reviews keep their stored values.
func applyScorecards(m *domain.CandidateMetric, cards []scorecardsdomain.ScoreCard) {
	if len(cards) == 0 {
		return
	}
	var tech, soft, att float64
	for _, c := range cards {
		tech += float64(c.TechSkills)
		soft += float64(c.Communication+c.Accountability+c.CreativityOwnership) / 3
		att += float64(c.Attendance)
	}
	n := float64(len(cards))
	m.TechnicalScore = math.Round(tech / n)
	m.SoftSkillScore = math.Round(soft / n)
	m.Attendance = math.Round(att / n)
}

// DashboardStats computes the four headline tiles for user. Any query
// failure yields domain.Unavailable.
func (s *AnalyticsService) DashboardStats(ctx context.Context, user *usersdomain.User) domain.DashboardStats {
	var (
		stats domain.DashboardStats
		err   error
	)
	if user.Role == usersdomain.RoleCandidate {
		stats, err = s.candidateStats(ctx, user.ID)
	} else {
		stats, err = s.staffStats(ctx)
	}
	if err != nil {
		logging.WithRequest(ctx, s.logger).Warn("dashboard stats unavailable", zap.Error(err))
		return domain.Unavailable
	}
	return stats
}

func (s *AnalyticsService) candidateStats(ctx context.Context, userID string) (domain.DashboardStats, error) {
	var (
		leave, tickets, certs int
		cards                 []scorecardsdomain.ScoreCard
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		leave, err = s.repo.CountRequests(gctx, requestdomain.KindLeave, userID, requestdomain.StatusPending)
		return err
	})
	g.Go(func() (err error) {
		tickets, err = s.repo.CountRequests(gctx, requestdomain.KindITTicket, userID, requestdomain.StatusOpen)
		return err
	})
	g.Go(func() (err error) {
		certs, err = s.repo.CountVerifiedCertificates(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		cards, err = s.repo.Scorecards(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.DashboardStats{}, err
	}

	avg := 0.0
	if len(cards) > 0 {
		total := 0
		for _, c := range cards {
			total += c.TechSkills
		}
		avg = math.Round(float64(total) / float64(len(cards)))
	}

	return domain.DashboardStats{
		Stat1: LeaveAccrual,
		Stat2: fmt.Sprintf("%d Pending", leave+tickets),
		Stat3: fmt.Sprintf("%d Verified", certs),
		Stat4: fmt.Sprintf("%d%% Avg", int(avg)),
	}, nil
}

func (s *AnalyticsService) staffStats(ctx context.Context) (domain.DashboardStats, error) {
	var (
		candidates int
		cards      []scorecardsdomain.ScoreCard
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		candidates, err = s.repo.CountUsersByRole(gctx, usersdomain.RoleCandidate)
		return err
	})
	g.Go(func() (err error) {
		cards, err = s.repo.Scorecards(gctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.DashboardStats{}, err
	}

	flags, attendance := 0, 0
	for _, c := range cards {
		attendance += c.Attendance
		if c.TechSkills < flagTechSkills || c.Attendance < flagAttendance {
			flags++
		}
	}
	avg := 0.0
	if len(cards) > 0 {
		avg = math.Round(float64(attendance) / float64(len(cards)))
	}

	return domain.DashboardStats{
		Stat1: fmt.Sprintf("%d Total", candidates),
		Stat2: fmt.Sprintf("%d Flags", flags),
		Stat3: fmt.Sprintf("%d%% Avg", int(avg)),
		Stat4: fmt.Sprintf("%d Reviews", len(cards)),
	}, nil
}

// Metrics lists the stored candidate_metrics rows.
func (s *AnalyticsService) Metrics(ctx context.Context) ([]domain.CandidateMetric, error) {
	return s.repo.ListMetrics(ctx)
}
