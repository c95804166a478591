package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talenthub/portal-backend/internal/analytics/domain"
	"github.com/talenthub/portal-backend/internal/analytics/repository"
	certdomain "github.com/talenthub/portal-backend/internal/certificates/domain"
	"github.com/talenthub/portal-backend/internal/oracle"
	requestdomain "github.com/talenthub/portal-backend/internal/requests/domain"
	scorecardsdomain "github.com/talenthub/portal-backend/internal/scorecards/domain"
	"github.com/talenthub/portal-backend/internal/store"
	"github.com/talenthub/portal-backend/internal/store/storetest"
	usersdomain "github.com/talenthub/portal-backend/internal/users/domain"
	"github.com/talenthub/portal-backend/internal/validation"
)

type stubOracle struct {
	text string
	err  error
}

func (s *stubOracle) Complete(ctx context.Context, req oracle.Request) (string, error) {
	return s.text, s.err
}

// brokenStore fails every query.
type brokenStore struct{ store.Store }

func (brokenStore) Query(ctx context.Context, collection string, filters []store.Filter, dst any) error {
	return store.Wrap("query "+collection, errors.New("offline"))
}

func TestScoreRisk_MergesById(t *testing.T) {
	stub := &stubOracle{text: `[{"id":"c2","riskScore":82,"riskLevel":"High","aiAnalysis":"Attendance below 60%."}]`}
	svc := NewAnalyticsService(repository.NewAnalyticsRepository(storetest.New(t)), stub, nil, nil)

	in := []domain.CandidateMetric{
		{ID: "c1", Name: "A", TechnicalScore: 90, SoftSkillScore: 85, Attendance: 98},
		{ID: "c2", Name: "B", TechnicalScore: 40, SoftSkillScore: 50, Attendance: 55},
	}
	out, err := svc.ScoreRisk(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Nil(t, out[0].RiskScore)
	require.NotNil(t, out[1].RiskScore)
	assert.Equal(t, 82.0, *out[1].RiskScore)
	assert.Equal(t, "High", out[1].RiskLevel)
	assert.NotEmpty(t, out[1].ScoredAt)
	assert.Nil(t, in[1].RiskScore, "input must not be mutated")
}

func TestScoreRisk_FailurePassesThrough(t *testing.T) {
	in := []domain.CandidateMetric{{ID: "c1", Name: "A", TechnicalScore: 50}}

	for _, stub := range []*stubOracle{
		{err: errors.New("timeout")},
		{text: `[{"id":"c1","riskScore":50,"riskLevel":"Extreme"}]`},
	} {
		svc := NewAnalyticsService(repository.NewAnalyticsRepository(storetest.New(t)), stub, nil, nil)
		out, err := svc.ScoreRisk(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}

	svc := NewAnalyticsService(repository.NewAnalyticsRepository(storetest.New(t)), nil, nil, nil)
	_, err := svc.ScoreRisk(context.Background(), []domain.CandidateMetric{{ID: "c1", Attendance: 140}})
	assert.ErrorIs(t, err, validation.ErrValidation)
}

func TestRescore_AppliesScorecardsAndPersists(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, store.CandidateMetrics, "c1", domain.CandidateMetric{ID: "c1", Name: "A", CohortName: "Assigned"}))
	require.NoError(t, s.Set(ctx, store.CandidateMetrics, "c2", domain.CandidateMetric{ID: "c2", Name: "B", TechnicalScore: 70}))
	for i, sc := range []scorecardsdomain.ScoreCard{
		{CandidateID: "c1", TechSkills: 60, Attendance: 90, Communication: 70, Accountability: 70, CreativityOwnership: 70},
		{CandidateID: "c1", TechSkills: 81, Attendance: 71, Communication: 80, Accountability: 80, CreativityOwnership: 80},
	} {
		sc.ID = []string{"s1", "s2"}[i]
		require.NoError(t, s.Set(ctx, store.Scorecards, sc.ID, sc))
	}

	stub := &stubOracle{text: `[{"id":"c1","riskScore":35,"riskLevel":"Low","aiAnalysis":"Steady."},{"id":"c2","riskScore":50,"riskLevel":"Medium","aiAnalysis":"No reviews yet."}]`}
	svc := NewAnalyticsService(repository.NewAnalyticsRepository(s), stub, nil, nil)

	n, err := svc.Rescore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var c1 domain.CandidateMetric
	require.NoError(t, s.Get(ctx, store.CandidateMetrics, "c1", &c1))
	assert.Equal(t, 71.0, c1.TechnicalScore)
	assert.Equal(t, 75.0, c1.SoftSkillScore)
	assert.Equal(t, 81.0, c1.Attendance)
	require.NotNil(t, c1.RiskScore)
	assert.Equal(t, "Low", c1.RiskLevel)
	assert.Equal(t, "Assigned", c1.CohortName)

	var c2 domain.CandidateMetric
	require.NoError(t, s.Get(ctx, store.CandidateMetrics, "c2", &c2))
	assert.Equal(t, 70.0, c2.TechnicalScore)
	assert.Equal(t, "Medium", c2.RiskLevel)
}

func TestDashboardStats_Candidate(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	put := func(coll, id string, doc any) { require.NoError(t, s.Set(ctx, coll, id, doc)) }
	put(store.LeaveRequests, "l1", requestdomain.Request{UserID: "u1", Status: requestdomain.StatusPending})
	put(store.LeaveRequests, "l2", requestdomain.Request{UserID: "u1", Status: requestdomain.StatusApproved})
	put(store.LeaveRequests, "l3", requestdomain.Request{UserID: "u2", Status: requestdomain.StatusPending})
	put(store.ITTickets, "t1", requestdomain.Request{UserID: "u1", Status: requestdomain.StatusOpen})
	put(store.ITTickets, "t2", requestdomain.Request{UserID: "u1", Status: requestdomain.StatusInProgress})
	put(store.VerifiedCertificates, "v1", certdomain.VerifiedCertificate{UserID: "u1", Result: certdomain.Result{VerificationStatus: certdomain.StatusVerified}})
	put(store.Scorecards, "s1", scorecardsdomain.ScoreCard{CandidateID: "u1", TechSkills: 70})
	put(store.Scorecards, "s2", scorecardsdomain.ScoreCard{CandidateID: "u1", TechSkills: 85})
	put(store.Scorecards, "s3", scorecardsdomain.ScoreCard{CandidateID: "u2", TechSkills: 10})

	svc := NewAnalyticsService(repository.NewAnalyticsRepository(s), nil, nil, nil)
	stats := svc.DashboardStats(ctx, &usersdomain.User{ID: "u1", Role: usersdomain.RoleCandidate})

	assert.Equal(t, domain.DashboardStats{Stat1: "1.25 Days", Stat2: "2 Pending", Stat3: "1 Verified", Stat4: "78% Avg"}, stats)
}

func TestDashboardStats_Staff(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	put := func(coll, id string, doc any) { require.NoError(t, s.Set(ctx, coll, id, doc)) }
	put(store.Users, "u1", usersdomain.User{ID: "u1", Role: usersdomain.RoleCandidate})
	put(store.Users, "u2", usersdomain.User{ID: "u2", Role: usersdomain.RoleCandidate})
	put(store.Users, "m1", usersdomain.User{ID: "m1", Role: usersdomain.RoleManager})
	put(store.Scorecards, "s1", scorecardsdomain.ScoreCard{CandidateID: "u1", TechSkills: 90, Attendance: 95})
	put(store.Scorecards, "s2", scorecardsdomain.ScoreCard{CandidateID: "u2", TechSkills: 55, Attendance: 90})
	put(store.Scorecards, "s3", scorecardsdomain.ScoreCard{CandidateID: "u2", TechSkills: 75, Attendance: 70})

	svc := NewAnalyticsService(repository.NewAnalyticsRepository(s), nil, nil, nil)
	stats := svc.DashboardStats(ctx, &usersdomain.User{ID: "m1", Role: usersdomain.RoleManager})

	assert.Equal(t, domain.DashboardStats{Stat1: "2 Total", Stat2: "2 Flags", Stat3: "85% Avg", Stat4: "3 Reviews"}, stats)

	empty := NewAnalyticsService(repository.NewAnalyticsRepository(storetest.New(t)), nil, nil, nil)
	assert.Equal(t, domain.DashboardStats{Stat1: "0 Total", Stat2: "0 Flags", Stat3: "0% Avg", Stat4: "0 Reviews"},
		empty.DashboardStats(ctx, &usersdomain.User{ID: "a", Role: usersdomain.RoleAdmin}))
}

func TestDashboardStats_Unavailable(t *testing.T) {
	svc := NewAnalyticsService(repository.NewAnalyticsRepository(brokenStore{Store: storetest.New(t)}), nil, nil, nil)
	stats := svc.DashboardStats(context.Background(), &usersdomain.User{ID: "u1", Role: usersdomain.RoleCandidate})
	assert.Equal(t, domain.Unavailable, stats)
}
