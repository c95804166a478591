package bootstrap

import (
	"context"
	"errors"

	firebase "firebase.google.com/go/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/talenthub/portal-backend/config"
	"github.com/talenthub/portal-backend/internal/access"
	analyticsrepo "github.com/talenthub/portal-backend/internal/analytics/repository"
	analyticsservice "github.com/talenthub/portal-backend/internal/analytics/service"
	announcementsrepo "github.com/talenthub/portal-backend/internal/announcements/repository"
	announcementsservice "github.com/talenthub/portal-backend/internal/announcements/service"
	"github.com/talenthub/portal-backend/internal/auth"
	authmw "github.com/talenthub/portal-backend/internal/auth/middleware"
	certificatesrepo "github.com/talenthub/portal-backend/internal/certificates/repository"
	certificatesservice "github.com/talenthub/portal-backend/internal/certificates/service"
	cohortsrepo "github.com/talenthub/portal-backend/internal/cohorts/repository"
	cohortsservice "github.com/talenthub/portal-backend/internal/cohorts/service"
	feedbackrepo "github.com/talenthub/portal-backend/internal/feedback/repository"
	feedbackservice "github.com/talenthub/portal-backend/internal/feedback/service"
	"github.com/talenthub/portal-backend/internal/imagesearch"
	"github.com/talenthub/portal-backend/internal/metrics"
	"github.com/talenthub/portal-backend/internal/oracle"
	"github.com/talenthub/portal-backend/internal/policychat"
	"github.com/talenthub/portal-backend/internal/reconcile"
	requestsrepo "github.com/talenthub/portal-backend/internal/requests/repository"
	requestsservice "github.com/talenthub/portal-backend/internal/requests/service"
	scorecardsrepo "github.com/talenthub/portal-backend/internal/scorecards/repository"
	scorecardsservice "github.com/talenthub/portal-backend/internal/scorecards/service"
	"github.com/talenthub/portal-backend/internal/store"
	usersrepo "github.com/talenthub/portal-backend/internal/users/repository"
	usersservice "github.com/talenthub/portal-backend/internal/users/service"
)

// Container holds every long-lived collaborator of the process.
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Store    store.Store
	Access   *access.Enforcer
	Verifier authmw.TokenVerifier

	Users         *usersservice.UserService
	Submission    *requestsservice.SubmissionService
	Approval      *requestsservice.ApprovalService
	History       *requestsservice.HistoryService
	Cohorts       *cohortsservice.CohortService
	Announcements *announcementsservice.AnnouncementService
	Images        *imagesearch.Searcher
	Scorecards    *scorecardsservice.ScoreCardService
	Feedback      *feedbackservice.FeedbackService
	Certificates  *certificatesservice.CertificateService
	Analytics     *analyticsservice.AnalyticsService
	Policy        *policychat.Service
	Sweeper       *reconcile.Sweeper

	closers []func() error
}

// NewContainer connects the store, the auth provider and the oracle, then
// builds the services on top. An oracle that cannot be configured is logged
// and left nil; the AI features then answer with their fallbacks.
func NewContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	c.Metrics = metrics.New(c.Registry)

	var app *firebase.App
	if cfg.App.AuthMode == config.AuthModeFirebase || cfg.Store.Backend == config.BackendFirestore {
		var err error
		app, err = auth.NewApp(ctx, &cfg.Firebase)
		if err != nil {
			return nil, err
		}
	}

	s, closeStore, err := OpenStore(ctx, cfg, app, logger)
	if err != nil {
		return nil, err
	}
	c.Store = s
	c.closers = append(c.closers, closeStore)

	var accounts usersservice.Accounts = auth.DevAccounts{}
	if cfg.App.AuthMode == config.AuthModeFirebase {
		client, err := auth.InitializeFirebase(ctx, app)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.Verifier = client
		accounts = auth.NewFirebaseAccounts(client)
	}

	if c.Access, err = access.New(); err != nil {
		_ = c.Close()
		return nil, err
	}

	var ai oracle.Client
	if client, err := oracle.New(ctx, &cfg.Oracle, c.Metrics, logger); err != nil {
		logger.Warn("oracle not configured, AI features will use fallbacks", zap.String("provider", cfg.Oracle.Provider), zap.Error(err))
	} else {
		ai = client
	}

	c.Users = usersservice.NewUserService(usersrepo.NewUserRepository(s), accounts, logger)

	requests := requestsrepo.NewRequestRepository(s)
	c.Submission = requestsservice.NewSubmissionService(requests, logger, c.Metrics)
	c.Approval = requestsservice.NewApprovalService(requests, c.Users, logger, c.Metrics)
	c.History = requestsservice.NewHistoryService(requests)
	c.Sweeper = reconcile.NewSweeper(requests, c.Users, c.Metrics, logger)

	c.Cohorts = cohortsservice.NewCohortService(cohortsrepo.NewCohortRepository(s), c.Users, logger)
	c.Announcements = announcementsservice.NewAnnouncementService(announcementsrepo.NewAnnouncementRepository(s), c.Cohorts, logger)
	c.Images = imagesearch.New(cfg.Images.UnsplashAccessKey, c.Metrics, logger)
	c.Scorecards = scorecardsservice.NewScoreCardService(scorecardsrepo.NewScoreCardRepository(s), c.Users, logger)
	c.Feedback = feedbackservice.NewFeedbackService(feedbackrepo.NewFeedbackRepository(s), ai, c.Metrics, logger)
	c.Certificates = certificatesservice.NewCertificateService(certificatesrepo.NewCertificateRepository(s), ai, c.Metrics, logger)
	c.Analytics = analyticsservice.NewAnalyticsService(analyticsrepo.NewAnalyticsRepository(s), ai, c.Metrics, logger)
	c.Policy = policychat.New(ai, c.Metrics, logger)

	return c, nil
}

// Close releases the store client.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errs...)
}
