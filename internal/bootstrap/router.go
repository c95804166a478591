package bootstrap

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/talenthub/portal-backend/config"
	"github.com/talenthub/portal-backend/internal/access"
	analyticshttp "github.com/talenthub/portal-backend/internal/analytics/http"
	announcementshttp "github.com/talenthub/portal-backend/internal/announcements/http"
	httpapi "github.com/talenthub/portal-backend/internal/api/http"
	"github.com/talenthub/portal-backend/internal/api/http/middleware"
	authmw "github.com/talenthub/portal-backend/internal/auth/middleware"
	certificateshttp "github.com/talenthub/portal-backend/internal/certificates/http"
	cohortshttp "github.com/talenthub/portal-backend/internal/cohorts/http"
	feedbackhttp "github.com/talenthub/portal-backend/internal/feedback/http"
	"github.com/talenthub/portal-backend/internal/policychat"
	requestshttp "github.com/talenthub/portal-backend/internal/requests/http"
	scorecardshttp "github.com/talenthub/portal-backend/internal/scorecards/http"
	usershttp "github.com/talenthub/portal-backend/internal/users/http"
)

const serviceName = "portal-backend"

func BuildRouter(c *Container) *gin.Engine {
	cfg := c.Config

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(c.Logger))
	r.Use(cors.New(corsConfig(cfg.Server.CorsAllowedOrigins)))

	healthHandler := httpapi.NewHealthHandler(serviceName, cfg.App.Version, cfg.Store.Backend, c.Store)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/api/v1")
	if cfg.App.AuthMode == config.AuthModeDev {
		api.Use(authmw.DevAuthMiddleware())
	} else {
		api.Use(authmw.FirebaseAuthMiddleware(c.Verifier))
	}
	api.Use(authmw.LoadUser(c.Users))

	enforcer := c.Access
	manageUsers := enforcer.Require(access.ObjUsers, access.ActManage)

	usershttp.New(c.Users, enforcer).Register(api, manageUsers)
	requestshttp.New(c.Submission, c.Approval, c.History).
		Register(api.Group("/requests"), enforcer.Require(access.ObjRequests, access.ActApprove))
	cohortshttp.New(c.Cohorts).Register(api.Group("/cohorts"), manageUsers)
	announcementshttp.New(c.Announcements, c.Images, enforcer).
		Register(api.Group("/announcements"), enforcer.Require(access.ObjAnnouncements, access.ActManage))
	scorecardshttp.New(c.Scorecards, enforcer).
		Register(api.Group("/scorecards"), enforcer.Require(access.ObjScorecards, access.ActWrite))
	feedbackhttp.New(c.Feedback, enforcer).Register(api.Group("/feedback"))
	certificateshttp.New(c.Certificates).Register(api.Group("/certificates"))
	analyticshttp.New(c.Analytics).
		Register(api.Group("/analytics"), enforcer.Require(access.ObjAnalytics, access.ActRead))
	policychat.NewHandler(c.Policy).Register(api.Group("/policy"))

	return r
}

// corsConfig allows the comma-separated origins with credentials, or any
// origin without credentials when the list is empty or "*".
func corsConfig(origins string) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID, "X-User-Id"},
		ExposeHeaders: []string{middleware.HeaderRequestID},
	}
	for _, o := range strings.Split(origins, ",") {
		o = strings.TrimSpace(o)
		if o == "*" {
			cc.AllowOrigins = nil
			break
		}
		if o != "" {
			cc.AllowOrigins = append(cc.AllowOrigins, o)
		}
	}
	if len(cc.AllowOrigins) == 0 {
		cc.AllowAllOrigins = true
		return cc
	}
	cc.AllowCredentials = true
	return cc
}
