package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gatherkit/gatherkit/internal/audit"
	auditdomain "github.com/gatherkit/gatherkit/internal/audit/domain"
	"github.com/gatherkit/gatherkit/internal/auth"
	authdomain "github.com/gatherkit/gatherkit/internal/auth/domain"
	"github.com/gatherkit/gatherkit/internal/auth/session"
	"github.com/gatherkit/gatherkit/internal/authz"
	"github.com/gatherkit/gatherkit/internal/config"
	"github.com/gatherkit/gatherkit/internal/event"
	eventdomain "github.com/gatherkit/gatherkit/internal/event/domain"
	"github.com/gatherkit/gatherkit/internal/invite"
	invitedomain "github.com/gatherkit/gatherkit/internal/invite/domain"
	"github.com/gatherkit/gatherkit/internal/organization"
	orgdomain "github.com/gatherkit/gatherkit/internal/organization/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	authz.Module,
	audit.Module,
	auth.Module,
	organization.Module,
	invite.Module,
	event.Module,
	fx.Provide(newHTTPMetrics),
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger, metrics *httpMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestCache())
	r.Use(RequestLogger(log))
	r.Use(MetricsMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine   *gin.Engine
	cfg      config.Config
	sessions *session.Manager
	authsvc  authdomain.Service
	orgSvc   orgdomain.Service
	invSvc   invitedomain.Service
	eventSvc eventdomain.Service
	auditSvc auditdomain.Service
	authzSvc authz.Service
}

type ServerParams struct {
	fx.In

	Gin      *gin.Engine
	Cfg      config.Config
	Sessions *session.Manager
	Authsvc  authdomain.Service
	OrgSvc   orgdomain.Service
	InvSvc   invitedomain.Service
	EventSvc eventdomain.Service
	AuditSvc auditdomain.Service
	AuthzSvc authz.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:   p.Gin,
		cfg:      p.Cfg,
		sessions: p.Sessions,
		authsvc:  p.Authsvc,
		orgSvc:   p.OrgSvc,
		invSvc:   p.InvSvc,
		eventSvc: p.EventSvc,
		auditSvc: p.AuditSvc,
		authzSvc: p.AuthzSvc,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/register", s.Register)
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// Published events are public; the detail route also serves drafts
	// to members.
	api.GET("/events", s.OptionalAuth(), s.ListPublishedEvents)
	api.GET("/events/:eventId", s.OptionalAuth(), s.GetEvent)

	authed := api.Group("", s.AuthRequired())
	{
		authed.POST("/orgs", s.CreateOrganization)
		authed.GET("/orgs", s.ListMyMemberships)
		authed.GET("/orgs/:orgId", s.GetOrganization)
		authed.DELETE("/orgs/:orgId", s.DeleteOrganization)
		authed.DELETE("/orgs/:orgId/members/:userId", s.RemoveMember)

		authed.POST("/orgs/:orgId/invites", s.CreateInvite)
		authed.GET("/orgs/:orgId/invites", s.ListOrganizationInvites)
		authed.GET("/invites", s.ListMyInvites)
		authed.POST("/invites/:inviteId/respond", s.RespondToInvite)
		authed.POST("/invites/:inviteId/cancel", s.CancelInvite)

		authed.POST("/orgs/:orgId/events", s.CreateEvent)
		authed.GET("/orgs/:orgId/events", s.ListOrganizationEvents)
		authed.PATCH("/events/:eventId", s.UpdateEvent)
		authed.DELETE("/events/:eventId", s.DeleteEvent)

		authed.GET("/orgs/:orgId/audit-logs", s.ListAuditLogs)
	}
}
