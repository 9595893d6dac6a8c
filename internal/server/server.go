package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/leadflowhq/leadflow/internal/activity"
	activitydomain "github.com/leadflowhq/leadflow/internal/activity/domain"
	"github.com/leadflowhq/leadflow/internal/audit"
	auditdomain "github.com/leadflowhq/leadflow/internal/audit/domain"
	"github.com/leadflowhq/leadflow/internal/authorization"
	"github.com/leadflowhq/leadflow/internal/campaign"
	campaigndomain "github.com/leadflowhq/leadflow/internal/campaign/domain"
	"github.com/leadflowhq/leadflow/internal/catalog"
	catalogdomain "github.com/leadflowhq/leadflow/internal/catalog/domain"
	"github.com/leadflowhq/leadflow/internal/config"
	"github.com/leadflowhq/leadflow/internal/entitlement"
	entitlementdomain "github.com/leadflowhq/leadflow/internal/entitlement/domain"
	"github.com/leadflowhq/leadflow/internal/lead"
	leaddomain "github.com/leadflowhq/leadflow/internal/lead/domain"
	modulearea "github.com/leadflowhq/leadflow/internal/module"
	moduledomain "github.com/leadflowhq/leadflow/internal/module/domain"
	"github.com/leadflowhq/leadflow/internal/observability"
	obsmiddleware "github.com/leadflowhq/leadflow/internal/observability/logger"
	obsmetrics "github.com/leadflowhq/leadflow/internal/observability/metrics"
	obstracing "github.com/leadflowhq/leadflow/internal/observability/tracing"
	"github.com/leadflowhq/leadflow/internal/organization"
	organizationdomain "github.com/leadflowhq/leadflow/internal/organization/domain"
	"github.com/leadflowhq/leadflow/internal/ratelimit"
	"github.com/leadflowhq/leadflow/internal/subscription"
	subscriptiondomain "github.com/leadflowhq/leadflow/internal/subscription/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	config.Module,
	fx.Provide(registerGin),
	authorization.Module,
	audit.Module,
	organization.Module,
	modulearea.Module,
	catalog.Module,
	subscription.Module,
	entitlement.Module,
	campaign.Module,
	lead.Module,
	activity.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine) {
	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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
	engine *gin.Engine
	cfg    config.Config
	db     *gorm.DB
	genID  *snowflake.Node

	authzSvc        authorization.Service
	auditSvc        auditdomain.Service
	organizationSvc organizationdomain.Service
	moduleSvc       moduledomain.Service
	catalogSvc      catalogdomain.Service
	subscriptionSvc subscriptiondomain.Service
	entitlementSvc  entitlementdomain.Service
	campaignSvc     campaigndomain.Service
	leadSvc         leaddomain.Service
	activitySvc     activitydomain.Service

	obsMetrics  *obsmetrics.Metrics
	leadLimiter *ratelimit.LeadCaptureLimiter
}

type ServerParams struct {
	fx.In

	Gin   *gin.Engine
	Cfg   config.Config
	DB    *gorm.DB
	GenID *snowflake.Node

	AuthzSvc        authorization.Service
	AuditSvc        auditdomain.Service
	OrganizationSvc organizationdomain.Service
	ModuleSvc       moduledomain.Service
	CatalogSvc      catalogdomain.Service
	SubscriptionSvc subscriptiondomain.Service
	EntitlementSvc  entitlementdomain.Service
	CampaignSvc     campaigndomain.Service
	LeadSvc         leaddomain.Service
	ActivitySvc     activitydomain.Service

	ObsMetrics  *obsmetrics.Metrics           `optional:"true"`
	LeadLimiter *ratelimit.LeadCaptureLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine: p.Gin,
		cfg:    p.Cfg,
		db:     p.DB,
		genID:  p.GenID,

		authzSvc:        p.AuthzSvc,
		auditSvc:        p.AuditSvc,
		organizationSvc: p.OrganizationSvc,
		moduleSvc:       p.ModuleSvc,
		catalogSvc:      p.CatalogSvc,
		subscriptionSvc: p.SubscriptionSvc,
		entitlementSvc:  p.EntitlementSvc,
		campaignSvc:     p.CampaignSvc,
		leadSvc:         p.LeadSvc,
		activitySvc:     p.ActivitySvc,

		obsMetrics:  p.ObsMetrics,
		leadLimiter: p.LeadLimiter,
	}

	svc.registerPublicRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerPublicRoutes() {
	public := s.engine.Group("/public")

	public.POST("/leads", s.CaptureLead)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// Organization creation happens before any org context exists.
	api.POST("/organizations", s.ActorContext(), s.CreateOrganization)

	org := api.Group("", s.ActorContext(), s.OrgContext())

	org.GET("/organization", s.RequireRole(organizationdomain.RoleOwner, organizationdomain.RoleAdmin, organizationdomain.RoleMember), s.GetOrganization)
	org.GET("/organization/members", s.RequireRole(organizationdomain.RoleOwner, organizationdomain.RoleAdmin, organizationdomain.RoleMember), s.ListMembers)
	org.POST("/organization/members", s.authorizeOrgAction(authorization.ObjectOrganization, authorization.ActionMemberAdd), s.AddMember)

	// -------- Modules (platform catalog) --------
	org.GET("/modules", s.RequireRole(organizationdomain.RoleOwner, organizationdomain.RoleAdmin, organizationdomain.RoleMember), s.ListModules)
	org.POST("/modules", s.authorizeOrgAction(authorization.ObjectModule, authorization.ActionModuleManage), s.CreateModule)
	org.PATCH("/modules/:id", s.authorizeOrgAction(authorization.ObjectModule, authorization.ActionModuleManage), s.UpdateModule)
	org.POST("/modules/:id/enable", s.authorizeOrgAction(authorization.ObjectModule, authorization.ActionModuleManage), s.EnableModule)
	org.POST("/modules/:id/disable", s.authorizeOrgAction(authorization.ObjectModule, authorization.ActionModuleManage), s.DisableModule)

	// -------- Packages --------
	org.GET("/packages", s.RequireRole(organizationdomain.RoleOwner, organizationdomain.RoleAdmin, organizationdomain.RoleMember), s.ListPackages)
	org.GET("/packages/:id", s.RequireRole(organizationdomain.RoleOwner, organizationdomain.RoleAdmin, organizationdomain.RoleMember), s.GetPackageByID)
	org.POST("/packages", s.authorizeOrgAction(authorization.ObjectPackage, authorization.ActionPackageManage), s.CreatePackage)
	org.PATCH("/packages/:id", s.authorizeOrgAction(authorization.ObjectPackage, authorization.ActionPackageManage), s.UpdatePackage)
	org.POST("/packages/:id/archive", s.authorizeOrgAction(authorization.ObjectPackage, authorization.ActionPackageManage), s.ArchivePackage)

	// -------- Subscription links --------
	org.GET("/subscriptions", s.RequireRole(organizationdomain.RoleOwner, organizationdomain.RoleAdmin, organizationdomain.RoleMember), s.ListSubscriptionLinks)
	org.POST("/subscriptions", s.authorizeOrgAction(authorization.ObjectSubscription, authorization.ActionSubscriptionCreate), s.CreateSubscriptionLink)
	org.PATCH("/subscriptions/:id/status", s.authorizeOrgAction(authorization.ObjectSubscription, authorization.ActionSubscriptionUpdate), s.UpdateSubscriptionLinkStatus)
	org.POST("/subscriptions/:id/cancel-at-period-end", s.authorizeOrgAction(authorization.ObjectSubscription, authorization.ActionSubscriptionCancel), s.SetSubscriptionCancelAtPeriodEnd)

	// -------- Entitlements --------
	org.GET("/entitlements", s.RequireRole(organizationdomain.RoleOwner, organizationdomain.RoleAdmin, organizationdomain.RoleMember), s.GetEntitlements)
	org.GET("/entitlements/:slug", s.RequireRole(organizationdomain.RoleOwner, organizationdomain.RoleAdmin, organizationdomain.RoleMember), s.CheckEntitlement)

	// -------- Campaigns --------
	campaigns := org.Group("/campaigns", s.RequireModule("campaigns"))
	campaigns.GET("", s.RequireRole(organizationdomain.RoleOwner, organizationdomain.RoleAdmin, organizationdomain.RoleMember), s.ListCampaigns)
	campaigns.GET("/:id", s.RequireRole(organizationdomain.RoleOwner, organizationdomain.RoleAdmin, organizationdomain.RoleMember), s.GetCampaignByID)
	campaigns.POST("", s.authorizeOrgAction(authorization.ObjectCampaign, authorization.ActionCampaignCreate), s.CreateCampaign)
	campaigns.PATCH("/:id", s.authorizeOrgAction(authorization.ObjectCampaign, authorization.ActionCampaignUpdate), s.UpdateCampaign)
	campaigns.POST("/:id/activate", s.authorizeOrgAction(authorization.ObjectCampaign, authorization.ActionCampaignActivate), s.ActivateCampaign)
	campaigns.POST("/:id/pause", s.authorizeOrgAction(authorization.ObjectCampaign, authorization.ActionCampaignPause), s.PauseCampaign)
	campaigns.POST("/:id/complete", s.authorizeOrgAction(authorization.ObjectCampaign, authorization.ActionCampaignComplete), s.CompleteCampaign)

	// -------- Leads --------
	leads := org.Group("/leads", s.RequireModule("leads"))
	leads.GET("", s.RequireRole(organizationdomain.RoleOwner, organizationdomain.RoleAdmin, organizationdomain.RoleMember), s.ListLeads)
	leads.PATCH("/:id/status", s.authorizeOrgAction(authorization.ObjectLead, authorization.ActionLeadUpdate), s.UpdateLeadStatus)

	// -------- Dashboard --------
	org.GET("/dashboard/activity", s.RequireRole(organizationdomain.RoleOwner, organizationdomain.RoleAdmin, organizationdomain.RoleMember), s.GetDashboardActivity)

	// -------- Audit logs --------
	org.GET("/audit-logs", s.authorizeOrgAction(authorization.ObjectAuditLog, authorization.ActionAuditLogView), s.ListAuditLogs)
}
