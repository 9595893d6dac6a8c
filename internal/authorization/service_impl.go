package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	auditdomain "github.com/leadflowhq/leadflow/internal/audit/domain"
	"github.com/leadflowhq/leadflow/internal/auditcontext"
	"github.com/leadflowhq/leadflow/internal/orgcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectCampaign     = "campaign"
	ObjectLead         = "lead"
	ObjectModule       = "module"
	ObjectPackage      = "package"
	ObjectSubscription = "subscription"
	ObjectOrganization = "organization"
	ObjectAuditLog     = "audit_log"
	ObjectDashboard    = "dashboard"
)

const (
	ActionCampaignView     = "campaign.view"
	ActionCampaignCreate   = "campaign.create"
	ActionCampaignUpdate   = "campaign.update"
	ActionCampaignActivate = "campaign.activate"
	ActionCampaignPause    = "campaign.pause"
	ActionCampaignComplete = "campaign.complete"

	ActionLeadView   = "lead.view"
	ActionLeadUpdate = "lead.update"

	ActionModuleView   = "module.view"
	ActionModuleManage = "module.manage"

	ActionPackageView   = "package.view"
	ActionPackageManage = "package.manage"

	ActionSubscriptionView   = "subscription.view"
	ActionSubscriptionCreate = "subscription.create"
	ActionSubscriptionUpdate = "subscription.update"
	ActionSubscriptionCancel = "subscription.cancel"

	ActionOrganizationView   = "organization.view"
	ActionOrganizationManage = "organization.manage"
	ActionMemberAdd          = "organization.member_add"

	ActionAuditLogView = "audit_log.view"

	ActionDashboardView = "dashboard.view"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
	AuditSvc auditdomain.Service `optional:"true"`
}

type ServiceImpl struct {
	db       *gorm.DB
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
	auditSvc auditdomain.Service
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		db:       p.DB,
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
		auditSvc: p.AuditSvc,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, actor string, orgID string, object string, action string) error {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ErrInvalidActor
	}
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return ErrInvalidOrganization
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	subject, roleName, actorType, actorID, err := s.resolveActor(ctx, actor, orgID)
	if err != nil {
		s.auditDenied(ctx, actorType, actorID, orgID, object, action)
		return err
	}

	domain := fmt.Sprintf("org:%s", orgID)
	if err := s.ensureGrouping(subject, roleName, domain); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, domain, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.auditDenied(ctx, actorType, actorID, orgID, object, action)
		return ErrForbidden
	}
	return nil
}

func (s *ServiceImpl) resolveActor(ctx context.Context, actor string, orgID string) (string, string, string, *string, error) {
	if actor == "system" {
		return actor, "role:system", "system", nil, nil
	}
	if strings.HasPrefix(actor, "user:") {
		userIDRaw := strings.TrimPrefix(actor, "user:")
		userID, err := snowflake.ParseString(userIDRaw)
		if err != nil || userID == 0 {
			return "", "", "", nil, ErrInvalidActor
		}
		userIDStr := userID.String()
		parsedOrgID, err := snowflake.ParseString(orgID)
		if err != nil || parsedOrgID == 0 {
			return actor, "", "user", &userIDStr, ErrInvalidOrganization
		}
		role, err := s.roleForUser(ctx, parsedOrgID, userID)
		if err != nil {
			return actor, "", "user", &userIDStr, err
		}
		return actor, fmt.Sprintf("role:%s", strings.ToLower(role)), "user", &userIDStr, nil
	}
	return "", "", "", nil, ErrInvalidActor
}

func (s *ServiceImpl) roleForUser(ctx context.Context, orgID snowflake.ID, userID snowflake.ID) (string, error) {
	var row struct {
		Role string `gorm:"column:role"`
	}
	if err := s.db.WithContext(ctx).Raw(
		`SELECT role
		 FROM organization_members
		 WHERE org_id = ? AND user_id = ?
		 LIMIT 1`,
		orgID,
		userID,
	).Scan(&row).Error; err != nil {
		return "", err
	}

	role := strings.TrimSpace(row.Role)
	if role == "" {
		return "", ErrForbidden
	}
	return role, nil
}

func (s *ServiceImpl) ensureGrouping(subject string, roleName string, domain string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject, "", domain)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 {
			continue
		}
		if rule[1] != roleName {
			params := make([]interface{}, 0, len(rule))
			for _, value := range rule {
				params = append(params, value)
			}
			_, _ = s.enforcer.RemoveGroupingPolicy(params...)
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName, domain)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName, domain)
	return err
}

func (s *ServiceImpl) auditDenied(ctx context.Context, actorType string, actorID *string, orgID string, object string, action string) {
	if s.auditSvc == nil {
		return
	}
	parsedOrgID, err := snowflake.ParseString(orgID)
	if err != nil || parsedOrgID == 0 {
		return
	}

	ctx = orgcontext.WithOrgID(ctx, int64(parsedOrgID))
	actorIDStr := ""
	if actorID != nil {
		actorIDStr = *actorID
	}
	ctx = auditcontext.WithActor(ctx, actorType, actorIDStr)

	targetID := "capability"
	_ = s.auditSvc.Record(ctx, auditdomain.RecordRequest{
		Action:     "AUTHORIZATION_DENIED",
		TargetType: "authorization",
		TargetID:   &targetID,
		Metadata: map[string]any{
			"object": object,
			"action": action,
		},
	})
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		// Member permissions (read-only)
		{"role:member", ObjectCampaign, ActionCampaignView},
		{"role:member", ObjectLead, ActionLeadView},
		{"role:member", ObjectPackage, ActionPackageView},
		{"role:member", ObjectModule, ActionModuleView},
		{"role:member", ObjectSubscription, ActionSubscriptionView},
		{"role:member", ObjectOrganization, ActionOrganizationView},
		{"role:member", ObjectDashboard, ActionDashboardView},

		// Admin permissions
		{"role:admin", ObjectCampaign, ActionCampaignView},
		{"role:admin", ObjectCampaign, ActionCampaignCreate},
		{"role:admin", ObjectCampaign, ActionCampaignUpdate},
		{"role:admin", ObjectCampaign, ActionCampaignActivate},
		{"role:admin", ObjectCampaign, ActionCampaignPause},
		{"role:admin", ObjectCampaign, ActionCampaignComplete},
		{"role:admin", ObjectLead, ActionLeadView},
		{"role:admin", ObjectLead, ActionLeadUpdate},
		{"role:admin", ObjectPackage, ActionPackageView},
		{"role:admin", ObjectModule, ActionModuleView},
		{"role:admin", ObjectSubscription, ActionSubscriptionView},
		{"role:admin", ObjectSubscription, ActionSubscriptionCreate},
		{"role:admin", ObjectSubscription, ActionSubscriptionUpdate},
		{"role:admin", ObjectOrganization, ActionOrganizationView},
		{"role:admin", ObjectOrganization, ActionMemberAdd},
		{"role:admin", ObjectAuditLog, ActionAuditLogView},
		{"role:admin", ObjectDashboard, ActionDashboardView},

		// Owner permissions
		{"role:owner", ObjectCampaign, ActionCampaignView},
		{"role:owner", ObjectCampaign, ActionCampaignCreate},
		{"role:owner", ObjectCampaign, ActionCampaignUpdate},
		{"role:owner", ObjectCampaign, ActionCampaignActivate},
		{"role:owner", ObjectCampaign, ActionCampaignPause},
		{"role:owner", ObjectCampaign, ActionCampaignComplete},
		{"role:owner", ObjectLead, ActionLeadView},
		{"role:owner", ObjectLead, ActionLeadUpdate},
		{"role:owner", ObjectPackage, ActionPackageView},
		{"role:owner", ObjectModule, ActionModuleView},
		{"role:owner", ObjectSubscription, ActionSubscriptionView},
		{"role:owner", ObjectSubscription, ActionSubscriptionCreate},
		{"role:owner", ObjectSubscription, ActionSubscriptionUpdate},
		{"role:owner", ObjectSubscription, ActionSubscriptionCancel},
		{"role:owner", ObjectOrganization, ActionOrganizationView},
		{"role:owner", ObjectOrganization, ActionOrganizationManage},
		{"role:owner", ObjectOrganization, ActionMemberAdd},
		{"role:owner", ObjectAuditLog, ActionAuditLogView},
		{"role:owner", ObjectDashboard, ActionDashboardView},

		// System permissions (catalog administration, provider sync)
		{"role:system", ObjectModule, ActionModuleManage},
		{"role:system", ObjectModule, ActionModuleView},
		{"role:system", ObjectPackage, ActionPackageManage},
		{"role:system", ObjectPackage, ActionPackageView},
		{"role:system", ObjectSubscription, ActionSubscriptionView},
		{"role:system", ObjectSubscription, ActionSubscriptionCreate},
		{"role:system", ObjectSubscription, ActionSubscriptionUpdate},
		{"role:system", ObjectSubscription, ActionSubscriptionCancel},
	}

	for _, policy := range policies {
		if len(policy) < 3 {
			continue
		}
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
