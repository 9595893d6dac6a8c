package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/leadflowhq/leadflow/internal/activity/domain"
	auditdomain "github.com/leadflowhq/leadflow/internal/audit/domain"
	campaigndomain "github.com/leadflowhq/leadflow/internal/campaign/domain"
	"github.com/leadflowhq/leadflow/internal/clock"
	"github.com/leadflowhq/leadflow/internal/config"
	"github.com/leadflowhq/leadflow/internal/observability/metrics"
	"github.com/leadflowhq/leadflow/internal/orgcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// freshCampaignWindow is how recently a campaign must have been created
// for the fallback to present it as a creation event.
const freshCampaignWindow = 48 * time.Hour

type actionMapping struct {
	entryType string
	title     string
}

// actionTaxonomy translates audit action codes to feed entries. The
// feed copy is Portuguese, matching the dashboard locale.
var actionTaxonomy = map[string]actionMapping{
	auditdomain.ActionCampaignCreated:           {"campaign_created", "Nova campanha criada"},
	auditdomain.ActionCampaignUpdated:           {"campaign_updated", "Campanha atualizada"},
	auditdomain.ActionCampaignActivated:         {"campaign_activated", "Campanha ativada"},
	auditdomain.ActionCampaignPaused:            {"campaign_paused", "Campanha pausada"},
	auditdomain.ActionCampaignCompleted:         {"campaign_completed", "Campanha concluída"},
	auditdomain.ActionLeadCreated:               {"lead_created", "Novo lead capturado"},
	auditdomain.ActionLeadStatusChanged:         {"lead_status_changed", "Status do lead atualizado"},
	auditdomain.ActionPackageSubscribed:         {"package_subscribed", "Nova assinatura de pacote"},
	auditdomain.ActionSubscriptionStatusChanged: {"subscription_status_changed", "Status da assinatura atualizado"},
	auditdomain.ActionMemberAdded:               {"member_added", "Novo membro adicionado"},
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	clock        clock.Clock
	holder       *config.DashboardConfigHolder
	auditRepo    auditdomain.Repository
	campaignRepo campaigndomain.Repository
	metrics      *metrics.Metrics
}

type ServiceParam struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Clock        clock.Clock
	Holder       *config.DashboardConfigHolder
	AuditRepo    auditdomain.Repository
	CampaignRepo campaigndomain.Repository
	Metrics      *metrics.Metrics `optional:"true"`
}

func NewService(p ServiceParam) activitydomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("activity.service"),

		clock:        p.Clock,
		holder:       p.Holder,
		auditRepo:    p.AuditRepo,
		campaignRepo: p.CampaignRepo,
		metrics:      p.Metrics,
	}
}

func (s *Service) RecentActivity(ctx context.Context, limit int) ([]activitydomain.ActivityEntry, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, activitydomain.ErrInvalidOrganization
	}

	cfg := s.holder.Get()
	if limit <= 0 {
		limit = cfg.DefaultLimit
	}

	events, err := s.auditRepo.ListRecent(ctx, s.db, orgID, cfg.AuditFetchLimit)
	if err != nil {
		return nil, err
	}

	entries := make([]activitydomain.ActivityEntry, 0, len(events))
	seenTargets := make(map[string]struct{}, len(events))
	for i := range events {
		entry := mapAuditEvent(&events[i])
		entries = append(entries, entry)
		if events[i].TargetID != nil {
			seenTargets[*events[i].TargetID] = struct{}{}
		}
	}

	fallbackUsed := false
	if len(entries) < cfg.SparseThreshold {
		fallback, err := s.campaignFallback(ctx, orgID, cfg.AuditFetchLimit, seenTargets)
		if err != nil {
			return nil, err
		}
		if len(fallback) > 0 {
			fallbackUsed = true
			entries = append(entries, fallback...)
		}
	}

	sortEntries(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}

	if s.metrics != nil {
		s.metrics.RecordActivityProjection(ctx, fallbackUsed)
	}
	return entries, nil
}

// mapAuditEvent never drops an event. Unknown action codes become a
// generic entry so new actions show up in the feed before the taxonomy
// learns about them.
func mapAuditEvent(event *auditdomain.AuditLog) activitydomain.ActivityEntry {
	entry := activitydomain.ActivityEntry{
		ID:          event.ID.String(),
		Description: event.TargetLabel,
		Timestamp:   event.CreatedAt,
	}

	if mapping, ok := actionTaxonomy[event.Action]; ok {
		entry.Type = mapping.entryType
		entry.Title = mapping.title
	} else {
		entry.Type = strings.ToLower(event.Action)
		entry.Title = "Atividade registrada"
		if entry.Description == "" {
			entry.Description = event.Action
		}
	}

	if platform, ok := event.Metadata["platform"].(string); ok {
		entry.Platform = platform
	}
	return entry
}

func (s *Service) campaignFallback(ctx context.Context, orgID snowflake.ID, fetchLimit int, seenTargets map[string]struct{}) ([]activitydomain.ActivityEntry, error) {
	campaigns, err := s.campaignRepo.ListRecentlyUpdated(ctx, s.db, orgID, fetchLimit)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	entries := make([]activitydomain.ActivityEntry, 0, len(campaigns))
	for i := range campaigns {
		campaign := &campaigns[i]
		if _, ok := seenTargets[campaign.ID.String()]; ok {
			continue
		}
		entries = append(entries, synthesizeCampaignEntry(campaign, now))
	}
	return entries, nil
}

func synthesizeCampaignEntry(campaign *campaigndomain.Campaign, now time.Time) activitydomain.ActivityEntry {
	entry := activitydomain.ActivityEntry{
		ID:          campaign.ID.String(),
		Description: campaign.Name,
		Platform:    string(campaign.Platform),
		Timestamp:   campaign.UpdatedAt,
	}

	if campaign.CreatedAt.Equal(campaign.UpdatedAt) && now.Sub(campaign.CreatedAt) <= freshCampaignWindow {
		entry.Type = "campaign_created"
		entry.Title = "Nova campanha criada"
		return entry
	}

	switch campaign.Status {
	case campaigndomain.StatusActive:
		entry.Type = "campaign_activated"
		entry.Title = "Campanha ativada"
	case campaigndomain.StatusPaused:
		entry.Type = "campaign_paused"
		entry.Title = "Campanha pausada"
	case campaigndomain.StatusCompleted:
		entry.Type = "campaign_completed"
		entry.Title = "Campanha concluída"
	default:
		entry.Type = "campaign_updated"
		entry.Title = "Campanha atualizada"
	}
	return entry
}

// sortEntries orders newest first. IDs are snowflakes, so the string
// comparison on equal timestamps keeps the order deterministic.
func sortEntries(entries []activitydomain.ActivityEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Timestamp.After(entries[j].Timestamp)
		}
		return entries[i].ID > entries[j].ID
	})
}
