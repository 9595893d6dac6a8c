package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/leadflowhq/leadflow/internal/activity/domain"
	auditdomain "github.com/leadflowhq/leadflow/internal/audit/domain"
	campaigndomain "github.com/leadflowhq/leadflow/internal/campaign/domain"
	"github.com/leadflowhq/leadflow/internal/clock"
	"github.com/leadflowhq/leadflow/internal/config"
	"github.com/leadflowhq/leadflow/internal/orgcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const testOrgID = snowflake.ID(2002)

type fakeAuditRepo struct {
	auditdomain.Repository

	events []auditdomain.AuditLog
}

func (f *fakeAuditRepo) ListRecent(_ context.Context, _ *gorm.DB, orgID snowflake.ID, limit int) ([]auditdomain.AuditLog, error) {
	var out []auditdomain.AuditLog
	for _, event := range f.events {
		if event.OrgID != orgID {
			continue
		}
		out = append(out, event)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeCampaignRepo struct {
	campaigndomain.Repository

	campaigns []campaigndomain.Campaign
	err       error
}

func (f *fakeCampaignRepo) ListRecentlyUpdated(_ context.Context, _ *gorm.DB, orgID snowflake.ID, limit int) ([]campaigndomain.Campaign, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []campaigndomain.Campaign
	for _, campaign := range f.campaigns {
		if campaign.OrgID != orgID {
			continue
		}
		out = append(out, campaign)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fixture struct {
	svc       activitydomain.Service
	clock     *clock.FakeClock
	audits    *fakeAuditRepo
	campaigns *fakeCampaignRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	fakeClock := clock.NewFakeClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	audits := &fakeAuditRepo{}
	campaigns := &fakeCampaignRepo{}

	svc := NewService(ServiceParam{
		Log:          zap.NewNop(),
		Clock:        fakeClock,
		Holder:       config.NewStaticDashboardConfigHolder(config.DefaultDashboardConfig()),
		AuditRepo:    audits,
		CampaignRepo: campaigns,
	})
	return &fixture{svc: svc, clock: fakeClock, audits: audits, campaigns: campaigns}
}

func orgCtx() context.Context {
	return orgcontext.WithOrgID(context.Background(), int64(testOrgID))
}

func auditEvent(id snowflake.ID, action, label string, at time.Time) auditdomain.AuditLog {
	target := id.String()
	return auditdomain.AuditLog{
		ID:          id,
		OrgID:       testOrgID,
		Action:      action,
		TargetType:  "campaign",
		TargetID:    &target,
		TargetLabel: label,
		CreatedAt:   at,
	}
}

func TestRecentActivityMapsKnownActions(t *testing.T) {
	f := newFixture(t)
	now := f.clock.Now()
	f.audits.events = []auditdomain.AuditLog{
		auditEvent(5, auditdomain.ActionCampaignCreated, "Promo Inverno", now),
		auditEvent(4, auditdomain.ActionLeadCreated, "Maria Silva", now.Add(-time.Minute)),
		auditEvent(3, auditdomain.ActionCampaignPaused, "Black Friday", now.Add(-2*time.Minute)),
		auditEvent(2, auditdomain.ActionPackageSubscribed, "Growth", now.Add(-3*time.Minute)),
		auditEvent(1, auditdomain.ActionLeadStatusChanged, "João Souza", now.Add(-4*time.Minute)),
	}

	entries, err := f.svc.RecentActivity(orgCtx(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	assert.Equal(t, "campaign_created", entries[0].Type)
	assert.Equal(t, "Nova campanha criada", entries[0].Title)
	assert.Equal(t, "Promo Inverno", entries[0].Description)

	assert.Equal(t, "lead_created", entries[1].Type)
	assert.Equal(t, "Novo lead capturado", entries[1].Title)

	assert.Equal(t, "campaign_paused", entries[2].Type)
	assert.Equal(t, "Campanha pausada", entries[2].Title)

	assert.Equal(t, "package_subscribed", entries[3].Type)
	assert.Equal(t, "Nova assinatura de pacote", entries[3].Title)

	assert.Equal(t, "lead_status_changed", entries[4].Type)
	assert.Equal(t, "Status do lead atualizado", entries[4].Title)
}

func TestRecentActivityUnknownActionsNeverDropped(t *testing.T) {
	f := newFixture(t)
	now := f.clock.Now()
	f.audits.events = []auditdomain.AuditLog{
		auditEvent(6, "WEBHOOK_REPLAYED", "", now),
		auditEvent(5, auditdomain.ActionCampaignCreated, "Promo", now.Add(-time.Minute)),
		auditEvent(4, "EXPORT_REQUESTED", "Relatório mensal", now.Add(-2*time.Minute)),
		auditEvent(3, auditdomain.ActionLeadCreated, "Ana", now.Add(-3*time.Minute)),
		auditEvent(2, auditdomain.ActionLeadCreated, "Bia", now.Add(-4*time.Minute)),
	}

	entries, err := f.svc.RecentActivity(orgCtx(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	assert.Equal(t, "webhook_replayed", entries[0].Type)
	assert.Equal(t, "Atividade registrada", entries[0].Title)
	assert.Equal(t, "WEBHOOK_REPLAYED", entries[0].Description, "label-less events fall back to the raw action")

	assert.Equal(t, "export_requested", entries[2].Type)
	assert.Equal(t, "Relatório mensal", entries[2].Description)
}

func TestRecentActivityPlatformFromMetadata(t *testing.T) {
	f := newFixture(t)
	event := auditEvent(7, auditdomain.ActionCampaignActivated, "Promo", f.clock.Now())
	event.Metadata = datatypes.JSONMap{"platform": "meta", "status": "active"}
	f.audits.events = []auditdomain.AuditLog{event}
	f.campaigns.campaigns = nil

	entries, err := f.svc.RecentActivity(orgCtx(), 10)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "meta", entries[0].Platform)
}

func TestRecentActivitySparseFallbackSynthesizesCampaigns(t *testing.T) {
	f := newFixture(t)
	now := f.clock.Now()
	f.audits.events = []auditdomain.AuditLog{
		auditEvent(9, auditdomain.ActionLeadCreated, "Carlos", now),
	}
	f.campaigns.campaigns = []campaigndomain.Campaign{
		{
			ID: 20, OrgID: testOrgID, Name: "Lançamento", Platform: campaigndomain.PlatformGoogle,
			Status:    campaigndomain.StatusDraft,
			CreatedAt: now.Add(-time.Hour), UpdatedAt: now.Add(-time.Hour),
		},
		{
			ID: 21, OrgID: testOrgID, Name: "Remarketing", Platform: campaigndomain.PlatformMeta,
			Status:    campaigndomain.StatusActive,
			CreatedAt: now.Add(-90 * 24 * time.Hour), UpdatedAt: now.Add(-2 * time.Hour),
		},
		{
			ID: 22, OrgID: testOrgID, Name: "Institucional", Platform: campaigndomain.PlatformLinkedIn,
			Status:    campaigndomain.StatusCompleted,
			CreatedAt: now.Add(-90 * 24 * time.Hour), UpdatedAt: now.Add(-3 * time.Hour),
		},
	}

	entries, err := f.svc.RecentActivity(orgCtx(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, "lead_created", entries[0].Type)

	// Created and never touched since, within the fresh window.
	assert.Equal(t, "campaign_created", entries[1].Type)
	assert.Equal(t, "Nova campanha criada", entries[1].Title)
	assert.Equal(t, "Lançamento", entries[1].Description)
	assert.Equal(t, "google", entries[1].Platform)

	assert.Equal(t, "campaign_activated", entries[2].Type)
	assert.Equal(t, "campaign_completed", entries[3].Type)
}

func TestRecentActivityFallbackSkipsCampaignsAlreadyInAudit(t *testing.T) {
	f := newFixture(t)
	now := f.clock.Now()
	f.audits.events = []auditdomain.AuditLog{
		auditEvent(20, auditdomain.ActionCampaignCreated, "Lançamento", now),
	}
	f.campaigns.campaigns = []campaigndomain.Campaign{
		{
			ID: 20, OrgID: testOrgID, Name: "Lançamento", Platform: campaigndomain.PlatformGoogle,
			Status:    campaigndomain.StatusDraft,
			CreatedAt: now.Add(-time.Hour), UpdatedAt: now.Add(-time.Hour),
		},
		{
			ID: 21, OrgID: testOrgID, Name: "Remarketing", Platform: campaigndomain.PlatformMeta,
			Status:    campaigndomain.StatusPaused,
			CreatedAt: now.Add(-90 * 24 * time.Hour), UpdatedAt: now.Add(-2 * time.Hour),
		},
	}

	entries, err := f.svc.RecentActivity(orgCtx(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "campaign_created", entries[0].Type)
	assert.Equal(t, "campaign_paused", entries[1].Type)
	assert.Equal(t, "Remarketing", entries[1].Description)
}

func TestRecentActivityFallbackReadFailurePropagates(t *testing.T) {
	f := newFixture(t)
	f.audits.events = []auditdomain.AuditLog{
		auditEvent(9, auditdomain.ActionLeadCreated, "Carlos", f.clock.Now()),
	}
	f.campaigns.err = errors.New("store unavailable")

	_, err := f.svc.RecentActivity(orgCtx(), 10)
	assert.ErrorContains(t, err, "store unavailable")
}

func TestRecentActivityNoFallbackWhenAuditIsRich(t *testing.T) {
	f := newFixture(t)
	now := f.clock.Now()
	for i := 0; i < 6; i++ {
		f.audits.events = append(f.audits.events,
			auditEvent(snowflake.ID(100-i), auditdomain.ActionLeadCreated, "Lead", now.Add(-time.Duration(i)*time.Minute)))
	}
	f.campaigns.campaigns = []campaigndomain.Campaign{
		{ID: 30, OrgID: testOrgID, Name: "Não deve aparecer", Status: campaigndomain.StatusActive,
			CreatedAt: now.Add(-time.Hour), UpdatedAt: now},
	}

	entries, err := f.svc.RecentActivity(orgCtx(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 6)
	for _, entry := range entries {
		assert.Equal(t, "lead_created", entry.Type)
	}
}

func TestRecentActivityOrderingAndLimit(t *testing.T) {
	f := newFixture(t)
	now := f.clock.Now()
	tie := now.Add(-time.Minute)
	f.audits.events = []auditdomain.AuditLog{
		auditEvent(50, auditdomain.ActionLeadCreated, "a", now.Add(-2*time.Minute)),
		auditEvent(52, auditdomain.ActionLeadCreated, "b", tie),
		auditEvent(51, auditdomain.ActionLeadCreated, "c", tie),
		auditEvent(53, auditdomain.ActionLeadCreated, "d", now),
		auditEvent(49, auditdomain.ActionLeadCreated, "e", now.Add(-3*time.Minute)),
		auditEvent(48, auditdomain.ActionLeadCreated, "f", now.Add(-4*time.Minute)),
	}

	entries, err := f.svc.RecentActivity(orgCtx(), 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "53", entries[0].ID)
	// Equal timestamps break the tie by ID, newest snowflake first.
	assert.Equal(t, "52", entries[1].ID)
	assert.Equal(t, "51", entries[2].ID)
}

func TestRecentActivityDefaultLimit(t *testing.T) {
	f := newFixture(t)
	now := f.clock.Now()
	for i := 0; i < 15; i++ {
		f.audits.events = append(f.audits.events,
			auditEvent(snowflake.ID(200-i), auditdomain.ActionLeadCreated, "Lead", now.Add(-time.Duration(i)*time.Minute)))
	}

	entries, err := f.svc.RecentActivity(orgCtx(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, config.DefaultDashboardConfig().DefaultLimit)
}

func TestRecentActivityRequiresOrganization(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RecentActivity(context.Background(), 10)
	assert.ErrorIs(t, err, activitydomain.ErrInvalidOrganization)
}

func TestRecentActivityEmptyFeed(t *testing.T) {
	f := newFixture(t)

	entries, err := f.svc.RecentActivity(orgCtx(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
