package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/leadflowhq/leadflow/internal/audit/domain"
	"github.com/leadflowhq/leadflow/internal/auditcontext"
	"github.com/leadflowhq/leadflow/internal/clock"
	"github.com/leadflowhq/leadflow/internal/orgcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testOrgID = snowflake.ID(3003)

type fakeAuditRepo struct {
	auditdomain.Repository

	entries []auditdomain.AuditLog
}

func (f *fakeAuditRepo) Insert(_ context.Context, _ *gorm.DB, entry *auditdomain.AuditLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) ListRecent(_ context.Context, _ *gorm.DB, orgID snowflake.ID, limit int) ([]auditdomain.AuditLog, error) {
	var out []auditdomain.AuditLog
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if f.entries[i].OrgID == orgID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

func newFixture(t *testing.T) (auditdomain.Service, *fakeAuditRepo, *clock.FakeClock) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fakeClock := clock.NewFakeClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	repo := &fakeAuditRepo{}
	svc := NewService(ServiceParam{
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fakeClock,
		Repo:  repo,
	})
	return svc, repo, fakeClock
}

func orgCtx() context.Context {
	return orgcontext.WithOrgID(context.Background(), int64(testOrgID))
}

func TestRecordCapturesContextAttribution(t *testing.T) {
	svc, repo, fakeClock := newFixture(t)

	ctx := orgCtx()
	ctx = auditcontext.WithActor(ctx, "user", "42")
	ctx = auditcontext.WithIPAddress(ctx, "203.0.113.9")
	ctx = auditcontext.WithUserAgent(ctx, "curl/8.0")
	ctx = auditcontext.WithRequestID(ctx, "req-123")

	targetID := "77"
	err := svc.Record(ctx, auditdomain.RecordRequest{
		Action:      auditdomain.ActionCampaignCreated,
		TargetType:  "campaign",
		TargetID:    &targetID,
		TargetLabel: "Black Friday",
	})
	require.NoError(t, err)

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, testOrgID, entry.OrgID)
	assert.Equal(t, "user", entry.ActorType)
	require.NotNil(t, entry.ActorID)
	assert.Equal(t, "42", *entry.ActorID)
	assert.Equal(t, "203.0.113.9", entry.IPAddress)
	assert.Equal(t, "curl/8.0", entry.UserAgent)
	assert.Equal(t, "req-123", entry.RequestID)
	assert.Equal(t, fakeClock.Now(), entry.CreatedAt)
}

func TestRecordDefaultsToSystemActor(t *testing.T) {
	svc, repo, _ := newFixture(t)

	err := svc.Record(orgCtx(), auditdomain.RecordRequest{
		Action: auditdomain.ActionMemberAdded,
	})
	require.NoError(t, err)

	require.Len(t, repo.entries, 1)
	assert.Equal(t, "system", repo.entries[0].ActorType)
	assert.Nil(t, repo.entries[0].ActorID)
}

func TestRecordRequiresOrganization(t *testing.T) {
	svc, _, _ := newFixture(t)

	err := svc.Record(context.Background(), auditdomain.RecordRequest{
		Action: auditdomain.ActionCampaignCreated,
	})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidOrganization)
}

func TestRecordRejectsBlankAction(t *testing.T) {
	svc, _, _ := newFixture(t)

	err := svc.Record(orgCtx(), auditdomain.RecordRequest{Action: "   "})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidAction)
}

func TestListRecentUsesDefaultLimit(t *testing.T) {
	svc, repo, fakeClock := newFixture(t)

	for i := 0; i < 30; i++ {
		repo.entries = append(repo.entries, auditdomain.AuditLog{
			ID:        snowflake.ID(i + 1),
			OrgID:     testOrgID,
			Action:    auditdomain.ActionLeadCreated,
			CreatedAt: fakeClock.Now().Add(time.Duration(i) * time.Minute),
		})
	}

	entries, err := svc.ListRecent(orgCtx(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, defaultPageSize)
}
