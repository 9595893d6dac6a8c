package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/leadflowhq/leadflow/internal/catalog/domain"
	"github.com/leadflowhq/leadflow/internal/clock"
	"github.com/leadflowhq/leadflow/internal/orgcontext"
	subscriptiondomain "github.com/leadflowhq/leadflow/internal/subscription/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testOrgID = snowflake.ID(2002)

type fakeLinkRepo struct {
	subscriptiondomain.Repository

	links map[snowflake.ID]*subscriptiondomain.SubscriptionLink
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: map[snowflake.ID]*subscriptiondomain.SubscriptionLink{}}
}

func (f *fakeLinkRepo) Insert(_ context.Context, _ *gorm.DB, link *subscriptiondomain.SubscriptionLink) error {
	copied := *link
	f.links[link.ID] = &copied
	return nil
}

func (f *fakeLinkRepo) FindByID(_ context.Context, _ *gorm.DB, orgID, id snowflake.ID) (*subscriptiondomain.SubscriptionLink, error) {
	link, ok := f.links[id]
	if !ok || link.OrgID != orgID {
		return nil, nil
	}
	copied := *link
	return &copied, nil
}

func (f *fakeLinkRepo) ListByOrg(_ context.Context, _ *gorm.DB, orgID snowflake.ID) ([]subscriptiondomain.SubscriptionLink, error) {
	var out []subscriptiondomain.SubscriptionLink
	for _, link := range f.links {
		if link.OrgID == orgID {
			out = append(out, *link)
		}
	}
	return out, nil
}

func (f *fakeLinkRepo) UpdateStatus(_ context.Context, _ *gorm.DB, orgID, id snowflake.ID, status subscriptiondomain.LinkStatus, currentPeriodEnd *time.Time, at time.Time) error {
	link, ok := f.links[id]
	if !ok || link.OrgID != orgID {
		return nil
	}
	link.Status = status
	link.CurrentPeriodEnd = currentPeriodEnd
	link.UpdatedAt = at
	return nil
}

func (f *fakeLinkRepo) SetCancelAtPeriodEnd(_ context.Context, _ *gorm.DB, orgID, id snowflake.ID, cancel bool, at time.Time) error {
	link, ok := f.links[id]
	if !ok || link.OrgID != orgID {
		return nil
	}
	link.CancelAtPeriodEnd = cancel
	link.UpdatedAt = at
	return nil
}

type fakeCatalogRepo struct {
	catalogdomain.Repository

	packages map[snowflake.ID]*catalogdomain.Package
}

func (f *fakeCatalogRepo) FindByID(_ context.Context, _ *gorm.DB, id snowflake.ID) (*catalogdomain.Package, error) {
	pkg, ok := f.packages[id]
	if !ok {
		return nil, nil
	}
	copied := *pkg
	return &copied, nil
}

type fixture struct {
	svc   subscriptiondomain.Service
	repo  *fakeLinkRepo
	pkgs  *fakeCatalogRepo
	clock *clock.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fakeClock := clock.NewFakeClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	repo := newFakeLinkRepo()
	pkgs := &fakeCatalogRepo{packages: map[snowflake.ID]*catalogdomain.Package{
		10: {ID: 10, Slug: "growth", Name: "Growth", IsActive: true},
		20: {ID: 20, Slug: "legacy", Name: "Legacy", IsActive: false},
	}}

	svc := NewService(ServiceParam{
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       fakeClock,
		Repo:        repo,
		CatalogRepo: pkgs,
	})
	return &fixture{svc: svc, repo: repo, pkgs: pkgs, clock: fakeClock}
}

func orgCtx() context.Context {
	return orgcontext.WithOrgID(context.Background(), int64(testOrgID))
}

func TestCreateDefaultsToIncomplete(t *testing.T) {
	f := newFixture(t)

	link, err := f.svc.Create(orgCtx(), subscriptiondomain.CreateLinkRequest{
		PackageID: snowflake.ID(10).String(),
	})
	require.NoError(t, err)

	assert.Equal(t, subscriptiondomain.LinkStatusIncomplete, link.Status)
	assert.Equal(t, testOrgID.String(), link.OrganizationID)
}

func TestCreateRejectsArchivedPackage(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(orgCtx(), subscriptiondomain.CreateLinkRequest{
		PackageID: snowflake.ID(20).String(),
		Status:    subscriptiondomain.LinkStatusActive,
	})
	assert.ErrorIs(t, err, subscriptiondomain.ErrPackageArchived)
}

func TestCreateRejectsUnknownPackage(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(orgCtx(), subscriptiondomain.CreateLinkRequest{
		PackageID: snowflake.ID(999).String(),
	})
	assert.ErrorIs(t, err, subscriptiondomain.ErrInvalidPackage)
}

func TestCreateRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(orgCtx(), subscriptiondomain.CreateLinkRequest{
		PackageID: snowflake.ID(10).String(),
		Status:    subscriptiondomain.LinkStatus("suspended"),
	})
	assert.ErrorIs(t, err, subscriptiondomain.ErrInvalidStatus)
}

func TestCreateRequiresOrganization(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), subscriptiondomain.CreateLinkRequest{
		PackageID: snowflake.ID(10).String(),
	})
	assert.ErrorIs(t, err, subscriptiondomain.ErrInvalidOrganization)
}

func TestUpdateStatusKeepsPeriodEndWhenOmitted(t *testing.T) {
	f := newFixture(t)
	periodEnd := f.clock.Now().Add(30 * 24 * time.Hour)

	created, err := f.svc.Create(orgCtx(), subscriptiondomain.CreateLinkRequest{
		PackageID:        snowflake.ID(10).String(),
		Status:           subscriptiondomain.LinkStatusTrialing,
		CurrentPeriodEnd: &periodEnd,
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(orgCtx(), subscriptiondomain.UpdateLinkStatusRequest{
		ID:     created.ID,
		Status: subscriptiondomain.LinkStatusActive,
	})
	require.NoError(t, err)

	assert.Equal(t, subscriptiondomain.LinkStatusActive, updated.Status)
	require.NotNil(t, updated.CurrentPeriodEnd)
	assert.True(t, periodEnd.Equal(*updated.CurrentPeriodEnd))
}

func TestUpdateStatusUnknownLink(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateStatus(orgCtx(), subscriptiondomain.UpdateLinkStatusRequest{
		ID:     snowflake.ID(555).String(),
		Status: subscriptiondomain.LinkStatusActive,
	})
	assert.ErrorIs(t, err, subscriptiondomain.ErrLinkNotFound)
}

func TestUpdateStatusScopedToOrganization(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(orgCtx(), subscriptiondomain.CreateLinkRequest{
		PackageID: snowflake.ID(10).String(),
		Status:    subscriptiondomain.LinkStatusActive,
	})
	require.NoError(t, err)

	otherOrg := orgcontext.WithOrgID(context.Background(), int64(testOrgID)+1)
	_, err = f.svc.UpdateStatus(otherOrg, subscriptiondomain.UpdateLinkStatusRequest{
		ID:     created.ID,
		Status: subscriptiondomain.LinkStatusCanceled,
	})
	assert.ErrorIs(t, err, subscriptiondomain.ErrLinkNotFound)
}

func TestSetCancelAtPeriodEnd(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(orgCtx(), subscriptiondomain.CreateLinkRequest{
		PackageID: snowflake.ID(10).String(),
		Status:    subscriptiondomain.LinkStatusActive,
	})
	require.NoError(t, err)

	updated, err := f.svc.SetCancelAtPeriodEnd(orgCtx(), created.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.CancelAtPeriodEnd)
}
