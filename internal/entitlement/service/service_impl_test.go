package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/leadflowhq/leadflow/internal/catalog/domain"
	"github.com/leadflowhq/leadflow/internal/clock"
	entitlementdomain "github.com/leadflowhq/leadflow/internal/entitlement/domain"
	moduledomain "github.com/leadflowhq/leadflow/internal/module/domain"
	subscriptiondomain "github.com/leadflowhq/leadflow/internal/subscription/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testOrgID = snowflake.ID(1001)

type fakeSubscriptionRepo struct {
	subscriptiondomain.Repository

	links []subscriptiondomain.SubscriptionLink
}

func (f *fakeSubscriptionRepo) ListByOrgWithStatuses(_ context.Context, _ *gorm.DB, orgID snowflake.ID, statuses []subscriptiondomain.LinkStatus) ([]subscriptiondomain.SubscriptionLink, error) {
	wanted := make(map[subscriptiondomain.LinkStatus]struct{}, len(statuses))
	for _, status := range statuses {
		wanted[status] = struct{}{}
	}
	var out []subscriptiondomain.SubscriptionLink
	for _, link := range f.links {
		if link.OrgID != orgID {
			continue
		}
		if _, ok := wanted[link.Status]; !ok {
			continue
		}
		out = append(out, link)
	}
	return out, nil
}

type fakeCatalogRepo struct {
	catalogdomain.Repository

	packages []catalogdomain.Package
}

func (f *fakeCatalogRepo) FindByIDs(_ context.Context, _ *gorm.DB, ids []snowflake.ID) ([]catalogdomain.Package, error) {
	wanted := make(map[snowflake.ID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	var out []catalogdomain.Package
	for _, pkg := range f.packages {
		if _, ok := wanted[pkg.ID]; ok {
			out = append(out, pkg)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) ListFreeActive(_ context.Context, _ *gorm.DB) ([]catalogdomain.Package, error) {
	var out []catalogdomain.Package
	for _, pkg := range f.packages {
		if pkg.IsFree && pkg.IsActive {
			out = append(out, pkg)
		}
	}
	return out, nil
}

type fakeModuleRepo struct {
	moduledomain.Repository

	modules []moduledomain.Module
}

func (f *fakeModuleRepo) ListEnabled(_ context.Context, _ *gorm.DB) ([]moduledomain.Module, error) {
	var out []moduledomain.Module
	for _, module := range f.modules {
		if module.Enabled {
			out = append(out, module)
		}
	}
	return out, nil
}

type fixture struct {
	svc   entitlementdomain.Service
	clock *clock.FakeClock
	subs  *fakeSubscriptionRepo
	pkgs  *fakeCatalogRepo
	mods  *fakeModuleRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	fakeClock := clock.NewFakeClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	subs := &fakeSubscriptionRepo{}
	pkgs := &fakeCatalogRepo{}
	mods := &fakeModuleRepo{
		modules: []moduledomain.Module{
			{ID: 1, Slug: "campaigns", Enabled: true},
			{ID: 2, Slug: "leads", Enabled: true},
			{ID: 3, Slug: "reports", Enabled: true},
			{ID: 4, Slug: "automations", Enabled: false},
		},
	}

	svc := NewService(ServiceParam{
		Log:              zap.NewNop(),
		Clock:            fakeClock,
		SubscriptionRepo: subs,
		CatalogRepo:      pkgs,
		ModuleRepo:       mods,
	})
	return &fixture{svc: svc, clock: fakeClock, subs: subs, pkgs: pkgs, mods: mods}
}

func mustPackage(t *testing.T, id snowflake.ID, slug string, modules []string, opts ...func(*catalogdomain.Package)) catalogdomain.Package {
	t.Helper()

	encoded, err := catalogdomain.EncodeModuleSlugs(modules)
	require.NoError(t, err)
	pkg := catalogdomain.Package{
		ID:          id,
		Slug:        slug,
		Name:        slug,
		ModuleSlugs: encoded,
		IsActive:    true,
	}
	for _, opt := range opts {
		opt(&pkg)
	}
	return pkg
}

func asFree(pkg *catalogdomain.Package)   { pkg.IsFree = true }
func asBundle(pkg *catalogdomain.Package) { pkg.IsBundle = true }

func TestResolveActiveLinkGrantsPackageModules(t *testing.T) {
	f := newFixture(t)
	f.pkgs.packages = []catalogdomain.Package{
		mustPackage(t, 10, "growth", []string{"campaigns", "leads"}),
	}
	f.subs.links = []subscriptiondomain.SubscriptionLink{
		{ID: 100, OrgID: testOrgID, PackageID: 10, Status: subscriptiondomain.LinkStatusActive},
	}

	slugs, err := f.svc.ResolveAccessibleModules(context.Background(), testOrgID)
	require.NoError(t, err)
	assert.Equal(t, []string{"campaigns", "leads"}, slugs)
}

func TestResolveExcludesTerminalStatuses(t *testing.T) {
	f := newFixture(t)
	f.pkgs.packages = []catalogdomain.Package{
		mustPackage(t, 10, "growth", []string{"campaigns", "leads"}),
	}
	for _, status := range []subscriptiondomain.LinkStatus{
		subscriptiondomain.LinkStatusCanceled,
		subscriptiondomain.LinkStatusUnpaid,
		subscriptiondomain.LinkStatusIncomplete,
	} {
		f.subs.links = []subscriptiondomain.SubscriptionLink{
			{ID: 100, OrgID: testOrgID, PackageID: 10, Status: status},
		}

		slugs, err := f.svc.ResolveAccessibleModules(context.Background(), testOrgID)
		require.NoError(t, err)
		assert.Empty(t, slugs, "status %s must not grant access", status)
	}
}

func TestResolvePastDueInsideGraceWindow(t *testing.T) {
	f := newFixture(t)
	periodEnd := f.clock.Now().Add(-3 * 24 * time.Hour)
	f.pkgs.packages = []catalogdomain.Package{
		mustPackage(t, 10, "growth", []string{"campaigns"}),
	}
	f.subs.links = []subscriptiondomain.SubscriptionLink{
		{ID: 100, OrgID: testOrgID, PackageID: 10, Status: subscriptiondomain.LinkStatusPastDue, CurrentPeriodEnd: &periodEnd},
	}

	slugs, err := f.svc.ResolveAccessibleModules(context.Background(), testOrgID)
	require.NoError(t, err)
	assert.Equal(t, []string{"campaigns"}, slugs)

	// Crossing the grace boundary revokes access.
	f.clock.Advance(5 * 24 * time.Hour)
	slugs, err = f.svc.ResolveAccessibleModules(context.Background(), testOrgID)
	require.NoError(t, err)
	assert.Empty(t, slugs)
}

func TestResolvePastDueWithoutPeriodEndFailsOpen(t *testing.T) {
	f := newFixture(t)
	f.pkgs.packages = []catalogdomain.Package{
		mustPackage(t, 10, "growth", []string{"campaigns"}),
	}
	f.subs.links = []subscriptiondomain.SubscriptionLink{
		{ID: 100, OrgID: testOrgID, PackageID: 10, Status: subscriptiondomain.LinkStatusPastDue},
	}

	slugs, err := f.svc.ResolveAccessibleModules(context.Background(), testOrgID)
	require.NoError(t, err)
	assert.Equal(t, []string{"campaigns"}, slugs)
}

func TestResolveActiveLinkIgnoresExpiredPeriod(t *testing.T) {
	f := newFixture(t)
	periodEnd := f.clock.Now().Add(-30 * 24 * time.Hour)
	f.pkgs.packages = []catalogdomain.Package{
		mustPackage(t, 10, "growth", []string{"campaigns"}),
	}
	f.subs.links = []subscriptiondomain.SubscriptionLink{
		{ID: 100, OrgID: testOrgID, PackageID: 10, Status: subscriptiondomain.LinkStatusActive, CurrentPeriodEnd: &periodEnd},
		{ID: 101, OrgID: testOrgID, PackageID: 10, Status: subscriptiondomain.LinkStatusTrialing, CurrentPeriodEnd: &periodEnd},
	}

	slugs, err := f.svc.ResolveAccessibleModules(context.Background(), testOrgID)
	require.NoError(t, err)
	assert.Equal(t, []string{"campaigns"}, slugs)
}

func TestResolveAlwaysIncludesFreeTier(t *testing.T) {
	f := newFixture(t)
	f.pkgs.packages = []catalogdomain.Package{
		mustPackage(t, 10, "growth", []string{"campaigns"}),
		mustPackage(t, 20, "starter", []string{"leads"}, asFree),
	}
	f.subs.links = []subscriptiondomain.SubscriptionLink{
		{ID: 100, OrgID: testOrgID, PackageID: 10, Status: subscriptiondomain.LinkStatusActive},
	}

	slugs, err := f.svc.ResolveAccessibleModules(context.Background(), testOrgID)
	require.NoError(t, err)
	assert.Equal(t, []string{"campaigns", "leads"}, slugs)
}

func TestResolveFreeTierOnlyWhenNoLinks(t *testing.T) {
	f := newFixture(t)
	f.pkgs.packages = []catalogdomain.Package{
		mustPackage(t, 20, "starter", []string{"leads"}, asFree),
	}

	slugs, err := f.svc.ResolveAccessibleModules(context.Background(), testOrgID)
	require.NoError(t, err)
	assert.Equal(t, []string{"leads"}, slugs)
}

func TestResolveArchivedFreePackageNotIncluded(t *testing.T) {
	f := newFixture(t)
	archived := mustPackage(t, 20, "legacy-free", []string{"reports"}, asFree)
	archived.IsActive = false
	f.pkgs.packages = []catalogdomain.Package{archived}

	slugs, err := f.svc.ResolveAccessibleModules(context.Background(), testOrgID)
	require.NoError(t, err)
	assert.Empty(t, slugs)
}

func TestResolveBundleShortCircuitsToAllEnabledModules(t *testing.T) {
	f := newFixture(t)
	f.pkgs.packages = []catalogdomain.Package{
		mustPackage(t, 10, "everything", []string{"campaigns"}, asBundle),
		mustPackage(t, 20, "starter", []string{"leads"}, asFree),
	}
	f.subs.links = []subscriptiondomain.SubscriptionLink{
		{ID: 100, OrgID: testOrgID, PackageID: 10, Status: subscriptiondomain.LinkStatusActive},
	}

	slugs, err := f.svc.ResolveAccessibleModules(context.Background(), testOrgID)
	require.NoError(t, err)
	// All enabled modules, not the bundle's own list. Disabled modules
	// stay out.
	assert.Equal(t, []string{"campaigns", "leads", "reports"}, slugs)
}

func TestResolveNonBundlePathKeepsDisabledModuleSlugs(t *testing.T) {
	f := newFixture(t)
	f.pkgs.packages = []catalogdomain.Package{
		mustPackage(t, 10, "growth", []string{"campaigns", "automations"}),
	}
	f.subs.links = []subscriptiondomain.SubscriptionLink{
		{ID: 100, OrgID: testOrgID, PackageID: 10, Status: subscriptiondomain.LinkStatusActive},
	}

	slugs, err := f.svc.ResolveAccessibleModules(context.Background(), testOrgID)
	require.NoError(t, err)
	// The union path takes the package's list as-is. Only the bundle
	// path consults the module registry's enabled flag, so the disabled
	// "automations" slug still resolves here.
	assert.Equal(t, []string{"automations", "campaigns"}, slugs)
}

func TestResolveBundleOnInvalidLinkDoesNotShortCircuit(t *testing.T) {
	f := newFixture(t)
	periodEnd := f.clock.Now().Add(-30 * 24 * time.Hour)
	f.pkgs.packages = []catalogdomain.Package{
		mustPackage(t, 10, "everything", []string{}, asBundle),
		mustPackage(t, 11, "growth", []string{"campaigns"}),
	}
	f.subs.links = []subscriptiondomain.SubscriptionLink{
		{ID: 100, OrgID: testOrgID, PackageID: 10, Status: subscriptiondomain.LinkStatusPastDue, CurrentPeriodEnd: &periodEnd},
		{ID: 101, OrgID: testOrgID, PackageID: 11, Status: subscriptiondomain.LinkStatusActive},
	}

	slugs, err := f.svc.ResolveAccessibleModules(context.Background(), testOrgID)
	require.NoError(t, err)
	assert.Equal(t, []string{"campaigns"}, slugs)
}

func TestResolveEmptyIsValid(t *testing.T) {
	f := newFixture(t)

	slugs, err := f.svc.ResolveAccessibleModules(context.Background(), testOrgID)
	require.NoError(t, err)
	assert.Empty(t, slugs)
}

func TestResolveDeduplicatesAndSorts(t *testing.T) {
	f := newFixture(t)
	f.pkgs.packages = []catalogdomain.Package{
		mustPackage(t, 10, "growth", []string{"Leads", "campaigns"}),
		mustPackage(t, 11, "insight", []string{"reports", "campaigns"}),
		mustPackage(t, 20, "starter", []string{"leads"}, asFree),
	}
	f.subs.links = []subscriptiondomain.SubscriptionLink{
		{ID: 100, OrgID: testOrgID, PackageID: 10, Status: subscriptiondomain.LinkStatusActive},
		{ID: 101, OrgID: testOrgID, PackageID: 11, Status: subscriptiondomain.LinkStatusTrialing},
		{ID: 102, OrgID: testOrgID, PackageID: 10, Status: subscriptiondomain.LinkStatusActive},
	}

	slugs, err := f.svc.ResolveAccessibleModules(context.Background(), testOrgID)
	require.NoError(t, err)
	assert.Equal(t, []string{"campaigns", "leads", "reports"}, slugs)
}

func TestResolveIgnoresOtherOrgs(t *testing.T) {
	f := newFixture(t)
	f.pkgs.packages = []catalogdomain.Package{
		mustPackage(t, 10, "growth", []string{"campaigns"}),
	}
	f.subs.links = []subscriptiondomain.SubscriptionLink{
		{ID: 100, OrgID: testOrgID + 1, PackageID: 10, Status: subscriptiondomain.LinkStatusActive},
	}

	slugs, err := f.svc.ResolveAccessibleModules(context.Background(), testOrgID)
	require.NoError(t, err)
	assert.Empty(t, slugs)
}

func TestResolveRejectsZeroOrg(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ResolveAccessibleModules(context.Background(), 0)
	assert.ErrorIs(t, err, entitlementdomain.ErrInvalidOrganization)
}

func TestCanAccessModule(t *testing.T) {
	f := newFixture(t)
	f.pkgs.packages = []catalogdomain.Package{
		mustPackage(t, 10, "growth", []string{"campaigns"}),
	}
	f.subs.links = []subscriptiondomain.SubscriptionLink{
		{ID: 100, OrgID: testOrgID, PackageID: 10, Status: subscriptiondomain.LinkStatusActive},
	}

	ok, err := f.svc.CanAccessModule(context.Background(), testOrgID, "campaigns")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.svc.CanAccessModule(context.Background(), testOrgID, "CAMPAIGNS")
	require.NoError(t, err)
	assert.True(t, ok, "slug comparison is case-insensitive")

	ok, err = f.svc.CanAccessModule(context.Background(), testOrgID, "reports")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.svc.CanAccessModule(context.Background(), testOrgID, "")
	require.NoError(t, err)
	assert.False(t, ok)
}
