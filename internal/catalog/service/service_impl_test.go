package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/leadflowhq/leadflow/internal/catalog/domain"
	"github.com/leadflowhq/leadflow/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakePackageRepo struct {
	catalogdomain.Repository

	packages map[snowflake.ID]*catalogdomain.Package
	inserted []*catalogdomain.Package
}

func newFakePackageRepo() *fakePackageRepo {
	return &fakePackageRepo{packages: map[snowflake.ID]*catalogdomain.Package{}}
}

func (f *fakePackageRepo) Insert(_ context.Context, _ *gorm.DB, pkg *catalogdomain.Package) error {
	copied := *pkg
	f.packages[pkg.ID] = &copied
	f.inserted = append(f.inserted, &copied)
	return nil
}

func (f *fakePackageRepo) Update(_ context.Context, _ *gorm.DB, pkg *catalogdomain.Package) error {
	copied := *pkg
	f.packages[pkg.ID] = &copied
	return nil
}

func (f *fakePackageRepo) FindByID(_ context.Context, _ *gorm.DB, id snowflake.ID) (*catalogdomain.Package, error) {
	pkg, ok := f.packages[id]
	if !ok {
		return nil, nil
	}
	copied := *pkg
	return &copied, nil
}

type fixture struct {
	svc  catalogdomain.Service
	repo *fakePackageRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo := newFakePackageRepo()
	svc := NewService(ServiceParam{
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)),
		Repo:  repo,
	})
	return &fixture{svc: svc, repo: repo}
}

func TestCreateNormalizesModuleSlugs(t *testing.T) {
	f := newFixture(t)

	pkg, err := f.svc.Create(context.Background(), catalogdomain.CreatePackageRequest{
		Name:        "Growth Plan",
		ModuleSlugs: []string{" Campaigns ", "leads", "LEADS", ""},
	})
	require.NoError(t, err)

	assert.Equal(t, "growth-plan", pkg.Slug)
	assert.Equal(t, []string{"campaigns", "leads"}, pkg.ModuleSlugs)
	assert.True(t, pkg.IsActive)
}

func TestCreateRejectsEmptyName(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), catalogdomain.CreatePackageRequest{Name: "   "})
	assert.ErrorIs(t, err, catalogdomain.ErrInvalidName)
}

func TestUpdateArchivedPackageRejected(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(context.Background(), catalogdomain.CreatePackageRequest{Name: "Legacy"})
	require.NoError(t, err)

	_, err = f.svc.Archive(context.Background(), created.ID)
	require.NoError(t, err)

	name := "Renamed"
	_, err = f.svc.Update(context.Background(), catalogdomain.UpdatePackageRequest{ID: created.ID, Name: &name})
	assert.ErrorIs(t, err, catalogdomain.ErrArchived)
}

func TestArchiveFlipsActiveOff(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(context.Background(), catalogdomain.CreatePackageRequest{Name: "Starter", IsFree: true})
	require.NoError(t, err)

	archived, err := f.svc.Archive(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, archived.IsActive)
	assert.True(t, archived.IsFree)
}

func TestGetByIDUnknownReturnsNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetByID(context.Background(), snowflake.ID(424242).String())
	assert.ErrorIs(t, err, catalogdomain.ErrNotFound)
}

func TestGetByIDRejectsMalformedID(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetByID(context.Background(), "not-a-number")
	assert.ErrorIs(t, err, catalogdomain.ErrInvalidID)
}
