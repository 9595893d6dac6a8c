package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	leaddomain "github.com/leadflowhq/leadflow/internal/lead/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testOrgID = snowflake.ID(4004)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&leaddomain.Lead{}))
	return db
}

func seedLead(t *testing.T, db *gorm.DB, id snowflake.ID, orgID snowflake.ID, campaignID *snowflake.ID, status leaddomain.Status, createdAt time.Time) {
	t.Helper()

	repo := Provide()
	err := repo.Insert(context.Background(), db, &leaddomain.Lead{
		ID:         id,
		OrgID:      orgID,
		CampaignID: campaignID,
		Name:       fmt.Sprintf("Lead %d", id),
		Email:      fmt.Sprintf("lead%d@example.com", id),
		Status:     status,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	})
	require.NoError(t, err)
}

func TestListOrdersNewestFirst(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	seedLead(t, db, 1, testOrgID, nil, leaddomain.StatusNew, base)
	seedLead(t, db, 2, testOrgID, nil, leaddomain.StatusNew, base.Add(time.Minute))
	seedLead(t, db, 3, testOrgID, nil, leaddomain.StatusNew, base.Add(2*time.Minute))

	leads, err := Provide().List(context.Background(), db, testOrgID, leaddomain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, leads, 3)
	assert.Equal(t, snowflake.ID(3), leads[0].ID)
	assert.Equal(t, snowflake.ID(1), leads[2].ID)
}

func TestListFiltersByCampaignAndStatus(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	campaignID := snowflake.ID(77)

	seedLead(t, db, 1, testOrgID, &campaignID, leaddomain.StatusNew, base)
	seedLead(t, db, 2, testOrgID, &campaignID, leaddomain.StatusQualified, base.Add(time.Minute))
	seedLead(t, db, 3, testOrgID, nil, leaddomain.StatusNew, base.Add(2*time.Minute))

	leads, err := Provide().List(context.Background(), db, testOrgID, leaddomain.ListFilter{CampaignID: &campaignID})
	require.NoError(t, err)
	assert.Len(t, leads, 2)

	status := leaddomain.StatusQualified
	leads, err = Provide().List(context.Background(), db, testOrgID, leaddomain.ListFilter{CampaignID: &campaignID, Status: &status})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, snowflake.ID(2), leads[0].ID)
}

func TestListAppliesLimit(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for i := 1; i <= 5; i++ {
		seedLead(t, db, snowflake.ID(i), testOrgID, nil, leaddomain.StatusNew, base.Add(time.Duration(i)*time.Minute))
	}

	leads, err := Provide().List(context.Background(), db, testOrgID, leaddomain.ListFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, snowflake.ID(5), leads[0].ID)
}

func TestFindByIDScopedToOrganization(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	seedLead(t, db, 1, testOrgID, nil, leaddomain.StatusNew, base)

	lead, err := Provide().FindByID(context.Background(), db, testOrgID, 1)
	require.NoError(t, err)
	require.NotNil(t, lead)

	lead, err = Provide().FindByID(context.Background(), db, testOrgID+1, 1)
	require.NoError(t, err)
	assert.Nil(t, lead)
}

func TestUpdateStatus(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	seedLead(t, db, 1, testOrgID, nil, leaddomain.StatusNew, base)

	repo := Provide()
	require.NoError(t, repo.UpdateStatus(context.Background(), db, testOrgID, 1, leaddomain.StatusContacted, base.Add(time.Hour)))

	lead, err := repo.FindByID(context.Background(), db, testOrgID, 1)
	require.NoError(t, err)
	require.NotNil(t, lead)
	assert.Equal(t, leaddomain.StatusContacted, lead.Status)
	assert.True(t, lead.UpdatedAt.Equal(base.Add(time.Hour)))
}
