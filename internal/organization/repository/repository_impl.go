package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	organizationdomain "github.com/leadflowhq/leadflow/internal/organization/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() organizationdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, org *organizationdomain.Organization) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO organizations (id, name, slug, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		org.ID,
		org.Name,
		org.Slug,
		org.Metadata,
		org.CreatedAt,
		org.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*organizationdomain.Organization, error) {
	var org organizationdomain.Organization
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, slug, metadata, created_at, updated_at
		 FROM organizations WHERE id = ?`,
		id,
	).Scan(&org).Error
	if err != nil {
		return nil, err
	}
	if org.ID == 0 {
		return nil, nil
	}
	return &org, nil
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*organizationdomain.Organization, error) {
	var org organizationdomain.Organization
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, slug, metadata, created_at, updated_at
		 FROM organizations WHERE slug = ?`,
		slug,
	).Scan(&org).Error
	if err != nil {
		return nil, err
	}
	if org.ID == 0 {
		return nil, nil
	}
	return &org, nil
}

func (r *repo) InsertMember(ctx context.Context, db *gorm.DB, member *organizationdomain.OrganizationMember) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO organization_members (id, org_id, user_id, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		member.ID,
		member.OrgID,
		member.UserID,
		member.Role,
		member.CreatedAt,
		member.UpdatedAt,
	).Error
}

func (r *repo) FindMember(ctx context.Context, db *gorm.DB, orgID, userID snowflake.ID) (*organizationdomain.OrganizationMember, error) {
	var member organizationdomain.OrganizationMember
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, user_id, role, created_at, updated_at
		 FROM organization_members
		 WHERE org_id = ? AND user_id = ?
		 LIMIT 1`,
		orgID,
		userID,
	).Scan(&member).Error
	if err != nil {
		return nil, err
	}
	if member.ID == 0 {
		return nil, nil
	}
	return &member, nil
}

func (r *repo) ListMembers(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]organizationdomain.OrganizationMember, error) {
	var members []organizationdomain.OrganizationMember
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, user_id, role, created_at, updated_at
		 FROM organization_members
		 WHERE org_id = ?
		 ORDER BY created_at ASC`,
		orgID,
	).Scan(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}
