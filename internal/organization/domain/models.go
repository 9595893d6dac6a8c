// Package domain contains persistence models for organizations and membership.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Role is an organization-scoped membership role.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Organization is a tenant.
type Organization struct {
	ID        snowflake.ID      `gorm:"primaryKey"`
	Name      string            `gorm:"type:text;not null"`
	Slug      string            `gorm:"type:text;not null;uniqueIndex"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }

// OrganizationMember links a user to an organization with a role.
type OrganizationMember struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	OrgID     snowflake.ID `gorm:"not null;index"`
	UserID    snowflake.ID `gorm:"not null;index"`
	Role      Role         `gorm:"type:text;not null"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (OrganizationMember) TableName() string { return "organization_members" }

// ValidRole reports whether the role is one of the known membership roles.
func ValidRole(role Role) bool {
	switch role {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	default:
		return false
	}
}
