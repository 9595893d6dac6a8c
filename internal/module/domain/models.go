// Package domain contains persistence models for platform modules.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Module is a unit of product functionality identified by a slug.
// Enabled is a platform-wide kill switch: a disabled module is
// inaccessible to every organization regardless of entitlement.
type Module struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	Slug        string       `gorm:"type:text;not null;uniqueIndex"`
	Name        string       `gorm:"type:text;not null"`
	Description string       `gorm:"type:text"`
	Enabled     bool         `gorm:"not null;default:true"`
	SortOrder   int          `gorm:"not null;default:0"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Module) TableName() string { return "modules" }
