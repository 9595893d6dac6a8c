// Package domain contains persistence models for the package catalog.
package domain

import (
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Package is a catalog entry granting a set of modules. A bundle package
// grants every currently-enabled platform module, ignoring its own list.
// The free package is the always-available default tier.
type Package struct {
	ID          snowflake.ID   `gorm:"primaryKey"`
	Slug        string         `gorm:"type:text;not null;uniqueIndex"`
	Name        string         `gorm:"type:text;not null"`
	Description string         `gorm:"type:text"`
	ModuleSlugs datatypes.JSON `gorm:"type:jsonb"`
	IsBundle    bool           `gorm:"not null;default:false"`
	IsFree      bool           `gorm:"not null;default:false"`
	IsActive    bool           `gorm:"not null;default:true"`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Package) TableName() string { return "packages" }

// Modules decodes the stored module slug list. A missing or malformed
// column yields an empty list, never an error.
func (p *Package) Modules() []string {
	if len(p.ModuleSlugs) == 0 {
		return nil
	}
	var slugs []string
	if err := json.Unmarshal(p.ModuleSlugs, &slugs); err != nil {
		return nil
	}
	return slugs
}

// EncodeModuleSlugs encodes a slug list for storage.
func EncodeModuleSlugs(slugs []string) (datatypes.JSON, error) {
	if slugs == nil {
		slugs = []string{}
	}
	raw, err := json.Marshal(slugs)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
