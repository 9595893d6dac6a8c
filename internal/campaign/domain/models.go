package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Platform string

const (
	PlatformGoogle   Platform = "google"
	PlatformMeta     Platform = "meta"
	PlatformTikTok   Platform = "tiktok"
	PlatformLinkedIn Platform = "linkedin"
)

func ValidPlatform(p Platform) bool {
	switch p {
	case PlatformGoogle, PlatformMeta, PlatformTikTok, PlatformLinkedIn:
		return true
	}
	return false
}

type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusActive, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

// CanTransition reports whether a campaign may move from one status to
// another. Completed is terminal.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusDraft:
		return to == StatusActive
	case StatusActive:
		return to == StatusPaused || to == StatusCompleted
	case StatusPaused:
		return to == StatusActive || to == StatusCompleted
	}
	return false
}

type Campaign struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID      `gorm:"index" json:"org_id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Platform    Platform          `json:"platform"`
	Status      Status            `json:"status"`
	BudgetCents int64             `json:"budget_cents"`
	Metadata    datatypes.JSONMap `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (Campaign) TableName() string {
	return "campaigns"
}
