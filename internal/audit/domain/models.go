// Package domain contains persistence models for the append-only audit log.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Action codes recorded by the domain services. Uppercase snake case,
// matching what the activity projector's taxonomy maps from.
const (
	ActionCampaignCreated           = "CAMPAIGN_CREATED"
	ActionCampaignUpdated           = "CAMPAIGN_UPDATED"
	ActionCampaignActivated         = "CAMPAIGN_ACTIVATED"
	ActionCampaignPaused            = "CAMPAIGN_PAUSED"
	ActionCampaignCompleted         = "CAMPAIGN_COMPLETED"
	ActionLeadCreated               = "LEAD_CREATED"
	ActionLeadStatusChanged         = "LEAD_STATUS_CHANGED"
	ActionPackageSubscribed         = "PACKAGE_SUBSCRIBED"
	ActionSubscriptionStatusChanged = "SUBSCRIPTION_STATUS_CHANGED"
	ActionMemberAdded               = "MEMBER_ADDED"
)

// AuditLog is an append-only record of an organization action.
type AuditLog struct {
	ID          snowflake.ID      `gorm:"primaryKey"`
	OrgID       snowflake.ID      `gorm:"not null;index"`
	ActorType   string            `gorm:"type:text"`
	ActorID     *string           `gorm:"type:text"`
	Action      string            `gorm:"type:text;not null;index"`
	TargetType  string            `gorm:"type:text"`
	TargetID    *string           `gorm:"type:text"`
	TargetLabel string            `gorm:"type:text"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb"`
	IPAddress   string            `gorm:"type:text"`
	UserAgent   string            `gorm:"type:text"`
	RequestID   string            `gorm:"type:text"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP;index"`
}

// TableName sets the database table name.
func (AuditLog) TableName() string { return "audit_logs" }
