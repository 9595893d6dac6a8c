// Package domain contains persistence models for subscription links.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// LinkStatus represents lifecycle states for a subscription link. Transitions
// are driven externally by the billing provider's lifecycle events.
type LinkStatus string

const (
	LinkStatusActive     LinkStatus = "ACTIVE"
	LinkStatusTrialing   LinkStatus = "TRIALING"
	LinkStatusPastDue    LinkStatus = "PAST_DUE"
	LinkStatusCanceled   LinkStatus = "CANCELED"
	LinkStatusUnpaid     LinkStatus = "UNPAID"
	LinkStatusIncomplete LinkStatus = "INCOMPLETE"
)

// ValidStatus reports whether the status is one of the known lifecycle states.
func ValidStatus(status LinkStatus) bool {
	switch status {
	case LinkStatusActive, LinkStatusTrialing, LinkStatusPastDue,
		LinkStatusCanceled, LinkStatusUnpaid, LinkStatusIncomplete:
		return true
	default:
		return false
	}
}

// CountableStatuses are the statuses that can confer module access.
// PAST_DUE is still subject to the grace-period filter downstream.
func CountableStatuses() []LinkStatus {
	return []LinkStatus{LinkStatusActive, LinkStatusTrialing, LinkStatusPastDue}
}

// SubscriptionLink joins an organization to a package. An organization may
// hold multiple simultaneous links. Links are kept for history, never
// hard-deleted.
type SubscriptionLink struct {
	ID                snowflake.ID      `gorm:"primaryKey"`
	OrgID             snowflake.ID      `gorm:"not null;index"`
	PackageID         snowflake.ID      `gorm:"not null;index"`
	Status            LinkStatus        `gorm:"type:text;not null"`
	CurrentPeriodEnd  *time.Time        `gorm:""`
	CancelAtPeriodEnd bool              `gorm:"not null;default:false"`
	ProviderRef       *string           `gorm:"type:text"`
	Metadata          datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt         time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt         time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (SubscriptionLink) TableName() string { return "subscription_links" }
