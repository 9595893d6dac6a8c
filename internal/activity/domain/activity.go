// Package domain defines the dashboard activity feed. The feed is a
// read-only projection over audit events, padded from campaign records
// when the audit trail is sparse.
package domain

import (
	"context"
	"errors"
	"time"
)

type ActivityEntry struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Platform    string    `json:"platform,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type Service interface {
	// RecentActivity projects the organization's activity feed, newest
	// first. A non-positive limit falls back to the configured default.
	RecentActivity(ctx context.Context, limit int) ([]ActivityEntry, error)
}

var ErrInvalidOrganization = errors.New("invalid_organization")
