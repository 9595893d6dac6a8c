package domain

import (
	"context"
	"errors"
	"time"
)

type CreateLinkRequest struct {
	PackageID        string         `json:"package_id"`
	Status           LinkStatus     `json:"status,omitempty"`
	CurrentPeriodEnd *time.Time     `json:"current_period_end,omitempty"`
	ProviderRef      string         `json:"provider_ref,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

type UpdateLinkStatusRequest struct {
	ID               string     `json:"-"`
	Status           LinkStatus `json:"status"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
}

type LinkResponse struct {
	ID                string     `json:"id"`
	OrganizationID    string     `json:"organization_id"`
	PackageID         string     `json:"package_id"`
	Status            LinkStatus `json:"status"`
	CurrentPeriodEnd  *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd bool       `json:"cancel_at_period_end"`
	ProviderRef       *string    `json:"provider_ref,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

type Service interface {
	List(ctx context.Context) ([]LinkResponse, error)
	Create(ctx context.Context, req CreateLinkRequest) (LinkResponse, error)
	UpdateStatus(ctx context.Context, req UpdateLinkStatusRequest) (LinkResponse, error)
	SetCancelAtPeriodEnd(ctx context.Context, id string, cancel bool) (LinkResponse, error)
}

var (
	ErrLinkNotFound        = errors.New("subscription_link_not_found")
	ErrInvalidLink         = errors.New("invalid_subscription_link")
	ErrInvalidPackage      = errors.New("invalid_package")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrPackageArchived     = errors.New("package_archived")
)
