package domain

import (
	"context"
	"errors"
	"time"
)

// CaptureRequest comes from the public capture endpoint. OrgSlug
// identifies the tenant because public callers carry no credentials.
type CaptureRequest struct {
	OrgSlug    string         `json:"org_slug"`
	CampaignID *string        `json:"campaign_id,omitempty"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone,omitempty"`
	Source     string         `json:"source,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

type ListRequest struct {
	CampaignID *string
	Status     *Status
	Limit      int
}

type LeadResponse struct {
	ID         string         `json:"id"`
	CampaignID *string        `json:"campaign_id,omitempty"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone,omitempty"`
	Source     string         `json:"source,omitempty"`
	Status     Status         `json:"status"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type Service interface {
	Capture(ctx context.Context, req CaptureRequest) (*LeadResponse, error)
	List(ctx context.Context, req ListRequest) ([]LeadResponse, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*LeadResponse, error)
}

var (
	ErrNotFound            = errors.New("lead_not_found")
	ErrInvalidID           = errors.New("invalid_lead_id")
	ErrInvalidEmail        = errors.New("invalid_lead_email")
	ErrInvalidName         = errors.New("invalid_lead_name")
	ErrInvalidStatus       = errors.New("invalid_lead_status")
	ErrInvalidCampaign     = errors.New("invalid_campaign")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrOrganizationUnknown = errors.New("organization_not_found")
)
