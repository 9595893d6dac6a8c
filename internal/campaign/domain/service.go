package domain

import (
	"context"
	"errors"
	"time"
)

type CreateRequest struct {
	Name        string         `json:"name"`
	Platform    Platform       `json:"platform"`
	BudgetCents int64          `json:"budget_cents"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type UpdateRequest struct {
	Name        *string        `json:"name,omitempty"`
	BudgetCents *int64         `json:"budget_cents,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type CampaignResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Platform    Platform       `json:"platform"`
	Status      Status         `json:"status"`
	BudgetCents int64          `json:"budget_cents"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type Service interface {
	List(ctx context.Context) ([]CampaignResponse, error)
	GetByID(ctx context.Context, id string) (*CampaignResponse, error)
	Create(ctx context.Context, req CreateRequest) (*CampaignResponse, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*CampaignResponse, error)
	Activate(ctx context.Context, id string) (*CampaignResponse, error)
	Pause(ctx context.Context, id string) (*CampaignResponse, error)
	Complete(ctx context.Context, id string) (*CampaignResponse, error)
}

var (
	ErrNotFound            = errors.New("campaign_not_found")
	ErrInvalidID           = errors.New("invalid_campaign_id")
	ErrInvalidName         = errors.New("invalid_campaign_name")
	ErrInvalidPlatform     = errors.New("invalid_campaign_platform")
	ErrInvalidBudget       = errors.New("invalid_campaign_budget")
	ErrInvalidTransition   = errors.New("invalid_status_transition")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrSlugTaken           = errors.New("campaign_slug_taken")
)
