package domain

import (
	"context"
	"errors"
	"time"
)

type CreateOrganizationRequest struct {
	Name     string         `json:"name"`
	Slug     string         `json:"slug,omitempty"`
	OwnerID  string         `json:"owner_id"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type AddMemberRequest struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

type OrganizationResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Slug      string         `json:"slug"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type MemberResponse struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

type Service interface {
	Create(ctx context.Context, req CreateOrganizationRequest) (OrganizationResponse, error)
	GetByID(ctx context.Context, id string) (OrganizationResponse, error)
	GetBySlug(ctx context.Context, slug string) (OrganizationResponse, error)
	AddMember(ctx context.Context, req AddMemberRequest) (MemberResponse, error)
	ListMembers(ctx context.Context) ([]MemberResponse, error)
	RoleForUser(ctx context.Context, userID string) (Role, error)
}

var (
	ErrNotFound            = errors.New("organization_not_found")
	ErrMemberNotFound      = errors.New("member_not_found")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidSlug         = errors.New("invalid_slug")
	ErrInvalidUser         = errors.New("invalid_user")
	ErrInvalidRole         = errors.New("invalid_role")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrSlugTaken           = errors.New("slug_taken")
	ErrMemberExists        = errors.New("member_exists")
)
