package domain

import (
	"context"
	"errors"
)

type CreateModuleRequest struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"sort_order,omitempty"`
}

type UpdateModuleRequest struct {
	ID          string  `json:"-"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	SortOrder   *int    `json:"sort_order,omitempty"`
}

type ModuleResponse struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `json:"enabled"`
	SortOrder   int    `json:"sort_order"`
}

type Service interface {
	List(ctx context.Context) ([]ModuleResponse, error)
	ListEnabledSlugs(ctx context.Context) ([]string, error)
	Create(ctx context.Context, req CreateModuleRequest) (ModuleResponse, error)
	Update(ctx context.Context, req UpdateModuleRequest) (ModuleResponse, error)
	SetEnabled(ctx context.Context, id string, enabled bool) (ModuleResponse, error)
}

var (
	ErrNotFound    = errors.New("module_not_found")
	ErrInvalidSlug = errors.New("invalid_module_slug")
	ErrInvalidName = errors.New("invalid_module_name")
	ErrInvalidID   = errors.New("invalid_module_id")
	ErrSlugTaken   = errors.New("module_slug_taken")
)
