package domain

import (
	"context"
	"errors"
)

type CreatePackageRequest struct {
	Slug        string   `json:"slug,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	ModuleSlugs []string `json:"module_slugs"`
	IsBundle    bool     `json:"is_bundle,omitempty"`
	IsFree      bool     `json:"is_free,omitempty"`
}

type UpdatePackageRequest struct {
	ID          string    `json:"-"`
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	ModuleSlugs *[]string `json:"module_slugs,omitempty"`
	IsBundle    *bool     `json:"is_bundle,omitempty"`
	IsFree      *bool     `json:"is_free,omitempty"`
}

type PackageResponse struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	ModuleSlugs []string `json:"module_slugs"`
	IsBundle    bool     `json:"is_bundle"`
	IsFree      bool     `json:"is_free"`
	IsActive    bool     `json:"is_active"`
}

type Service interface {
	List(ctx context.Context, includeArchived bool) ([]PackageResponse, error)
	GetByID(ctx context.Context, id string) (PackageResponse, error)
	Create(ctx context.Context, req CreatePackageRequest) (PackageResponse, error)
	Update(ctx context.Context, req UpdatePackageRequest) (PackageResponse, error)
	Archive(ctx context.Context, id string) (PackageResponse, error)
}

var (
	ErrNotFound       = errors.New("package_not_found")
	ErrInvalidID      = errors.New("invalid_package_id")
	ErrInvalidName    = errors.New("invalid_package_name")
	ErrInvalidSlug    = errors.New("invalid_package_slug")
	ErrInvalidModules = errors.New("invalid_package_modules")
	ErrSlugTaken      = errors.New("package_slug_taken")
	ErrArchived       = errors.New("package_archived")
)
