package domain

import (
	"context"
	"errors"
	"time"

	"github.com/leadflowhq/leadflow/pkg/db/pagination"
)

type RecordRequest struct {
	Action      string
	TargetType  string
	TargetID    *string
	TargetLabel string
	Metadata    map[string]any
}

type ListRequest struct {
	PageToken string
	PageSize  int32
}

type EntryResponse struct {
	ID          string         `json:"id"`
	ActorType   string         `json:"actor_type,omitempty"`
	ActorID     *string        `json:"actor_id,omitempty"`
	Action      string         `json:"action"`
	TargetType  string         `json:"target_type,omitempty"`
	TargetID    *string        `json:"target_id,omitempty"`
	TargetLabel string         `json:"target_label,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

type ListResponse struct {
	pagination.PageInfo
	Entries []EntryResponse `json:"entries"`
}

type Service interface {
	Record(ctx context.Context, req RecordRequest) error
	ListRecent(ctx context.Context, limit int) ([]AuditLog, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
}

var (
	ErrInvalidAction       = errors.New("invalid_audit_action")
	ErrInvalidOrganization = errors.New("invalid_organization")
)
