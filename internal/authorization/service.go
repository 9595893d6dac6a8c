// Package authorization enforces role-based access on top of
// organization membership. Policies live in casbin with the org as the
// enforcement domain.
package authorization

import (
	"context"
	"errors"
)

type Service interface {
	// Authorize returns nil when the actor may perform the action on
	// the object within the organization. Actors are "user:<id>" or
	// "system".
	Authorize(ctx context.Context, actor string, orgID string, object string, action string) error
}

var (
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidActor        = errors.New("invalid_actor")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidObject       = errors.New("invalid_object")
	ErrInvalidAction       = errors.New("invalid_action")
)
