// Package domain holds the module entitlement rules. Access to platform
// modules is derived from an organization's subscription links and the
// free tier, never stored directly.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	subscriptiondomain "github.com/leadflowhq/leadflow/internal/subscription/domain"
)

// GracePeriodDays is how long a PAST_DUE link keeps granting access
// after its current period ends.
const GracePeriodDays = 7

// GracePeriod is GracePeriodDays as a duration.
const GracePeriod = GracePeriodDays * 24 * time.Hour

// LinkGrantsAccess reports whether a subscription link confers module
// access at the given instant. The link must already be in a countable
// status. Only PAST_DUE links are subject to the grace window; a
// PAST_DUE link with no known period end fails open so that a billing
// provider sync gap never locks a paying customer out.
func LinkGrantsAccess(link *subscriptiondomain.SubscriptionLink, now time.Time) bool {
	switch link.Status {
	case subscriptiondomain.LinkStatusActive, subscriptiondomain.LinkStatusTrialing:
		return true
	case subscriptiondomain.LinkStatusPastDue:
		if link.CurrentPeriodEnd == nil {
			return true
		}
		return now.Before(link.CurrentPeriodEnd.Add(GracePeriod))
	}
	return false
}

type Service interface {
	// ResolveAccessibleModules returns the sorted set of module slugs
	// the organization may use right now. An empty result is a valid
	// outcome, not an error.
	ResolveAccessibleModules(ctx context.Context, orgID snowflake.ID) ([]string, error)
	// CanAccessModule reports whether the organization may use the
	// named module.
	CanAccessModule(ctx context.Context, orgID snowflake.ID, moduleSlug string) (bool, error)
}

var ErrInvalidOrganization = errors.New("invalid_organization")
