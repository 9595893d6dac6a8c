package domain

import (
	"testing"
	"time"

	subscriptiondomain "github.com/leadflowhq/leadflow/internal/subscription/domain"
	"github.com/stretchr/testify/assert"
)

func TestLinkGrantsAccess(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	periodEnd := now.Add(-24 * time.Hour)

	tests := []struct {
		name string
		link subscriptiondomain.SubscriptionLink
		want bool
	}{
		{
			name: "active always grants",
			link: subscriptiondomain.SubscriptionLink{
				Status:           subscriptiondomain.LinkStatusActive,
				CurrentPeriodEnd: &periodEnd,
			},
			want: true,
		},
		{
			name: "trialing always grants",
			link: subscriptiondomain.SubscriptionLink{
				Status:           subscriptiondomain.LinkStatusTrialing,
				CurrentPeriodEnd: &periodEnd,
			},
			want: true,
		},
		{
			name: "past due inside grace window",
			link: subscriptiondomain.SubscriptionLink{
				Status:           subscriptiondomain.LinkStatusPastDue,
				CurrentPeriodEnd: &periodEnd,
			},
			want: true,
		},
		{
			name: "past due without period end fails open",
			link: subscriptiondomain.SubscriptionLink{
				Status: subscriptiondomain.LinkStatusPastDue,
			},
			want: true,
		},
		{
			name: "canceled never grants",
			link: subscriptiondomain.SubscriptionLink{
				Status: subscriptiondomain.LinkStatusCanceled,
			},
			want: false,
		},
		{
			name: "unpaid never grants",
			link: subscriptiondomain.SubscriptionLink{
				Status: subscriptiondomain.LinkStatusUnpaid,
			},
			want: false,
		},
		{
			name: "incomplete never grants",
			link: subscriptiondomain.SubscriptionLink{
				Status: subscriptiondomain.LinkStatusIncomplete,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LinkGrantsAccess(&tt.link, now))
		})
	}
}

func TestLinkGrantsAccessGraceBoundary(t *testing.T) {
	periodEnd := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	link := subscriptiondomain.SubscriptionLink{
		Status:           subscriptiondomain.LinkStatusPastDue,
		CurrentPeriodEnd: &periodEnd,
	}

	boundary := periodEnd.Add(GracePeriod)

	assert.True(t, LinkGrantsAccess(&link, boundary.Add(-time.Second)), "just inside the window")
	assert.False(t, LinkGrantsAccess(&link, boundary), "window is exclusive at the boundary")
	assert.False(t, LinkGrantsAccess(&link, boundary.Add(time.Second)), "past the window")
}
