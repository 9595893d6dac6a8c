package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusDraft, StatusActive, true},
		{StatusDraft, StatusPaused, false},
		{StatusDraft, StatusCompleted, false},
		{StatusActive, StatusPaused, true},
		{StatusActive, StatusCompleted, true},
		{StatusActive, StatusDraft, false},
		{StatusPaused, StatusActive, true},
		{StatusPaused, StatusCompleted, true},
		{StatusPaused, StatusDraft, false},
		{StatusCompleted, StatusActive, false},
		{StatusCompleted, StatusPaused, false},
		{StatusCompleted, StatusDraft, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestValidPlatform(t *testing.T) {
	for _, platform := range []Platform{PlatformGoogle, PlatformMeta, PlatformTikTok, PlatformLinkedIn} {
		assert.True(t, ValidPlatform(platform))
	}
	assert.False(t, ValidPlatform(Platform("twitter")))
	assert.False(t, ValidPlatform(Platform("")))
}
