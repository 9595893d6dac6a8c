package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/leadflowhq/leadflow/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const (
	keyLeadCaptureOrg      = "leads:capture:org:%s"
	keyLeadCaptureEndpoint = "leads:capture:endpoint:%s"
)

// LeadCaptureLimiter throttles the anonymous lead-capture endpoint per
// organization and per client address. A nil limiter (rate limiting
// disabled) allows everything.
type LeadCaptureLimiter struct {
	enabled bool

	bucket *TokenBucket

	orgRate       float64
	orgBurst      int
	endpointRate  float64
	endpointBurst int
}

func NewLeadCaptureLimiter(cfg config.Config) (*LeadCaptureLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.LeadCaptureOrgRate <= 0 || limitCfg.LeadCaptureOrgBurst <= 0 {
		return nil, errors.New("lead capture org rate limit must be positive")
	}
	if limitCfg.LeadCaptureEndpointRate <= 0 || limitCfg.LeadCaptureEndpointBurst <= 0 {
		return nil, errors.New("lead capture endpoint rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &LeadCaptureLimiter{
		enabled:       true,
		bucket:        NewTokenBucket(client),
		orgRate:       limitCfg.LeadCaptureOrgRate,
		orgBurst:      limitCfg.LeadCaptureOrgBurst,
		endpointRate:  limitCfg.LeadCaptureEndpointRate,
		endpointBurst: limitCfg.LeadCaptureEndpointBurst,
	}, nil
}

func (l *LeadCaptureLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// AllowOrg throttles by target organization slug.
func (l *LeadCaptureLimiter) AllowOrg(ctx context.Context, orgSlug string) (*RateLimitResult, error) {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyLeadCaptureOrg, strings.TrimSpace(orgSlug)), l.orgRate, l.orgBurst)
}

// AllowEndpoint throttles by calling client address.
func (l *LeadCaptureLimiter) AllowEndpoint(ctx context.Context, clientIP string) (*RateLimitResult, error) {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyLeadCaptureEndpoint, strings.TrimSpace(clientIP)), l.endpointRate, l.endpointBurst)
}
