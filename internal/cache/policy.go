package cache

import (
	"time"

	"esports-stats/internal/constants"
)

// Policy picks a TTL from how long ago a tournament ended. Live and unknown
// tournaments refresh often, long-finished ones are effectively frozen.
type Policy struct {
	now func() time.Time
}

func NewPolicy() *Policy {
	return &Policy{now: time.Now}
}

func NewPolicyAt(now func() time.Time) *Policy {
	return &Policy{now: now}
}

func (p *Policy) TTLFor(endDate *time.Time) time.Duration {
	if endDate == nil {
		return constants.LiveCacheTTL
	}

	now := p.now()
	if endDate.After(now) {
		return constants.LiveCacheTTL
	}

	days := int(now.Sub(*endDate).Hours() / 24)
	switch {
	case days <= constants.RecentWindowDays:
		return constants.RecentCacheTTL
	case days <= constants.FinishedWindowDays:
		return constants.FinishedCacheTTL
	default:
		return constants.ArchiveCacheTTL
	}
}

// TTLForAll returns the shortest TTL across several tournaments. An empty
// set counts as unknown.
func (p *Policy) TTLForAll(endDates []*time.Time) time.Duration {
	if len(endDates) == 0 {
		return constants.LiveCacheTTL
	}

	ttl := constants.ArchiveCacheTTL
	for _, end := range endDates {
		ttl = min(ttl, p.TTLFor(end))
	}
	return ttl
}
