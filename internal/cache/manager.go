package cache

import (
	"context"
	"encoding/json"
	"time"

	"esports-stats/internal/constants"

	"github.com/rs/zerolog"
)

// Manager reads and writes JSON values through a Store. Caching is advisory:
// backend failures are logged and reported as misses, never returned.
type Manager struct {
	store  Store
	logger zerolog.Logger
}

func NewManager(store Store, logger zerolog.Logger) *Manager {
	return &Manager{store: store, logger: logger}
}

// Get decodes the cached value for key into dst and reports whether it hit.
func (m *Manager) Get(ctx context.Context, key string, dst any) bool {
	ctx, cancel := context.WithTimeout(ctx, constants.CacheTimeout)
	defer cancel()

	raw, ok, err := m.store.Get(ctx, key)
	if err != nil {
		m.logger.Warn().Err(err).Str("key", key).Msg("cache get failed, treating as miss")
		return false
	}
	if !ok {
		m.logger.Debug().Str("key", key).Msg("cache miss")
		return false
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		m.logger.Warn().Err(err).Str("key", key).Msg("cached value undecodable, treating as miss")
		return false
	}

	m.logger.Debug().Str("key", key).Msg("cache hit")
	return true
}

// Set stores value under key for ttl. Entries are never updated in place;
// a later Set for the same key simply replaces it.
func (m *Manager) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, constants.CacheTimeout)
	defer cancel()

	raw, err := json.Marshal(value)
	if err != nil {
		m.logger.Warn().Err(err).Str("key", key).Msg("failed to encode cache value")
		return
	}

	if err := m.store.Set(ctx, key, string(raw), ttl); err != nil {
		m.logger.Warn().Err(err).Str("key", key).Msg("cache set failed")
		return
	}

	m.logger.Debug().Str("key", key).Dur("ttl", ttl).Msg("cache set")
}
