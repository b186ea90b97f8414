package constants

import "time"

// policy TTLs for tournament-scoped results
const (
	LiveCacheTTL     = 300 * time.Second
	RecentCacheTTL   = 3600 * time.Second
	FinishedCacheTTL = 604800 * time.Second
	ArchiveCacheTTL  = 2592000 * time.Second

	RecentWindowDays   = 2
	FinishedWindowDays = 30
)

const (
	ReferenceCacheTTL  = 24 * time.Hour
	TournamentCacheTTL = 1 * time.Hour
)

const (
	DatabaseTimeout = 5 * time.Second
	CacheTimeout    = 2 * time.Second
	RequestTimeout  = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout        = 5 * time.Second
	MemoryCacheJanitorTick = 1 * time.Minute
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
	MaxBatchResolve  = 50
)
