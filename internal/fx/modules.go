package fx

import (
	"context"

	"esports-stats/internal/cache"
	"esports-stats/internal/config"
	"esports-stats/internal/database"
	"esports-stats/internal/identity"
	"esports-stats/internal/logger"
	"esports-stats/internal/repository"
	"esports-stats/internal/server"
	"esports-stats/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideCacheStore(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (cache.Store, error) {
	store, err := cache.NewStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}

func ProvidePlayerResolver(repo *repository.PlayerRepository, logger zerolog.Logger) *identity.PlayerResolver {
	return identity.NewPlayerResolver(repo, logger)
}

func ProvideTeamResolver(repo *repository.TeamRepository) *identity.TeamResolver {
	return identity.NewTeamResolver(repo)
}

func ProvideTournamentResolver(repo *repository.TournamentRepository) *identity.TournamentResolver {
	return identity.NewTournamentResolver(repo)
}

func ProvideStatsService(
	players *identity.PlayerResolver,
	teams *identity.TeamResolver,
	tournaments *identity.TournamentResolver,
	matches *repository.MatchRepository,
	catalog *repository.TournamentRepository,
	cacheManager *cache.Manager,
	policy *cache.Policy,
	logger zerolog.Logger,
) *service.StatsService {
	return service.NewStatsService(players, teams, tournaments, matches, catalog, cacheManager, policy, logger)
}

func ProvideStatsServer(svc *service.StatsService, logger zerolog.Logger) *server.StatsServer {
	return server.NewStatsServer(svc, logger)
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewTeamRepository),
	fx.Provide(repository.NewTournamentRepository),
	fx.Provide(repository.NewMatchRepository),
	// cache
	fx.Provide(ProvideCacheStore),
	fx.Provide(cache.NewManager),
	fx.Provide(cache.NewPolicy),
	// identity
	fx.Provide(ProvidePlayerResolver),
	fx.Provide(ProvideTeamResolver),
	fx.Provide(ProvideTournamentResolver),
	// svc
	fx.Provide(ProvideStatsService),
	// server
	fx.Provide(ProvideStatsServer),
)
