package service

import (
	"context"
	"fmt"
	"time"

	"esports-stats/internal/cache"
	"esports-stats/internal/constants"
	"esports-stats/internal/domain"
	"esports-stats/internal/filter"
	"esports-stats/internal/identity"
	"esports-stats/internal/stats"

	"github.com/rs/zerolog"
)

type MatchStore interface {
	Scoreboard(ctx context.Context, spec filter.Spec) ([]domain.ScoreboardRow, error)
	CountGames(ctx context.Context, spec filter.Spec) (int, error)
	GameContexts(ctx context.Context, spec filter.Spec) ([]domain.GameContext, error)
}

type TournamentCatalog interface {
	ListByLeague(ctx context.Context, league string) ([]domain.Tournament, error)
	EndDates(ctx context.Context, pages []string) ([]*time.Time, error)
	Leagues(ctx context.Context) ([]domain.League, error)
}

// Query is the caller's filter. Empty fields are not applied.
type Query struct {
	Tournament string
	Player     string
	Team       string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

type Meta struct {
	Cached    bool      `json:"cached"`
	Timestamp time.Time `json:"timestamp"`
}

type ChampionStatsResult struct {
	Champions  []stats.ChampionStat `json:"champions"`
	TotalGames int                  `json:"totalGames,omitempty"`
	Meta       Meta                 `json:"meta"`
}

// PlayerStatsResult holds either the full sorted list or, for a single
// player query, just that player.
type PlayerStatsResult struct {
	Players []stats.PlayerStat `json:"players,omitempty"`
	Player  *stats.PlayerStat  `json:"player,omitempty"`
	Total   int                `json:"total"`
	Meta    Meta               `json:"meta"`
}

type StatsService struct {
	players     *identity.PlayerResolver
	teams       *identity.TeamResolver
	tournaments *identity.TournamentResolver
	matches     MatchStore
	catalog     TournamentCatalog
	cache       *cache.Manager
	policy      *cache.Policy
	logger      zerolog.Logger
	now         func() time.Time
}

func NewStatsService(
	players *identity.PlayerResolver,
	teams *identity.TeamResolver,
	tournaments *identity.TournamentResolver,
	matches MatchStore,
	catalog TournamentCatalog,
	cacheManager *cache.Manager,
	policy *cache.Policy,
	logger zerolog.Logger,
) *StatsService {
	return &StatsService{
		players:     players,
		teams:       teams,
		tournaments: tournaments,
		matches:     matches,
		catalog:     catalog,
		cache:       cacheManager,
		policy:      policy,
		logger:      logger,
		now:         time.Now,
	}
}

// ChampionStats returns nil, nil when no rows match the query.
func (s *StatsService) ChampionStats(ctx context.Context, q Query) (*ChampionStatsResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	sc, err := s.resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	key := sc.key("champions").String()

	var cached ChampionStatsResult
	if s.cache.Get(ctx, key, &cached) {
		cached.Meta.Cached = true
		return &cached, nil
	}

	s.logger.Info().
		Str("tournament", sc.tournamentPage()).
		Str("player", sc.playerKey()).
		Str("team", sc.teamKey()).
		Msg("computing champion stats")

	ds, err := s.load(ctx, sc)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, nil
	}

	result := &ChampionStatsResult{
		Champions:  stats.Champions(ds.rows, ds.opts),
		TotalGames: ds.opts.TotalGames,
		Meta:       Meta{Timestamp: s.now().UTC()},
	}

	s.cache.Set(ctx, key, result, s.policy.TTLForAll(ds.endDates))
	return result, nil
}

// PlayerStats returns nil, nil when no rows match the query. A player filter
// without a team filter narrows the result to that one player.
func (s *StatsService) PlayerStats(ctx context.Context, q Query) (*PlayerStatsResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	sc, err := s.resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	single := sc.player != nil && sc.team == nil
	limit, offset := pageBounds(q.Limit, q.Offset)

	k := sc.key("players")
	if !single {
		k = k.Page(limit, offset)
	}
	key := k.String()

	var cached PlayerStatsResult
	if s.cache.Get(ctx, key, &cached) {
		cached.Meta.Cached = true
		return &cached, nil
	}

	s.logger.Info().
		Str("tournament", sc.tournamentPage()).
		Str("player", sc.playerKey()).
		Str("team", sc.teamKey()).
		Bool("single", single).
		Msg("computing player stats")

	ds, err := s.load(ctx, sc)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, nil
	}

	list := stats.Players(ds.rows, ds.opts)
	result := &PlayerStatsResult{
		Total: len(list),
		Meta:  Meta{Timestamp: s.now().UTC()},
	}
	if single {
		result.Player = stats.SinglePlayer(list, sc.player.Key)
	} else {
		result.Players = stats.Paginate(list, limit, offset)
	}

	s.cache.Set(ctx, key, result, s.policy.TTLForAll(ds.endDates))
	return result, nil
}

func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = constants.DefaultPageLimit
	}
	limit = min(limit, constants.MaxPageLimit)
	return limit, max(offset, 0)
}

// scope is a query after identity resolution. Nil members were not asked for.
type scope struct {
	tournament *domain.Tournament
	player     *identity.PlayerResolution
	team       *identity.TeamResolution
	from       *time.Time
	to         *time.Time
}

func (s *StatsService) resolve(ctx context.Context, q Query) (scope, error) {
	sc := scope{from: q.From, to: q.To}

	if q.Tournament != "" {
		t, err := s.tournaments.Resolve(ctx, q.Tournament)
		if err != nil {
			return scope{}, fmt.Errorf("failed to resolve tournament %q: %w", q.Tournament, err)
		}
		sc.tournament = t
	}

	if q.Player != "" {
		p, err := s.players.Resolve(ctx, q.Player)
		if err != nil {
			return scope{}, fmt.Errorf("failed to resolve player %q: %w", q.Player, err)
		}
		sc.player = p
	}

	if q.Team != "" {
		t, err := s.teams.Resolve(ctx, q.Team)
		if err != nil {
			return scope{}, fmt.Errorf("failed to resolve team %q: %w", q.Team, err)
		}
		sc.team = t
	}

	return sc, nil
}

func (sc scope) spec() filter.Spec {
	b := filter.New().Between(sc.from, sc.to)
	if sc.tournament != nil {
		b.Tournament(sc.tournament.OverviewPage)
	}
	if sc.player != nil {
		b.Players(sc.player.Aliases...)
	}
	if sc.team != nil {
		b.Team(sc.team.Aliases...)
	}
	return b.Build()
}

// key uses canonical values so every alias of a player shares one entry.
func (sc scope) key(kind string) *cache.Key {
	return cache.NewKey(kind).
		Tournament(sc.tournamentPage()).
		Player(sc.playerKey()).
		Team(sc.teamKey()).
		Range(sc.from, sc.to)
}

func (sc scope) tournamentPage() string {
	if sc.tournament == nil {
		return ""
	}
	return sc.tournament.OverviewPage
}

func (sc scope) playerKey() string {
	if sc.player == nil {
		return ""
	}
	return sc.player.Key
}

func (sc scope) teamKey() string {
	if sc.team == nil {
		return ""
	}
	return sc.team.Key
}
