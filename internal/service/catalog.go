package service

import (
	"context"
	"fmt"
	"time"

	"esports-stats/internal/cache"
	"esports-stats/internal/constants"
	"esports-stats/internal/domain"
	"esports-stats/internal/identity"
	"esports-stats/internal/seasons"
)

type SeasonTreeResult struct {
	League  string           `json:"league"`
	Seasons []seasons.Season `json:"seasons"`
	Meta    Meta             `json:"meta"`
}

type LeaguesResult struct {
	Leagues []domain.League `json:"leagues"`
	Meta    Meta            `json:"meta"`
}

type TournamentResult struct {
	Tournament domain.Tournament `json:"tournament"`
	Meta       Meta              `json:"meta"`
}

// SeasonTree groups a league's tournaments into seasons and splits. It
// returns nil, nil when the league has no tournament with recorded matches.
func (s *StatsService) SeasonTree(ctx context.Context, league string) (*SeasonTreeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	key := cache.NewKey("seasons").League(league).String()

	var cached SeasonTreeResult
	if s.cache.Get(ctx, key, &cached) {
		cached.Meta.Cached = true
		return &cached, nil
	}

	tournaments, err := s.catalog.ListByLeague(ctx, league)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments for %q: %w", league, err)
	}

	tree := seasons.Group(tournaments)
	if len(tree) == 0 {
		s.logger.Debug().Str("league", league).Int("tournaments", len(tournaments)).Msg("no tournaments with matches")
		return nil, nil
	}

	var endDates []*time.Time
	for _, t := range tournaments {
		if t.MatchCount > 0 {
			endDates = append(endDates, t.DateEnd)
		}
	}

	result := &SeasonTreeResult{
		League:  league,
		Seasons: tree,
		Meta:    Meta{Timestamp: s.now().UTC()},
	}

	ttl := s.policy.TTLForAll(endDates)
	s.logger.Info().Str("league", league).Int("seasons", len(tree)).Dur("ttl", ttl).Msg("season tree built")

	s.cache.Set(ctx, key, result, ttl)
	return result, nil
}

func (s *StatsService) Leagues(ctx context.Context) (*LeaguesResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	key := cache.NewKey("leagues").String()

	var cached LeaguesResult
	if s.cache.Get(ctx, key, &cached) {
		cached.Meta.Cached = true
		return &cached, nil
	}

	leagues, err := s.catalog.Leagues(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	if leagues == nil {
		leagues = []domain.League{}
	}

	result := &LeaguesResult{Leagues: leagues, Meta: Meta{Timestamp: s.now().UTC()}}
	s.cache.Set(ctx, key, result, constants.ReferenceCacheTTL)
	return result, nil
}

// Tournament looks up one tournament by numeric id or by name.
func (s *StatsService) Tournament(ctx context.Context, identifier string) (*TournamentResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	key := cache.NewKey("tournament").Tournament(identifier).String()

	var cached TournamentResult
	if s.cache.Get(ctx, key, &cached) {
		cached.Meta.Cached = true
		return &cached, nil
	}

	t, err := s.tournaments.Resolve(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tournament %q: %w", identifier, err)
	}

	result := &TournamentResult{Tournament: *t, Meta: Meta{Timestamp: s.now().UTC()}}
	s.cache.Set(ctx, key, result, constants.TournamentCacheTTL)
	return result, nil
}

func (s *StatsService) ResolvePlayer(ctx context.Context, name string) (*identity.PlayerResolution, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	return s.players.Resolve(ctx, name)
}

func (s *StatsService) ResolvePlayers(ctx context.Context, names []string) []identity.Outcome {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	return s.players.ResolveAll(ctx, names)
}
