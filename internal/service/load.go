package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"esports-stats/internal/domain"
	"esports-stats/internal/filter"
	"esports-stats/internal/stats"

	"golang.org/x/sync/errgroup"
)

// dataset is everything one aggregation needs.
type dataset struct {
	rows     []domain.ScoreboardRow
	opts     stats.Options
	endDates []*time.Time
}

// load fetches the scoreboard rows for sc and then, concurrently, the game
// context for the pages those rows came from. It returns nil when no rows
// match.
func (s *StatsService) load(ctx context.Context, sc scope) (*dataset, error) {
	spec := sc.spec()

	rows, err := s.matches.Scoreboard(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("failed to load scoreboard: %w", err)
	}
	if len(rows) == 0 {
		s.logger.Debug().Str("filter", describe(spec)).Msg("no scoreboard rows matched")
		return nil, nil
	}

	pages := distinctPages(rows)
	gameSpec := filter.New().Tournament(pages...).Between(sc.from, sc.to).Build()
	tournamentOnly := spec.TournamentOnly()

	var (
		games      []domain.GameContext
		totalGames int
		endDates   []*time.Time
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		games, err = s.matches.GameContexts(gctx, gameSpec)
		if err != nil {
			return fmt.Errorf("failed to load game context: %w", err)
		}
		return nil
	})

	if tournamentOnly {
		g.Go(func() error {
			var err error
			totalGames, err = s.matches.CountGames(gctx, gameSpec)
			if err != nil {
				return fmt.Errorf("failed to count games: %w", err)
			}
			return nil
		})
	}

	if sc.tournament != nil {
		endDates = []*time.Time{sc.tournament.DateEnd}
	} else {
		g.Go(func() error {
			known, err := s.catalog.EndDates(gctx, pages)
			if err != nil {
				return fmt.Errorf("failed to load tournament end dates: %w", err)
			}
			// pages without a tournament record count as unknown
			for len(known) < len(pages) {
				known = append(known, nil)
			}
			endDates = known
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	opts := stats.Options{
		Durations:      meanDurations(games),
		TotalGames:     totalGames,
		TournamentOnly: tournamentOnly,
	}
	if tournamentOnly {
		opts.BanPool = banPool(games)
	}

	s.logger.Debug().
		Int("rows", len(rows)).
		Int("games", len(games)).
		Int("pages", len(pages)).
		Bool("tournament_only", tournamentOnly).
		Msg("dataset loaded")

	return &dataset{rows: rows, opts: opts, endDates: endDates}, nil
}

func distinctPages(rows []domain.ScoreboardRow) []string {
	seen := make(map[string]struct{})
	var pages []string
	for _, r := range rows {
		if _, ok := seen[r.OverviewPage]; ok {
			continue
		}
		seen[r.OverviewPage] = struct{}{}
		pages = append(pages, r.OverviewPage)
	}
	return pages
}

// meanDurations joins game length on the overview page, not on the game, so
// every row in a page is credited that page's mean length.
func meanDurations(games []domain.GameContext) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, g := range games {
		if g.LengthMinutes == nil || *g.LengthMinutes <= 0 {
			continue
		}
		sums[g.OverviewPage] += *g.LengthMinutes
		counts[g.OverviewPage]++
	}

	durations := make(map[string]float64, len(sums))
	for page, sum := range sums {
		durations[page] = sum / float64(counts[page])
	}
	return durations
}

func banPool(games []domain.GameContext) map[string]struct{} {
	pool := make(map[string]struct{})
	for _, g := range games {
		for _, c := range g.Team1Bans {
			pool[c] = struct{}{}
		}
		for _, c := range g.Team2Bans {
			pool[c] = struct{}{}
		}
	}
	return pool
}

func describe(spec filter.Spec) string {
	var kinds []string
	for _, kind := range []filter.Kind{filter.ByTournament, filter.ByPlayer, filter.ByTeam, filter.ByDateRange} {
		if spec.Has(kind) {
			kinds = append(kinds, kind.String())
		}
	}
	return strings.Join(kinds, ",")
}
