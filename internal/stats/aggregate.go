// Package stats folds raw scoreboard rows into per-champion and per-player
// aggregates. Everything here is pure and synchronous.
package stats

import (
	"math"
	"sort"

	"esports-stats/internal/domain"
)

// BanHeuristicShare is the flat share of a tournament's games credited as bans
// to any champion found in the ban pool. It is an estimate, not a ban count.
const BanHeuristicShare = 0.10

type Options struct {
	// overview page -> mean game length in minutes
	Durations map[string]float64

	// games in the tournament, used for pick and presence rates
	TotalGames     int
	TournamentOnly bool

	// champions banned at least once in the tournament; nil skips presence rate
	BanPool map[string]struct{}
}

type ChampionStat struct {
	Champion             string   `json:"champion"`
	GamesPlayed          int      `json:"gamesPlayed"`
	Wins                 int      `json:"wins"`
	Losses               int      `json:"losses"`
	WinRate              float64  `json:"winRate"`
	TotalKills           int      `json:"totalKills"`
	TotalDeaths          int      `json:"totalDeaths"`
	TotalAssists         int      `json:"totalAssists"`
	AvgKills             float64  `json:"avgKills"`
	AvgDeaths            float64  `json:"avgDeaths"`
	AvgAssists           float64  `json:"avgAssists"`
	KDA                  float64  `json:"kda"`
	AvgGold              float64  `json:"avgGold"`
	AvgCS                float64  `json:"avgCs"`
	AvgDamage            float64  `json:"avgDamage"`
	AvgVisionScore       float64  `json:"avgVisionScore"`
	AvgKillParticipation float64  `json:"avgKillParticipation"`
	DamagePerMinute      float64  `json:"damagePerMinute"`
	UniquePlayers        int      `json:"uniquePlayers"`
	PickRate             *float64 `json:"pickRate,omitempty"`
	PresenceRate         *float64 `json:"presenceRate,omitempty"`
}

type PlayerStat struct {
	Player               string  `json:"player"`
	Team                 string  `json:"team"`
	Role                 string  `json:"role"`
	GamesPlayed          int     `json:"gamesPlayed"`
	Wins                 int     `json:"wins"`
	Losses               int     `json:"losses"`
	WinRate              float64 `json:"winRate"`
	TotalKills           int     `json:"totalKills"`
	TotalDeaths          int     `json:"totalDeaths"`
	TotalAssists         int     `json:"totalAssists"`
	AvgKills             float64 `json:"avgKills"`
	AvgDeaths            float64 `json:"avgDeaths"`
	AvgAssists           float64 `json:"avgAssists"`
	KDA                  float64 `json:"kda"`
	AvgGold              float64 `json:"avgGold"`
	AvgCS                float64 `json:"avgCs"`
	AvgDamage            float64 `json:"avgDamage"`
	AvgVisionScore       float64 `json:"avgVisionScore"`
	AvgKillParticipation float64 `json:"avgKillParticipation"`
	DamagePerMinute      float64 `json:"damagePerMinute"`
	GoldPerMinute        float64 `json:"goldPerMinute"`
	CSPerMinute          float64 `json:"csPerMinute"`
	UniqueChampions      int     `json:"uniqueChampions"`
}

// Champions aggregates rows per champion, sorted by games played then win rate.
func Champions(rows []domain.ScoreboardRow, opts Options) []ChampionStat {
	groups, order := fold(rows, opts,
		func(r domain.ScoreboardRow) string { return r.Champion },
		func(r domain.ScoreboardRow) string { return r.Link },
	)

	result := make([]ChampionStat, 0, len(order))
	for _, champion := range order {
		acc := groups[champion]
		d := acc.derive()

		stat := ChampionStat{
			Champion:             champion,
			GamesPlayed:          acc.games,
			Wins:                 acc.wins,
			Losses:               acc.losses,
			WinRate:              round2(d.winRate),
			TotalKills:           acc.kills,
			TotalDeaths:          acc.deaths,
			TotalAssists:         acc.assists,
			AvgKills:             round2(d.avgKills),
			AvgDeaths:            round2(d.avgDeaths),
			AvgAssists:           round2(d.avgAssists),
			KDA:                  round2(d.kda),
			AvgGold:              math.Round(d.avgGold),
			AvgCS:                round1(d.avgCS),
			AvgDamage:            math.Round(d.avgDamage),
			AvgVisionScore:       round1(d.avgVision),
			AvgKillParticipation: round2(d.avgKillParticipation),
			DamagePerMinute:      round2(acc.perMinute(float64(acc.damage))),
			UniquePlayers:        len(acc.distinct),
		}

		if opts.TournamentOnly && opts.TotalGames > 0 {
			pick := round2(float64(acc.games) / float64(opts.TotalGames) * 100)
			stat.PickRate = &pick

			if opts.BanPool != nil {
				presence := round2(presenceRate(champion, acc.games, opts))
				stat.PresenceRate = &presence
			}
		}

		result = append(result, stat)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].GamesPlayed != result[j].GamesPlayed {
			return result[i].GamesPlayed > result[j].GamesPlayed
		}
		return result[i].WinRate > result[j].WinRate
	})
	return result
}

// Players aggregates rows per player key, sorted by KDA then win rate.
func Players(rows []domain.ScoreboardRow, opts Options) []PlayerStat {
	groups, order := fold(rows, opts,
		func(r domain.ScoreboardRow) string { return r.Link },
		func(r domain.ScoreboardRow) string { return r.Champion },
	)

	result := make([]PlayerStat, 0, len(order))
	for _, player := range order {
		acc := groups[player]
		d := acc.derive()

		result = append(result, PlayerStat{
			Player:               player,
			Team:                 acc.team,
			Role:                 acc.role,
			GamesPlayed:          acc.games,
			Wins:                 acc.wins,
			Losses:               acc.losses,
			WinRate:              round2(d.winRate),
			TotalKills:           acc.kills,
			TotalDeaths:          acc.deaths,
			TotalAssists:         acc.assists,
			AvgKills:             round2(d.avgKills),
			AvgDeaths:            round2(d.avgDeaths),
			AvgAssists:           round2(d.avgAssists),
			KDA:                  round2(d.kda),
			AvgGold:              math.Round(d.avgGold),
			AvgCS:                round1(d.avgCS),
			AvgDamage:            math.Round(d.avgDamage),
			AvgVisionScore:       round1(d.avgVision),
			AvgKillParticipation: round2(d.avgKillParticipation),
			DamagePerMinute:      round2(acc.perMinute(float64(acc.damage))),
			GoldPerMinute:        round2(acc.perMinute(float64(acc.gold))),
			CSPerMinute:          round2(acc.perMinute(float64(acc.cs))),
			UniqueChampions:      len(acc.distinct),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].KDA != result[j].KDA {
			return result[i].KDA > result[j].KDA
		}
		return result[i].WinRate > result[j].WinRate
	})
	return result
}

// SinglePlayer picks key out of a player list, falling back to the first
// entry when rows were recorded under a different alias.
func SinglePlayer(list []PlayerStat, key string) *PlayerStat {
	if len(list) == 0 {
		return nil
	}
	for i := range list {
		if list[i].Player == key {
			return &list[i]
		}
	}
	return &list[0]
}

// Paginate returns the window [offset, offset+limit). limit <= 0 means no limit.
func Paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func presenceRate(champion string, games int, opts Options) float64 {
	contested := float64(games)
	if _, banned := opts.BanPool[champion]; banned {
		estimatedBans := math.Max(1, math.Floor(float64(opts.TotalGames)*BanHeuristicShare))
		contested += estimatedBans
	}
	return math.Min(100, contested/float64(opts.TotalGames)*100)
}

func fold(rows []domain.ScoreboardRow, opts Options, key, distinct func(domain.ScoreboardRow) string) (map[string]*accumulator, []string) {
	groups := make(map[string]*accumulator)
	var order []string

	for _, r := range rows {
		k := key(r)
		acc, ok := groups[k]
		if !ok {
			acc = &accumulator{distinct: make(map[string]struct{})}
			groups[k] = acc
			order = append(order, k)
		}

		minutes, hasMinutes := opts.Durations[r.OverviewPage]
		acc.add(r, minutes, hasMinutes)
		if d := distinct(r); d != "" {
			acc.distinct[d] = struct{}{}
		}
	}
	return groups, order
}
