package stats

import (
	"math"

	"esports-stats/internal/domain"
)

type accumulator struct {
	games   int
	wins    int
	losses  int
	kills   int
	deaths  int
	assists int
	gold    int
	cs      int
	damage  int
	vision  float64

	// sum of per-game kill participation percentages
	killParticipation float64
	minutes           float64

	distinct map[string]struct{}

	// latest team and role seen, rows arrive oldest first
	team string
	role string
}

func (a *accumulator) add(r domain.ScoreboardRow, minutes float64, hasMinutes bool) {
	a.games++
	if r.Win {
		a.wins++
	} else {
		a.losses++
	}

	a.kills += r.Kills
	a.deaths += r.Deaths
	a.assists += r.Assists
	a.gold += r.Gold
	a.cs += r.CS
	a.damage += r.Damage
	a.vision += r.VisionScore

	teamKills := max(r.TeamKills, 1)
	a.killParticipation += float64(r.Kills+r.Assists) / float64(teamKills) * 100

	if hasMinutes {
		a.minutes += minutes
	}
	if r.Team != "" {
		a.team = r.Team
	}
	if r.Role != "" {
		a.role = r.Role
	}
}

type derived struct {
	avgKills             float64
	avgDeaths            float64
	avgAssists           float64
	avgGold              float64
	avgCS                float64
	avgDamage            float64
	avgVision            float64
	avgKillParticipation float64
	kda                  float64
	winRate              float64
}

func (a *accumulator) derive() derived {
	if a.games == 0 {
		return derived{}
	}
	n := float64(a.games)

	d := derived{
		avgKills:             float64(a.kills) / n,
		avgDeaths:            float64(a.deaths) / n,
		avgAssists:           float64(a.assists) / n,
		avgGold:              float64(a.gold) / n,
		avgCS:                float64(a.cs) / n,
		avgDamage:            float64(a.damage) / n,
		avgVision:            a.vision / n,
		avgKillParticipation: a.killParticipation / n,
		winRate:              float64(a.wins) / n * 100,
	}

	// KDA from averages, not totals
	if d.avgDeaths > 0 {
		d.kda = (d.avgKills + d.avgAssists) / d.avgDeaths
	} else {
		d.kda = d.avgKills + d.avgAssists
	}
	return d
}

func (a *accumulator) perMinute(total float64) float64 {
	if a.minutes > 0 && total > 0 {
		return total / a.minutes
	}
	return 0
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round1(v float64) float64 { return math.Round(v*10) / 10 }
