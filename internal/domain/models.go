package domain

import (
	"errors"
	"time"
)

// ErrNotFound is wrapped by every lookup that fails to find its entity.
var ErrNotFound = errors.New("not found")

type Tournament struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	StandardName  string     `json:"standardName,omitempty"`
	OverviewPage  string     `json:"overviewPage"`
	League        string     `json:"league"`
	LeagueShort   string     `json:"leagueShort,omitempty"`
	Year          string     `json:"year,omitempty"` // "" when unrecorded
	Split         string     `json:"split,omitempty"`
	SplitNumber   *int       `json:"splitNumber,omitempty"`
	SplitMainPage string     `json:"splitMainPage,omitempty"`
	DateStart     *time.Time `json:"dateStart,omitempty"`
	DateEnd       *time.Time `json:"dateEnd,omitempty"`
	MatchCount    int        `json:"matchCount"`
}

type League struct {
	Name   string `json:"name"`
	Short  string `json:"short"`
	Region string `json:"region"`
}

// Player is a canonical entity; OverviewPage is its stable key.
type Player struct {
	OverviewPage string `json:"overviewPage"`
	Name         string `json:"name"`
	Team         string `json:"team,omitempty"`
	Role         string `json:"role,omitempty"`
}

type PlayerRedirect struct {
	Alias        string
	OverviewPage string
}

type Team struct {
	Name   string `json:"name"`
	Short  string `json:"short,omitempty"`
	Region string `json:"region,omitempty"`
}

// ScoreboardRow is one player's line in one game.
type ScoreboardRow struct {
	GameID       string
	OverviewPage string
	Link         string // player overview page
	Champion     string
	Team         string
	Role         string
	Kills        int
	Deaths       int
	Assists      int
	Gold         int
	CS           int
	Damage       int
	VisionScore  float64
	TeamKills    int
	Win          bool
	PlayedAt     time.Time
}

// GameContext carries per-game duration and draft data. It is matched to
// scoreboard rows through OverviewPage, not GameID.
type GameContext struct {
	GameID        string
	OverviewPage  string
	LengthMinutes *float64
	Team1Picks    []string
	Team2Picks    []string
	Team1Bans     []string
	Team2Bans     []string
}
