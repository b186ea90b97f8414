package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"esports-stats/internal/domain"
	"esports-stats/internal/filter"

	"github.com/rs/zerolog"
)

var scoreboardColumns = filter.Columns{
	filter.ByTournament: "overview_page",
	filter.ByPlayer:     "link",
	filter.ByTeam:       "team",
	filter.ByDateRange:  "played_at",
}

var gameColumns = filter.Columns{
	filter.ByTournament: "overview_page",
	filter.ByDateRange:  "played_at",
}

type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// Scoreboard returns raw per-game player rows matching spec, oldest first.
func (r *MatchRepository) Scoreboard(ctx context.Context, spec filter.Spec) ([]domain.ScoreboardRow, error) {
	where, args, err := spec.Compile(scoreboardColumns)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT game_id, overview_page, link, champion, team, role,
			kills, deaths, assists, gold, cs, damage, vision_score, team_kills,
			player_win, played_at
		FROM scoreboard_players `+where+`
		ORDER BY played_at, id`, args...)
	if err != nil {
		r.logger.Error().Err(err).Str("where", where).Msg("failed to query scoreboard")
		return nil, fmt.Errorf("failed to query scoreboard: %w", err)
	}
	defer rows.Close()

	var result []domain.ScoreboardRow
	for rows.Next() {
		var row domain.ScoreboardRow
		err := rows.Scan(
			&row.GameID, &row.OverviewPage, &row.Link, &row.Champion, &row.Team, &row.Role,
			&row.Kills, &row.Deaths, &row.Assists, &row.Gold, &row.CS, &row.Damage,
			&row.VisionScore, &row.TeamKills, &row.Win, &row.PlayedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scoreboard row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.logger.Debug().Int("rows", len(result)).Msg("scoreboard fetched")
	return result, nil
}

func (r *MatchRepository) CountGames(ctx context.Context, spec filter.Spec) (int, error) {
	where, args, err := spec.Compile(gameColumns)
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scoreboard_games `+where, args...).Scan(&count); err != nil {
		r.logger.Error().Err(err).Str("where", where).Msg("failed to count games")
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return count, nil
}

// GameContexts returns duration and draft data for games matching spec.
func (r *MatchRepository) GameContexts(ctx context.Context, spec filter.Spec) ([]domain.GameContext, error) {
	where, args, err := spec.Compile(gameColumns)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT game_id, overview_page, gamelength_minutes,
			team1_picks, team2_picks, team1_bans, team2_bans
		FROM scoreboard_games `+where+`
		ORDER BY played_at, game_id`, args...)
	if err != nil {
		r.logger.Error().Err(err).Str("where", where).Msg("failed to query game contexts")
		return nil, fmt.Errorf("failed to query game contexts: %w", err)
	}
	defer rows.Close()

	var result []domain.GameContext
	for rows.Next() {
		var (
			g              domain.GameContext
			length         sql.NullFloat64
			picks1, picks2 string
			bans1, bans2   string
		)
		if err := rows.Scan(&g.GameID, &g.OverviewPage, &length, &picks1, &picks2, &bans1, &bans2); err != nil {
			return nil, fmt.Errorf("failed to scan game context: %w", err)
		}
		if length.Valid {
			l := length.Float64
			g.LengthMinutes = &l
		}
		g.Team1Picks = splitList(picks1)
		g.Team2Picks = splitList(picks2)
		g.Team1Bans = splitList(bans1)
		g.Team2Bans = splitList(bans2)
		result = append(result, g)
	}
	return result, rows.Err()
}

// splitList parses the comma separated champion lists stored per game.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
