package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"esports-stats/internal/domain"

	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// RedirectByAlias is an exact, case-sensitive lookup in the alias table.
func (r *PlayerRepository) RedirectByAlias(ctx context.Context, alias string) (*domain.PlayerRedirect, error) {
	var redirect domain.PlayerRedirect
	err := r.db.QueryRowContext(ctx,
		`SELECT alias, overview_page FROM player_redirects WHERE alias = ?`, alias,
	).Scan(&redirect.Alias, &redirect.OverviewPage)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player redirect %q: %w", alias, domain.ErrNotFound)
	}
	if err != nil {
		r.logger.Error().Err(err).Str("alias", alias).Msg("failed to query player redirect")
		return nil, fmt.Errorf("failed to query player redirect: %w", err)
	}
	return &redirect, nil
}

func (r *PlayerRepository) PlayerByKey(ctx context.Context, key string) (*domain.Player, error) {
	var player domain.Player
	err := r.db.QueryRowContext(ctx,
		`SELECT overview_page, name, team, role FROM players WHERE overview_page = ?`, key,
	).Scan(&player.OverviewPage, &player.Name, &player.Team, &player.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %q: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to query player")
		return nil, fmt.Errorf("failed to query player: %w", err)
	}
	return &player, nil
}

// RedirectsTo returns every alias pointing at the canonical key.
func (r *PlayerRepository) RedirectsTo(ctx context.Context, key string) ([]domain.PlayerRedirect, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT alias, overview_page FROM player_redirects WHERE overview_page = ? ORDER BY alias`, key,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to query player aliases")
		return nil, fmt.Errorf("failed to query player aliases: %w", err)
	}
	defer rows.Close()

	var result []domain.PlayerRedirect
	for rows.Next() {
		var redirect domain.PlayerRedirect
		if err := rows.Scan(&redirect.Alias, &redirect.OverviewPage); err != nil {
			return nil, fmt.Errorf("failed to scan player alias: %w", err)
		}
		result = append(result, redirect)
	}
	return result, rows.Err()
}
