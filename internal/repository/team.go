package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"esports-stats/internal/domain"

	"github.com/rs/zerolog"
)

type TeamRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewTeamRepository(sqlDB *sql.DB, logger zerolog.Logger) *TeamRepository {
	return &TeamRepository{db: sqlDB, logger: logger}
}

func (r *TeamRepository) TeamByName(ctx context.Context, name string) (*domain.Team, error) {
	var team domain.Team
	err := r.db.QueryRowContext(ctx,
		`SELECT name, short, region FROM teams WHERE name = ?`, name,
	).Scan(&team.Name, &team.Short, &team.Region)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("team %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		r.logger.Error().Err(err).Str("team", name).Msg("failed to query team")
		return nil, fmt.Errorf("failed to query team: %w", err)
	}
	return &team, nil
}
