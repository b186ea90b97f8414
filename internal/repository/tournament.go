package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"esports-stats/internal/domain"
	"esports-stats/internal/filter"

	"github.com/rs/zerolog"
)

const tournamentColumns = `
	t.id, t.name, t.standard_name, t.overview_page, t.league, t.league_short,
	t.year, t.split, t.split_number, t.split_main_page, t.date_start, t.date_end,
	(SELECT COUNT(*) FROM scoreboard_games g WHERE g.overview_page = t.overview_page)`

type TournamentRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewTournamentRepository(sqlDB *sql.DB, logger zerolog.Logger) *TournamentRepository {
	return &TournamentRepository{db: sqlDB, logger: logger}
}

func (r *TournamentRepository) ByID(ctx context.Context, id int) (*domain.Tournament, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+tournamentColumns+` FROM tournaments t WHERE t.id = ?`, id)

	t, err := scanTournament(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tournament %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		r.logger.Error().Err(err).Int("id", id).Msg("failed to query tournament")
		return nil, fmt.Errorf("failed to query tournament: %w", err)
	}
	return t, nil
}

// ByIdentifier returns the lowest-id tournament whose name, overview page or
// standard name equals identifier.
func (r *TournamentRepository) ByIdentifier(ctx context.Context, identifier string) (*domain.Tournament, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+tournamentColumns+` FROM tournaments t
		WHERE t.name = ? OR t.overview_page = ? OR t.standard_name = ?
		ORDER BY t.id LIMIT 1`,
		identifier, identifier, identifier)

	t, err := scanTournament(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tournament %q: %w", identifier, domain.ErrNotFound)
	}
	if err != nil {
		r.logger.Error().Err(err).Str("identifier", identifier).Msg("failed to query tournament")
		return nil, fmt.Errorf("failed to query tournament: %w", err)
	}
	return t, nil
}

// ListByLeague returns a league's tournaments with their match counts. An
// empty league lists every tournament.
func (r *TournamentRepository) ListByLeague(ctx context.Context, league string) ([]domain.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments t`
	var args []any
	if league != "" {
		query += ` WHERE t.league = ? OR t.league_short = ?`
		args = append(args, league, league)
	}
	query += ` ORDER BY t.date_start, t.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Str("league", league).Msg("failed to list tournaments")
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	var result []domain.Tournament
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", err)
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.logger.Debug().Str("league", league).Int("count", len(result)).Msg("tournaments listed")
	return result, nil
}

// EndDates returns the end date of each known tournament among pages, nil
// where a tournament has none. Unknown pages are skipped.
func (r *TournamentRepository) EndDates(ctx context.Context, pages []string) ([]*time.Time, error) {
	spec := filter.New().Tournament(pages...).Build()
	if spec.Empty() {
		return nil, nil
	}

	where, args, err := spec.Compile(filter.Columns{filter.ByTournament: "overview_page"})
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT date_end FROM tournaments `+where, args...)
	if err != nil {
		r.logger.Error().Err(err).Int("pages", len(pages)).Msg("failed to query tournament end dates")
		return nil, fmt.Errorf("failed to query tournament end dates: %w", err)
	}
	defer rows.Close()

	var result []*time.Time
	for rows.Next() {
		var end sql.NullTime
		if err := rows.Scan(&end); err != nil {
			return nil, fmt.Errorf("failed to scan end date: %w", err)
		}
		if end.Valid {
			e := end.Time
			result = append(result, &e)
		} else {
			result = append(result, nil)
		}
	}
	return result, rows.Err()
}

func (r *TournamentRepository) Leagues(ctx context.Context) ([]domain.League, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, short, region FROM leagues ORDER BY name`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to list leagues")
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	defer rows.Close()

	var result []domain.League
	for rows.Next() {
		var l domain.League
		if err := rows.Scan(&l.Name, &l.Short, &l.Region); err != nil {
			return nil, fmt.Errorf("failed to scan league: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTournament(s scanner) (*domain.Tournament, error) {
	var (
		t             domain.Tournament
		year, split   sql.NullString
		splitMainPage sql.NullString
		splitNumber   sql.NullInt64
		start, end    sql.NullTime
	)

	err := s.Scan(
		&t.ID, &t.Name, &t.StandardName, &t.OverviewPage, &t.League, &t.LeagueShort,
		&year, &split, &splitNumber, &splitMainPage, &start, &end,
		&t.MatchCount,
	)
	if err != nil {
		return nil, err
	}

	t.Year = year.String
	t.Split = split.String
	t.SplitMainPage = splitMainPage.String
	if splitNumber.Valid {
		n := int(splitNumber.Int64)
		t.SplitNumber = &n
	}
	if start.Valid {
		ds := start.Time
		t.DateStart = &ds
	}
	if end.Valid {
		e := end.Time
		t.DateEnd = &e
	}
	return &t, nil
}
