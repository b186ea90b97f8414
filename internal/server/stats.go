package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"esports-stats/internal/constants"
	"esports-stats/internal/domain"
	"esports-stats/internal/identity"
	"esports-stats/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type StatsAPI interface {
	ChampionStats(ctx context.Context, q service.Query) (*service.ChampionStatsResult, error)
	PlayerStats(ctx context.Context, q service.Query) (*service.PlayerStatsResult, error)
	SeasonTree(ctx context.Context, league string) (*service.SeasonTreeResult, error)
	Leagues(ctx context.Context) (*service.LeaguesResult, error)
	Tournament(ctx context.Context, identifier string) (*service.TournamentResult, error)
	ResolvePlayer(ctx context.Context, name string) (*identity.PlayerResolution, error)
	ResolvePlayers(ctx context.Context, names []string) []identity.Outcome
}

type StatsServer struct {
	stats  StatsAPI
	logger zerolog.Logger
}

func NewStatsServer(stats StatsAPI, logger zerolog.Logger) *StatsServer {
	return &StatsServer{stats: stats, logger: logger}
}

// Routes mounts every endpoint under r. Callers usually pass a subrouter
// rooted at /api.
func (s *StatsServer) Routes(r chi.Router) {
	r.Get("/health", s.Health)
	r.Get("/stats/champions", s.ChampionStats)
	r.Get("/stats/players", s.PlayerStats)
	r.Get("/leagues", s.Leagues)
	r.Get("/leagues/{league}/seasons", s.SeasonTree)
	r.Get("/tournaments/{identifier}", s.Tournament)
	r.Get("/players/{name}", s.ResolvePlayer)
	r.Post("/players/resolve", s.ResolvePlayers)
}

func (s *StatsServer) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
}

func (s *StatsServer) ChampionStats(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}

	res, err := s.stats.ChampionStats(r.Context(), q)
	s.respond(w, r, res, res == nil, err)
}

func (s *StatsServer) PlayerStats(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}

	res, err := s.stats.PlayerStats(r.Context(), q)
	s.respond(w, r, res, res == nil, err)
}

func (s *StatsServer) Leagues(w http.ResponseWriter, r *http.Request) {
	res, err := s.stats.Leagues(r.Context())
	s.respond(w, r, res, res == nil, err)
}

func (s *StatsServer) SeasonTree(w http.ResponseWriter, r *http.Request) {
	res, err := s.stats.SeasonTree(r.Context(), chi.URLParam(r, "league"))
	s.respond(w, r, res, res == nil, err)
}

func (s *StatsServer) Tournament(w http.ResponseWriter, r *http.Request) {
	res, err := s.stats.Tournament(r.Context(), chi.URLParam(r, "identifier"))
	s.respond(w, r, res, res == nil, err)
}

func (s *StatsServer) ResolvePlayer(w http.ResponseWriter, r *http.Request) {
	res, err := s.stats.ResolvePlayer(r.Context(), chi.URLParam(r, "name"))
	s.respond(w, r, res, res == nil, err)
}

type resolveRequest struct {
	Names []string `json:"names"`
}

type resolveOutcome struct {
	Input   string   `json:"input"`
	Key     string   `json:"key,omitempty"`
	Aliases []string `json:"aliases,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func (s *StatsServer) ResolvePlayers(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, r, fmt.Errorf("invalid body: %w", err))
		return
	}
	if len(req.Names) == 0 {
		s.badRequest(w, r, errors.New("names must not be empty"))
		return
	}
	if len(req.Names) > constants.MaxBatchResolve {
		s.badRequest(w, r, fmt.Errorf("at most %d names per request", constants.MaxBatchResolve))
		return
	}

	outcomes := s.stats.ResolvePlayers(r.Context(), req.Names)

	results := make([]resolveOutcome, len(outcomes))
	for i, o := range outcomes {
		results[i] = resolveOutcome{Input: o.Input}
		switch {
		case errors.Is(o.Err, domain.ErrNotFound):
			results[i].Error = "not found"
		case o.Err != nil:
			s.log(r).Error().Err(o.Err).Str("input", o.Input).Msg("player resolution failed")
			results[i].Error = "lookup failed"
		default:
			results[i].Key = o.Resolution.Key
			results[i].Aliases = o.Resolution.Aliases
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// respond writes res, or maps err and empty results onto a status code.
// Only ErrNotFound becomes 404; every other error is a 500.
func (s *StatsServer) respond(w http.ResponseWriter, r *http.Request, res any, empty bool, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case err != nil:
		s.log(r).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	case empty:
		writeError(w, http.StatusNotFound, "no data for the given filters")
	default:
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *StatsServer) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	s.log(r).Debug().Err(err).Str("path", r.URL.Path).Msg("bad request")
	writeError(w, http.StatusBadRequest, err.Error())
}

// log prefers the request-scoped logger set by the request id middleware.
func (s *StatsServer) log(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.logger
}

func parseQuery(r *http.Request) (service.Query, error) {
	v := r.URL.Query()
	q := service.Query{
		Tournament: v.Get("tournament"),
		Player:     v.Get("player"),
		Team:       v.Get("team"),
	}

	var err error
	if q.From, err = parseTime(v.Get("from"), false); err != nil {
		return service.Query{}, fmt.Errorf("invalid 'from': %w", err)
	}
	if q.To, err = parseTime(v.Get("to"), true); err != nil {
		return service.Query{}, fmt.Errorf("invalid 'to': %w", err)
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return service.Query{}, errors.New("'to' is before 'from'")
	}

	if q.Limit, err = parseInt(v.Get("limit")); err != nil {
		return service.Query{}, fmt.Errorf("invalid 'limit': %w", err)
	}
	if q.Offset, err = parseInt(v.Get("offset")); err != nil {
		return service.Query{}, fmt.Errorf("invalid 'offset': %w", err)
	}
	return q, nil
}

// parseTime accepts RFC 3339 timestamps and plain dates. A plain date used as
// an upper bound covers the whole day.
func parseTime(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("%q is neither RFC 3339 nor YYYY-MM-DD", s)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New("must not be negative")
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
