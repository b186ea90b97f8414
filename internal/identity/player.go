// Package identity maps free-text names to canonical records before any
// query runs. Players, teams and tournaments each resolve differently.
package identity

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"unicode"
	"unicode/utf8"

	"esports-stats/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type PlayerStore interface {
	RedirectByAlias(ctx context.Context, alias string) (*domain.PlayerRedirect, error)
	PlayerByKey(ctx context.Context, key string) (*domain.Player, error)
	RedirectsTo(ctx context.Context, key string) ([]domain.PlayerRedirect, error)
}

// Match records how a name was resolved. It is either Aliased or Direct.
type Match interface {
	canonicalKey() string
}

// Aliased means the input was found in the alias table.
type Aliased struct {
	Redirect domain.PlayerRedirect
}

// Direct means the input (possibly with its first letter upper-cased) was
// the canonical key itself.
type Direct struct {
	Player domain.Player
}

func (a Aliased) canonicalKey() string { return a.Redirect.OverviewPage }
func (d Direct) canonicalKey() string  { return d.Player.OverviewPage }

type PlayerResolution struct {
	Input   string   `json:"input"`
	Key     string   `json:"key"`
	Aliases []string `json:"aliases"`
	Match   Match    `json:"-"`
}

type PlayerResolver struct {
	store  PlayerStore
	logger zerolog.Logger
}

func NewPlayerResolver(store PlayerStore, logger zerolog.Logger) *PlayerResolver {
	return &PlayerResolver{store: store, logger: logger}
}

func (r *PlayerResolver) Resolve(ctx context.Context, name string) (*PlayerResolution, error) {
	match, err := r.match(ctx, name)
	if err != nil {
		return nil, err
	}

	key := match.canonicalKey()
	redirects, err := r.store.RedirectsTo(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load aliases for %q: %w", key, err)
	}

	aliases := []string{key}
	for _, redirect := range redirects {
		aliases = append(aliases, redirect.Alias)
	}
	slices.Sort(aliases)
	aliases = slices.Compact(aliases)

	r.logger.Debug().
		Str("input", name).
		Str("key", key).
		Int("aliases", len(aliases)).
		Msg("player resolved")

	return &PlayerResolution{Input: name, Key: key, Aliases: aliases, Match: match}, nil
}

func (r *PlayerResolver) match(ctx context.Context, name string) (Match, error) {
	redirect, err := r.store.RedirectByAlias(ctx, name)
	if err == nil {
		return Aliased{Redirect: *redirect}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	player, err := r.store.PlayerByKey(ctx, name)
	if err == nil {
		return Direct{Player: *player}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if upper := upperFirst(name); upper != name {
		player, err = r.store.PlayerByKey(ctx, upper)
		if err == nil {
			return Direct{Player: *player}, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("player %q: %w", name, domain.ErrNotFound)
}

// Outcome is the result of resolving one name in a batch.
type Outcome struct {
	Input      string
	Resolution *PlayerResolution
	Err        error
}

// ResolveAll resolves every name concurrently. Each name gets its own
// Outcome, in input order; one failure does not affect the others.
func (r *PlayerResolver) ResolveAll(ctx context.Context, names []string) []Outcome {
	outcomes := make([]Outcome, len(names))

	g := new(errgroup.Group)
	for i, name := range names {
		g.Go(func() error {
			res, err := r.Resolve(ctx, name)
			outcomes[i] = Outcome{Input: name, Resolution: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	r.logger.Debug().Int("requested", len(names)).Int("failed", failed).Msg("batch player resolution finished")

	return outcomes
}

// Succeeded keeps only the successful resolutions, dropping failures.
func Succeeded(outcomes []Outcome) []*PlayerResolution {
	var result []*PlayerResolution
	for _, o := range outcomes {
		if o.Err == nil {
			result = append(result, o.Resolution)
		}
	}
	return result
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
