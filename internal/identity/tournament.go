package identity

import (
	"context"
	"strconv"

	"esports-stats/internal/domain"
)

type TournamentStore interface {
	ByID(ctx context.Context, id int) (*domain.Tournament, error)
	ByIdentifier(ctx context.Context, identifier string) (*domain.Tournament, error)
}

type TournamentResolver struct {
	store TournamentStore
}

func NewTournamentResolver(store TournamentStore) *TournamentResolver {
	return &TournamentResolver{store: store}
}

// Resolve treats an all-digit identifier as a numeric id and anything else as
// a name, overview page or standard name. A tournament literally named "2024"
// can therefore only be reached through its overview page.
func (r *TournamentResolver) Resolve(ctx context.Context, identifier string) (*domain.Tournament, error) {
	if id, err := strconv.Atoi(identifier); err == nil {
		return r.store.ByID(ctx, id)
	}
	return r.store.ByIdentifier(ctx, identifier)
}
