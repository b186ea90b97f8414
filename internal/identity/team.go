package identity

import (
	"context"

	"esports-stats/internal/domain"
)

type TeamStore interface {
	TeamByName(ctx context.Context, name string) (*domain.Team, error)
}

// TeamResolution mirrors PlayerResolution, but teams have no alias table so
// Aliases is always the single input name.
type TeamResolution struct {
	Key     string      `json:"key"`
	Aliases []string    `json:"aliases"`
	Team    domain.Team `json:"team"`
}

type TeamResolver struct {
	store TeamStore
}

func NewTeamResolver(store TeamStore) *TeamResolver {
	return &TeamResolver{store: store}
}

func (r *TeamResolver) Resolve(ctx context.Context, name string) (*TeamResolution, error) {
	team, err := r.store.TeamByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return &TeamResolution{Key: team.Name, Aliases: []string{name}, Team: *team}, nil
}
