package filter

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var scoreboardCols = Columns{
	ByTournament: "overview_page",
	ByPlayer:     "link",
	ByTeam:       "team",
	ByDateRange:  "played_at",
}

func TestBuilderOrderIndependent(t *testing.T) {
	a := New().Tournament("LEC/2024 Season/Spring Season").Players("Caps", "Caps (Rasmus Winther)").Build()
	b := New().Players("Caps (Rasmus Winther)", "Caps").Tournament("LEC/2024 Season/Spring Season").Build()

	whereA, argsA, err := a.Compile(scoreboardCols)
	if err != nil {
		t.Fatal(err)
	}
	whereB, argsB, err := b.Compile(scoreboardCols)
	if err != nil {
		t.Fatal(err)
	}

	if whereA != whereB {
		t.Fatalf("where differs: %q vs %q", whereA, whereB)
	}
	if diff := cmp.Diff(argsA, argsB); diff != "" {
		t.Fatalf("args differ (-a +b):\n%s", diff)
	}
}

func TestCompile(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		spec      Spec
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "empty",
			spec:      New().Build(),
			wantWhere: "",
		},
		{
			name:      "single tournament",
			spec:      New().Tournament("Worlds 2023").Build(),
			wantWhere: "WHERE overview_page = ?",
			wantArgs:  []any{"Worlds 2023"},
		},
		{
			name:      "player aliases become a set",
			spec:      New().Players("b", "a", "a").Build(),
			wantWhere: "WHERE link IN (?, ?)",
			wantArgs:  []any{"a", "b"},
		},
		{
			name:      "team and open date range",
			spec:      New().Between(&from, nil).Team("G2 Esports").Build(),
			wantWhere: "WHERE team = ? AND played_at >= ?",
			wantArgs:  []any{"G2 Esports", from},
		},
		{
			name:      "blank values dropped",
			spec:      New().Team("").Players().Build(),
			wantWhere: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args, err := tt.spec.Compile(scoreboardCols)
			if err != nil {
				t.Fatal(err)
			}
			if where != tt.wantWhere {
				t.Fatalf("where = %q, want %q", where, tt.wantWhere)
			}
			if diff := cmp.Diff(tt.wantArgs, args); diff != "" {
				t.Fatalf("args (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompileUnsupported(t *testing.T) {
	spec := New().Players("Faker").Build()
	_, _, err := spec.Compile(Columns{ByTournament: "overview_page"})
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestTournamentOnly(t *testing.T) {
	if !New().Tournament("x").Build().TournamentOnly() {
		t.Fatal("tournament filter alone should be tournament-only")
	}
	if New().Tournament("x").Team("y").Build().TournamentOnly() {
		t.Fatal("team filter should disable tournament-only")
	}
	if New().Players("p").Build().TournamentOnly() {
		t.Fatal("no tournament means not tournament-only")
	}
}
