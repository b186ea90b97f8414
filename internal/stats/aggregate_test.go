package stats

import (
	"testing"

	"esports-stats/internal/domain"

	"github.com/google/go-cmp/cmp"
)

func row(champion, link string, k, d, a int, win bool) domain.ScoreboardRow {
	return domain.ScoreboardRow{
		GameID:       champion + link,
		OverviewPage: "LEC/2024 Season/Spring Season",
		Link:         link,
		Champion:     champion,
		Kills:        k,
		Deaths:       d,
		Assists:      a,
		TeamKills:    10,
		Win:          win,
	}
}

func TestKDAFromAverages(t *testing.T) {
	tests := []struct {
		name   string
		deaths int
		want   float64
	}{
		{"deathless game", 0, 8.0},
		{"two deaths", 2, 4.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Players([]domain.ScoreboardRow{row("Ahri", "Caps", 5, tt.deaths, 3, true)}, Options{})
			if len(got) != 1 {
				t.Fatalf("expected 1 player, got %d", len(got))
			}
			if got[0].KDA != tt.want {
				t.Fatalf("kda = %v, want %v", got[0].KDA, tt.want)
			}
		})
	}
}

func TestWinRate(t *testing.T) {
	rows := []domain.ScoreboardRow{
		row("Azir", "Caps", 1, 1, 1, true),
		row("Azir", "Caps", 1, 1, 1, true),
		row("Azir", "Caps", 1, 1, 1, true),
		row("Azir", "Caps", 1, 1, 1, false),
		row("Azir", "Caps", 1, 1, 1, false),
	}

	got := Champions(rows, Options{})
	if got[0].WinRate != 60.0 {
		t.Fatalf("win rate = %v, want 60", got[0].WinRate)
	}
	if got[0].Wins != 3 || got[0].Losses != 2 {
		t.Fatalf("wins/losses = %d/%d, want 3/2", got[0].Wins, got[0].Losses)
	}
}

func TestChampionSortTieBreaksOnWinRate(t *testing.T) {
	rows := []domain.ScoreboardRow{
		row("Orianna", "Caps", 1, 1, 1, true),
		row("Orianna", "Humanoid", 1, 1, 1, false),
		row("Syndra", "Caps", 1, 1, 1, true),
		row("Syndra", "Humanoid", 1, 1, 1, true),
		row("Taliyah", "Caps", 1, 1, 1, false),
		row("Taliyah", "Caps", 1, 1, 1, false),
		row("Taliyah", "Caps", 1, 1, 1, false),
	}

	got := Champions(rows, Options{})

	var order []string
	for _, c := range got {
		order = append(order, c.Champion)
	}
	if diff := cmp.Diff([]string{"Taliyah", "Syndra", "Orianna"}, order); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
	if got[1].UniquePlayers != 2 || got[0].UniquePlayers != 1 {
		t.Fatalf("unique players = %d/%d", got[1].UniquePlayers, got[0].UniquePlayers)
	}
}

func TestPlayerSortByKDAThenWinRate(t *testing.T) {
	rows := []domain.ScoreboardRow{
		row("Ahri", "Caps", 2, 1, 2, false),     // kda 4
		row("Ahri", "Humanoid", 2, 1, 2, true),  // kda 4, better win rate
		row("Ahri", "Larssen", 10, 1, 0, false), // kda 10
	}

	got := Players(rows, Options{})

	var order []string
	for _, p := range got {
		order = append(order, p.Player)
	}
	if diff := cmp.Diff([]string{"Larssen", "Humanoid", "Caps"}, order); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
}

func TestKillParticipationAveragesPerGameRatios(t *testing.T) {
	a := row("Rell", "Mikyx", 2, 0, 2, true)
	a.TeamKills = 4 // 100%
	b := row("Rell", "Mikyx", 1, 0, 1, false)
	b.TeamKills = 8 // 25%
	c := row("Rell", "Mikyx", 0, 0, 0, false)
	c.TeamKills = 0 // 0%, guarded divisor

	got := Champions([]domain.ScoreboardRow{a, b, c}, Options{})
	if got[0].AvgKillParticipation != 41.67 {
		t.Fatalf("kp = %v, want 41.67", got[0].AvgKillParticipation)
	}
}

func TestPerMinuteRates(t *testing.T) {
	a := row("Jinx", "Hans Sama", 3, 1, 4, true)
	a.Damage, a.Gold, a.CS = 15000, 12000, 300
	b := row("Jinx", "Hans Sama", 3, 1, 4, true)
	b.Damage, b.Gold, b.CS = 15000, 12000, 300

	opts := Options{Durations: map[string]float64{"LEC/2024 Season/Spring Season": 30}}

	players := Players([]domain.ScoreboardRow{a, b}, opts)
	p := players[0]
	if p.DamagePerMinute != 500 || p.GoldPerMinute != 400 || p.CSPerMinute != 10 {
		t.Fatalf("per minute = %v/%v/%v", p.DamagePerMinute, p.GoldPerMinute, p.CSPerMinute)
	}

	noDurations := Champions([]domain.ScoreboardRow{a, b}, Options{})
	if noDurations[0].DamagePerMinute != 0 {
		t.Fatalf("expected 0 damage per minute without durations, got %v", noDurations[0].DamagePerMinute)
	}
}

func TestRounding(t *testing.T) {
	rows := []domain.ScoreboardRow{
		row("Kalista", "Upset", 1, 1, 1, true),
		row("Kalista", "Upset", 1, 1, 1, true),
		row("Kalista", "Upset", 2, 1, 1, true),
	}
	rows[0].Gold, rows[1].Gold, rows[2].Gold = 10001, 10002, 10002
	rows[0].CS, rows[1].CS, rows[2].CS = 200, 201, 201
	rows[0].VisionScore, rows[1].VisionScore, rows[2].VisionScore = 20, 21, 21

	got := Champions(rows, Options{})[0]
	if got.AvgGold != 10002 {
		t.Fatalf("avg gold = %v", got.AvgGold)
	}
	if got.AvgCS != 200.7 {
		t.Fatalf("avg cs = %v", got.AvgCS)
	}
	if got.AvgVisionScore != 20.7 {
		t.Fatalf("avg vision = %v", got.AvgVisionScore)
	}
	if got.AvgKills != 1.33 {
		t.Fatalf("avg kills = %v", got.AvgKills)
	}
}

func TestPickAndPresenceRates(t *testing.T) {
	var rows []domain.ScoreboardRow
	for i := 0; i < 4; i++ {
		rows = append(rows, row("Maokai", "Yike", 1, 1, 1, true))
	}
	rows = append(rows, row("Sejuani", "Razork", 1, 1, 1, true), row("Sejuani", "Razork", 1, 1, 1, false))

	opts := Options{
		TotalGames:     10,
		TournamentOnly: true,
		BanPool:        map[string]struct{}{"Maokai": {}},
	}

	got := Champions(rows, opts)
	maokai, sejuani := got[0], got[1]

	if maokai.PickRate == nil || *maokai.PickRate != 40 {
		t.Fatalf("maokai pick rate = %v", maokai.PickRate)
	}
	if maokai.PresenceRate == nil || *maokai.PresenceRate != 50 {
		t.Fatalf("maokai presence rate = %v", maokai.PresenceRate)
	}
	if sejuani.PresenceRate == nil || *sejuani.PresenceRate != 20 {
		t.Fatalf("sejuani presence rate = %v", sejuani.PresenceRate)
	}
}

func TestPresenceRateCapped(t *testing.T) {
	rows := []domain.ScoreboardRow{
		row("Vi", "Jankos", 1, 1, 1, true),
		row("Vi", "Jankos", 1, 1, 1, true),
		row("Vi", "Jankos", 1, 1, 1, true),
	}
	opts := Options{TotalGames: 3, TournamentOnly: true, BanPool: map[string]struct{}{"Vi": {}}}

	got := Champions(rows, opts)[0]
	if *got.PresenceRate != 100 {
		t.Fatalf("presence = %v, want 100", *got.PresenceRate)
	}
}

func TestPickRateOnlyForTournamentOnly(t *testing.T) {
	rows := []domain.ScoreboardRow{row("Ashe", "Upset", 1, 1, 1, true)}

	got := Champions(rows, Options{TotalGames: 10, TournamentOnly: false})[0]
	if got.PickRate != nil || got.PresenceRate != nil {
		t.Fatalf("expected no pick/presence rate, got %v/%v", got.PickRate, got.PresenceRate)
	}

	got = Champions(rows, Options{TotalGames: 10, TournamentOnly: true})[0]
	if got.PickRate == nil || got.PresenceRate != nil {
		t.Fatalf("expected pick rate without presence, got %v/%v", got.PickRate, got.PresenceRate)
	}
}

func TestSinglePlayer(t *testing.T) {
	list := []PlayerStat{{Player: "Caps"}, {Player: "Faker"}}

	if got := SinglePlayer(list, "Faker"); got.Player != "Faker" {
		t.Fatalf("got %s", got.Player)
	}
	if got := SinglePlayer(list, "Hide on bush"); got.Player != "Caps" {
		t.Fatalf("fallback got %s", got.Player)
	}
	if SinglePlayer(nil, "x") != nil {
		t.Fatal("expected nil for empty list")
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	if diff := cmp.Diff([]int{2, 3}, Paginate(items, 2, 1)); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff(items, Paginate(items, 0, 0)); diff != "" {
		t.Fatal(diff)
	}
	if got := Paginate(items, 2, 10); len(got) != 0 {
		t.Fatalf("expected empty page, got %v", got)
	}
}
