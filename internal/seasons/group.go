// Package seasons rebuilds the season → split → tournament tree from flat
// tournament metadata.
package seasons

import (
	"sort"
	"strconv"
	"time"

	"esports-stats/internal/domain"
)

type Season struct {
	Season string  `json:"season"`
	Data   []Split `json:"data"`
}

type Split struct {
	Split       string          `json:"split,omitempty"`
	Tournaments []TournamentRef `json:"tournaments"`
}

type TournamentRef struct {
	Tournament string `json:"tournament"`
	ID         int    `json:"id"`
}

type seasonBucket struct {
	season string
	splits map[string]*splitBucket
	order  []string
}

type splitBucket struct {
	label       string
	number      *int
	start       *time.Time
	tournaments []tournamentEntry
}

type tournamentEntry struct {
	ref   TournamentRef
	start *time.Time
}

// Group builds the season tree. Tournaments without recorded matches are
// left out.
func Group(tournaments []domain.Tournament) []Season {
	buckets := make(map[string]*seasonBucket)
	var seasonOrder []string

	for _, t := range tournaments {
		if t.MatchCount <= 0 {
			continue
		}

		year := InferYear(t)
		split := InferSplit(t)

		sb, ok := buckets[year]
		if !ok {
			sb = &seasonBucket{season: year, splits: make(map[string]*splitBucket)}
			buckets[year] = sb
			seasonOrder = append(seasonOrder, year)
		}

		bucket, ok := sb.splits[split]
		if !ok {
			bucket = &splitBucket{label: split}
			sb.splits[split] = bucket
			sb.order = append(sb.order, split)
		}
		bucket.observe(t)

		name := t.Name
		if name == "" {
			name = t.OverviewPage
		}
		bucket.tournaments = append(bucket.tournaments, tournamentEntry{
			ref: TournamentRef{
				Tournament: CleanName(name, t.League, t.LeagueShort, year),
				ID:         t.ID,
			},
			start: t.DateStart,
		})
	}

	sort.SliceStable(seasonOrder, func(i, j int) bool {
		return seasonLess(seasonOrder[i], seasonOrder[j])
	})

	result := make([]Season, 0, len(seasonOrder))
	for _, year := range seasonOrder {
		sb := buckets[year]

		splits := make([]*splitBucket, 0, len(sb.order))
		for _, label := range sb.order {
			splits = append(splits, sb.splits[label])
		}
		sort.SliceStable(splits, func(i, j int) bool {
			return splitLess(splits[i], splits[j])
		})

		season := Season{Season: year, Data: make([]Split, 0, len(splits))}
		for _, s := range splits {
			sort.SliceStable(s.tournaments, func(i, j int) bool {
				return tournamentLess(s.tournaments[i], s.tournaments[j])
			})

			refs := make([]TournamentRef, len(s.tournaments))
			for i, e := range s.tournaments {
				refs[i] = e.ref
			}
			season.Data = append(season.Data, Split{Split: s.label, Tournaments: refs})
		}
		result = append(result, season)
	}
	return result
}

func (b *splitBucket) observe(t domain.Tournament) {
	if t.SplitNumber != nil && (b.number == nil || *t.SplitNumber < *b.number) {
		n := *t.SplitNumber
		b.number = &n
	}
	if t.DateStart != nil && (b.start == nil || t.DateStart.Before(*b.start)) {
		s := *t.DateStart
		b.start = &s
	}
}

// seasonLess compares numerically only when both sides are integers. The
// comparison is pairwise, so mixed inputs are not guaranteed a total order.
func seasonLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}

func splitLess(a, b *splitBucket) bool {
	if (a.label == "") != (b.label == "") {
		return a.label == ""
	}

	switch {
	case a.number != nil && b.number != nil:
		if *a.number != *b.number {
			return *a.number < *b.number
		}
	case a.number != nil:
		return true
	case b.number != nil:
		return false
	}

	if a.start != nil && b.start != nil && !a.start.Equal(*b.start) {
		return a.start.Before(*b.start)
	}
	return a.label < b.label
}

func tournamentLess(a, b tournamentEntry) bool {
	if a.start != nil && b.start != nil && !a.start.Equal(*b.start) {
		return a.start.Before(*b.start)
	}
	return a.ref.Tournament < b.ref.Tournament
}
