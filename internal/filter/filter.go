// Package filter describes which raw rows a query covers. A Spec is built
// once per request through Builder and compiled into a SQL WHERE fragment by
// whichever repository reads it.
package filter

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

type Kind int

const (
	ByTournament Kind = iota + 1
	ByPlayer
	ByTeam
	ByDateRange
)

func (k Kind) String() string {
	switch k {
	case ByTournament:
		return "tournament"
	case ByPlayer:
		return "player"
	case ByTeam:
		return "team"
	case ByDateRange:
		return "date_range"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Clause is one variant of the filter union. Values is used by the
// membership kinds, From/To only by ByDateRange.
type Clause struct {
	Kind   Kind
	Values []string
	From   *time.Time
	To     *time.Time
}

// Spec holds at most one clause per kind, ordered by kind.
type Spec struct {
	clauses []Clause
}

type Builder struct {
	clauses map[Kind]Clause
}

func New() *Builder {
	return &Builder{clauses: make(map[Kind]Clause)}
}

// Tournament restricts rows to the given overview pages.
func (b *Builder) Tournament(pages ...string) *Builder {
	return b.members(ByTournament, pages)
}

// Players restricts rows to any of the given player keys or aliases.
func (b *Builder) Players(aliases ...string) *Builder {
	return b.members(ByPlayer, aliases)
}

func (b *Builder) Team(names ...string) *Builder {
	return b.members(ByTeam, names)
}

func (b *Builder) Between(from, to *time.Time) *Builder {
	if from == nil && to == nil {
		delete(b.clauses, ByDateRange)
		return b
	}
	c := Clause{Kind: ByDateRange}
	if from != nil {
		f := from.UTC()
		c.From = &f
	}
	if to != nil {
		t := to.UTC()
		c.To = &t
	}
	b.clauses[ByDateRange] = c
	return b
}

func (b *Builder) members(kind Kind, values []string) *Builder {
	var vals []string
	for _, v := range values {
		if v != "" {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		delete(b.clauses, kind)
		return b
	}
	slices.Sort(vals)
	b.clauses[kind] = Clause{Kind: kind, Values: slices.Compact(vals)}
	return b
}

func (b *Builder) Build() Spec {
	clauses := make([]Clause, 0, len(b.clauses))
	for _, c := range b.clauses {
		clauses = append(clauses, c)
	}
	slices.SortFunc(clauses, func(a, b Clause) int { return int(a.Kind) - int(b.Kind) })
	return Spec{clauses: clauses}
}

func (s Spec) Clause(kind Kind) (Clause, bool) {
	for _, c := range s.clauses {
		if c.Kind == kind {
			return c, true
		}
	}
	return Clause{}, false
}

func (s Spec) Has(kind Kind) bool {
	_, ok := s.Clause(kind)
	return ok
}

func (s Spec) Values(kind Kind) []string {
	c, _ := s.Clause(kind)
	return c.Values
}

func (s Spec) Empty() bool {
	return len(s.clauses) == 0
}

// TournamentOnly reports whether the spec narrows by tournament without any
// player or team restriction. Pick and presence rates only make sense there.
func (s Spec) TournamentOnly() bool {
	return s.Has(ByTournament) && !s.Has(ByPlayer) && !s.Has(ByTeam)
}

// Columns maps each kind to the column it filters on in a given table.
type Columns map[Kind]string

var ErrUnsupported = errors.New("filter clause not supported")

// Compile renders the spec as a WHERE fragment with positional args. An
// empty spec compiles to "".
func (s Spec) Compile(cols Columns) (string, []any, error) {
	var parts []string
	var args []any

	for _, c := range s.clauses {
		col, ok := cols[c.Kind]
		if !ok {
			return "", nil, fmt.Errorf("%w: %s", ErrUnsupported, c.Kind)
		}

		switch c.Kind {
		case ByDateRange:
			if c.From != nil {
				parts = append(parts, col+" >= ?")
				args = append(args, *c.From)
			}
			if c.To != nil {
				parts = append(parts, col+" <= ?")
				args = append(args, *c.To)
			}
		default:
			if len(c.Values) == 1 {
				parts = append(parts, col+" = ?")
				args = append(args, c.Values[0])
				continue
			}
			parts = append(parts, col+" IN ("+placeholders(len(c.Values))+")")
			for _, v := range c.Values {
				args = append(args, v)
			}
		}
	}

	if len(parts) == 0 {
		return "", nil, nil
	}
	return "WHERE " + strings.Join(parts, " AND "), args, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
