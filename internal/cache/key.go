package cache

import (
	"strconv"
	"strings"
	"time"
)

const keyPrefix = "esports-stats:v1"

// Key collects every dimension that changes a cached result. String always
// renders them in the same order, whatever order they were set in.
type Key struct {
	kind       string
	league     string
	player     string
	team       string
	tournament string
	limit      int
	offset     int
	from       *time.Time
	to         *time.Time
}

func NewKey(kind string) *Key {
	return &Key{kind: kind}
}

func (k *Key) League(league string) *Key {
	k.league = league
	return k
}

func (k *Key) Player(key string) *Key {
	k.player = key
	return k
}

func (k *Key) Team(name string) *Key {
	k.team = name
	return k
}

func (k *Key) Tournament(page string) *Key {
	k.tournament = page
	return k
}

func (k *Key) Page(limit, offset int) *Key {
	k.limit, k.offset = limit, offset
	return k
}

func (k *Key) Range(from, to *time.Time) *Key {
	k.from, k.to = from, to
	return k
}

func (k *Key) String() string {
	parts := []string{
		keyPrefix,
		k.kind,
		"league=" + k.league,
		"player=" + k.player,
		"team=" + k.team,
		"tournament=" + k.tournament,
		"limit=" + strconv.Itoa(k.limit),
		"offset=" + strconv.Itoa(k.offset),
		"from=" + formatTime(k.from),
		"to=" + formatTime(k.to),
	}
	return strings.Join(parts, "|")
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
