package seasons

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"esports-stats/internal/domain"
)

const UnknownYear = "Unknown"

var (
	yearPattern      = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	separatorPattern = regexp.MustCompile(`[\s\-–—_]+`)
)

type splitKeyword struct {
	scan  *regexp.Regexp // matched against the lowercased name
	word  *regexp.Regexp // what CleanName strips from the display name
	label string
}

// first match wins
var splitKeywords = []splitKeyword{
	{regexp.MustCompile(`spring|split 1`), regexp.MustCompile(`(?i)\b(?:spring|split 1)\b`), "Spring"},
	{regexp.MustCompile(`summer|split 2`), regexp.MustCompile(`(?i)\b(?:summer|split 2)\b`), "Summer"},
	{regexp.MustCompile(`winter`), regexp.MustCompile(`(?i)\bwinter\b`), "Winter"},
	{regexp.MustCompile(`playoff`), regexp.MustCompile(`(?i)\bplayoffs?\b`), "Playoffs"},
	{regexp.MustCompile(`championship|finals`), regexp.MustCompile(`(?i)\b(?:championships?|finals?)\b`), "Championship"},
}

// InferYear returns the season a tournament belongs to, or UnknownYear.
func InferYear(t domain.Tournament) string {
	if t.Year != "" {
		return t.Year
	}
	if y := yearPattern.FindString(t.Name); y != "" {
		return y
	}
	if t.DateStart != nil {
		return strconv.Itoa(t.DateStart.Year())
	}
	if y := yearPattern.FindString(t.OverviewPage); y != "" {
		return y
	}
	return UnknownYear
}

// InferSplit returns the split label, or "" when the tournament sits
// directly under its season.
func InferSplit(t domain.Tournament) string {
	if t.Split != "" {
		return t.Split
	}
	if t.SplitMainPage != "" {
		return t.SplitMainPage
	}
	if kw := matchSplitKeyword(t.Name); kw != nil {
		return kw.label
	}
	return ""
}

func matchSplitKeyword(name string) *splitKeyword {
	lower := strings.ToLower(name)
	for i := range splitKeywords {
		if splitKeywords[i].scan.MatchString(lower) {
			return &splitKeywords[i]
		}
	}
	return nil
}

// CleanName strips the league name, its short name and the year from a
// tournament's display name, then the split keyword if something useful is
// left without it. A result of two characters or fewer is rejected in favour
// of the original name.
func CleanName(name, league, short, year string) string {
	base := removeWord(name, league)
	if !strings.EqualFold(short, league) {
		base = removeWord(base, short)
	}
	if year != UnknownYear {
		base = removeWord(base, year)
	}

	if kw := matchSplitKeyword(name); kw != nil {
		if cleaned, ok := tidy(kw.word.ReplaceAllString(base, " ")); ok {
			return cleaned
		}
	}
	if cleaned, ok := tidy(base); ok {
		return cleaned
	}
	return name
}

// tidy normalizes separators and reports whether enough of the name is left.
func tidy(s string) (string, bool) {
	s = separatorPattern.ReplaceAllStringFunc(s, func(run string) string {
		if strings.TrimSpace(run) != "" {
			return " - "
		}
		return " "
	})
	s = strings.Trim(s, " -–—_")

	if utf8.RuneCountInString(s) <= 2 {
		return "", false
	}
	return capitalize(s), true
}

// compiled word-boundary patterns, keyed by word
var wordPatterns sync.Map

func removeWord(s, word string) string {
	if strings.TrimSpace(word) == "" {
		return s
	}
	re, ok := wordPatterns.Load(word)
	if !ok {
		re, _ = wordPatterns.LoadOrStore(word, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(word)+`\b`))
	}
	return re.(*regexp.Regexp).ReplaceAllString(s, " ")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
