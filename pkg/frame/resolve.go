package frame

import (
	"strings"
	"unicode"
)

// Strategy is one step of column name matching.
type Strategy struct {
	Name  string
	Match func(column, wanted string) bool
}

// Built-in matching strategies.
var (
	Exact = Strategy{
		Name:  "exact",
		Match: func(column, wanted string) bool { return column == wanted },
	}
	CaseInsensitive = Strategy{
		Name:  "case-insensitive",
		Match: func(column, wanted string) bool { return strings.ToLower(column) == strings.ToLower(wanted) },
	}
	Normalized = Strategy{
		Name:  "normalized",
		Match: func(column, wanted string) bool { return Normalize(column) == Normalize(wanted) },
	}
)

// DefaultStrategies is the order used by [Resolve].
var DefaultStrategies = []Strategy{Exact, CaseInsensitive, Normalized}

// Normalize lower-cases s and removes underscores, hyphens and whitespace.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Equivalent reports whether two column names match under any default strategy.
func Equivalent(a, b string) bool {
	for _, s := range DefaultStrategies {
		if s.Match(a, b) {
			return true
		}
	}
	return false
}

// Resolve finds the field named wanted using [DefaultStrategies].
// An empty name never resolves.
func Resolve(fr *Frame, wanted string) (*Field, bool) {
	f, _, ok := ResolveWith(fr, wanted, DefaultStrategies)
	return f, ok
}

// ResolveWith tries each strategy in order against every field of fr and
// returns the first match along with the strategy that produced it.
func ResolveWith(fr *Frame, wanted string, strategies []Strategy) (*Field, Strategy, bool) {
	if fr == nil || wanted == "" {
		return nil, Strategy{}, false
	}
	for _, s := range strategies {
		for _, f := range fr.Fields {
			if s.Match(f.Name, wanted) {
				return f, s, true
			}
		}
	}
	return nil, Strategy{}, false
}
