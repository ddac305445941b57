// Package temporal resolves a named historical period plus a year range to
// the modern countries that period covered during that range.
//
// Mappings are declarative data evaluated by one interpreter: each period has
// a default country set and an ordered list of date-bounded slices, first
// match wins. Years are signed integers, negative for BC.
package temporal

import (
	"strings"

	"eramap/internal/region/models"
)

// DefaultNote marks a result that came from a mapping's default set rather
// than a matched slice. Callers downgrade confidence when they see it.
const DefaultNote = "Default mapping (peak period)"

// Slice is a date-bounded rule. Exactly one of Before, After, Range is set.
// Either Countries overrides the default set outright, or Add/Remove adjust it.
type Slice struct {
	Before *int
	After  *int
	Range  *[2]int

	Countries []string
	Add       []string
	Remove    []string

	Note string
}

// Mapping is one period's rule set. Slices are evaluated in declaration
// order.
type Mapping struct {
	Default []string
	Slices  []Slice
}

// Match is the resolver output before confidence assignment.
type Match struct {
	Countries []string
	Note      string
}

// Resolve looks up era case-insensitively and interprets its slices against
// [startYear, endYear]. The second return is false when the period is
// unknown, which sends the caller to the next tier.
func Resolve(era string, startYear, endYear int) (Match, bool) {
	mapping, ok := mappings[strings.ToLower(strings.TrimSpace(era))]
	if !ok {
		return Match{}, false
	}

	for _, slice := range mapping.Slices {
		if !slice.matches(startYear, endYear) {
			continue
		}
		return Match{Countries: slice.apply(mapping.Default), Note: slice.Note}, true
	}

	return Match{Countries: models.NormalizeSet(mapping.Default), Note: DefaultNote}, true
}

// Default returns era's peak-period country set without evaluating slices.
// Year-less lookups use it; running Resolve with zero years would let any
// slice overlapping year 0 shadow the default.
func Default(era string) (Match, bool) {
	mapping, ok := mappings[strings.ToLower(strings.TrimSpace(era))]
	if !ok {
		return Match{}, false
	}
	return Match{Countries: models.NormalizeSet(mapping.Default), Note: DefaultNote}, true
}

func (s Slice) matches(startYear, endYear int) bool {
	switch {
	case s.Before != nil:
		return endYear < *s.Before
	case s.After != nil:
		return startYear > *s.After
	case s.Range != nil:
		return startYear <= s.Range[1] && endYear >= s.Range[0]
	}
	return false
}

// apply produces the slice's country set: a verbatim override when Countries
// is set, otherwise the default set minus Remove plus Add.
func (s Slice) apply(defaults []string) []string {
	if len(s.Countries) > 0 {
		return models.NormalizeSet(s.Countries)
	}

	removed := make(map[string]struct{}, len(s.Remove))
	for _, c := range s.Remove {
		removed[strings.ToUpper(c)] = struct{}{}
	}

	out := make([]string, 0, len(defaults)+len(s.Add))
	for _, c := range defaults {
		if _, drop := removed[strings.ToUpper(c)]; !drop {
			out = append(out, c)
		}
	}
	out = append(out, s.Add...)
	return models.NormalizeSet(out)
}
