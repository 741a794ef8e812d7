package services

import "strings"

// DefaultMaxInterests caps how many interests a profile may list.
const DefaultMaxInterests = 10

// NormalizeInterest trims, lowercases and collapses internal whitespace.
func NormalizeInterest(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// AddInterest returns list with raw appended in normalized form.
// A blank value leaves the list unchanged.
func AddInterest(list []string, raw string, max int) ([]string, error) {
	norm := NormalizeInterest(raw)
	if norm == "" {
		return list, nil
	}
	for _, existing := range list {
		if existing == norm {
			return list, newValidationError("interests", "This interest is already added.")
		}
	}
	if len(list) >= max {
		return list, newValidationError("interests", "Max %d interests", max)
	}
	out := make([]string, 0, len(list)+1)
	out = append(out, list...)
	return append(out, norm), nil
}

// RemoveInterest drops raw from list, comparing normalized forms.
func RemoveInterest(list []string, raw string) []string {
	norm := NormalizeInterest(raw)
	out := make([]string, 0, len(list))
	for _, existing := range list {
		if existing != norm {
			out = append(out, existing)
		}
	}
	return out
}

// NormalizeInterests builds a normalized list the same way repeated AddInterest calls would.
func NormalizeInterests(raw []string, max int) ([]string, error) {
	out := make([]string, 0, len(raw))
	var err error
	for _, r := range raw {
		if out, err = AddInterest(out, r, max); err != nil {
			return nil, err
		}
	}
	return out, nil
}
