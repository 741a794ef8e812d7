package services

import (
	"strings"

	"github.com/hjo3-cse40/SlugConnect/internal/models"
)

// FilterCriteria narrows the discover list. Empty fields match everything.
type FilterCriteria struct {
	Major          string `query:"major"`
	Year           string `query:"year"`
	Interest       string `query:"interest"`
	CustomInterest string `query:"custom_interest"`
	Search         string `query:"q"`
}

// Matches reports whether p satisfies every active criterion.
// Major and year compare exactly; interests and search text ignore case.
func (f FilterCriteria) Matches(p *models.Profile) bool {
	if f.Major != "" && p.Major != f.Major {
		return false
	}
	if f.Year != "" && p.Year != f.Year {
		return false
	}
	if f.Interest != "" && !hasInterest(p.Interests, f.Interest) {
		return false
	}
	if f.CustomInterest != "" && !hasInterest(p.Interests, f.CustomInterest) {
		return false
	}
	if f.Search != "" && !matchesSearch(p, strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// FilterProfiles returns the profiles matching all criteria, preserving order.
func FilterProfiles(profiles []models.Profile, f FilterCriteria) []models.Profile {
	out := make([]models.Profile, 0, len(profiles))
	for i := range profiles {
		if f.Matches(&profiles[i]) {
			out = append(out, profiles[i])
		}
	}
	return out
}

func hasInterest(interests []string, want string) bool {
	for _, i := range interests {
		if strings.EqualFold(i, want) {
			return true
		}
	}
	return false
}

func matchesSearch(p *models.Profile, q string) bool {
	if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Major), q) {
		return true
	}
	for _, i := range p.Interests {
		if strings.Contains(strings.ToLower(i), q) {
			return true
		}
	}
	return false
}
