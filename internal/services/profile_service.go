package services

import (
	"context"
	"errors"
	"strings"

	"github.com/hjo3-cse40/SlugConnect/internal/models"
	"github.com/hjo3-cse40/SlugConnect/internal/repositories"
)

// ProfileInput is the editable part of a profile.
type ProfileInput struct {
	FullName  string
	Major     string
	College   string
	Year      string
	Interests []string
}

// ProfileService owns profile validation and persistence.
type ProfileService struct {
	profiles      repositories.ProfileRepository
	catalog       Catalog
	maxInterests  int
	strictCatalog bool
}

// NewProfileService creates a ProfileService. A non-positive maxInterests falls back to DefaultMaxInterests.
func NewProfileService(profiles repositories.ProfileRepository, catalog Catalog, maxInterests int, strictCatalog bool) *ProfileService {
	if maxInterests <= 0 {
		maxInterests = DefaultMaxInterests
	}
	return &ProfileService{
		profiles:      profiles,
		catalog:       catalog,
		maxInterests:  maxInterests,
		strictCatalog: strictCatalog,
	}
}

func (s *ProfileService) MaxInterests() int { return s.maxInterests }

// GetProfile returns the viewer's profile, or ErrNotFound when none was saved yet.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	p, err := s.profiles.GetProfileByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, unavailable("get profile", err)
	}
	if p.Interests == nil {
		p.Interests = []string{}
	}
	return p, nil
}

// HasProfile reports whether the user finished onboarding.
func (s *ProfileService) HasProfile(ctx context.Context, userID string) (bool, error) {
	_, err := s.GetProfile(ctx, userID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Onboard saves the first profile. Every field is required.
func (s *ProfileService) Onboard(ctx context.Context, userID string, in ProfileInput) (*models.Profile, error) {
	return s.save(ctx, userID, in, true)
}

// Update saves an edited profile. College may be cleared.
func (s *ProfileService) Update(ctx context.Context, userID string, in ProfileInput) (*models.Profile, error) {
	return s.save(ctx, userID, in, false)
}

func (s *ProfileService) save(ctx context.Context, userID string, in ProfileInput, requireCollege bool) (*models.Profile, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	name := strings.TrimSpace(in.FullName)
	major := strings.TrimSpace(in.Major)
	college := strings.TrimSpace(in.College)
	year := strings.TrimSpace(in.Year)

	if name == "" {
		return nil, newValidationError("full_name", "Please enter your full name.")
	}
	if major == "" || (s.strictCatalog && !s.catalog.HasMajor(major)) {
		return nil, newValidationError("major", "Please select your major.")
	}
	if requireCollege && college == "" {
		return nil, newValidationError("college", "Please select your college.")
	}
	if college != "" && s.strictCatalog && !s.catalog.HasCollege(college) {
		return nil, newValidationError("college", "Please select your college.")
	}
	if !s.catalog.HasYear(year) {
		return nil, newValidationError("year", "Please select your year.")
	}
	interests, err := NormalizeInterests(in.Interests, s.maxInterests)
	if err != nil {
		return nil, err
	}

	p := &models.Profile{
		ID:        userID,
		Name:      name,
		Major:     major,
		Year:      year,
		Interests: interests,
	}
	if college != "" {
		p.College = &college
	}
	if err := s.profiles.UpsertProfile(ctx, p); err != nil {
		return nil, failed("save profile", err)
	}
	return p, nil
}

// AddInterest appends one interest to the stored profile.
func (s *ProfileService) AddInterest(ctx context.Context, userID, raw string) (*models.Profile, error) {
	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	updated, err := AddInterest(p.Interests, raw, s.maxInterests)
	if err != nil {
		return nil, err
	}
	if len(updated) == len(p.Interests) {
		return p, nil
	}
	p.Interests = updated
	if err := s.profiles.UpsertProfile(ctx, p); err != nil {
		return nil, failed("add interest", err)
	}
	return p, nil
}

// RemoveInterest drops one interest from the stored profile. Removing an absent value is not an error.
func (s *ProfileService) RemoveInterest(ctx context.Context, userID, raw string) (*models.Profile, error) {
	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	updated := RemoveInterest(p.Interests, raw)
	if len(updated) == len(p.Interests) {
		return p, nil
	}
	p.Interests = updated
	if err := s.profiles.UpsertProfile(ctx, p); err != nil {
		return nil, failed("remove interest", err)
	}
	return p, nil
}

// Discover lists every other profile that matches f.
func (s *ProfileService) Discover(ctx context.Context, viewerID string, f FilterCriteria) ([]models.Profile, error) {
	if viewerID == "" {
		return nil, ErrAuthRequired
	}
	all, err := s.profiles.ListProfilesExcept(ctx, viewerID)
	if err != nil {
		return nil, unavailable("list profiles", err)
	}
	return FilterProfiles(all, f), nil
}
