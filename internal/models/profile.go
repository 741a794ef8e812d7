package models

import "time"

// Profile holds a student's self-reported academic and interest data.
// ID is the owning user's ID.
type Profile struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Major     string    `json:"major" gorm:"index"`
	College   *string   `json:"college"`
	Year      string    `json:"year" gorm:"size:20;index"`
	Interests []string  `json:"interests" gorm:"type:text;serializer:json"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OnboardingRequest is the body of POST /profile (first save during onboarding)
type OnboardingRequest struct {
	FullName  string   `json:"full_name" validate:"max=100"`
	Major     string   `json:"major" validate:"max=100"`
	College   string   `json:"college" validate:"max=100"`
	Year      string   `json:"year" validate:"max=20"`
	Interests []string `json:"interests" validate:"omitempty,dive,max=50"`
}

// UpdateProfileRequest is the body of PUT /profile. College may be cleared.
type UpdateProfileRequest struct {
	FullName  string   `json:"full_name" validate:"max=100"`
	Major     string   `json:"major" validate:"max=100"`
	College   string   `json:"college" validate:"max=100"`
	Year      string   `json:"year" validate:"max=20"`
	Interests []string `json:"interests" validate:"omitempty,dive,max=50"`
}

// AddInterestRequest is the body of POST /profile/interests
type AddInterestRequest struct {
	Interest string `json:"interest" validate:"required,max=50"`
}

// ProfileCompact is what list views embed for the other side of a request.
type ProfileCompact struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Major     string   `json:"major"`
	Year      string   `json:"year"`
	Interests []string `json:"interests"`
}

// ToCompact converts a Profile into the fields list views need.
func (p *Profile) ToCompact() ProfileCompact {
	interests := p.Interests
	if interests == nil {
		interests = []string{}
	}
	return ProfileCompact{
		ID:        p.ID,
		Name:      p.Name,
		Major:     p.Major,
		Year:      p.Year,
		Interests: interests,
	}
}
