package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is an authentication subject. Profile data lives in Profile, keyed by the same ID.
type User struct {
	ID    string `json:"id" gorm:"type:varchar(36);primaryKey"`
	Email string `json:"email" gorm:"uniqueIndex;not null"`
	// Password is a bcrypt hash; empty for Firebase-only accounts.
	Password string `json:"-"`
	// FirebaseUID is nil unless the account was linked through Firebase sign-in.
	FirebaseUID *string   `json:"firebase_uid,omitempty" gorm:"uniqueIndex"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Session backs a signed token. Deleting the row signs the token out.
type Session struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);index;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}

// SignUpRequest is the body of POST /auth/signup
type SignUpRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// SignInRequest is the body of POST /auth/signin
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// AuthResponse is returned by every endpoint that opens a session.
type AuthResponse struct {
	Token           string `json:"token"`
	UserID          string `json:"user_id"`
	Email           string `json:"email"`
	NeedsOnboarding bool   `json:"needs_onboarding"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}
