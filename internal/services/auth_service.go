package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/hjo3-cse40/SlugConnect/internal/models"
	"github.com/hjo3-cse40/SlugConnect/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// TokenVerifier verifies hosted identity tokens. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthConfig carries the account rules and token settings.
type AuthConfig struct {
	JWTSecret         string
	TokenTTL          time.Duration
	AllowedDomain     string // empty accepts any domain
	MinPasswordLength int
}

// CurrentUser is what GET /auth/me returns.
type CurrentUser struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	HasProfile bool   `json:"has_profile"`
}

// AuthService issues and checks session tokens.
type AuthService struct {
	users    repositories.UserRepository
	profiles repositories.ProfileRepository
	verifier TokenVerifier // nil when Firebase is not configured
	cfg      AuthConfig
	now      func() time.Time
}

// NewAuthService creates an AuthService. verifier may be nil.
func NewAuthService(users repositories.UserRepository, profiles repositories.ProfileRepository, verifier TokenVerifier, cfg AuthConfig) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 72 * time.Hour
	}
	return &AuthService{
		users:    users,
		profiles: profiles,
		verifier: verifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

// SignUp creates a password account and opens a session for it.
func (s *AuthService) SignUp(ctx context.Context, email, password, confirm string) (*models.AuthResponse, error) {
	email = normalizeEmail(email)
	if s.cfg.AllowedDomain != "" && !strings.HasSuffix(email, "@"+s.cfg.AllowedDomain) {
		return nil, newValidationError("email", "Please use your %s email.", s.cfg.AllowedDomain)
	}
	if len(password) < s.cfg.MinPasswordLength {
		return nil, newValidationError("password", "Password must be at least %d characters.", s.cfg.MinPasswordLength)
	}
	if password != confirm {
		return nil, newValidationError("confirm_password", "Passwords do not match.")
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateAccount
	} else if !repositories.IsNotFound(err) {
		return nil, unavailable("get user", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, failed("hash password", err)
	}
	user := &models.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: string(hashed),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, ErrDuplicateAccount
		}
		return nil, failed("create user", err)
	}
	return s.openSession(ctx, user, true)
}

// SignIn checks a password and opens a session.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, unavailable("get user", err)
	}
	if user.Password == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	needsOnboarding, err := s.needsOnboarding(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.openSession(ctx, user, needsOnboarding)
}

// FirebaseSignIn exchanges a Firebase ID token for a local session, linking or
// creating the account by UID and then by email.
func (s *AuthService) FirebaseSignIn(ctx context.Context, idToken string) (*models.AuthResponse, error) {
	if s.verifier == nil {
		return nil, ErrFeatureDisabled
	}
	token, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid Firebase ID token", ErrAuthRequired)
	}
	uid := token.UID
	email, _ := token.Claims["email"].(string)
	email = normalizeEmail(email)
	if email == "" {
		return nil, newValidationError("idToken", "Firebase account has no email.")
	}
	if s.cfg.AllowedDomain != "" && !strings.HasSuffix(email, "@"+s.cfg.AllowedDomain) {
		return nil, newValidationError("email", "Please use your %s email.", s.cfg.AllowedDomain)
	}

	user, err := s.users.GetUserByFirebaseUID(ctx, uid)
	switch {
	case err == nil:
		if user.Email != email {
			user.Email = email
			if err := s.users.UpdateUser(ctx, user); err != nil {
				return nil, failed("update user", err)
			}
		}
	case repositories.IsNotFound(err):
		user, err = s.users.GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			user.FirebaseUID = &uid
			if err := s.users.UpdateUser(ctx, user); err != nil {
				return nil, failed("link firebase account", err)
			}
		case repositories.IsNotFound(err):
			user = &models.User{ID: uuid.NewString(), Email: email, FirebaseUID: &uid}
			if err := s.users.CreateUser(ctx, user); err != nil {
				return nil, failed("create user", err)
			}
		default:
			return nil, unavailable("get user", err)
		}
	default:
		return nil, unavailable("get user", err)
	}

	needsOnboarding, err := s.needsOnboarding(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.openSession(ctx, user, needsOnboarding)
}

// SignOut ends the session. Tokens carrying it are rejected afterwards.
func (s *AuthService) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrAuthRequired
	}
	if err := s.users.DeleteSession(ctx, sessionID); err != nil {
		return failed("delete session", err)
	}
	return nil
}

// Authenticate parses a bearer token and checks that its session is still open.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrAuthRequired)
	}
	if claims.UserID == "" || claims.SessionID == "" {
		return nil, fmt.Errorf("%w: incomplete token", ErrAuthRequired)
	}

	session, err := s.users.GetSession(ctx, claims.SessionID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, fmt.Errorf("%w: session ended", ErrAuthRequired)
		}
		return nil, unavailable("get session", err)
	}
	if session.UserID != claims.UserID || !session.ExpiresAt.After(s.now()) {
		return nil, fmt.Errorf("%w: session expired", ErrAuthRequired)
	}
	return claims, nil
}

// CurrentUser returns the signed-in identity and whether onboarding is done.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*CurrentUser, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrAuthRequired
		}
		return nil, unavailable("get user", err)
	}
	needsOnboarding, err := s.needsOnboarding(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CurrentUser{ID: user.ID, Email: user.Email, HasProfile: !needsOnboarding}, nil
}

// PurgeExpiredSessions deletes sessions past their expiry.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.users.DeleteExpiredSessions(ctx, s.now())
	if err != nil {
		return 0, failed("purge sessions", err)
	}
	return n, nil
}

func (s *AuthService) needsOnboarding(ctx context.Context, userID string) (bool, error) {
	_, err := s.profiles.GetProfileByID(ctx, userID)
	switch {
	case err == nil:
		return false, nil
	case repositories.IsNotFound(err):
		return true, nil
	default:
		return false, unavailable("get profile", err)
	}
}

func (s *AuthService) openSession(ctx context.Context, user *models.User, needsOnboarding bool) (*models.AuthResponse, error) {
	now := s.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.cfg.TokenTTL),
	}
	if err := s.users.CreateSession(ctx, session); err != nil {
		return nil, failed("create session", err)
	}

	claims := &models.JwtCustomClaims{
		UserID:    user.ID,
		Email:     user.Email,
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, failed("sign token", err)
	}
	return &models.AuthResponse{
		Token:           signed,
		UserID:          user.ID,
		Email:           user.Email,
		NeedsOnboarding: needsOnboarding,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsAuthError reports whether err should be answered with 401.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthRequired) || errors.Is(err, ErrInvalidCredentials)
}
