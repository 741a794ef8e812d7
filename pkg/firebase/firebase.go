// Package firebase connects SlugConnect to Firebase Authentication.
//
// The API never trusts Firebase tokens on ordinary requests. A client signs in
// with Firebase, posts the ID token once to /api/v1/auth/firebase-login, and the
// auth service verifies it with the client returned here before issuing a local
// session. Without credentials the server still starts and that endpoint
// answers 503.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// ErrNotConfigured means FIREBASE_CREDENTIALS_PATH is empty and Firebase sign-in is off.
var ErrNotConfigured = errors.New("firebase credentials path not provided")

// NewAuthClient loads the service-account file and returns the client used to
// verify ID tokens. It satisfies services.TokenVerifier.
func NewAuthClient(ctx context.Context, credentialsPath string) (*auth.Client, error) {
	if credentialsPath == "" {
		return nil, ErrNotConfigured
	}
	if _, err := os.Stat(credentialsPath); err != nil {
		return nil, fmt.Errorf("firebase credentials: %w", err)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth client: %w", err)
	}
	return client, nil
}
