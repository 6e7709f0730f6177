// README: Firebase Admin SDK initialisation, realtime database client and token verifier.
package infra

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

// FirebaseToken holds the verified token data used by downstream middleware.
type FirebaseToken struct {
	UID string
}

// TokenVerifier verifies a raw Firebase ID token string and returns token data.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*FirebaseToken, error)
}

type FirebaseSettings struct {
	ProjectID       string
	DatabaseURL     string
	CredentialsFile string
}

// Firebase bundles the clients the service needs from a single Admin SDK app.
type Firebase struct {
	app      *firebase.App
	Database *db.Client
	Verifier TokenVerifier
}

// NewFirebase initialises the Admin SDK. If CredentialsFile is empty,
// application-default credentials / GOOGLE_APPLICATION_CREDENTIALS are used.
// When DatabaseURL is empty it is derived from the project ID.
func NewFirebase(ctx context.Context, s FirebaseSettings) (*Firebase, error) {
	if s.ProjectID == "" {
		return nil, fmt.Errorf("firebase project id is required")
	}
	databaseURL := s.DatabaseURL
	if databaseURL == "" {
		databaseURL = fmt.Sprintf("https://%s-default-rtdb.firebaseio.com", s.ProjectID)
	}

	opts := []option.ClientOption{}
	if s.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(s.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:   s.ProjectID,
		DatabaseURL: databaseURL,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}

	dbClient, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase app.Database: %w", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase app.Auth: %w", err)
	}

	return &Firebase{
		app:      app,
		Database: dbClient,
		Verifier: &firebaseVerifier{client: authClient},
	}, nil
}

// firebaseVerifier is the production implementation backed by the Firebase Admin SDK.
type firebaseVerifier struct {
	client *auth.Client
}

func (v *firebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (*FirebaseToken, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return &FirebaseToken{UID: token.UID}, nil
}
