// Package services contains the application services behind the OSP CLI
// routes: sign-in, account deletion and the media detail view. Each service
// turns API errors into the messages shown to the user.
package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dmitrijs2005/osp/internal/client/client"
)

// APIClient is the part of *client.Client the services use.
type APIClient interface {
	Do(ctx context.Context, req client.Request) (json.RawMessage, error)
	Get(ctx context.Context, endpoint string, out any) error
	Post(ctx context.Context, endpoint string, body, out any) error
	Delete(ctx context.Context, endpoint string, out any) error
}

// CredentialStore is the part of *tokens.Store the services use.
type CredentialStore interface {
	AccessToken(ctx context.Context) (string, error)
	// Replace swaps every stored credential for the given ones atomically.
	// Empty values are left unset.
	Replace(ctx context.Context, legacy, access, refresh string) error
	HasToken(ctx context.Context) bool
}

// Session ends the signed-in session.
type Session interface {
	Logout(ctx context.Context) error
}

var (
	ErrNotSignedIn  = errors.New("not signed in")
	ErrEmptyComment = errors.New("comment text is empty")
)

const networkErrorMessage = "Network error. Please check your connection and try again."
