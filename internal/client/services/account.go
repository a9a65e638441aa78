package services

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/osp/internal/client/claims"
	"github.com/dmitrijs2005/osp/internal/client/client"
	"github.com/dmitrijs2005/osp/internal/common"
)

// Texts of the account deletion dialogs.
const (
	DeleteConfirmTitle   = "Confirm Account Deletion"
	DeleteConfirmMessage = "Are you sure you want to delete your account? This action cannot be undone."
	DeleteFailedTitle    = "Account Deletion Failed"
)

const (
	deleteNetworkMessage  = "Unable to connect to the server. Please check your internet connection and try again."
	deleteExpiredMessage  = "Authentication expired. Please sign in again."
	deletePendingMessage  = "Account deletion is already in progress."
	deleteGenericMessage  = "An error occurred while deleting your account. Please try again later."
	deleteNoUserIDMessage = "User ID not found. Please sign in again."
)

// DeletionError is a failed account deletion. RequiresSignOut means the
// session is unusable and the user must be signed out once they have seen
// the message.
type DeletionError struct {
	Status          int
	Message         string
	RequiresSignOut bool
	Err             error
}

func (e *DeletionError) Error() string { return e.Message }

func (e *DeletionError) Unwrap() error { return e.Err }

// AccountService deletes the signed-in account.
//
//   - DeleteAccount: DELETE /api/v1/users/current, then sign out.
//   - DeleteAccountByID: DELETE /api/v1/users/{id}, with the id taken from
//     the access token, then sign out.
//   - Acknowledge: called once the failure has been shown; signs out when
//     the failure requires it.
type AccountService interface {
	DeleteAccount(ctx context.Context) error
	DeleteAccountByID(ctx context.Context) error
	Acknowledge(ctx context.Context, err error) error
}

type accountService struct {
	api     APIClient
	store   CredentialStore
	session Session
}

func NewAccountService(api APIClient, store CredentialStore, session Session) AccountService {
	return &accountService{api: api, store: store, session: session}
}

func (s *accountService) DeleteAccount(ctx context.Context) error {
	return s.delete(ctx, common.PathCurrentUser)
}

func (s *accountService) DeleteAccountByID(ctx context.Context) error {
	tok, err := s.store.AccessToken(ctx)
	if err == nil && tok == "" {
		err = ErrNotSignedIn
	}
	var id *claims.Claims
	if err == nil {
		id, err = claims.Decode(tok)
	}
	if err != nil || id.ID() == "" {
		return &DeletionError{Message: deleteNoUserIDMessage, RequiresSignOut: true, Err: err}
	}

	return s.delete(ctx, common.PathUsers+"/"+url.PathEscape(id.ID()))
}

func (s *accountService) delete(ctx context.Context, endpoint string) error {
	if err := s.api.Delete(ctx, endpoint, nil); err != nil {
		return deletionError(err)
	}
	return s.session.Logout(ctx)
}

func deletionError(err error) *DeletionError {
	status := client.StatusOf(err)
	de := &DeletionError{Status: status, Err: err}

	switch {
	case errors.Is(err, client.ErrRefreshExhausted) || status == http.StatusUnauthorized:
		de.Message = deleteExpiredMessage
		de.RequiresSignOut = true
	case errors.Is(err, client.ErrNetwork):
		de.Message = deleteNetworkMessage
	case status == http.StatusConflict:
		de.Message = deletePendingMessage
	default:
		de.Message = deleteGenericMessage
	}
	return de
}

func (s *accountService) Acknowledge(ctx context.Context, err error) error {
	var de *DeletionError
	if errors.As(err, &de) && de.RequiresSignOut {
		return s.session.Logout(ctx)
	}
	return nil
}
