package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/osp/internal/client/claims"
	"github.com/dmitrijs2005/osp/internal/client/client"
	"github.com/dmitrijs2005/osp/internal/client/models"
	"github.com/dmitrijs2005/osp/internal/common"
)

const (
	authFailedMessage       = "Authentication failed"
	invalidProviderMessage  = "Invalid credentials or provider mismatch."
	serverErrorMessage      = "Server error. Please try again later."
	unsupportedProviderText = "Unsupported sign-in provider."
)

// SignInError is a failed sign-in with the message to show.
type SignInError struct {
	Message string
	Err     error
}

func (e *SignInError) Error() string { return e.Message }

func (e *SignInError) Unwrap() error { return e.Err }

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - SignIn: username/password sign-in; stores the returned credential(s).
//   - SocialSignIn: provider id-token sign-in; stores the pair and returns
//     the identity it carries.
//   - SignOut: forget the credentials and go back to sign-in.
//   - CurrentClaims: identity of the stored access token.
//   - SignedIn: whether guarded routes may be entered.
type AuthService interface {
	SignIn(ctx context.Context, username, password string) (*models.SignInResult, error)
	SocialSignIn(ctx context.Context, provider, idToken string) (*claims.Claims, error)
	SignOut(ctx context.Context) error
	CurrentClaims(ctx context.Context) (*claims.Claims, error)
	SignedIn(ctx context.Context) bool
}

type authService struct {
	api     APIClient
	store   CredentialStore
	session Session
}

// NewAuthService constructs an AuthService bound to the given API client,
// credential store and session.
func NewAuthService(api APIClient, store CredentialStore, session Session) AuthService {
	return &authService{api: api, store: store, session: session}
}

// signInCall posts an unauthenticated credential exchange. Retry is set so a
// 401 (wrong password) is reported as is instead of starting a refresh.
func (a *authService) signInCall(ctx context.Context, endpoint string, body any) (*models.SignInResult, error) {
	raw, err := a.api.Do(ctx, client.Request{
		Method:   http.MethodPost,
		Endpoint: endpoint,
		Body:     body,
		Retry:    true,
	})
	if err != nil {
		return nil, err
	}

	var res models.SignInResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", client.ErrDecode, err)
	}
	return &res, nil
}

// SignIn exchanges a username and password for a token. Whatever session was
// stored before is dropped; the bare token goes under the legacy key and a
// full pair, when the server sends one, is stored as well.
func (a *authService) SignIn(ctx context.Context, username, password string) (*models.SignInResult, error) {
	res, err := a.signInCall(ctx, common.PathLogin, models.Credentials{Username: username, Password: password})
	if err != nil {
		return nil, &SignInError{Message: signInMessage(err), Err: err}
	}

	if res.Bearer() == "" {
		return nil, &SignInError{Message: authFailedMessage, Err: fmt.Errorf("%w: no token in response", client.ErrDecode)}
	}

	if err := a.store.Replace(ctx, res.Token, res.AccessToken, res.RefreshToken); err != nil {
		return nil, fmt.Errorf("save tokens: %w", err)
	}
	return res, nil
}

func signInMessage(err error) string {
	if errors.Is(err, client.ErrNetwork) {
		return networkErrorMessage
	}
	var he *client.HTTPError
	if errors.As(err, &he) && he.Body != nil && he.Message != "" && he.Message != client.DefaultErrorMessage {
		return he.Message
	}
	return authFailedMessage
}

// SocialSignIn exchanges a provider id token for a credential pair.
func (a *authService) SocialSignIn(ctx context.Context, provider, idToken string) (*claims.Claims, error) {
	if provider != common.ProviderGoogle && provider != common.ProviderApple {
		return nil, &SignInError{Message: unsupportedProviderText, Err: common.ErrUnsupportedProvider}
	}

	res, err := a.signInCall(ctx, common.PathSocialSignIn, models.SocialCredentials{Provider: provider, IDToken: idToken})
	if err != nil {
		return nil, &SignInError{Message: socialSignInMessage(err), Err: err}
	}

	if res.AccessToken == "" {
		return nil, &SignInError{Message: serverErrorMessage, Err: fmt.Errorf("%w: no access token in response", client.ErrDecode)}
	}

	identity, err := claims.Decode(res.AccessToken)
	if err != nil {
		return nil, &SignInError{Message: serverErrorMessage, Err: err}
	}

	if err := a.store.Replace(ctx, "", res.AccessToken, res.RefreshToken); err != nil {
		return nil, fmt.Errorf("save tokens: %w", err)
	}
	return identity, nil
}

func socialSignInMessage(err error) string {
	switch status := client.StatusOf(err); {
	case status == http.StatusBadRequest || status == http.StatusUnauthorized:
		return invalidProviderMessage
	case status >= http.StatusInternalServerError:
		return serverErrorMessage
	case errors.Is(err, client.ErrNetwork):
		return networkErrorMessage
	default:
		return invalidProviderMessage
	}
}

func (a *authService) SignOut(ctx context.Context) error {
	return a.session.Logout(ctx)
}

func (a *authService) CurrentClaims(ctx context.Context) (*claims.Claims, error) {
	tok, err := a.store.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("read access token: %w", err)
	}
	if tok == "" {
		return nil, ErrNotSignedIn
	}
	return claims.Decode(tok)
}

func (a *authService) SignedIn(ctx context.Context) bool {
	return a.store.HasToken(ctx)
}
