package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/osp/internal/client/client"
	"github.com/dmitrijs2005/osp/internal/client/models"
	"github.com/dmitrijs2005/osp/internal/client/session"
	"github.com/dmitrijs2005/osp/internal/client/storage"
	"github.com/dmitrijs2005/osp/internal/client/tokens"
	"github.com/dmitrijs2005/osp/internal/common"
)

func testJWT(t *testing.T, c jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func TestSignIn_StoresLegacyTokenEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		var creds models.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Username != "alice" || creds.Password != "p1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid username or password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"abc"}`))
	}))
	defer srv.Close()

	db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer db.Close()

	store := tokens.NewStore(db)
	sess := session.NewManager(store, nil, nil)
	api := client.New(srv.URL, store, sess)
	svc := NewAuthService(api, store, sess)
	ctx := context.Background()

	res, err := svc.SignIn(ctx, "alice", "p1")
	require.NoError(t, err)
	assert.Equal(t, "abc", res.Token)

	var legacy string
	require.NoError(t, db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, common.LegacyTokenKey).Scan(&legacy))
	assert.Equal(t, "abc", legacy)
	assert.True(t, svc.SignedIn(ctx))

	_, err = svc.SignIn(ctx, "alice", "wrong")
	var se *SignInError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Invalid username or password", se.Message)
	assert.True(t, svc.SignedIn(ctx), "failed sign-in does not log out")
}

func TestSignIn_ReplacesPreviousSocialSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token":"abc"}`))
	}))
	defer srv.Close()

	db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer db.Close()

	store := tokens.NewStore(db)
	sess := session.NewManager(store, nil, nil)
	svc := NewAuthService(client.New(srv.URL, store, sess), store, sess)
	ctx := context.Background()

	require.NoError(t, store.SetTokens(ctx, "old-social-access", "old-refresh"))

	_, err = svc.SignIn(ctx, "alice", "p1")
	require.NoError(t, err)

	tok, err := store.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)
	rt, err := store.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, rt)
}

func TestSignIn_ReplacesStoredCredentials(t *testing.T) {
	api := newFakeAPI()
	api.responses["POST /api/v1/auth/login"] = `{"token":"abc"}`
	store := &fakeStore{access: "old-a", refresh: "old-r", legacy: "old-t"}

	_, err := NewAuthService(api, store, &fakeSession{}).SignIn(context.Background(), "alice", "p1")
	require.NoError(t, err)

	assert.Equal(t, "abc", store.legacy)
	assert.Empty(t, store.access)
	assert.Empty(t, store.refresh)
}

func TestSignIn_StoreErrorIsReported(t *testing.T) {
	api := newFakeAPI()
	api.responses["POST /api/v1/auth/login"] = `{"token":"abc"}`
	store := &fakeStore{setErr: errors.New("disk full")}

	_, err := NewAuthService(api, store, &fakeSession{}).SignIn(context.Background(), "alice", "p1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save tokens")
}

func TestSignIn_StoresPairWhenPresent(t *testing.T) {
	api := newFakeAPI()
	api.responses["POST /api/v1/auth/login"] = `{"token":"abc","accessToken":"a1","refreshToken":"r1"}`
	store := &fakeStore{}

	_, err := NewAuthService(api, store, &fakeSession{}).SignIn(context.Background(), "alice", "p1")
	require.NoError(t, err)

	assert.Equal(t, "abc", store.legacy)
	assert.Equal(t, "a1", store.access)
	assert.Equal(t, "r1", store.refresh)

	require.Len(t, api.calls, 1)
	assert.True(t, api.calls[0].Retry, "sign-in must not trigger a refresh")
	assert.Equal(t, models.Credentials{Username: "alice", Password: "p1"}, api.calls[0].Body)
}

func TestSignIn_ErrorMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"server message", &client.HTTPError{Status: 401, Body: json.RawMessage(`{}`), Message: "Bad password"}, "Bad password"},
		{"no body", &client.HTTPError{Status: 500, Message: client.DefaultErrorMessage}, "Authentication failed"},
		{"body without message", &client.HTTPError{Status: 502, Body: json.RawMessage(`{"detail":"x"}`), Message: client.DefaultErrorMessage}, "Authentication failed"},
		{"network", &client.NetworkError{Method: "POST", URL: "u", Err: errors.New("refused")}, "Network error. Please check your connection and try again."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := newFakeAPI()
			api.errs["POST /api/v1/auth/login"] = tc.err

			_, err := NewAuthService(api, &fakeStore{}, &fakeSession{}).SignIn(context.Background(), "alice", "p1")
			var se *SignInError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tc.want, se.Message)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestSignIn_NoTokenInResponse(t *testing.T) {
	api := newFakeAPI()
	api.responses["POST /api/v1/auth/login"] = `{}`

	_, err := NewAuthService(api, &fakeStore{}, &fakeSession{}).SignIn(context.Background(), "alice", "p1")
	var se *SignInError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Authentication failed", se.Message)
	assert.ErrorIs(t, err, client.ErrDecode)
}

func TestSocialSignIn_StoresPairAndReturnsClaims(t *testing.T) {
	access := testJWT(t, jwt.MapClaims{"sub": "u1", "email": "a@example.com", "exp": time.Now().Add(time.Hour).Unix()})
	api := newFakeAPI()
	api.responses["POST /api/v1/auth/signin"] = `{"accessToken":"` + access + `","refreshToken":"r1"}`
	store := &fakeStore{}

	id, err := NewAuthService(api, store, &fakeSession{}).SocialSignIn(context.Background(), "google", "id-tok")
	require.NoError(t, err)

	assert.Equal(t, "u1", id.Subject)
	assert.Equal(t, "a@example.com", id.Email)
	assert.Equal(t, access, store.access)
	assert.Equal(t, "r1", store.refresh)
	assert.Equal(t, models.SocialCredentials{Provider: "google", IDToken: "id-tok"}, api.calls[0].Body)
}

func TestSocialSignIn_ErrorMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"400", &client.HTTPError{Status: 400}, "Invalid credentials or provider mismatch."},
		{"401", &client.HTTPError{Status: 401}, "Invalid credentials or provider mismatch."},
		{"403", &client.HTTPError{Status: 403}, "Invalid credentials or provider mismatch."},
		{"500", &client.HTTPError{Status: 500}, "Server error. Please try again later."},
		{"503", &client.HTTPError{Status: 503}, "Server error. Please try again later."},
		{"network", &client.NetworkError{Err: errors.New("dns")}, "Network error. Please check your connection and try again."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := newFakeAPI()
			api.errs["POST /api/v1/auth/signin"] = tc.err
			store := &fakeStore{}

			_, err := NewAuthService(api, store, &fakeSession{}).SocialSignIn(context.Background(), "apple", "x")
			var se *SignInError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tc.want, se.Message)
			assert.False(t, store.HasToken(context.Background()))
		})
	}
}

func TestSocialSignIn_UnsupportedProviderMakesNoCall(t *testing.T) {
	api := newFakeAPI()

	_, err := NewAuthService(api, &fakeStore{}, &fakeSession{}).SocialSignIn(context.Background(), "myspace", "x")

	assert.ErrorIs(t, err, common.ErrUnsupportedProvider)
	assert.Empty(t, api.calls)
}

func TestSocialSignIn_MalformedAccessTokenIsNotStored(t *testing.T) {
	api := newFakeAPI()
	api.responses["POST /api/v1/auth/signin"] = `{"accessToken":"not-a-jwt","refreshToken":"r1"}`
	store := &fakeStore{}

	_, err := NewAuthService(api, store, &fakeSession{}).SocialSignIn(context.Background(), "google", "x")
	require.Error(t, err)
	assert.False(t, store.HasToken(context.Background()))
}

func TestSignOutAndCurrentClaims(t *testing.T) {
	store := &fakeStore{access: testJWT(t, jwt.MapClaims{"sub": "u1", "userId": "42"})}
	sess := &fakeSession{store: store}
	svc := NewAuthService(newFakeAPI(), store, sess)
	ctx := context.Background()

	id, err := svc.CurrentClaims(ctx)
	require.NoError(t, err)
	assert.Equal(t, "42", id.ID())

	require.NoError(t, svc.SignOut(ctx))
	assert.Equal(t, 1, sess.logouts)
	assert.False(t, svc.SignedIn(ctx))

	_, err = svc.CurrentClaims(ctx)
	assert.ErrorIs(t, err, ErrNotSignedIn)
}
