// Package common contains shared constants and sentinel errors used across
// OSP components.
package common

// Header names shared by the client and the reference server.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-Id"
	BearerPrefix            = "Bearer "
)

// Local storage keys for the credential pair. LegacyTokenKey is written by
// the password sign-in flow, whose endpoint answers with a bare {token}.
const (
	AccessTokenKey  = "accessToken"
	RefreshTokenKey = "refreshToken"
	LegacyTokenKey  = "token"
)

// API routes.
const (
	PathLogin         = "/api/v1/auth/login"
	PathSocialSignIn  = "/api/v1/auth/signin"
	PathRefreshToken  = "/auth/refresh-token"
	PathCurrentUser   = "/api/v1/users/current"
	PathUsers         = "/api/v1/users"
	PathMedia         = "/media"
	PathComments      = "/comments"
	PathCommentsV1    = "/api/v1/comments"
	ProviderGoogle    = "google"
	ProviderApple     = "apple"
	DefaultAPIBaseURL = "http://127.0.0.1:8000"
)
