// Package claims decodes the identity carried in an access token.
//
// The client never holds the signing key, so tokens are parsed without
// signature verification. That is fine for display and for choosing a user
// id; the server still verifies every token it receives.
package claims

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed = errors.New("claims: malformed token")
	ErrNoSubject = errors.New("claims: token has no subject")
)

// Claims is the one payload shape the client understands.
type Claims struct {
	Subject   string    `json:"sub"`
	UserID    string    `json:"userId,omitempty"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"-"`
}

// ID returns the account id: UserID when the server set it, else Subject.
func (c *Claims) ID() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// Expired reports whether the token expiry has passed at now. Tokens
// without an expiry never expire.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

type wireClaims struct {
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

var parser = jwt.NewParser()

// Decode parses token without verifying its signature.
func Decode(token string) (*Claims, error) {
	var wc wireClaims
	if _, _, err := parser.ParseUnverified(token, &wc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if wc.Subject == "" {
		return nil, ErrNoSubject
	}

	c := &Claims{
		Subject: wc.Subject,
		UserID:  wc.UserID,
		Email:   wc.Email,
	}
	if wc.ExpiresAt != nil {
		c.ExpiresAt = wc.ExpiresAt.Time
	}
	return c, nil
}
