package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/osp/internal/common"
)

// Identity is what a verified provider id token says about its holder.
type Identity struct {
	Provider string
	Subject  string
	Email    string
}

type providerClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// ProviderVerifier checks id tokens issued by social providers. Each provider
// signs with its own HMAC secret.
type ProviderVerifier struct {
	secrets map[string][]byte
}

func NewProviderVerifier(secrets map[string]string) *ProviderVerifier {
	v := &ProviderVerifier{secrets: make(map[string][]byte, len(secrets))}
	for name, s := range secrets {
		v.secrets[name] = []byte(s)
	}
	return v
}

// Verify returns the identity in idToken. An unknown provider gives
// common.ErrUnsupportedProvider; a bad, expired or incomplete token gives
// common.ErrInvalidToken.
func (v *ProviderVerifier) Verify(provider, idToken string) (*Identity, error) {
	secret, ok := v.secrets[provider]
	if !ok {
		return nil, common.ErrUnsupportedProvider
	}

	claims := &providerClaims{}
	_, err := jwt.ParseWithClaims(idToken, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if claims.Subject == "" || claims.Email == "" {
		return nil, common.ErrInvalidToken
	}

	return &Identity{Provider: provider, Subject: claims.Subject, Email: claims.Email}, nil
}

// SignProviderToken builds an id token the way a provider configured with
// secret would. Development setups and tests use it to stand in for Google
// or Apple.
func SignProviderToken(subject, email string, secret []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, providerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		Email: email,
	})
	return token.SignedString(secret)
}
