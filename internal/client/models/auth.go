package models

// Credentials is the body of the password sign-in call.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SocialCredentials is the body of the provider sign-in call.
type SocialCredentials struct {
	Provider string `json:"provider"`
	IDToken  string `json:"idToken"`
}

// SignInResult is any of the sign-in response shapes: password sign-in
// answers {token}, provider sign-in answers {accessToken, refreshToken}.
type SignInResult struct {
	Token        string `json:"token,omitempty"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Bearer returns the credential to present on requests.
func (r *SignInResult) Bearer() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.Token
}
