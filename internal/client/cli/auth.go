package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/osp/internal/client/services"
	"github.com/dmitrijs2005/osp/internal/client/session"
	"github.com/dmitrijs2005/osp/internal/common"
)

// SignIn prompts for a username and password and signs in. A failure shows
// the server's message and offers a retry with fresh input.
//
// The password byte slice is wiped before returning.
func (a *App) SignIn(ctx context.Context) error {
	return a.withRetry(ctx, "", func() error {
		userName, err := getSimpleText(a.reader, "Enter username", a.out)
		if err != nil {
			return final(err)
		}

		password, err := getPassword(a.reader, a.out)
		if err != nil {
			return final(err)
		}
		defer common.WipeByteArray(password)

		if _, err := a.authService.SignIn(ctx, userName, string(password)); err != nil {
			a.log.Info(ctx, "sign-in failed", "user", userName, "err", err)
			return err
		}

		a.restoreUser(ctx)
		if a.getUser() == "" {
			a.setUser(userName)
		}
		a.navigate(session.RouteAccount)
		fmt.Fprintln(a.out, "Signed in.")
		return nil
	})
}

// SocialSignIn asks for an id token issued by provider and exchanges it.
// Unsupported providers fail before any input is read.
func (a *App) SocialSignIn(ctx context.Context, provider string) error {
	if provider != common.ProviderGoogle && provider != common.ProviderApple {
		fmt.Fprintf(a.out, "Unsupported provider %q. Use google or apple.\n", provider)
		return common.ErrUnsupportedProvider
	}

	return a.withRetry(ctx, "", func() error {
		idToken, err := getSimpleText(a.reader, fmt.Sprintf("Paste your %s ID token", provider), a.out)
		if err != nil {
			return final(err)
		}

		identity, err := a.authService.SocialSignIn(ctx, provider, idToken)
		if err != nil {
			return err
		}

		label := identity.Email
		if label == "" {
			label = identity.Subject
		}
		a.setUser(label)
		a.navigate(session.RouteAccount)
		fmt.Fprintf(a.out, "Signed in as %s.\n", label)
		return nil
	})
}

// restoreUser labels the prompt from the stored token, when it decodes.
func (a *App) restoreUser(ctx context.Context) {
	identity, err := a.authService.CurrentClaims(ctx)
	if err != nil {
		return
	}
	if identity.Email != "" {
		a.setUser(identity.Email)
		return
	}
	a.setUser(identity.Subject)
}

// WhoAmI prints the identity carried by the stored access token.
func (a *App) WhoAmI(ctx context.Context) error {
	identity, err := a.authService.CurrentClaims(ctx)
	if err != nil {
		if errors.Is(err, services.ErrNotSignedIn) {
			fmt.Fprintln(a.out, "Not signed in.")
		} else {
			fmt.Fprintln(a.out, "Signed in, but the token carries no readable identity.")
		}
		return err
	}

	fmt.Fprintf(a.out, "Subject: %s\n", identity.Subject)
	if identity.UserID != "" {
		fmt.Fprintf(a.out, "User ID: %s\n", identity.UserID)
	}
	if identity.Email != "" {
		fmt.Fprintf(a.out, "Email: %s\n", identity.Email)
	}
	if !identity.ExpiresAt.IsZero() {
		fmt.Fprintf(a.out, "Expires: %s\n", identity.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

// SignOut forgets the session. The session manager resets the view back to
// sign-in.
func (a *App) SignOut(ctx context.Context) error {
	if err := a.authService.SignOut(ctx); err != nil {
		fmt.Fprintln(a.out, "Sign-out did not complete:", err)
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}
