package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/osp/internal/client/client"
	"github.com/dmitrijs2005/osp/internal/client/services"
)

// getSimpleText, getPassword and confirm are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	confirm       = Confirm
	waitForEnter  = WaitForEnter
)

// finalError is shown to the user but never offered for retry.
type finalError struct{ err error }

func (e *finalError) Error() string { return e.err.Error() }

func (e *finalError) Unwrap() error { return e.err }

func final(err error) error {
	if err == nil {
		return nil
	}
	return &finalError{err: err}
}

// withRetry runs action until it succeeds or the user declines a retry.
// Each failure prints title (when set) and the user-facing message.
func (a *App) withRetry(ctx context.Context, title string, action func() error) error {
	for {
		err := action()
		if err == nil {
			return nil
		}

		var fe *finalError
		stop := errors.As(err, &fe) || errors.Is(err, client.ErrRefreshExhausted) || ctx.Err() != nil
		if fe != nil {
			err = fe.err
		}

		if title != "" {
			fmt.Fprintln(a.out, title)
		}
		fmt.Fprintln(a.out, userMessage(err))

		if stop {
			return err
		}
		again, cerr := confirm(a.reader, "Retry?", a.out)
		if cerr != nil || !again {
			return err
		}
	}
}

func userMessage(err error) string {
	var (
		se *services.SignInError
		de *services.DeletionError
		le *services.LoadError
	)
	switch {
	case errors.As(err, &se):
		return se.Message
	case errors.As(err, &de):
		return de.Message
	case errors.As(err, &le):
		return le.Message
	case errors.Is(err, client.ErrRefreshExhausted):
		return "Your session has expired. Please sign in again."
	case errors.Is(err, services.ErrNotSignedIn):
		return "Please sign in to continue."
	case errors.Is(err, services.ErrEmptyComment):
		return "Comment text is required."
	default:
		return err.Error()
	}
}
