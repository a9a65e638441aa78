package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/osp/internal/client/services"
)

// DeleteAccount confirms, then deletes the account. On a failure that ends
// the session the user acknowledges the message and is signed out; other
// failures offer a retry.
func (a *App) DeleteAccount(ctx context.Context) error {
	fmt.Fprintln(a.out, services.DeleteConfirmTitle)
	ok, err := confirm(a.reader, services.DeleteConfirmMessage, a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Account deletion cancelled.")
		return nil
	}

	err = a.withRetry(ctx, services.DeleteFailedTitle, func() error {
		err := a.accountService.DeleteAccount(ctx)
		var de *services.DeletionError
		if errors.As(err, &de) && de.RequiresSignOut {
			return final(err)
		}
		return err
	})
	if err == nil {
		fmt.Fprintln(a.out, "Your account has been deleted.")
		return nil
	}

	var de *services.DeletionError
	if errors.As(err, &de) && de.RequiresSignOut {
		_ = waitForEnter(a.reader, a.out)
		if aerr := a.accountService.Acknowledge(ctx, err); aerr != nil {
			a.log.Error(ctx, "sign-out after failed deletion", "err", aerr)
		}
	}
	return err
}
