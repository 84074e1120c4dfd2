package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
)

// Users lists all active accounts.
func (a *App) Users(ctx context.Context) error {
	accs, err := a.accounts.ListActive(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err.Error())
		return err
	}

	fmt.Fprintf(a.out, "%d active account(s)\n", len(accs))
	for _, acc := range accs {
		fmt.Fprintf(a.out, "  - %s <%s> (id %s)\n", acc.Username, acc.Email, acc.ID)
	}
	return nil
}

// Find looks up an account by username and prints its state. An unknown
// username is reported to the user but is not an error.
func (a *App) Find(ctx context.Context, username string) error {
	acc, err := a.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			fmt.Fprintf(a.out, "No account named %q\n", username)
			return nil
		}
		fmt.Fprintf(a.out, "Error: %s\n", err.Error())
		return err
	}

	fmt.Fprintf(a.out, "Username:        %s\n", acc.Username)
	fmt.Fprintf(a.out, "Email:           %s\n", acc.Email)
	fmt.Fprintf(a.out, "ID:              %s\n", acc.ID)
	fmt.Fprintf(a.out, "Active:          %v\n", acc.Active)
	fmt.Fprintf(a.out, "Locked:          %v\n", acc.Locked)
	fmt.Fprintf(a.out, "Failed attempts: %d\n", acc.FailedAttempts)
	fmt.Fprintf(a.out, "Created:         %s\n", acc.CreatedAt.Format("2006-01-02 15:04:05"))
	if !acc.LastLogin.IsZero() {
		fmt.Fprintf(a.out, "Last login:      %s\n", acc.LastLogin.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// Deactivate resolves a username and marks the account inactive, revoking
// its sessions. Deactivating the logged-in account also ends the current
// REPL session.
func (a *App) Deactivate(ctx context.Context, username string) error {
	acc, err := a.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			fmt.Fprintf(a.out, "No account named %q\n", username)
			return nil
		}
		fmt.Fprintf(a.out, "Error: %s\n", err.Error())
		return err
	}

	if err := a.accounts.Deactivate(ctx, acc.ID); err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err.Error())
		return err
	}

	if username == a.userName {
		a.token = ""
		a.userName = ""
	}

	fmt.Fprintf(a.out, "Account %s deactivated\n", username)
	return nil
}
