package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, email and password and attempts to create
// a new account. The password byte slice is wiped before returning. Service
// errors are printed and returned unchanged.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	acc, err := a.accounts.Register(ctx, username, email, string(password))
	if err != nil {
		fmt.Fprintf(a.out, "Registration failed: %s\n", err.Error())
		return err
	}

	fmt.Fprintf(a.out, "Account %s created (id %s)\n", acc.Username, acc.ID)
	return nil
}

// Login prompts for credentials and authenticates against the account
// service. On success the session token and username are kept on the App;
// they gate the account and record commands.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	session, err := a.accounts.Authenticate(ctx, username, string(password))
	if err != nil {
		fmt.Fprintf(a.out, "Login failed: %s\n", err.Error())
		return err
	}

	a.token = session.Token
	a.userName = username
	fmt.Fprintf(a.out, "Logged in as %s\n", username)
	return nil
}

// Logout revokes the current session and clears the login state.
func (a *App) Logout(ctx context.Context) error {
	if err := a.accounts.Logout(ctx, a.token); err != nil {
		fmt.Fprintf(a.out, "Logout failed: %s\n", err.Error())
		return err
	}
	a.token = ""
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// WhoAmI resolves the current session token and prints the account it
// belongs to.
func (a *App) WhoAmI(ctx context.Context) error {
	acc, err := a.accounts.SessionAccount(ctx, a.token)
	if err != nil {
		fmt.Fprintf(a.out, "Session check failed: %s\n", err.Error())
		return err
	}
	fmt.Fprintf(a.out, "%s <%s> (id %s)\n", acc.Username, acc.Email, acc.ID)
	return nil
}
