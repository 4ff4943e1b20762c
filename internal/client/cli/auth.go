package cli

import (
	"context"
	"errors"
	"fmt"
)

// getSimpleText, getMultiline and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getMultiline  = GetMultiline
	getPassword   = GetPassword
)

var errPasswordMismatch = errors.New("passwords do not match")

// Signup prompts for username, email and password (twice) and creates the
// account. On success the new user is signed in.
func (a *App) Signup(ctx context.Context, _ []string) error {
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
	defer wipe(password)

	fmt.Fprintln(a.out, "Confirm password")
	confirm, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(confirm)

	if string(password) != string(confirm) {
		return errPasswordMismatch
	}

	if err := a.session.Signup(ctx, username, email, string(password)); err != nil {
		return err
	}
	a.resetLists()
	fmt.Fprintf(a.out, "Welcome, @%s!\n", username)
	return nil
}

// Login prompts for credentials and signs in. A failed attempt leaves the
// current session untouched.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		return err
	}
	a.resetLists()

	u, _ := a.session.User()
	fmt.Fprintf(a.out, "Welcome back, @%s!\n", u.Username)
	return nil
}

// Logout forgets the session locally; the server is not contacted.
func (a *App) Logout(ctx context.Context, _ []string) error {
	a.session.Logout(ctx)
	a.resetLists()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) Whoami(_ context.Context, _ []string) error {
	u, err := a.session.User()
	if err != nil {
		return err
	}
	renderUser(a.out, u)
	return nil
}
