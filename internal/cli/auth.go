package cli

import (
	"context"
	"os"

	"github.com/dmitrijs2005/coinvault/internal/backend"
	"github.com/dmitrijs2005/coinvault/internal/query"
	"github.com/dmitrijs2005/coinvault/internal/services"
	"github.com/dmitrijs2005/coinvault/internal/settings"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// beginAuth marks an auth submission as in flight. It returns false when one
// is already running, so a double Enter cannot fire two sign-in requests.
func (a *App) beginAuth() bool {
	if a.busy {
		printlnFn("Please wait, the previous request is still running...")
		return false
	}
	a.busy = true
	return true
}

func (a *App) endAuth() {
	a.busy = false
}

// Login prompts for credentials and authenticates through the session
// manager. The outcome message always comes from the manager; on an
// unconfirmed email the user is pointed at the resend command.
func (a *App) Login(ctx context.Context) error {
	if !a.beginAuth() {
		return nil
	}
	defer a.endAuth()

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}

	res := a.session.SignIn(ctx, email, string(password))
	printlnFn(res.Message)
	if res.NeedsConfirmation {
		printlnFn("Type 'resend' to receive a new confirmation email.")
	}
	return res.Err
}

// Register prompts for account details and creates a new account. A password
// mismatch is caught locally before anything is sent.
func (a *App) Register(ctx context.Context) error {
	if !a.beginAuth() {
		return nil
	}
	defer a.endAuth()

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.reader, "Enter full name", os.Stdout)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	confirm, err := getPassword(os.Stdout, "Repeat password")
	if err != nil {
		return err
	}
	if string(password) != string(confirm) {
		printlnFn("Passwords do not match.")
		return nil
	}

	res := a.session.SignUp(ctx, email, string(password), backend.SignUpMetadata{
		FullName: fullName,
		Username: username,
	})
	printlnFn(res.Message)
	return res.Err
}

// Logout clears the session and wipes all locally persisted state, settings
// included. The local reset never fails, so the user is always signed out
// afterwards.
func (a *App) Logout(ctx context.Context) error {
	res := a.session.SignOut(ctx)

	if err := a.meta.Clear(ctx); err != nil {
		a.log.Warn(ctx, "could not wipe local state", "error", err)
	}
	a.settings = settings.Defaults()
	a.desc = query.Defaults()

	printlnFn(res.Message)
	return res.Err
}

// ResetPassword sends a password recovery email.
func (a *App) ResetPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	res := a.session.ResetPassword(ctx, email)
	printlnFn(res.Message)
	return res.Err
}

// ResendConfirmation resends the sign-up confirmation email. When the signed
// in (but unconfirmed) session knows the email it is reused; otherwise the
// user is asked.
func (a *App) ResendConfirmation(ctx context.Context) error {
	email := ""
	if snap := a.session.Snapshot(); snap.Identity != nil {
		email = snap.Identity.Email
	}
	if email == "" {
		var err error
		email, err = getSimpleText(a.reader, "Enter email", os.Stdout)
		if err != nil {
			return err
		}
	}

	res := a.session.ResendConfirmation(ctx, email)
	printlnFn(res.Message)
	return res.Err
}

// requireReady checks the session gate before a protected command runs and
// explains the current state when the command cannot proceed.
func (a *App) requireReady() (services.Snapshot, bool) {
	snap := a.session.Snapshot()
	switch snap.Gate() {
	case services.GateReady:
		return snap, true
	case services.GateLoading:
		printlnFn("Still resolving your session, try again in a moment.")
	case services.GateProfilePending:
		printlnFn("Your profile is still being set up, try again in a moment.")
	case services.GateConfirmEmail:
		printlnFn("Please confirm your email address first. Type 'resend' to receive a new confirmation email.")
	case services.GateError:
		printlnFn("The backend could not be reached. Restart the app to retry.")
	default:
		printlnFn("You are not signed in. Type 'login' to sign in.")
	}
	return snap, false
}
