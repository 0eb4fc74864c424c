// Package backend implements the HTTP client for the hosted backend service
// that owns authentication, coin records, and user profiles. The rest of the
// application depends on the AuthClient and DataClient interfaces so tests
// can substitute fakes.
package backend

import (
	"context"

	"github.com/dmitrijs2005/coinvault/internal/models"
)

// SignUpMetadata carries the optional profile fields collected at sign-up.
type SignUpMetadata struct {
	FullName string
	Username string
}

// SignUpResult reports the outcome of a successful sign-up request.
type SignUpResult struct {
	Identity *models.Identity

	// ConfirmationRequired is true when the backend created the account but
	// returned no session: the user must confirm their email first.
	ConfirmationRequired bool
}

// AuthClient is the authentication surface of the backend.
//
// SignIn, SignUp, SignOut and RestoreSession change the client's session
// state but emit no session events: the caller owns those transitions.
// Events are reserved for autonomous changes (background token refresh,
// refresh failure) — see OnSessionChange.
type AuthClient interface {
	// SignIn performs a password sign-in. On success the client holds a live
	// session. A success for an unconfirmed email is converted to
	// ErrEmailNotConfirmed and no session is kept.
	SignIn(ctx context.Context, email, password string) (*models.Identity, error)

	// SignUp registers a new account. When the backend requires email
	// confirmation no session is created.
	SignUp(ctx context.Context, email, password string, meta SignUpMetadata) (*SignUpResult, error)

	// SignOut drops the local session unconditionally, then revokes it
	// remotely. The returned error reports the remote call only.
	SignOut(ctx context.Context) error

	// ResendConfirmation asks the backend to resend the sign-up
	// confirmation email.
	ResendConfirmation(ctx context.Context, email string) error

	// ResetPassword initiates the password recovery flow.
	ResetPassword(ctx context.Context, email string) error

	// RestoreSession exchanges a persisted refresh token for a live session.
	RestoreSession(ctx context.Context, refreshToken string) (*models.Identity, error)

	// RefreshToken returns the current refresh token, or "" when signed out.
	// Callers persist it so the session survives restarts.
	RefreshToken() string

	// OnSessionChange registers fn for session events and returns an
	// unsubscribe func. Callbacks may fire concurrently with in-flight
	// operations.
	OnSessionChange(fn func(SessionEvent)) (unsubscribe func())

	Close() error
}

// DataClient is the coin-record and profile surface of the backend.
type DataClient interface {
	ListCoins(ctx context.Context) ([]models.Coin, error)
	GetCoin(ctx context.Context, id string) (*models.Coin, error)
	CreateCoin(ctx context.Context, coin *models.Coin) (*models.Coin, error)
	UpdateCoin(ctx context.Context, coin *models.Coin) (*models.Coin, error)
	DeleteCoin(ctx context.Context, id string) error

	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) (*models.Profile, error)
}
