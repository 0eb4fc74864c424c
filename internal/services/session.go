// Package services contains the application services of the Coinvault
// client. This file implements the session manager: the single authoritative
// holder of authentication state, driven both by explicit operations and by
// asynchronous session events pushed from the backend client.
package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/coinvault/internal/backend"
	"github.com/dmitrijs2005/coinvault/internal/logging"
	"github.com/dmitrijs2005/coinvault/internal/models"
)

// Status is the session lifecycle state.
type Status int

const (
	// StatusUnknown is the initial state before Start resolves the session.
	StatusUnknown Status = iota
	// StatusLoading means session restoration is in progress.
	StatusLoading
	// StatusAuthenticated means an identity is established. The invariant
	// holds: Authenticated implies a non-nil identity. The profile may
	// still be nil (provisioning in progress).
	StatusAuthenticated
	// StatusUnauthenticated means there is no session.
	StatusUnauthenticated
	// StatusError means the session could not be resolved because the
	// backend was unreachable.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusError:
		return "error"
	default:
		return "invalid"
	}
}

// Gate is the render decision every protected view derives from a Snapshot.
type Gate int

const (
	// GateLoading: session resolution in progress, show a spinner.
	GateLoading Gate = iota
	// GateSignedOut: redirect to the sign-in view.
	GateSignedOut
	// GateConfirmEmail: block entirely and offer a resend action.
	GateConfirmEmail
	// GateProfilePending: authenticated but the profile has not been
	// provisioned yet; block with a spinner, distinct from GateLoading.
	GateProfilePending
	// GateReady: render the protected content.
	GateReady
	// GateError: the session could not be resolved, show the failure.
	GateError
)

// Snapshot is an immutable view of the session at one transition. Seq grows
// monotonically with every transition.
type Snapshot struct {
	Status   Status
	Identity *models.Identity
	Profile  *models.Profile
	Seq      uint64
}

// Gate derives the render decision for protected views.
func (s Snapshot) Gate() Gate {
	switch s.Status {
	case StatusUnknown, StatusLoading:
		return GateLoading
	case StatusError:
		return GateError
	case StatusAuthenticated:
		if !s.Identity.EmailConfirmed() {
			return GateConfirmEmail
		}
		if s.Profile == nil {
			return GateProfilePending
		}
		return GateReady
	default:
		return GateSignedOut
	}
}

// ErrorKind classifies a failed session operation for the presentation layer.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindInvalidCredentials
	KindEmailNotConfirmed
	KindValidationFailed
	KindNetworkUnavailable
	KindUnknown
)

// Result is the outcome of a session operation. Errors are carried as values;
// nothing is ever thrown past the manager boundary.
type Result struct {
	Success bool

	// NeedsConfirmation is set when the account exists but its email has
	// not been confirmed; the caller should offer a resend action.
	NeedsConfirmation bool

	// Message is a user-presentable description of the outcome.
	Message string

	Kind ErrorKind
	Err  error
}

// SessionManager owns the session state machine. A single instance lives for
// the whole process; construct it once at startup and Close it at shutdown.
type SessionManager struct {
	auth backend.AuthClient
	data backend.DataClient
	log  logging.Logger

	mu          sync.Mutex
	seq         uint64
	status      Status
	identity    *models.Identity
	profile     *models.Profile
	watchers    map[int]func(Snapshot)
	nextWatcher int
	unsubscribe func()
}

// NewSessionManager wires the manager to its backend collaborators. The
// clients are injected so tests can substitute fakes.
func NewSessionManager(auth backend.AuthClient, data backend.DataClient, log logging.Logger) *SessionManager {
	return &SessionManager{
		auth:     auth,
		data:     data,
		log:      log.With("component", "session"),
		status:   StatusUnknown,
		watchers: make(map[int]func(Snapshot)),
	}
}

// Start subscribes to backend session events and resolves the initial
// session from the persisted refresh token (empty token: no session).
func (m *SessionManager) Start(ctx context.Context, refreshToken string) {
	m.mu.Lock()
	m.unsubscribe = m.auth.OnSessionChange(m.handleEvent)
	m.mu.Unlock()

	start := m.transition(StatusLoading, nil, nil)

	if refreshToken == "" {
		m.applyAt(start, StatusUnauthenticated, nil)
		return
	}

	identity, err := m.auth.RestoreSession(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, backend.ErrUnavailable) {
			m.log.Warn(ctx, "session restore failed, backend unreachable", "error", err)
			m.applyAt(start, StatusError, nil)
		} else {
			m.log.Info(ctx, "persisted session no longer valid", "error", err)
			m.applyAt(start, StatusUnauthenticated, nil)
		}
		return
	}
	if identity == nil {
		m.log.Info(ctx, "persisted session carried no identity, discarding")
		m.applyAt(start, StatusUnauthenticated, nil)
		return
	}

	if m.applyAt(start, StatusAuthenticated, identity) {
		m.fetchProfile(ctx, identity.ID)
	}
}

// Close unregisters the session-event subscription.
func (m *SessionManager) Close() {
	m.mu.Lock()
	unsub := m.unsubscribe
	m.unsubscribe = nil
	m.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Snapshot returns the current session state.
func (m *SessionManager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe registers fn to be called after every transition and returns an
// unsubscribe func.
func (m *SessionManager) Subscribe(fn func(Snapshot)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextWatcher
	m.nextWatcher++
	m.watchers[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.watchers, id)
	}
}

func (m *SessionManager) snapshotLocked() Snapshot {
	return Snapshot{Status: m.status, Identity: m.identity, Profile: m.profile, Seq: m.seq}
}

// transition applies a state change unconditionally, advancing the logical
// clock, and notifies watchers. It returns the sequence number of the new
// state.
func (m *SessionManager) transition(status Status, identity *models.Identity, profile *models.Profile) uint64 {
	m.mu.Lock()
	m.seq++
	m.status = status
	m.identity = identity
	m.profile = profile
	snap := m.snapshotLocked()
	fns := m.watcherList()
	m.mu.Unlock()

	m.notify(fns, snap)
	return snap.Seq
}

// applyAt applies a state change only if no other transition happened since
// the operation observed sequence number at. This is the ordering rule that
// keeps a stale in-flight result (e.g. a sign-in success arriving after a
// sign-out) from resurrecting a dead session.
func (m *SessionManager) applyAt(at uint64, status Status, identity *models.Identity) bool {
	m.mu.Lock()
	if m.seq != at {
		m.mu.Unlock()
		m.log.Debug(context.Background(), "discarding stale transition", "at", at, "status", status.String())
		return false
	}
	m.seq++
	m.status = status
	m.identity = identity
	m.profile = nil
	snap := m.snapshotLocked()
	fns := m.watcherList()
	m.mu.Unlock()

	m.notify(fns, snap)
	return true
}

func (m *SessionManager) watcherList() []func(Snapshot) {
	fns := make([]func(Snapshot), 0, len(m.watchers))
	for _, fn := range m.watchers {
		fns = append(fns, fn)
	}
	return fns
}

func (m *SessionManager) notify(fns []func(Snapshot), snap Snapshot) {
	for _, fn := range fns {
		fn(snap)
	}
}

// handleEvent maps a backend session event to a transition. Events describe
// the backend's current truth, so they always apply, which in turn
// invalidates any operation still in flight.
func (m *SessionManager) handleEvent(ev backend.SessionEvent) {
	switch ev.Kind {
	case backend.EventSignedOut:
		m.transition(StatusUnauthenticated, nil, nil)

	case backend.EventTokenRefreshed:
		m.mu.Lock()
		if m.status != StatusAuthenticated {
			m.mu.Unlock()
			return
		}
		m.seq++
		m.identity = ev.Identity
		snap := m.snapshotLocked()
		fns := m.watcherList()
		m.mu.Unlock()
		m.notify(fns, snap)
	}
}

// fetchProfile loads the profile best-effort: a missing or unreachable
// profile never fails the session, it only leaves Profile nil (the
// provisioning-pending state).
func (m *SessionManager) fetchProfile(ctx context.Context, userID string) {
	p, err := m.data.GetProfile(ctx, userID)
	if err != nil {
		m.log.Info(ctx, "profile not available yet", "user", userID, "error", err)
		return
	}
	m.setProfileFor(userID, p)
}

func (m *SessionManager) setProfileFor(userID string, p *models.Profile) {
	m.mu.Lock()
	if m.status != StatusAuthenticated || m.identity == nil || m.identity.ID != userID {
		m.mu.Unlock()
		return
	}
	m.seq++
	m.profile = p
	snap := m.snapshotLocked()
	fns := m.watcherList()
	m.mu.Unlock()
	m.notify(fns, snap)
}

// ----- operations -----

// SignIn authenticates with email and password. An unconfirmed email yields
// a needs-confirmation result and no transition to Authenticated.
func (m *SessionManager) SignIn(ctx context.Context, email, password string) Result {
	if r, ok := validEmail(email); !ok {
		return r
	}
	if password == "" {
		return Result{Kind: KindValidationFailed, Message: "Enter your password."}
	}

	m.mu.Lock()
	dispatch := m.seq
	m.mu.Unlock()

	identity, err := m.auth.SignIn(ctx, email, password)
	if err != nil {
		return normalizeAuthError(err, "Something went wrong during sign-in. Please try again.")
	}
	if !identity.EmailConfirmed() {
		return Result{
			NeedsConfirmation: true,
			Kind:              KindEmailNotConfirmed,
			Message:           "Please confirm your email address before signing in. Check your inbox for the confirmation link.",
		}
	}

	if m.applyAt(dispatch, StatusAuthenticated, identity) {
		m.fetchProfile(ctx, identity.ID)
	}
	return Result{Success: true, Message: "Signed in."}
}

// SignUp registers a new account. When the backend requires email
// confirmation the session stays Unauthenticated and the result carries a
// check-your-email message.
func (m *SessionManager) SignUp(ctx context.Context, email, password string, meta backend.SignUpMetadata) Result {
	if r, ok := validEmail(email); !ok {
		return r
	}
	if len(password) < 6 {
		return Result{Kind: KindValidationFailed, Message: "Password must be at least 6 characters."}
	}

	m.mu.Lock()
	dispatch := m.seq
	m.mu.Unlock()

	res, err := m.auth.SignUp(ctx, email, password, meta)
	if err != nil {
		return normalizeAuthError(err, "Something went wrong during registration. Please try again.")
	}

	if res.ConfirmationRequired {
		return Result{
			Success:           true,
			NeedsConfirmation: true,
			Message:           "Please check your email and click the confirmation link to complete registration.",
		}
	}

	if m.applyAt(dispatch, StatusAuthenticated, res.Identity) {
		m.fetchProfile(ctx, res.Identity.ID)
	}
	return Result{Success: true, Message: "Account created."}
}

// SignOut resets the local session unconditionally, then revokes it
// remotely. A failed remote call is reported but never blocks the reset:
// "stuck signed in" must not happen.
func (m *SessionManager) SignOut(ctx context.Context) Result {
	m.transition(StatusUnauthenticated, nil, nil)

	if err := m.auth.SignOut(ctx); err != nil {
		m.log.Warn(ctx, "remote sign-out failed, local session cleared anyway", "error", err)
		return Result{Success: true, Message: "Signed out locally; the server could not be reached."}
	}
	return Result{Success: true, Message: "Signed out."}
}

// ResetPassword starts the password recovery flow. No state transition.
func (m *SessionManager) ResetPassword(ctx context.Context, email string) Result {
	if r, ok := validEmail(email); !ok {
		return r
	}
	if err := m.auth.ResetPassword(ctx, email); err != nil {
		return normalizeAuthError(err, "Failed to send the password reset email.")
	}
	return Result{Success: true, Message: "Password reset email sent. Check your inbox."}
}

// ResendConfirmation resends the sign-up confirmation email. No state
// transition.
func (m *SessionManager) ResendConfirmation(ctx context.Context, email string) Result {
	if r, ok := validEmail(email); !ok {
		return r
	}
	if err := m.auth.ResendConfirmation(ctx, email); err != nil {
		return normalizeAuthError(err, "Failed to resend the confirmation email.")
	}
	return Result{Success: true, Message: "Confirmation email sent. Check your inbox."}
}

// UpdateProfile replaces the profile on success and leaves it untouched on
// failure. Only valid while Authenticated.
func (m *SessionManager) UpdateProfile(ctx context.Context, update models.ProfileUpdate) Result {
	m.mu.Lock()
	if m.status != StatusAuthenticated {
		m.mu.Unlock()
		return Result{Kind: KindValidationFailed, Message: "Sign in to update your profile."}
	}
	userID := m.identity.ID
	m.mu.Unlock()

	p, err := m.data.UpdateProfile(ctx, userID, update)
	if err != nil {
		return normalizeAuthError(err, "Failed to update profile.")
	}

	m.setProfileFor(userID, p)
	return Result{Success: true, Message: "Profile updated."}
}

func validEmail(email string) (Result, bool) {
	if email == "" || !strings.Contains(email, "@") {
		return Result{Kind: KindValidationFailed, Message: "Enter a valid email address."}, false
	}
	return Result{}, true
}

// normalizeAuthError converts backend sentinels into the session error
// taxonomy. Unrecognized errors become KindUnknown with a generic message.
func normalizeAuthError(err error, fallback string) Result {
	switch {
	case errors.Is(err, backend.ErrEmailNotConfirmed):
		return Result{
			NeedsConfirmation: true,
			Kind:              KindEmailNotConfirmed,
			Err:               err,
			Message:           "Please confirm your email address before signing in. Check your inbox for the confirmation link.",
		}
	case errors.Is(err, backend.ErrInvalidCredentials):
		return Result{Kind: KindInvalidCredentials, Err: err, Message: "Invalid email or password."}
	case errors.Is(err, backend.ErrUnavailable):
		return Result{Kind: KindNetworkUnavailable, Err: err, Message: "Cannot connect to the authentication service. Please try again later."}
	default:
		return Result{Kind: KindUnknown, Err: err, Message: fallback}
	}
}
