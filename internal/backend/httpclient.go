package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/coinvault/internal/logging"
	"github.com/dmitrijs2005/coinvault/internal/models"
)

// HTTPClient talks JSON over HTTP to the hosted backend. A single instance
// satisfies both AuthClient and DataClient and is safe for concurrent use.
type HTTPClient struct {
	baseURL       string
	apiKey        string
	http          *http.Client
	log           logging.Logger
	refreshLeeway time.Duration

	mu             sync.Mutex
	accessToken    string
	refreshToken   string
	identity       *models.Identity
	refreshTimer   *time.Timer
	listeners      map[int]func(SessionEvent)
	nextListenerID int
	closed         bool
}

var (
	_ AuthClient = (*HTTPClient)(nil)
	_ DataClient = (*HTTPClient)(nil)
)

// NewHTTPClient constructs a client for the backend at baseURL. The apiKey is
// sent with every request; refreshLeeway controls how far ahead of token
// expiry the background refresh runs.
func NewHTTPClient(baseURL, apiKey string, timeout, refreshLeeway time.Duration, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:       strings.TrimRight(baseURL, "/"),
		apiKey:        apiKey,
		http:          &http.Client{Timeout: timeout},
		log:           log,
		refreshLeeway: refreshLeeway,
		listeners:     make(map[int]func(SessionEvent)),
	}
}

// Close stops the background refresh and drops all subscribers.
func (c *HTTPClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.refreshTimer != nil {
		c.refreshTimer.Stop()
		c.refreshTimer = nil
	}
	c.listeners = make(map[int]func(SessionEvent))
	return nil
}

// OnSessionChange registers fn and returns an unsubscribe func.
func (c *HTTPClient) OnSessionChange(fn func(SessionEvent)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextListenerID
	c.nextListenerID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *HTTPClient) emit(ev SessionEvent) {
	c.mu.Lock()
	fns := make([]func(SessionEvent), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// RefreshToken returns the current refresh token, or "" when signed out.
func (c *HTTPClient) RefreshToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshToken
}

// ----- wire types -----

type tokenResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	ExpiresIn    int64            `json:"expires_in"`
	User         *models.Identity `json:"user"`
}

type signUpResponse struct {
	// Session fields are present only when no confirmation is required.
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	User         *models.Identity `json:"user"`

	// When confirmation is required the payload is the bare user object.
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at"`
}

type apiError struct {
	Err         string `json:"error"`
	Description string `json:"error_description"`
	Msg         string `json:"msg"`
	Message     string `json:"message"`
}

func (e *apiError) text() string {
	for _, s := range []string{e.Description, e.Msg, e.Message, e.Err} {
		if s != "" {
			return s
		}
	}
	return ""
}

// ----- request plumbing -----

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("apikey", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.Lock()
	token := c.accessToken
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// do executes req and decodes a JSON response into out (when out != nil).
// Transport failures wrap ErrUnavailable; HTTP errors are mapped to the
// package sentinels.
func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var ae apiError
		_ = json.NewDecoder(resp.Body).Decode(&ae)
		return mapAPIError(resp.StatusCode, ae.text())
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func mapAPIError(status int, msg string) error {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "invalid login credentials"):
		return ErrInvalidCredentials
	case strings.Contains(lower, "email not confirmed"):
		return ErrEmailNotConfirmed
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return fmt.Errorf("backend error (%d): %s", status, msg)
}

// setSession stores tokens and identity and (re)schedules the background
// refresh. Passing empty tokens clears the session.
func (c *HTTPClient) setSession(accessToken, refreshToken string, identity *models.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = accessToken
	c.refreshToken = refreshToken
	c.identity = identity
	c.scheduleRefreshLocked()
}

// ----- AuthClient -----

func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (*models.Identity, error) {
	body := map[string]string{"email": email, "password": password}

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", body)
	if err != nil {
		return nil, err
	}

	var tr tokenResponse
	if err := c.do(req, &tr); err != nil {
		return nil, err
	}

	// The backend normally rejects unconfirmed accounts itself; if one slips
	// through, refuse the session rather than present an unconfirmed user
	// as signed in.
	if !tr.User.EmailConfirmed() {
		return nil, ErrEmailNotConfirmed
	}

	c.setSession(tr.AccessToken, tr.RefreshToken, tr.User)
	return tr.User, nil
}

func (c *HTTPClient) SignUp(ctx context.Context, email, password string, meta SignUpMetadata) (*SignUpResult, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data": map[string]string{
			"full_name": meta.FullName,
			"username":  meta.Username,
			"role":      "collector",
		},
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/signup", body)
	if err != nil {
		return nil, err
	}

	var sr signUpResponse
	if err := c.do(req, &sr); err != nil {
		return nil, err
	}

	// No session in the payload means confirmation is pending.
	if sr.AccessToken == "" {
		identity := sr.User
		if identity == nil {
			identity = &models.Identity{ID: sr.ID, Email: sr.Email, EmailConfirmedAt: sr.EmailConfirmedAt}
		}
		return &SignUpResult{Identity: identity, ConfirmationRequired: true}, nil
	}

	c.setSession(sr.AccessToken, sr.RefreshToken, sr.User)
	return &SignUpResult{Identity: sr.User}, nil
}

func (c *HTTPClient) SignOut(ctx context.Context) error {
	// Drop the local session first: sign-out must never leave stale
	// credentials behind, whatever the backend says.
	c.mu.Lock()
	token := c.accessToken
	c.accessToken = ""
	c.refreshToken = ""
	c.identity = nil
	if c.refreshTimer != nil {
		c.refreshTimer.Stop()
		c.refreshTimer = nil
	}
	c.mu.Unlock()

	if token == "" {
		return nil
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return c.do(req, nil)
}

func (c *HTTPClient) ResendConfirmation(ctx context.Context, email string) error {
	body := map[string]string{"type": "signup", "email": email}
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/resend", body)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/recover", body)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *HTTPClient) RestoreSession(ctx context.Context, refreshToken string) (*models.Identity, error) {
	identity, err := c.refresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return identity, nil
}

// refresh exchanges refreshToken for a fresh session and stores it.
func (c *HTTPClient) refresh(ctx context.Context, refreshToken string) (*models.Identity, error) {
	body := map[string]string{"refresh_token": refreshToken}

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/token?grant_type=refresh_token", body)
	if err != nil {
		return nil, err
	}

	var tr tokenResponse
	if err := c.do(req, &tr); err != nil {
		return nil, err
	}

	// A 200 without a session payload must not become a signed-in state.
	if tr.AccessToken == "" || tr.User == nil {
		return nil, fmt.Errorf("token response without a session")
	}

	c.setSession(tr.AccessToken, tr.RefreshToken, tr.User)
	return tr.User, nil
}

// ----- DataClient -----

func (c *HTTPClient) ListCoins(ctx context.Context) ([]models.Coin, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/rest/v1/coins?select=*&order=created_at.desc", nil)
	if err != nil {
		return nil, err
	}

	var coins []models.Coin
	if err := c.do(req, &coins); err != nil {
		return nil, err
	}
	return coins, nil
}

func (c *HTTPClient) GetCoin(ctx context.Context, id string) (*models.Coin, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/rest/v1/coins?id=eq."+url.QueryEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var coins []models.Coin
	if err := c.do(req, &coins); err != nil {
		return nil, err
	}
	if len(coins) == 0 {
		return nil, ErrNotFound
	}
	return &coins[0], nil
}

func (c *HTTPClient) CreateCoin(ctx context.Context, coin *models.Coin) (*models.Coin, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/rest/v1/coins", coin)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Prefer", "return=representation")

	var coins []models.Coin
	if err := c.do(req, &coins); err != nil {
		return nil, err
	}
	if len(coins) == 0 {
		return nil, fmt.Errorf("backend returned no representation")
	}
	return &coins[0], nil
}

func (c *HTTPClient) UpdateCoin(ctx context.Context, coin *models.Coin) (*models.Coin, error) {
	req, err := c.newRequest(ctx, http.MethodPatch, "/rest/v1/coins?id=eq."+url.QueryEscape(coin.ID), coin)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Prefer", "return=representation")

	var coins []models.Coin
	if err := c.do(req, &coins); err != nil {
		return nil, err
	}
	if len(coins) == 0 {
		return nil, ErrNotFound
	}
	return &coins[0], nil
}

func (c *HTTPClient) DeleteCoin(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/rest/v1/coins?id=eq."+url.QueryEscape(id), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *HTTPClient) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/rest/v1/user_profiles?id=eq."+url.QueryEscape(userID), nil)
	if err != nil {
		return nil, err
	}

	var profiles []models.Profile
	if err := c.do(req, &profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, ErrNotFound
	}
	return &profiles[0], nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) (*models.Profile, error) {
	req, err := c.newRequest(ctx, http.MethodPatch, "/rest/v1/user_profiles?id=eq."+url.QueryEscape(userID), update)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Prefer", "return=representation")

	var profiles []models.Profile
	if err := c.do(req, &profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, ErrNotFound
	}
	return &profiles[0], nil
}
