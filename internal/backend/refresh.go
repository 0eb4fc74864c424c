package backend

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// retryInterval is how long to wait before retrying a refresh that failed
// because the backend was unreachable.
const retryInterval = 30 * time.Second

// scheduleRefreshLocked arms the background refresh for the current access
// token. It must be called with c.mu held. Tokens without an exp claim are
// never refreshed proactively.
func (c *HTTPClient) scheduleRefreshLocked() {
	if c.refreshTimer != nil {
		c.refreshTimer.Stop()
		c.refreshTimer = nil
	}
	if c.closed || c.accessToken == "" || c.refreshToken == "" {
		return
	}

	expiry, err := tokenExpiry(c.accessToken)
	if err != nil {
		c.log.Warn(context.Background(), "cannot read token expiry, background refresh disabled", "error", err)
		return
	}

	delay := time.Until(expiry) - c.refreshLeeway
	if delay < 0 {
		delay = 0
	}
	c.refreshTimer = time.AfterFunc(delay, c.autoRefresh)
}

// tokenExpiry extracts the exp claim without verifying the signature. The
// token was issued by the backend over TLS; the client only needs the
// timestamp to schedule ahead of it.
func tokenExpiry(accessToken string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("token has no exp claim")
	}
	return claims.ExpiresAt.Time, nil
}

// autoRefresh runs in the timer goroutine. A rejected refresh clears the
// session and notifies subscribers; an unreachable backend retries later.
func (c *HTTPClient) autoRefresh() {
	c.mu.Lock()
	refreshToken := c.refreshToken
	closed := c.closed
	c.mu.Unlock()
	if closed || refreshToken == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.http.Timeout)
	defer cancel()

	identity, err := c.refresh(ctx, refreshToken)
	if err == nil {
		c.log.Debug(ctx, "session token refreshed", "user", identity.ID)
		c.emit(SessionEvent{Kind: EventTokenRefreshed, Identity: identity})
		return
	}

	if errors.Is(err, ErrUnavailable) {
		c.log.Warn(ctx, "token refresh failed, backend unreachable, will retry", "error", err)
		c.mu.Lock()
		if !c.closed {
			c.refreshTimer = time.AfterFunc(retryInterval, c.autoRefresh)
		}
		c.mu.Unlock()
		return
	}

	// The backend rejected the refresh token: the session is gone.
	c.log.Warn(ctx, "session refresh rejected, signing out", "error", err)
	c.setSession("", "", nil)
	c.emit(SessionEvent{Kind: EventSignedOut})
}
