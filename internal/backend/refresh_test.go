package backend

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForEvent(t *testing.T, ch <-chan SessionEvent) SessionEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for session event")
		return SessionEvent{}
	}
}

func TestTokenExpiry(t *testing.T) {
	token := signedToken(t, time.Hour)

	expiry, err := tokenExpiry(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, 15*time.Second)

	_, err = tokenExpiry("not-a-jwt")
	assert.Error(t, err)
}

func TestAutoRefresh_EmitsTokenRefreshed(t *testing.T) {
	api := &fakeAPI{accessTokenTTL: time.Hour}
	srv := httptest.NewServer(api.router(t))
	t.Cleanup(srv.Close)

	// Leeway larger than the token lifetime makes the refresh fire
	// immediately after sign-in.
	c := NewHTTPClient(srv.URL, "k", 5*time.Second, 2*time.Hour, testLogger())
	t.Cleanup(func() { _ = c.Close() })

	events := make(chan SessionEvent, 16)
	unsub := c.OnSessionChange(func(ev SessionEvent) {
		select {
		case events <- ev:
		default:
		}
	})
	defer unsub()

	_, err := c.SignIn(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)

	ev := waitForEvent(t, events)
	assert.Equal(t, EventTokenRefreshed, ev.Kind)
	require.NotNil(t, ev.Identity)
	assert.Equal(t, "u1", ev.Identity.ID)
	_, refreshes := api.grantCounts()
	assert.GreaterOrEqual(t, refreshes, 1)
}

func TestAutoRefresh_RejectionSignsOut(t *testing.T) {
	api := &fakeAPI{accessTokenTTL: time.Hour, rejectRefresh: true}
	srv := httptest.NewServer(api.router(t))
	t.Cleanup(srv.Close)

	c := NewHTTPClient(srv.URL, "k", 5*time.Second, 2*time.Hour, testLogger())
	t.Cleanup(func() { _ = c.Close() })

	events := make(chan SessionEvent, 4)
	unsub := c.OnSessionChange(func(ev SessionEvent) { events <- ev })
	defer unsub()

	_, err := c.SignIn(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)

	ev := waitForEvent(t, events)
	assert.Equal(t, EventSignedOut, ev.Kind)
	assert.Empty(t, c.RefreshToken())
}

func TestClose_StopsScheduledRefresh(t *testing.T) {
	api := &fakeAPI{accessTokenTTL: time.Hour}
	srv := httptest.NewServer(api.router(t))
	t.Cleanup(srv.Close)

	// Healthy leeway: the refresh is scheduled far in the future.
	c := NewHTTPClient(srv.URL, "k", 5*time.Second, time.Minute, testLogger())

	_, err := c.SignIn(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)

	require.NoError(t, c.Close())

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Nil(t, c.refreshTimer)
	assert.True(t, c.closed)
}
