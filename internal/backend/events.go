package backend

import "github.com/dmitrijs2005/coinvault/internal/models"

// SessionEventKind enumerates autonomous session changes pushed to
// subscribers.
type SessionEventKind int

const (
	// EventSignedOut reports a cleared session, e.g. a refresh that was
	// rejected by the backend.
	EventSignedOut SessionEventKind = iota + 1

	// EventTokenRefreshed reports a successful background token refresh.
	EventTokenRefreshed
)

func (k SessionEventKind) String() string {
	switch k {
	case EventSignedOut:
		return "signed_out"
	case EventTokenRefreshed:
		return "token_refreshed"
	default:
		return "unknown"
	}
}

// SessionEvent is delivered to OnSessionChange subscribers. Identity is nil
// for EventSignedOut.
type SessionEvent struct {
	Kind     SessionEventKind
	Identity *models.Identity
}
