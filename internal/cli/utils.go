package cli

import "time"

// dbTimeout bounds local database writes made from session watchers.
const dbTimeout = 5 * time.Second

// shortID abbreviates a UUID for the grid view.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
