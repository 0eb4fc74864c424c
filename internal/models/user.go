package models

import "time"

// Identity is the authenticated user as reported by the backend's auth API.
type Identity struct {
	// ID is the opaque external user id.
	ID string `json:"id"`

	Email string `json:"email"`

	// EmailConfirmedAt is nil until the user clicks the confirmation link.
	EmailConfirmedAt *time.Time `json:"email_confirmed_at"`
}

// EmailConfirmed reports whether the identity's email has been confirmed.
func (i *Identity) EmailConfirmed() bool {
	return i != nil && i.EmailConfirmedAt != nil
}

// Profile is the user's application profile. It is provisioned asynchronously
// after sign-up, so it may be absent for a while even when the session is
// authenticated.
type Profile struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Username  string    `json:"username"`
	Bio       string    `json:"bio"`
	Location  string    `json:"location"`
	AvatarURL string    `json:"avatar_url"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileUpdate is a partial profile change; nil fields are left untouched.
type ProfileUpdate struct {
	FullName  *string `json:"full_name,omitempty"`
	Username  *string `json:"username,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Location  *string `json:"location,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}
