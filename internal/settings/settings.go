// Package settings holds the user preferences of the Coinvault client.
// Applying a change is a pure operation on a value; persistence is a
// separate, explicit step through the Store.
package settings

import (
	"fmt"
	"strconv"
)

// Settings is the full preference set. Zero value is not meaningful; start
// from Defaults.
type Settings struct {
	EmailNotifications bool   `json:"email_notifications"`
	PushNotifications  bool   `json:"push_notifications"`
	CollectionUpdates  bool   `json:"collection_updates"`
	AppAnnouncements   bool   `json:"app_announcements"`
	Theme              string `json:"theme"`
	Currency           string `json:"currency"`
	MeasurementUnit    string `json:"measurement_unit"`
	DefaultSort        string `json:"default_sort"`
	Language           string `json:"language"`

	ProfileVisibility    string `json:"profile_visibility"`
	CollectionVisibility string `json:"collection_visibility"`
	ShowLocation         bool   `json:"show_location"`
	AllowMessages        bool   `json:"allow_messages"`
	TwoFactorEnabled     bool   `json:"two_factor_enabled"`
}

// Defaults returns the preference set a fresh account starts with.
func Defaults() Settings {
	return Settings{
		EmailNotifications:   true,
		PushNotifications:    false,
		CollectionUpdates:    true,
		AppAnnouncements:     true,
		Theme:                "light",
		Currency:             "INR",
		MeasurementUnit:      "metric",
		DefaultSort:          "date-desc",
		Language:             "en",
		ProfileVisibility:    "public",
		CollectionVisibility: "public",
		ShowLocation:         false,
		AllowMessages:        true,
		TwoFactorEnabled:     false,
	}
}

var enumValues = map[string][]string{
	"theme":                 {"light", "dark", "system"},
	"currency":              {"INR", "USD", "EUR", "GBP"},
	"measurement_unit":      {"metric", "imperial"},
	"default_sort":          {"date-desc", "date-asc", "year-desc", "year-asc", "denomination-asc", "denomination-desc"},
	"language":              {"en", "hi"},
	"profile_visibility":    {"public", "private"},
	"collection_visibility": {"public", "private"},
}

// Apply returns a copy of s with one named setting changed. Unknown keys and
// out-of-range values are rejected; s itself is never modified.
func Apply(s Settings, key, value string) (Settings, error) {
	switch key {
	case "email_notifications", "push_notifications", "collection_updates",
		"app_announcements", "show_location", "allow_messages", "two_factor_enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return s, fmt.Errorf("setting %s: expected true or false, got %q", key, value)
		}
		switch key {
		case "email_notifications":
			s.EmailNotifications = b
		case "push_notifications":
			s.PushNotifications = b
		case "collection_updates":
			s.CollectionUpdates = b
		case "app_announcements":
			s.AppAnnouncements = b
		case "show_location":
			s.ShowLocation = b
		case "allow_messages":
			s.AllowMessages = b
		case "two_factor_enabled":
			s.TwoFactorEnabled = b
		}
		return s, nil

	case "theme", "currency", "measurement_unit", "default_sort", "language",
		"profile_visibility", "collection_visibility":
		if !contains(enumValues[key], value) {
			return s, fmt.Errorf("setting %s: %q is not one of %v", key, value, enumValues[key])
		}
		switch key {
		case "theme":
			s.Theme = value
		case "currency":
			s.Currency = value
		case "measurement_unit":
			s.MeasurementUnit = value
		case "default_sort":
			s.DefaultSort = value
		case "language":
			s.Language = value
		case "profile_visibility":
			s.ProfileVisibility = value
		case "collection_visibility":
			s.CollectionVisibility = value
		}
		return s, nil

	default:
		return s, fmt.Errorf("unknown setting %q", key)
	}
}

// Keys lists all setting names in a stable order, for display.
func Keys() []string {
	return []string{
		"email_notifications", "push_notifications", "collection_updates", "app_announcements",
		"theme", "currency", "measurement_unit", "default_sort", "language",
		"profile_visibility", "collection_visibility", "show_location", "allow_messages",
		"two_factor_enabled",
	}
}

// Value renders the current value of one setting for display.
func (s Settings) Value(key string) string {
	switch key {
	case "email_notifications":
		return strconv.FormatBool(s.EmailNotifications)
	case "push_notifications":
		return strconv.FormatBool(s.PushNotifications)
	case "collection_updates":
		return strconv.FormatBool(s.CollectionUpdates)
	case "app_announcements":
		return strconv.FormatBool(s.AppAnnouncements)
	case "theme":
		return s.Theme
	case "currency":
		return s.Currency
	case "measurement_unit":
		return s.MeasurementUnit
	case "default_sort":
		return s.DefaultSort
	case "language":
		return s.Language
	case "profile_visibility":
		return s.ProfileVisibility
	case "collection_visibility":
		return s.CollectionVisibility
	case "show_location":
		return strconv.FormatBool(s.ShowLocation)
	case "allow_messages":
		return strconv.FormatBool(s.AllowMessages)
	case "two_factor_enabled":
		return strconv.FormatBool(s.TwoFactorEnabled)
	default:
		return ""
	}
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
