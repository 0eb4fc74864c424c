// Package models defines client-side data models for the Coinvault CLI.
package models

import "time"

// Coin is the read model for a single catalogued coin, owned by the backend.
// JSON tags match the backend's column names.
type Coin struct {
	// ID is a globally unique identifier for the coin record.
	ID string `json:"id"`

	// Name is the display name, e.g. "1947 Indian One Rupee".
	Name string `json:"name"`

	// Year is the mint year. The editing form enforces 1800..current year.
	Year int `json:"year"`

	// Denomination is a currency-prefixed face value, e.g. "₹1" or "50 Paisa".
	Denomination string `json:"denomination"`

	Country     string `json:"country"`
	Condition   string `json:"condition"`
	Grade       string `json:"grade"`
	Composition string `json:"composition"`

	// Weight in grams and Diameter in millimeters.
	Weight   float64 `json:"weight"`
	Diameter float64 `json:"diameter"`

	MintMark      string `json:"mint_mark"`
	CatalogNumber string `json:"catalog_number"`

	EstimatedValueMin float64 `json:"estimated_value_min"`
	EstimatedValueMax float64 `json:"estimated_value_max"`

	AcquisitionDate  *time.Time `json:"acquisition_date,omitempty"`
	AcquisitionPrice float64    `json:"acquisition_price"`

	Notes string   `json:"notes"`
	Tags  []string `json:"tags"`

	// Images holds opaque storage references; the client never dereferences them.
	Images []string `json:"images"`

	IsSpecial bool   `json:"is_special"`
	Category  string `json:"category"`

	// DateAdded is when the record entered the collection.
	DateAdded time.Time `json:"created_at"`
}

// Category sentinels understood by the query pipeline.
const (
	CategoryAll     = "all"
	CategorySpecial = "special"
	CategoryModern  = "modern"
)

// ModernYear is the first mint year the "modern" category covers.
const ModernYear = 2000

// plainCategories are the non-sentinel categories the dashboard recognizes.
var plainCategories = map[string]struct{}{
	"commemorative": {},
	"definitive":    {},
	"proof":         {},
	"circulating":   {},
}

// KnownCategory reports whether value is a recognized category, either a
// sentinel or a plain category. Unrecognized values behave as CategoryAll.
func KnownCategory(value string) bool {
	switch value {
	case CategoryAll, CategorySpecial, CategoryModern:
		return true
	}
	_, ok := plainCategories[value]
	return ok
}

// Denominations lists the form's predefined denomination options.
var Denominations = []string{
	"1 Paisa", "2 Paisa", "5 Paisa", "10 Paisa", "20 Paisa", "25 Paisa", "50 Paisa",
	"₹1", "₹2", "₹5", "₹10", "₹20",
}

// Conditions lists the standard grading scale used by the editing form.
var Conditions = []string{
	"poor", "fair", "about-good", "good", "very-good", "fine", "very-fine",
	"extremely-fine", "about-uncirculated", "uncirculated", "brilliant-uncirculated",
}
