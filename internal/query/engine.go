// Package query implements the collection query pipeline: filter by search
// text, filter by category, sort, and derive collection statistics. The
// engine is a pure function over an in-memory coin list; it never mutates
// its input and holds no state, so it is safe to call from anywhere.
package query

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/coinvault/internal/models"
)

// SortKey selects the dashboard ordering.
type SortKey string

const (
	SortYearDesc         SortKey = "year-desc"
	SortYearAsc          SortKey = "year-asc"
	SortDateAddedDesc    SortKey = "date-desc"
	SortDateAddedAsc     SortKey = "date-asc"
	SortDenominationAsc  SortKey = "denomination-asc"
	SortDenominationDesc SortKey = "denomination-desc"
)

// SortKeys lists every valid sort key.
var SortKeys = []SortKey{
	SortYearDesc, SortYearAsc,
	SortDateAddedDesc, SortDateAddedAsc,
	SortDenominationAsc, SortDenominationDesc,
}

// ViewMode is presentation-only; it never changes the produced ordering.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// Descriptor captures the dashboard's query state.
type Descriptor struct {
	// Search is matched case-insensitively as a substring of name,
	// denomination, country, condition, and the decimal year. Empty means
	// no search filter.
	Search string

	// Category is one of the models category sentinels or a plain category
	// value. Unrecognized values behave as models.CategoryAll.
	Category string

	Sort SortKey
	View ViewMode
}

// Defaults returns the dashboard's initial query state.
func Defaults() Descriptor {
	return Descriptor{Category: models.CategoryAll, Sort: SortDateAddedDesc, View: ViewGrid}
}

// Stats are aggregate figures over the whole collection. They are computed
// from the unfiltered input, so they do not change with the active query.
type Stats struct {
	Total         int
	Special       int
	RecentlyAdded int
}

// EmptyReason tells the presentation layer why Results is empty, so it can
// pick the right empty-state message.
type EmptyReason int

const (
	// EmptyNone: results are not empty.
	EmptyNone EmptyReason = iota
	// EmptyNoCoins: the collection itself is empty.
	EmptyNoCoins
	// EmptyNoSearchMatches: a search text filtered everything out.
	EmptyNoSearchMatches
	// EmptyNoCategoryMatches: a category filter matched nothing.
	EmptyNoCategoryMatches
)

// Result is the render-ready output of a query run.
type Result struct {
	Coins []models.Coin
	Stats Stats
	Empty EmptyReason
}

// recentWindow is how far back "recently added" reaches.
const recentWindow = 30 * 24 * time.Hour

// Run evaluates d over coins. Pipeline order is fixed: search filter, then
// category filter, then sort. Stats always describe the unfiltered input.
// The input slice is never modified.
func Run(coins []models.Coin, d Descriptor, now time.Time) Result {
	filtered := make([]models.Coin, 0, len(coins))
	for _, c := range coins {
		if !matchesSearch(&c, d.Search) {
			continue
		}
		if !matchesCategory(&c, d.Category) {
			continue
		}
		filtered = append(filtered, c)
	}

	sortCoins(filtered, d.Sort)

	return Result{
		Coins: filtered,
		Stats: Compute(coins, now),
		Empty: emptyReason(len(coins), len(filtered), d),
	}
}

// Compute derives collection statistics from the full coin list.
func Compute(coins []models.Coin, now time.Time) Stats {
	s := Stats{Total: len(coins)}
	cutoff := now.Add(-recentWindow)
	for _, c := range coins {
		if c.IsSpecial {
			s.Special++
		}
		if !c.DateAdded.Before(cutoff) && !c.DateAdded.After(now) {
			s.RecentlyAdded++
		}
	}
	return s
}

func matchesSearch(c *models.Coin, search string) bool {
	if search == "" {
		return true
	}
	q := strings.ToLower(search)
	for _, field := range []string{c.Name, c.Denomination, c.Country, c.Condition} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return strings.Contains(strconv.Itoa(c.Year), q)
}

func matchesCategory(c *models.Coin, category string) bool {
	switch category {
	case "", models.CategoryAll:
		return true
	case models.CategorySpecial:
		return c.IsSpecial
	case models.CategoryModern:
		return c.Year >= models.ModernYear
	}
	// Denomination chips ("₹1", "₹2", ...) filter on the exact face value.
	if strings.HasPrefix(category, "₹") {
		return c.Denomination == category
	}
	if !models.KnownCategory(category) {
		// Unrecognized categories behave as "all".
		return true
	}
	return c.Category == category
}

// sortCoins orders coins in place by key. The comparators are strict and
// deterministic; ties keep no particular order.
func sortCoins(coins []models.Coin, key SortKey) {
	var less func(a, b *models.Coin) bool

	switch key {
	case SortYearAsc:
		less = func(a, b *models.Coin) bool { return a.Year < b.Year }
	case SortYearDesc:
		less = func(a, b *models.Coin) bool { return a.Year > b.Year }
	case SortDateAddedAsc:
		less = func(a, b *models.Coin) bool { return a.DateAdded.Before(b.DateAdded) }
	case SortDateAddedDesc:
		less = func(a, b *models.Coin) bool { return a.DateAdded.After(b.DateAdded) }
	case SortDenominationAsc:
		less = func(a, b *models.Coin) bool {
			return DenominationValue(a.Denomination) < DenominationValue(b.Denomination)
		}
	case SortDenominationDesc:
		less = func(a, b *models.Coin) bool {
			return DenominationValue(a.Denomination) > DenominationValue(b.Denomination)
		}
	default:
		// Unknown key: keep input order (date-desc is applied by callers
		// that want the dashboard default).
		return
	}

	sort.Slice(coins, func(i, j int) bool { return less(&coins[i], &coins[j]) })
}

// DenominationValue extracts the numeric magnitude from a currency-prefixed
// denomination string: "₹20" is 20, "50 Paisa" is 50. Strings without a
// parseable number compare as 0; that fallback is deliberate, malformed
// records must sort, not crash.
func DenominationValue(denomination string) float64 {
	start := -1
	end := len(denomination)
	for i, r := range denomination {
		if r >= '0' && r <= '9' || r == '.' {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			end = i
			break
		}
	}
	if start == -1 {
		return 0
	}
	v, err := strconv.ParseFloat(denomination[start:end], 64)
	if err != nil {
		return 0
	}
	return v
}

func emptyReason(inputLen, resultLen int, d Descriptor) EmptyReason {
	if resultLen > 0 {
		return EmptyNone
	}
	if inputLen == 0 {
		return EmptyNoCoins
	}
	if d.Search != "" {
		return EmptyNoSearchMatches
	}
	return EmptyNoCategoryMatches
}

// ChipCount is one dashboard filter chip with its member count.
type ChipCount struct {
	Category string
	Label    string
	Count    int
}

// Counts produces the dashboard's filter chips over the full collection.
func Counts(coins []models.Coin) []ChipCount {
	chips := []ChipCount{
		{Category: models.CategoryAll, Label: "All"},
		{Category: models.CategorySpecial, Label: "Special"},
		{Category: "₹1", Label: "₹1"},
		{Category: "₹2", Label: "₹2"},
		{Category: "₹5", Label: "₹5"},
		{Category: models.CategoryModern, Label: "Modern"},
	}

	for _, c := range coins {
		chips[0].Count++
		if c.IsSpecial {
			chips[1].Count++
		}
		switch c.Denomination {
		case "₹1":
			chips[2].Count++
		case "₹2":
			chips[3].Count++
		case "₹5":
			chips[4].Count++
		}
		if c.Year >= models.ModernYear {
			chips[5].Count++
		}
	}
	return chips
}
