package query

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/coinvault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 7, 20, 12, 0, 0, 0, time.UTC)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleCoins() []models.Coin {
	return []models.Coin{
		{
			ID: "c1", Name: "1947 Independence Rupee", Year: 1947,
			Denomination: "₹1", Country: "India", Condition: "very-fine",
			IsSpecial: true, Category: "commemorative", DateAdded: day("2024-07-10"),
		},
		{
			ID: "c2", Name: "2019 Twenty Rupees", Year: 2019,
			Denomination: "₹20", Country: "India", Condition: "uncirculated",
			IsSpecial: false, Category: "definitive", DateAdded: day("2024-07-08"),
		},
		{
			ID: "c3", Name: "British India Half Anna", Year: 1862,
			Denomination: "Half Anna", Country: "British India", Condition: "good",
			IsSpecial: false, Category: "circulating", DateAdded: day("2024-01-05"),
		},
		{
			ID: "c4", Name: "2001 Five Rupees", Year: 2001,
			Denomination: "₹5", Country: "India", Condition: "fine",
			IsSpecial: false, Category: "definitive", DateAdded: day("2024-06-25"),
		},
	}
}

func ids(coins []models.Coin) []string {
	out := make([]string, 0, len(coins))
	for _, c := range coins {
		out = append(out, c.ID)
	}
	return out
}

func TestRun_SpecialCategoryKeepsOnlySpecialCoins(t *testing.T) {
	coins := []models.Coin{
		{ID: "a", Year: 1947, IsSpecial: true, Denomination: "₹1", DateAdded: day("2024-07-10")},
		{ID: "b", Year: 2019, IsSpecial: false, Denomination: "₹20", DateAdded: day("2024-07-08")},
	}

	res := Run(coins, Descriptor{Category: models.CategorySpecial, Sort: SortDateAddedDesc}, testNow)

	assert.Equal(t, []string{"a"}, ids(res.Coins))
	assert.Equal(t, 2, res.Stats.Total)
	assert.Equal(t, 1, res.Stats.Special)
}

func TestRun_SearchMatchesYearSubstring(t *testing.T) {
	coins := []models.Coin{
		{ID: "a", Year: 1947, IsSpecial: true, Denomination: "₹1", DateAdded: day("2024-07-10")},
		{ID: "b", Year: 2019, IsSpecial: false, Denomination: "₹20", DateAdded: day("2024-07-08")},
	}

	res := Run(coins, Descriptor{Search: "1947", Category: models.CategoryAll}, testNow)
	assert.Equal(t, []string{"a"}, ids(res.Coins))
}

func TestRun_SearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	coins := sampleCoins()

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{name: "name", search: "independence", want: []string{"c1"}},
		{name: "country", search: "BRITISH", want: []string{"c3"}},
		{name: "condition", search: "uncirculated", want: []string{"c2"}},
		{name: "denomination", search: "anna", want: []string{"c3"}},
		{name: "no match", search: "zanzibar", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Run(coins, Descriptor{Search: tt.search, Sort: SortDateAddedDesc}, testNow)
			assert.Equal(t, tt.want, ids(res.Coins))
		})
	}
}

func TestRun_CategoryFilters(t *testing.T) {
	coins := sampleCoins()

	tests := []struct {
		name     string
		category string
		want     []string
	}{
		{name: "all", category: models.CategoryAll, want: []string{"c1", "c2", "c4", "c3"}},
		{name: "empty behaves as all", category: "", want: []string{"c1", "c2", "c4", "c3"}},
		{name: "unrecognized behaves as all", category: "bogus", want: []string{"c1", "c2", "c4", "c3"}},
		{name: "special", category: models.CategorySpecial, want: []string{"c1"}},
		{name: "modern keeps year from 2000", category: models.CategoryModern, want: []string{"c2", "c4"}},
		{name: "plain category value", category: "definitive", want: []string{"c2", "c4"}},
		{name: "denomination chip", category: "₹5", want: []string{"c4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Run(coins, Descriptor{Category: tt.category, Sort: SortDateAddedDesc}, testNow)
			assert.Equal(t, tt.want, ids(res.Coins))
		})
	}
}

func TestRun_SortKeys(t *testing.T) {
	coins := sampleCoins()

	tests := []struct {
		key  SortKey
		want []string
	}{
		{SortYearAsc, []string{"c3", "c1", "c4", "c2"}},
		{SortYearDesc, []string{"c2", "c4", "c1", "c3"}},
		{SortDateAddedAsc, []string{"c3", "c4", "c2", "c1"}},
		{SortDateAddedDesc, []string{"c1", "c2", "c4", "c3"}},
		// "Half Anna" has no digits, falls back to 0 and sorts first ascending.
		{SortDenominationAsc, []string{"c3", "c1", "c4", "c2"}},
		{SortDenominationDesc, []string{"c2", "c4", "c1", "c3"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			res := Run(coins, Descriptor{Category: models.CategoryAll, Sort: tt.key}, testNow)
			assert.Equal(t, tt.want, ids(res.Coins))
		})
	}
}

func TestRun_YearDescIsReverseOfYearAsc(t *testing.T) {
	coins := sampleCoins() // all years distinct, no ties

	asc := Run(coins, Descriptor{Category: models.CategoryAll, Sort: SortYearAsc}, testNow)
	desc := Run(coins, Descriptor{Category: models.CategoryAll, Sort: SortYearDesc}, testNow)

	reversed := make([]string, 0, len(desc.Coins))
	for i := len(desc.Coins) - 1; i >= 0; i-- {
		reversed = append(reversed, desc.Coins[i].ID)
	}
	assert.Equal(t, ids(asc.Coins), reversed)
}

func TestRun_OutputIsSubsequenceOfInput(t *testing.T) {
	coins := sampleCoins()

	descriptors := []Descriptor{
		{Search: "india", Category: models.CategorySpecial, Sort: SortYearAsc},
		{Search: "19", Category: models.CategoryAll, Sort: SortDenominationDesc},
		{Category: models.CategoryModern, Sort: SortDateAddedAsc},
	}

	inputIDs := map[string]struct{}{}
	for _, c := range coins {
		inputIDs[c.ID] = struct{}{}
	}

	for _, d := range descriptors {
		res := Run(coins, d, testNow)
		assert.LessOrEqual(t, len(res.Coins), len(coins))
		for _, c := range res.Coins {
			_, ok := inputIDs[c.ID]
			assert.True(t, ok, "coin %s not in input", c.ID)
		}
	}
}

func TestRun_IsDeterministicAndDoesNotMutateInput(t *testing.T) {
	coins := sampleCoins()
	before := ids(coins)

	d := Descriptor{Search: "india", Category: models.CategoryAll, Sort: SortYearAsc}
	first := Run(coins, d, testNow)
	second := Run(coins, d, testNow)

	assert.Equal(t, ids(first.Coins), ids(second.Coins))
	assert.Equal(t, first.Stats, second.Stats)
	assert.Equal(t, before, ids(coins), "input order must be preserved")
}

func TestRun_StatsAreInvariantUnderQuery(t *testing.T) {
	coins := sampleCoins()

	q1 := Run(coins, Descriptor{Search: "1947", Category: models.CategorySpecial}, testNow)
	q2 := Run(coins, Descriptor{Category: models.CategoryModern, Sort: SortYearDesc}, testNow)

	assert.Equal(t, q1.Stats, q2.Stats)
	assert.Equal(t, 4, q1.Stats.Total)
	assert.Equal(t, 1, q1.Stats.Special)
	// c1 (07-10), c2 (07-08), c4 (06-25) fall inside the 30-day window.
	assert.Equal(t, 3, q1.Stats.RecentlyAdded)
}

func TestRun_EmptyInput(t *testing.T) {
	res := Run(nil, Defaults(), testNow)

	assert.Empty(t, res.Coins)
	assert.Equal(t, Stats{}, res.Stats)
	assert.Equal(t, EmptyNoCoins, res.Empty)
}

func TestRun_EmptyReasons(t *testing.T) {
	coins := sampleCoins()

	t.Run("search empty", func(t *testing.T) {
		res := Run(coins, Descriptor{Search: "nothing-matches", Category: models.CategoryAll}, testNow)
		assert.Empty(t, res.Coins)
		assert.Equal(t, EmptyNoSearchMatches, res.Empty)
	})

	t.Run("category empty", func(t *testing.T) {
		res := Run(coins, Descriptor{Category: "proof"}, testNow)
		assert.Empty(t, res.Coins)
		assert.Equal(t, EmptyNoCategoryMatches, res.Empty)
	})

	t.Run("not empty", func(t *testing.T) {
		res := Run(coins, Defaults(), testNow)
		assert.NotEmpty(t, res.Coins)
		assert.Equal(t, EmptyNone, res.Empty)
	})
}

func TestDenominationValue(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"₹1", 1},
		{"₹20", 20},
		{"50 Paisa", 50},
		{"2.50", 2.5},
		{"Half Anna", 0},
		{"", 0},
		{"custom", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, DenominationValue(tt.in))
		})
	}
}

func TestCounts(t *testing.T) {
	coins := sampleCoins()
	chips := Counts(coins)

	require.Len(t, chips, 6)
	assert.Equal(t, 4, chips[0].Count) // all
	assert.Equal(t, 1, chips[1].Count) // special
	assert.Equal(t, 1, chips[2].Count) // ₹1
	assert.Equal(t, 0, chips[3].Count) // ₹2
	assert.Equal(t, 1, chips[4].Count) // ₹5
	assert.Equal(t, 2, chips[5].Count) // modern
}
