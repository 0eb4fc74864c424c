package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/coinvault/internal/models"
	"github.com/dmitrijs2005/coinvault/internal/query"
	"golang.org/x/sync/errgroup"
)

// Dashboard fetches the collection and renders it through the current query
// state. The coin list and the profile are loaded concurrently.
func (a *App) Dashboard(ctx context.Context) error {
	snap, ok := a.requireReady()
	if !ok {
		return nil
	}

	var (
		coins   []models.Coin
		profile = snap.Profile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		coins, err = a.coins.List(gctx)
		return err
	})
	g.Go(func() error {
		p, err := a.backend.GetProfile(gctx, snap.Identity.ID)
		if err != nil {
			return nil // stale profile from the snapshot is good enough
		}
		profile = p
		return nil
	})
	if err := g.Wait(); err != nil {
		printlnFn("Could not load your collection:", err.Error())
		return err
	}

	a.renderDashboard(coins, profile)
	return nil
}

// Search sets (or clears, with empty text) the search filter and re-renders.
func (a *App) Search(ctx context.Context, text string) error {
	a.desc.Search = text
	return a.Dashboard(ctx)
}

// Filter sets the category filter and re-renders.
func (a *App) Filter(ctx context.Context, category string) error {
	a.desc.Category = category
	return a.Dashboard(ctx)
}

// SortBy sets the sort order and re-renders. Unknown keys are rejected with
// the list of valid ones.
func (a *App) SortBy(ctx context.Context, key string) error {
	valid := false
	for _, k := range query.SortKeys {
		if query.SortKey(key) == k {
			valid = true
			break
		}
	}
	if !valid {
		keys := make([]string, len(query.SortKeys))
		for i, k := range query.SortKeys {
			keys[i] = string(k)
		}
		printlnFn("Unknown sort key. Valid keys:", strings.Join(keys, ", "))
		return nil
	}
	a.desc.Sort = query.SortKey(key)
	return a.Dashboard(ctx)
}

// SetView switches between the grid and list presentation.
func (a *App) SetView(ctx context.Context, mode string) error {
	switch query.ViewMode(mode) {
	case query.ViewGrid, query.ViewList:
		a.desc.View = query.ViewMode(mode)
	default:
		printlnFn("Unknown view mode, use 'grid' or 'list'.")
		return nil
	}
	return a.Dashboard(ctx)
}

func (a *App) renderDashboard(coins []models.Coin, profile *models.Profile) {
	res := query.Run(coins, a.desc, time.Now())

	if profile != nil && profile.FullName != "" {
		printlnFn(fmt.Sprintf("%s's collection", profile.FullName))
	}
	printlnFn(fmt.Sprintf("Total: %d  Special: %d  Added last 30 days: %d",
		res.Stats.Total, res.Stats.Special, res.Stats.RecentlyAdded))

	chips := make([]string, 0, 6)
	for _, chip := range query.Counts(coins) {
		marker := " "
		if chip.Category == a.desc.Category {
			marker = "*"
		}
		chips = append(chips, fmt.Sprintf("%s%s(%d)", marker, chip.Label, chip.Count))
	}
	printlnFn("Filters:", strings.Join(chips, "  "))

	if a.desc.Search != "" {
		printlnFn(fmt.Sprintf("Search: %q", a.desc.Search))
	}

	if len(res.Coins) == 0 {
		printlnFn(emptyMessage(res.Empty))
		return
	}

	switch a.desc.View {
	case query.ViewList:
		for _, c := range res.Coins {
			printlnFn(fmt.Sprintf("%-36s  %-30s  %4d  %-10s  %s", c.ID, c.Name, c.Year, c.Denomination, c.Condition))
		}
	default:
		for _, c := range res.Coins {
			special := ""
			if c.IsSpecial {
				special = " ★"
			}
			printlnFn(fmt.Sprintf("[%s] %s (%d, %s)%s", shortID(c.ID), c.Name, c.Year, c.Denomination, special))
		}
	}
}

func emptyMessage(reason query.EmptyReason) string {
	switch reason {
	case query.EmptyNoCoins:
		return "Your collection is empty. Type 'add' to catalogue your first coin."
	case query.EmptyNoSearchMatches:
		return "No coins match your search. Try different keywords."
	case query.EmptyNoCategoryMatches:
		return "No coins in this category. Type 'filter all' to see everything."
	default:
		return ""
	}
}
