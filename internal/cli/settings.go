package cli

import (
	"context"

	"github.com/dmitrijs2005/coinvault/internal/query"
	"github.com/dmitrijs2005/coinvault/internal/settings"
)

// Settings prints every preference with its current value.
func (a *App) Settings(ctx context.Context) error {
	if _, ok := a.requireReady(); !ok {
		return nil
	}

	for _, key := range settings.Keys() {
		printlnFn(key+":", a.settings.Value(key))
	}
	return nil
}

// UpdateSetting changes one preference. Applying the change is pure; only a
// valid result is persisted and taken into use.
func (a *App) UpdateSetting(ctx context.Context, key, value string) error {
	if _, ok := a.requireReady(); !ok {
		return nil
	}

	next, err := settings.Apply(a.settings, key, value)
	if err != nil {
		printlnFn(err.Error())
		return nil
	}

	if err := a.store.Save(ctx, next); err != nil {
		printlnFn("Could not save settings:", err.Error())
		return err
	}

	a.settings = next
	if key == "default_sort" {
		a.desc.Sort = query.SortKey(next.DefaultSort)
	}
	printlnFn("Saved.")
	return nil
}
