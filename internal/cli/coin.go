package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/coinvault/internal/models"
	"github.com/dmitrijs2005/coinvault/internal/services"
)

// AddCoin collects the coin fields interactively and catalogues the coin.
// Validation failures are explained without leaving the flow's result unclear.
func (a *App) AddCoin(ctx context.Context) error {
	if _, ok := a.requireReady(); !ok {
		return nil
	}

	coin := &models.Coin{}
	if err := a.inputCoin(coin); err != nil {
		return err
	}

	created, err := a.coins.Add(ctx, coin)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			printlnFn(err.Error())
			return nil
		}
		printlnFn("Could not add the coin:", err.Error())
		return err
	}

	printlnFn("Added", created.Name, "with id", created.ID)
	return nil
}

// ShowCoin fetches and displays a single coin by ID.
func (a *App) ShowCoin(ctx context.Context) error {
	if _, ok := a.requireReady(); !ok {
		return nil
	}

	id, err := getSimpleText(a.reader, "Enter coin id to show", os.Stdout)
	if err != nil {
		return err
	}

	coin, err := a.coins.Get(ctx, id)
	if err != nil {
		printlnFn("Could not load the coin:", err.Error())
		return err
	}

	a.renderCoin(coin)
	return nil
}

// EditCoin loads a coin, prompts for replacement values (Enter keeps the
// current one) and saves the result.
func (a *App) EditCoin(ctx context.Context) error {
	if _, ok := a.requireReady(); !ok {
		return nil
	}

	id, err := getSimpleText(a.reader, "Enter coin id to edit", os.Stdout)
	if err != nil {
		return err
	}

	coin, err := a.coins.Get(ctx, id)
	if err != nil {
		printlnFn("Could not load the coin:", err.Error())
		return err
	}

	if err := a.editCoin(coin); err != nil {
		return err
	}

	updated, err := a.coins.Update(ctx, coin)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			printlnFn(err.Error())
			return nil
		}
		printlnFn("Could not save the coin:", err.Error())
		return err
	}

	printlnFn("Saved", updated.Name)
	return nil
}

// DeleteCoin removes a coin by ID after a confirmation prompt.
func (a *App) DeleteCoin(ctx context.Context) error {
	if _, ok := a.requireReady(); !ok {
		return nil
	}

	id, err := getSimpleText(a.reader, "Enter coin id to delete", os.Stdout)
	if err != nil {
		return err
	}
	confirm, err := getSimpleText(a.reader, "Delete this coin permanently? (yes/no)", os.Stdout)
	if err != nil {
		return err
	}
	if !strings.EqualFold(confirm, "yes") && !strings.EqualFold(confirm, "y") {
		printlnFn("Cancelled.")
		return nil
	}

	if err := a.coins.Delete(ctx, id); err != nil {
		printlnFn("Could not delete the coin:", err.Error())
		return err
	}

	printlnFn("Deleted.")
	return nil
}

// inputCoin prompts for every field of a new coin.
func (a *App) inputCoin(coin *models.Coin) error {
	var err error
	if coin.Name, err = getSimpleText(a.reader, "Enter name", os.Stdout); err != nil {
		return err
	}
	if coin.Year, err = GetInt(a.reader, "Enter mint year", time.Now().Year(), os.Stdout); err != nil {
		printlnFn("Not a number.")
		return nil
	}
	if coin.Denomination, err = getSimpleText(a.reader, "Enter denomination (e.g. ₹1, 50 Paisa)", os.Stdout); err != nil {
		return err
	}
	if coin.Country, err = getSimpleText(a.reader, "Enter country", os.Stdout); err != nil {
		return err
	}
	if coin.Condition, err = getSimpleText(a.reader, "Enter condition", os.Stdout); err != nil {
		return err
	}
	if coin.Category, err = getSimpleText(a.reader, "Enter category", os.Stdout); err != nil {
		return err
	}
	special, err := getSimpleText(a.reader, "Special coin? (yes/no)", os.Stdout)
	if err != nil {
		return err
	}
	coin.IsSpecial = strings.EqualFold(special, "yes") || strings.EqualFold(special, "y")

	if coin.EstimatedValueMin, err = GetFloat(a.reader, "Estimated value from (empty to skip)", os.Stdout); err != nil {
		printlnFn("Not a number.")
		return nil
	}
	if coin.EstimatedValueMax, err = GetFloat(a.reader, "Estimated value to (empty to skip)", os.Stdout); err != nil {
		printlnFn("Not a number.")
		return nil
	}
	if coin.Notes, err = GetMultiline(a.reader, "Enter notes (double Enter to finish):", os.Stdout); err != nil {
		return err
	}
	return nil
}

// editCoin prompts for replacements; an empty answer keeps the stored value.
func (a *App) editCoin(coin *models.Coin) error {
	name, err := getSimpleText(a.reader, fmt.Sprintf("Name [%s]", coin.Name), os.Stdout)
	if err != nil {
		return err
	}
	if name != "" {
		coin.Name = name
	}

	year, err := GetInt(a.reader, fmt.Sprintf("Mint year [%d]", coin.Year), coin.Year, os.Stdout)
	if err != nil {
		printlnFn("Not a number, keeping the current year.")
	} else {
		coin.Year = year
	}

	denom, err := getSimpleText(a.reader, fmt.Sprintf("Denomination [%s]", coin.Denomination), os.Stdout)
	if err != nil {
		return err
	}
	if denom != "" {
		coin.Denomination = denom
	}

	condition, err := getSimpleText(a.reader, fmt.Sprintf("Condition [%s]", coin.Condition), os.Stdout)
	if err != nil {
		return err
	}
	if condition != "" {
		coin.Condition = condition
	}

	category, err := getSimpleText(a.reader, fmt.Sprintf("Category [%s]", coin.Category), os.Stdout)
	if err != nil {
		return err
	}
	if category != "" {
		coin.Category = category
	}
	return nil
}

func (a *App) renderCoin(coin *models.Coin) {
	printlnFn(coin.Name)
	printlnFn("  Year:", coin.Year)
	printlnFn("  Denomination:", coin.Denomination)
	if coin.Country != "" {
		printlnFn("  Country:", coin.Country)
	}
	if coin.Condition != "" {
		printlnFn("  Condition:", coin.Condition)
	}
	if coin.Grade != "" {
		printlnFn("  Grade:", coin.Grade)
	}
	if coin.Composition != "" {
		printlnFn("  Composition:", coin.Composition)
	}
	if coin.Category != "" {
		printlnFn("  Category:", coin.Category)
	}
	if coin.IsSpecial {
		printlnFn("  Special: yes")
	}
	if coin.EstimatedValueMin > 0 || coin.EstimatedValueMax > 0 {
		printlnFn(fmt.Sprintf("  Estimated value: %.2f - %.2f", coin.EstimatedValueMin, coin.EstimatedValueMax))
	}
	if coin.Notes != "" {
		printlnFn("  Notes:", coin.Notes)
	}
	printlnFn("  Added:", coin.DateAdded.Format("2006-01-02"))
}
