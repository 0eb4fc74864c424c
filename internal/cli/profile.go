package cli

import (
	"context"
	"os"

	"github.com/dmitrijs2005/coinvault/internal/models"
)

// Profile prints the signed-in collector's profile.
func (a *App) Profile(ctx context.Context) error {
	snap, ok := a.requireReady()
	if !ok {
		return nil
	}

	p := snap.Profile
	printlnFn("Email:", snap.Identity.Email)
	printlnFn("Full name:", p.FullName)
	printlnFn("Username:", p.Username)
	if p.Location != "" {
		printlnFn("Location:", p.Location)
	}
	if p.Bio != "" {
		printlnFn("Bio:", p.Bio)
	}
	return nil
}

// EditProfile prompts for replacement profile fields; an empty answer keeps
// the stored value.
func (a *App) EditProfile(ctx context.Context) error {
	snap, ok := a.requireReady()
	if !ok {
		return nil
	}

	update := models.ProfileUpdate{}

	fullName, err := getSimpleText(a.reader, "Full name ["+snap.Profile.FullName+"]", os.Stdout)
	if err != nil {
		return err
	}
	if fullName != "" {
		update.FullName = &fullName
	}

	username, err := getSimpleText(a.reader, "Username ["+snap.Profile.Username+"]", os.Stdout)
	if err != nil {
		return err
	}
	if username != "" {
		update.Username = &username
	}

	location, err := getSimpleText(a.reader, "Location ["+snap.Profile.Location+"]", os.Stdout)
	if err != nil {
		return err
	}
	if location != "" {
		update.Location = &location
	}

	bio, err := GetMultiline(a.reader, "Bio (double Enter to finish):", os.Stdout)
	if err != nil {
		return err
	}
	if bio != "" {
		update.Bio = &bio
	}

	res := a.session.UpdateProfile(ctx, update)
	printlnFn(res.Message)
	return res.Err
}
