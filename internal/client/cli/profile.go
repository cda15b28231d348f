package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/myreport/reportcycle/internal/client/api"
	"github.com/myreport/reportcycle/internal/client/media"
	"github.com/myreport/reportcycle/internal/client/upload"
)

var getChoice = GetChoice

// Profile shows the user's details and lets them edit each field. An empty
// answer keeps the current value; "-" clears it.
func (a *App) Profile(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Please sign in first.")
		return nil
	}

	d, err := a.profile.Load(ctx)
	if err != nil {
		return err
	}
	if !d.Exists() {
		printlnFn("No personal details yet, let's create them.")
	}

	fields := []struct {
		label string
		value *string
	}{
		{"First name", &d.FirstName},
		{"Middle name", &d.MiddleName},
		{"Last name", &d.LastName},
		{"Display name", &d.DisplayName},
		{"Date of birth (YYYY-MM-DD)", &d.DateOfBirth},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", f.label, *f.value), a.out)
		if err != nil {
			return err
		}
		switch v {
		case "":
		case "-":
			*f.value = ""
		default:
			*f.value = v
		}
	}

	if err := a.pickGender(ctx, &d); err != nil {
		return err
	}

	path, err := getSimpleText(a.reader, "New profile picture path (empty to keep, - to remove)", a.out)
	if err != nil {
		return err
	}
	switch path {
	case "":
	case "-":
		if err := a.removePicture(&d); err != nil {
			return err
		}
	default:
		job, err := a.publish(ctx, path)
		if err != nil {
			return err
		}
		d.ProfilePictureURL = a.profile.SetPictureFromUpload(ctx, job.ObjectURL)
		if size, ok := media.SizeOf(d.ProfilePictureURL); ok {
			printlnFn(fmt.Sprintf("Profile picture set (%s rendition).", size))
		}
	}

	if _, err := a.profile.Save(ctx, d); err != nil {
		return err
	}
	printlnFn("Profile saved.")
	return nil
}

// removePicture drops the last published picture and clears the reference
// in d. Only the local job is discarded; stored objects stay.
func (a *App) removePicture(d *api.UserDetails) error {
	// A failed or already removed upload has nothing to discard.
	if err := a.uploads.Delete(); err != nil && !errors.Is(err, upload.ErrInvalidTransition) {
		return err
	}
	d.ProfilePictureURL = ""
	printlnFn("Profile picture removed.")
	return nil
}

func (a *App) pickGender(ctx context.Context, d *api.UserDetails) error {
	types, err := a.profile.GenderTypes(ctx)
	if err != nil || len(types) == 0 {
		return err
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.GenderName
	}
	i, err := getChoice(a.reader, "Gender (empty to keep)", names, a.out)
	if err != nil {
		return err
	}
	if i >= 0 {
		id := types[i].GenderID
		d.GenderID = &id
	}
	return nil
}
