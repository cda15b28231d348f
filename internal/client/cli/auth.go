package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/myreport/reportcycle/internal/client/session"
	"github.com/myreport/reportcycle/internal/client/validate"
	"github.com/myreport/reportcycle/internal/common"
)

// getSimpleText, getPassword and getYesNo are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getYesNo      = GetYesNo
)

// SignIn prompts for credentials and the "remember me" choice, then signs in.
func (a *App) SignIn(ctx context.Context) error {
	user, err := getSimpleText(a.reader, "Username or email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	remember, err := getYesNo(a.reader, "Remember me?", a.out)
	if err != nil {
		return err
	}

	s, err := a.auth.SignIn(ctx, user, string(password), remember)
	if err != nil {
		return err
	}
	a.refreshMode()
	printlnFn(fmt.Sprintf("Welcome, %s!", displayName(s)))
	return nil
}

// SignUp registers a new account. A suggested password is offered; an
// empty answer accepts it.
func (a *App) SignUp(ctx context.Context) error {
	var f validate.SignUpForm
	var err error

	if f.Username, err = getSimpleText(a.reader, "Username", a.out); err != nil {
		return err
	}
	if f.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}

	suggested, err := validate.SuggestPassword()
	if err != nil {
		return err
	}
	printlnFn("Suggested password:", suggested)

	pw, err := getPassword(a.out, "Password (empty to use the suggestion)")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	if len(pw) == 0 {
		f.Password, f.RepeatPassword = suggested, suggested
	} else {
		repeat, err := getPassword(a.out, "Repeat password")
		if err != nil {
			return err
		}
		defer common.WipeByteArray(repeat)
		f.Password, f.RepeatPassword = string(pw), string(repeat)
	}

	resp, err := a.auth.SignUp(ctx, f)
	if err != nil {
		return err
	}
	printlnFn(resp.Message)
	return nil
}

// SignOut ends the session. A failed remote logout is reported but the
// session on this device is gone either way.
func (a *App) SignOut(ctx context.Context) error {
	if a.sessions.Current() == nil {
		printlnFn("Not signed in.")
		return nil
	}
	err := a.auth.SignOut(ctx)
	a.refreshMode()
	if err != nil {
		printlnFn("Signed out on this device only.")
		return fmt.Errorf("logout failed: %w", err)
	}
	printlnFn("Signed out.")
	return nil
}

func (a *App) WhoAmI(_ context.Context) error {
	s := a.sessions.Current()
	if s == nil {
		printlnFn("Not signed in.")
		return nil
	}
	state := "valid"
	if !a.sessions.Active() {
		state = "expired"
	}
	printlnFn(fmt.Sprintf("%s (id %d, %s)", displayName(s), s.UserID, s.Email))
	printlnFn(fmt.Sprintf("Session %s, expires %s", state, s.ExpiresAt().Format("2006-01-02 15:04:05")))
	if s.ProfilePictureURL != "" {
		printlnFn("Picture:", s.ProfilePictureURL)
	}
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.sessions.Refresh(ctx); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			printlnFn("Not signed in.")
			return nil
		}
		return err
	}
	a.refreshMode()
	printlnFn("Session extended until", a.sessions.Current().ExpiresAt().Format("2006-01-02 15:04:05"))
	return nil
}

func (a *App) ForgotUsername(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	msg, err := a.auth.ForgotUsername(ctx, email)
	if err != nil {
		return err
	}
	printlnFn(msg)
	return nil
}

func (a *App) ForgotPassword(ctx context.Context) error {
	user, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	msg, err := a.auth.ForgotPassword(ctx, user)
	if err != nil {
		return err
	}
	printlnFn(msg)
	return nil
}

// ResetPassword asks for the values carried by the reset link.
func (a *App) ResetPassword(ctx context.Context) error {
	var user, token, data string
	var err error
	if user, err = getSimpleText(a.reader, "Username", a.out); err != nil {
		return err
	}
	if token, err = getSimpleText(a.reader, "Reset token (from the link)", a.out); err != nil {
		return err
	}
	if data, err = getSimpleText(a.reader, "Reset data (from the link)", a.out); err != nil {
		return err
	}
	pw, err := getPassword(a.out, "New password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	repeat, err := getPassword(a.out, "Repeat password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(repeat)

	msg, err := a.auth.ResetPassword(ctx, user, token, data, string(pw), string(repeat))
	if err != nil {
		return err
	}
	printlnFn(msg)
	return nil
}

func (a *App) ResendActivation(ctx context.Context) error {
	v, err := getSimpleText(a.reader, "Username or email", a.out)
	if err != nil {
		return err
	}
	msg, err := a.auth.ResendActivation(ctx, v)
	if err != nil {
		return err
	}
	printlnFn(msg)
	return nil
}

func displayName(s *session.Session) string {
	switch {
	case s.DisplayName != "":
		return s.DisplayName
	case s.FirstName != "":
		return s.FirstName
	default:
		return s.Username
	}
}
