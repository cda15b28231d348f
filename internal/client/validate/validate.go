// Package validate checks account form input before it is sent to the auth
// service. Every check returns the list of problems found, empty when the
// input is acceptable.
package validate

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	PasswordMinLen = 8
	PasswordMaxLen = 30
	UsernameMinLen = 5
	UsernameMaxLen = 30
)

// Symbols lists the characters that count as symbols in a password.
const Symbols = "`~!@#$%^&*()-_=+{}|\\[]:\";'<>?,./"

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`\S+@\S+\.\S+`)
)

// Errors is a list of validation messages.
type Errors []string

func (e Errors) Error() string {
	return strings.Join(e, "\n")
}

// Err returns e as an error, or nil when it is empty.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func Password(pw, repeat string) Errors {
	var errs Errors
	if n := utf8.RuneCountInString(pw); n < PasswordMinLen || n > PasswordMaxLen {
		errs = append(errs, "Password must be between 8 and 30 characters long.")
	}
	if !strings.ContainsFunc(pw, unicode.IsUpper) {
		errs = append(errs, "Password must contain at least one uppercase letter.")
	}
	if !strings.ContainsFunc(pw, unicode.IsLower) {
		errs = append(errs, "Password must contain at least one lowercase letter.")
	}
	if !strings.ContainsFunc(pw, unicode.IsDigit) {
		errs = append(errs, "Password must contain at least one digit.")
	}
	if !strings.ContainsAny(pw, Symbols) {
		errs = append(errs, "Password must contain at least one symbol.")
	}
	if pw != repeat {
		errs = append(errs, "Passwords do not match.")
	}
	return errs
}

func Username(u string) Errors {
	var errs Errors
	if !usernamePattern.MatchString(u) {
		errs = append(errs, "Username may contain only letters, digits and underscores.")
	}
	if n := len(u); n < UsernameMinLen || n > UsernameMaxLen {
		errs = append(errs, "Username must be between 5 and 30 characters long.")
	}
	return errs
}

func Email(e string) Errors {
	if !emailPattern.MatchString(e) {
		return Errors{"Please enter a valid email address."}
	}
	return nil
}

type SignUpForm struct {
	Username       string
	Email          string
	Password       string
	RepeatPassword string
}

func SignUp(f SignUpForm) Errors {
	var errs Errors
	errs = append(errs, Username(f.Username)...)
	errs = append(errs, Email(f.Email)...)
	errs = append(errs, Password(f.Password, f.RepeatPassword)...)
	return errs
}

// ResetPassword checks the new password and the reset link parameters.
func ResetPassword(username, token, password, repeat string) Errors {
	var errs Errors
	if username == "" || token == "" {
		errs = append(errs, "The password reset link is invalid or incomplete.")
	}
	errs = append(errs, Password(password, repeat)...)
	return errs
}

func ForgotPassword(username string) Errors {
	if strings.TrimSpace(username) == "" {
		return Errors{"Please enter your username."}
	}
	return Username(username)
}

func ForgotUsername(email string) Errors {
	if strings.TrimSpace(email) == "" {
		return Errors{"Please enter your email address."}
	}
	return Email(email)
}

// ResendActivation accepts either a username or an email address.
func ResendActivation(usernameOrEmail string) Errors {
	v := strings.TrimSpace(usernameOrEmail)
	if v == "" {
		return Errors{"Please enter your username or email address."}
	}
	if strings.Contains(v, "@") {
		return Email(v)
	}
	return Username(v)
}
