package users

import (
	"time"

	"github.com/myreport/reportcycle/internal/cryptox"
)

type User struct {
	ID        int64
	UserName  string
	Email     string
	Password  cryptox.PasswordHash
	CreatedAt time.Time
}

// resetToken is a pending password reset.
type resetToken struct {
	token     string
	expiresAt time.Time
}
