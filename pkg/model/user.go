package model

import (
	"errors"
	"fmt"
	"time"
)

const MaxUsernameLength = 32

var ErrUsernameEmpty = errors.New("username must not be empty")
var ErrUsernameTooLong = fmt.Errorf("username must not exceed %d characters", MaxUsernameLength)
var ErrUsernameInvalidChars = errors.New("username must contain only alphanumeric characters, underscores, or hyphens")
var ErrEmailInvalid = errors.New("email address is not valid")

// User represents a registered hub member.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	Role      Role      `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// ValidateUsername checks that a username is 1-32 ASCII alphanumeric,
// underscore, or hyphen characters.
func ValidateUsername(name string) error {
	if len(name) == 0 {
		return ErrUsernameEmpty
	}
	if len(name) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' && r != '-' {
			return ErrUsernameInvalidChars
		}
	}
	return nil
}

// ValidateEmail performs a minimal shape check; real validation is the
// backend's job.
func ValidateEmail(email string) error {
	at := -1
	for i, r := range email {
		if r == '@' {
			if at != -1 {
				return ErrEmailInvalid
			}
			at = i
		}
	}
	if at <= 0 || at == len(email)-1 {
		return ErrEmailInvalid
	}
	return nil
}
