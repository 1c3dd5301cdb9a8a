package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotAnOwner       = errors.New("user is not a property owner")
	ErrWrongOwner       = errors.New("room belongs to a different user")
	ErrRoomNotFound     = errors.New("room not found")
	ErrPictureNotFound  = errors.New("picture not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("a user with this email already exists")
	ErrInvalidSwapInput = errors.New("swapping requires exactly two picture ids")
)

// BlockedError is returned on login while the account lockout window is
// still open.
type BlockedError struct {
	RemainingMinutes int
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("user blocked for %d minute(s)", e.RemainingMinutes)
}

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors aggregates field-level validation failures so the HTTP
// layer can return them as one structured list.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
