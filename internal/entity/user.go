package entity

import (
	"errors"
	"time"
)

var (
	// ErrUserNotFound is returned when no user matches the given API key or username.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when creating a user whose username or API key is already taken.
	ErrUserExists = errors.New("user exists")
	// ErrQuotaExceeded is returned when a user has used up the daily request limit.
	ErrQuotaExceeded = errors.New("daily request limit exceeded")
)

// User is an API client identified by its API key.
type User struct {
	ID              int64
	Username        string
	APIKey          string
	RequestCount    int64     // RequestCount is only meaningful for LastRequestDate.
	LastRequestDate time.Time // LastRequestDate is the calendar day of the last accepted request.
}
