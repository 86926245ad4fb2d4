// Package entity defines the entities and errors used in the application.
// It includes the User and URL structs, which represent API clients and the
// URLs they have shortened, along with the relevant error definitions.
package entity

import (
	"errors"
	"time"
)

var (
	// ErrShortCodeExists is returned when attempting to create a URL with a short code that already exists.
	ErrShortCodeExists = errors.New("short code exists")
	// ErrURLNotFound is returned when a URL with the specified short code cannot be found.
	ErrURLNotFound = errors.New("url not found")
	// ErrCacheMiss is returned when a short code is not present in the cache.
	ErrCacheMiss = errors.New("cache miss")
)

// URL represents a shortened URL owned by a user.
type URL struct {
	ID          int64  // ID is the unique identifier of the URL in the database.
	UserID      int64  // UserID references the user who shortened the URL.
	ShortCode   string // ShortCode is the generated code used to shorten the original URL.
	OriginalURL string // OriginalURL is the full URL that the short code resolves to.
	URLStats           // URLStats contains statistics about the URL.
}

// URLStats contains statistics related to a shortened URL.
type URLStats struct {
	ClickCount int64 // ClickCount is the number of times the shortened URL has been followed.
}

// Day truncates t to the calendar day it falls on, in t's location,
// and returns it as a UTC midnight suitable for DATE columns.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
