package storage

import "time"

// HolidayRecord represents a holiday row.
type HolidayRecord struct {
	ID    int64
	Title string
	Date  time.Time // stored as RFC3339 text in UTC
}

// UserRecord represents an application user created from an OAuth login.
type UserRecord struct {
	ID        int64
	Name      string
	Email     string
	Password  string // empty for OAuth users
	OAuthID   string
	Provider  string
	CreatedAt time.Time
}
