package domain

import "time"

// Movie represents the canonical movie entity in the database/service.
// AvgRating and NumberRating are derived from reviews and are never
// accepted from clients.
type Movie struct {
	ID           int64
	Title        string
	Storyline    string
	PlatformID   int64
	Active       bool
	AvgRating    float64
	NumberRating int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
