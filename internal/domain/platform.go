package domain

import "time"

// Platform represents a streaming platform that hosts movies.
type Platform struct {
	ID        int64
	Name      string
	About     string
	Website   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
