package domain

import "time"

// Review represents a single user's review of a movie. UserID and MovieID
// are immutable after creation.
type Review struct {
	ID          int64
	MovieID     int64
	UserID      string
	Username    string
	Rating      int
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MinRating and MaxRating bound the accepted review rating.
const (
	MinRating = 1
	MaxRating = 5
)

// ValidRating reports whether a rating is inside the accepted range.
func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

// NextRating folds a newly created review's rating into a movie's stored
// aggregate and returns the new (average, count) pair.
//
// The recurrence is intentionally not a cumulative mean: after the first
// review, each new rating is averaged against the previous average only,
// so the weight of older reviews decays. This mirrors the behavior the
// catalog has always exposed; changing it would silently change the
// stored average of every movie with two or more reviews.
func NextRating(avg float64, count int, rating int) (float64, int) {
	if count == 0 {
		return float64(rating), 1
	}
	return (avg + float64(rating)) / 2, count + 1
}
