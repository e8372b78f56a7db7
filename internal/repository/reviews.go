package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"watchlist/internal/domain"
)

// ReviewsRepository owns the review submission pipeline: creation with
// aggregation, update/delete with recomputation, and the review queries.
type ReviewsRepository struct {
	pool *pgxpool.Pool
}

const reviewColumns = `
    id,
    movie_id,
    user_id,
    username,
    rating,
    description,
    active,
    created_at,
    updated_at
`

// ReviewCreateParams captures the payload required to create a review.
type ReviewCreateParams struct {
	MovieID     int64
	UserID      string
	Username    string
	Rating      int
	Description string
}

// ReviewUpdateParams captures the mutable fields of a review. Owner and
// movie references are immutable after creation.
type ReviewUpdateParams struct {
	Rating      int
	Description string
	Active      bool
}

// Create inserts a review and folds its rating into the parent movie's
// aggregate in a single transaction. The movie row is locked FOR UPDATE so
// concurrent reviews of the same movie serialize, and the unique index on
// (user_id, movie_id) is the authoritative duplicate guard: a concurrent
// duplicate aborts the whole transaction with ErrDuplicateReview and leaves
// the aggregate untouched.
func (r *ReviewsRepository) Create(ctx context.Context, params ReviewCreateParams) (domain.Review, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Review{}, fmt.Errorf("begin review tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		avg   float64
		count int
	)
	err = tx.QueryRow(ctx,
		`SELECT avg_rating, number_rating FROM movies WHERE id = $1 FOR UPDATE`,
		params.MovieID,
	).Scan(&avg, &count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Review{}, ErrNotFound
		}
		return domain.Review{}, err
	}

	insert := fmt.Sprintf(`
        INSERT INTO reviews (movie_id, user_id, username, rating, description)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING %s
    `, reviewColumns)
	review, err := scanReview(tx.QueryRow(ctx, insert,
		params.MovieID, params.UserID, params.Username, params.Rating, params.Description))
	if err != nil {
		if pgErrCode(err, pgUniqueViolation) {
			return domain.Review{}, ErrDuplicateReview
		}
		return domain.Review{}, err
	}

	newAvg, newCount := domain.NextRating(avg, count, params.Rating)
	_, err = tx.Exec(ctx,
		`UPDATE movies SET avg_rating = $2, number_rating = $3, updated_at = now() WHERE id = $1`,
		params.MovieID, newAvg, newCount,
	)
	if err != nil {
		return domain.Review{}, fmt.Errorf("write aggregate: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Review{}, fmt.Errorf("commit review tx: %w", err)
	}
	return review, nil
}

// Update mutates a review and recomputes the parent movie's aggregate as a
// full mean over active reviews inside the same transaction. Creation keeps
// the historical incremental recurrence; edits and moderation use the full
// recompute so they cannot drift the stored average.
func (r *ReviewsRepository) Update(ctx context.Context, id int64, params ReviewUpdateParams) (domain.Review, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Review{}, fmt.Errorf("begin review tx: %w", err)
	}
	defer tx.Rollback(ctx)

	movieID, err := lockMovieOfReview(ctx, tx, id)
	if err != nil {
		return domain.Review{}, err
	}

	update := fmt.Sprintf(`
        UPDATE reviews
        SET rating = $2, description = $3, active = $4, updated_at = now()
        WHERE id = $1
        RETURNING %s
    `, reviewColumns)
	review, err := scanReview(tx.QueryRow(ctx, update, id, params.Rating, params.Description, params.Active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Review{}, ErrNotFound
		}
		return domain.Review{}, err
	}

	if err := recomputeAggregate(ctx, tx, movieID); err != nil {
		return domain.Review{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Review{}, fmt.Errorf("commit review tx: %w", err)
	}
	return review, nil
}

// Delete removes a review and recomputes the parent movie's aggregate. When
// the last active review goes, the pair resets to (0, 0).
func (r *ReviewsRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin review tx: %w", err)
	}
	defer tx.Rollback(ctx)

	movieID, err := lockMovieOfReview(ctx, tx, id)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := recomputeAggregate(ctx, tx, movieID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit review tx: %w", err)
	}
	return nil
}

// GetByID fetches a review by its identifier.
func (r *ReviewsRepository) GetByID(ctx context.Context, id int64) (domain.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE id = $1`, reviewColumns)
	review, err := scanReview(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Review{}, ErrNotFound
		}
		return domain.Review{}, err
	}
	return review, nil
}

// ListByMovie returns every review of a movie in referential order.
func (r *ReviewsRepository) ListByMovie(ctx context.Context, movieID int64) ([]domain.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE movie_id = $1 ORDER BY id ASC`, reviewColumns)
	rows, err := r.pool.Query(ctx, query, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReviews(rows)
}

// ListByMovieIDs returns reviews for a set of movies keyed by movie id,
// so nested projections can attach children with a single round trip.
func (r *ReviewsRepository) ListByMovieIDs(ctx context.Context, movieIDs []int64) (map[int64][]domain.Review, error) {
	grouped := make(map[int64][]domain.Review, len(movieIDs))
	if len(movieIDs) == 0 {
		return grouped, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE movie_id = ANY($1) ORDER BY id ASC`, reviewColumns)
	rows, err := r.pool.Query(ctx, query, movieIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews, err := collectReviews(rows)
	if err != nil {
		return nil, err
	}
	for _, review := range reviews {
		grouped[review.MovieID] = append(grouped[review.MovieID], review)
	}
	return grouped, nil
}

// ListByUsername returns every review written by the named user.
func (r *ReviewsRepository) ListByUsername(ctx context.Context, username string) ([]domain.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE username = $1 ORDER BY id ASC`, reviewColumns)
	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReviews(rows)
}

// lockMovieOfReview resolves a review's parent movie and takes the movie
// row lock, serializing aggregate recomputation with concurrent creates.
func lockMovieOfReview(ctx context.Context, tx pgx.Tx, reviewID int64) (int64, error) {
	var movieID int64
	err := tx.QueryRow(ctx, `SELECT movie_id FROM reviews WHERE id = $1`, reviewID).Scan(&movieID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if _, err := tx.Exec(ctx, `SELECT id FROM movies WHERE id = $1 FOR UPDATE`, movieID); err != nil {
		return 0, err
	}
	return movieID, nil
}

func recomputeAggregate(ctx context.Context, tx pgx.Tx, movieID int64) error {
	_, err := tx.Exec(ctx, `
        UPDATE movies
        SET avg_rating = COALESCE((
                SELECT AVG(rating)::float8 FROM reviews
                WHERE movie_id = $1 AND active
            ), 0),
            number_rating = (
                SELECT COUNT(*)::int FROM reviews
                WHERE movie_id = $1 AND active
            ),
            updated_at = now()
        WHERE id = $1
    `, movieID)
	if err != nil {
		return fmt.Errorf("recompute aggregate: %w", err)
	}
	return nil
}

func collectReviews(rows pgx.Rows) ([]domain.Review, error) {
	reviews := make([]domain.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

func scanReview(row pgx.Row) (domain.Review, error) {
	var review domain.Review
	err := row.Scan(
		&review.ID,
		&review.MovieID,
		&review.UserID,
		&review.Username,
		&review.Rating,
		&review.Description,
		&review.Active,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return domain.Review{}, err
	}
	return review, nil
}
