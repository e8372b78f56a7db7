package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"watchlist/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// ErrDuplicateReview indicates the user already reviewed the movie.
var ErrDuplicateReview = errors.New("repository: already reviewed")

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Platforms *PlatformsRepository
	Movies    *MoviesRepository
	Reviews   *ReviewsRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Platforms: &PlatformsRepository{pool: pool},
		Movies:    &MoviesRepository{pool: pool},
		Reviews:   &ReviewsRepository{pool: pool},
	}
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgErrCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
