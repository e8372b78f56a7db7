package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"watchlist/internal/domain"
)

// MoviesRepository provides persistence helpers for movie entities.
type MoviesRepository struct {
	pool *pgxpool.Pool
}

const movieColumns = `
    id,
    title,
    storyline,
    platform_id,
    active,
    avg_rating,
    number_rating,
    created_at,
    updated_at
`

// MovieParams bundles the client-writable fields of a movie. The derived
// avg_rating/number_rating pair is deliberately absent.
type MovieParams struct {
	Title      string
	Storyline  string
	PlatformID int64
	Active     bool
}

// MovieListFilters encapsulates search and pagination options. Filters
// compose conjunctively.
type MovieListFilters struct {
	PlatformID *int64
	Active     *bool
	Search     *string
	PageSize   int
	Cursor     *Cursor
}

// Cursor directions. Tokens are opaque to clients; the direction tells the
// list query which side of the anchor id to scan.
const (
	CursorNext = "next"
	CursorPrev = "prev"
)

// Cursor is the decoded form of an opaque pagination token: the id at the
// page boundary plus the direction to move in. Ordering is by id ascending,
// which is stable and total, so tokens stay valid under concurrent inserts
// elsewhere in the collection.
type Cursor struct {
	ID  int64  `json:"id"`
	Dir string `json:"dir"`
}

// MovieListResult returns one page plus the boundary tokens. Next and
// Previous are nil at the respective ends of the sequence.
type MovieListResult struct {
	Items    []domain.Movie
	Next     *string
	Previous *string
}

// Create inserts a new movie row and returns the stored entity. A missing
// platform surfaces as ErrNotFound via the foreign key.
func (r *MoviesRepository) Create(ctx context.Context, params MovieParams) (domain.Movie, error) {
	query := fmt.Sprintf(`
        INSERT INTO movies (title, storyline, platform_id, active)
        VALUES ($1,$2,$3,$4)
        RETURNING %s
    `, movieColumns)

	movie, err := scanMovie(r.pool.QueryRow(ctx, query, params.Title, params.Storyline, params.PlatformID, params.Active))
	if err != nil {
		if pgErrCode(err, pgForeignKeyViolation) {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, err
	}
	return movie, nil
}

// GetByID fetches a movie by its identifier.
func (r *MoviesRepository) GetByID(ctx context.Context, id int64) (domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE id = $1`, movieColumns)
	movie, err := scanMovie(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, err
	}
	return movie, nil
}

// Update replaces the client-writable fields of a movie. The aggregate
// columns are never touched here.
func (r *MoviesRepository) Update(ctx context.Context, id int64, params MovieParams) (domain.Movie, error) {
	query := fmt.Sprintf(`
        UPDATE movies
        SET title = $2, storyline = $3, platform_id = $4, active = $5, updated_at = now()
        WHERE id = $1
        RETURNING %s
    `, movieColumns)

	movie, err := scanMovie(r.pool.QueryRow(ctx, query, id, params.Title, params.Storyline, params.PlatformID, params.Active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Movie{}, ErrNotFound
		}
		if pgErrCode(err, pgForeignKeyViolation) {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, err
	}
	return movie, nil
}

// Delete removes a movie; its reviews cascade.
func (r *MoviesRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByPlatform returns every movie under a platform in referential order.
// Used by the nested read projections; no filtering or pagination applies.
func (r *MoviesRepository) ListByPlatform(ctx context.Context, platformID int64) ([]domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE platform_id = $1 ORDER BY id ASC`, movieColumns)
	rows, err := r.pool.Query(ctx, query, platformID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMovies(rows)
}

// List returns one page of movies matching the provided filters, ordered by
// id ascending, together with next/previous cursor tokens.
func (r *MoviesRepository) List(ctx context.Context, filters MovieListFilters) (MovieListResult, error) {
	size := filters.PageSize
	if size <= 0 {
		size = 2
	} else if size > 100 {
		size = 100
	}

	where := make([]string, 0)
	args := make([]interface{}, 0)
	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.PlatformID != nil {
		where = append(where, fmt.Sprintf("platform_id = %s", arg(*filters.PlatformID)))
	}
	if filters.Active != nil {
		where = append(where, fmt.Sprintf("active = %s", arg(*filters.Active)))
	}
	if filters.Search != nil && strings.TrimSpace(*filters.Search) != "" {
		pattern := "%" + escapeLike(strings.TrimSpace(*filters.Search)) + "%"
		where = append(where, fmt.Sprintf("title ILIKE %s", arg(pattern)))
	}

	descending := false
	if filters.Cursor != nil {
		if filters.Cursor.Dir == CursorPrev {
			where = append(where, fmt.Sprintf("id < %s", arg(filters.Cursor.ID)))
			descending = true
		} else {
			where = append(where, fmt.Sprintf("id > %s", arg(filters.Cursor.ID)))
		}
	}

	queryBuilder := strings.Builder{}
	queryBuilder.WriteString("SELECT ")
	queryBuilder.WriteString(movieColumns)
	queryBuilder.WriteString(" FROM movies")
	if len(where) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(where, " AND "))
	}
	if descending {
		queryBuilder.WriteString(" ORDER BY id DESC")
	} else {
		queryBuilder.WriteString(" ORDER BY id ASC")
	}
	// One extra row tells us whether another page exists past the boundary.
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT %d", size+1))

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return MovieListResult{}, err
	}
	defer rows.Close()

	items, err := collectMovies(rows)
	if err != nil {
		return MovieListResult{}, err
	}

	more := len(items) > size
	if more {
		items = items[:size]
	}
	if descending {
		reverseMovies(items)
	}

	result := MovieListResult{Items: items}
	if len(items) == 0 {
		return result, nil
	}
	first, last := items[0].ID, items[len(items)-1].ID

	if descending {
		// Paging backwards: the anchor row sits just past the window, so a
		// next page always exists; a previous page only if we over-fetched.
		result.Next = encodeCursor(Cursor{ID: last, Dir: CursorNext})
		if more {
			result.Previous = encodeCursor(Cursor{ID: first, Dir: CursorPrev})
		}
	} else {
		if more {
			result.Next = encodeCursor(Cursor{ID: last, Dir: CursorNext})
		}
		if filters.Cursor != nil {
			result.Previous = encodeCursor(Cursor{ID: first, Dir: CursorPrev})
		}
	}
	return result, nil
}

func collectMovies(rows pgx.Rows) ([]domain.Movie, error) {
	items := make([]domain.Movie, 0)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func reverseMovies(items []domain.Movie) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var movie domain.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Storyline,
		&movie.PlatformID,
		&movie.Active,
		&movie.AvgRating,
		&movie.NumberRating,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		return domain.Movie{}, err
	}
	return movie, nil
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

func encodeCursor(c Cursor) *string {
	payload, err := json.Marshal(c)
	if err != nil {
		return nil
	}
	token := base64.StdEncoding.EncodeToString(payload)
	return &token
}

// DecodeCursor parses an opaque cursor token. Empty tokens mean no cursor.
func DecodeCursor(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}
	var cursor Cursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, fmt.Errorf("invalid cursor payload: %w", err)
	}
	if cursor.Dir != CursorNext && cursor.Dir != CursorPrev {
		return nil, fmt.Errorf("invalid cursor direction %q", cursor.Dir)
	}
	return &cursor, nil
}
