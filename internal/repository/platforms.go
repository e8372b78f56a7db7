package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"watchlist/internal/domain"
)

// PlatformsRepository provides persistence helpers for streaming platforms.
type PlatformsRepository struct {
	pool *pgxpool.Pool
}

const platformColumns = `
    id,
    name,
    about,
    website,
    created_at,
    updated_at
`

// PlatformParams bundles the writable fields of a platform.
type PlatformParams struct {
	Name    string
	About   string
	Website string
}

// Create inserts a new platform row and returns the stored entity.
func (r *PlatformsRepository) Create(ctx context.Context, params PlatformParams) (domain.Platform, error) {
	query := fmt.Sprintf(`
        INSERT INTO platforms (name, about, website)
        VALUES ($1,$2,$3)
        RETURNING %s
    `, platformColumns)

	row := r.pool.QueryRow(ctx, query, params.Name, params.About, params.Website)
	return scanPlatform(row)
}

// GetByID fetches a platform by its identifier.
func (r *PlatformsRepository) GetByID(ctx context.Context, id int64) (domain.Platform, error) {
	query := fmt.Sprintf(`SELECT %s FROM platforms WHERE id = $1`, platformColumns)
	platform, err := scanPlatform(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Platform{}, ErrNotFound
		}
		return domain.Platform{}, err
	}
	return platform, nil
}

// Update replaces the writable fields of a platform.
func (r *PlatformsRepository) Update(ctx context.Context, id int64, params PlatformParams) (domain.Platform, error) {
	query := fmt.Sprintf(`
        UPDATE platforms
        SET name = $2, about = $3, website = $4, updated_at = now()
        WHERE id = $1
        RETURNING %s
    `, platformColumns)

	platform, err := scanPlatform(r.pool.QueryRow(ctx, query, id, params.Name, params.About, params.Website))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Platform{}, ErrNotFound
		}
		return domain.Platform{}, err
	}
	return platform, nil
}

// Delete removes a platform. Movies and their reviews go with it through
// the schema's ON DELETE CASCADE.
func (r *PlatformsRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM platforms WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all platforms in referential order.
func (r *PlatformsRepository) List(ctx context.Context) ([]domain.Platform, error) {
	query := fmt.Sprintf(`SELECT %s FROM platforms ORDER BY id ASC`, platformColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	platforms := make([]domain.Platform, 0)
	for rows.Next() {
		platform, err := scanPlatform(rows)
		if err != nil {
			return nil, err
		}
		platforms = append(platforms, platform)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return platforms, nil
}

func scanPlatform(row pgx.Row) (domain.Platform, error) {
	var platform domain.Platform
	err := row.Scan(
		&platform.ID,
		&platform.Name,
		&platform.About,
		&platform.Website,
		&platform.CreatedAt,
		&platform.UpdatedAt,
	)
	if err != nil {
		return domain.Platform{}, err
	}
	return platform, nil
}
