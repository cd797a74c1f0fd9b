package photos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/photoframe/internal/common"
	"github.com/dmitrijs2005/photoframe/internal/dbx"
	"github.com/dmitrijs2005/photoframe/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const photoColumns = `id, owner_id, object_key, url, secure_url, format, bytes, width, height, caption, created_at`

func (r *PostgresRepository) Create(ctx context.Context, photo *models.Photo) (*models.Photo, error) {

	query :=
		`INSERT INTO photos (id, owner_id, object_key, url, secure_url, format, bytes, width, height, caption)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		photo.ID, photo.OwnerID, photo.ObjectKey, photo.URL, photo.SecureURL,
		photo.Format, photo.Bytes, photo.Width, photo.Height, photo.Caption).Scan(&photo.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return photo, nil
}

func (r *PostgresRepository) GetByIDAndOwner(ctx context.Context, id string, ownerID string) (*models.Photo, error) {
	query :=
		`SELECT ` + photoColumns + ` FROM photos
		 WHERE id = $1 AND owner_id = $2
		 `

	return scanPhoto(r.db.QueryRowContext(ctx, query, id, ownerID))
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string, limit int, offset int) ([]*models.Photo, error) {
	query :=
		`SELECT ` + photoColumns + ` FROM photos
		 WHERE owner_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Photo
	for rows.Next() {
		photo := &models.Photo{}
		err := rows.Scan(&photo.ID, &photo.OwnerID, &photo.ObjectKey, &photo.URL, &photo.SecureURL,
			&photo.Format, &photo.Bytes, &photo.Width, &photo.Height, &photo.Caption, &photo.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, photo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	query := `SELECT COUNT(*) FROM photos WHERE owner_id = $1`

	var count int64
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}

func (r *PostgresRepository) DeleteByIDAndOwner(ctx context.Context, id string, ownerID string) error {
	query := `DELETE FROM photos WHERE id = $1 AND owner_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM photos`

	var count int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}

func (r *PostgresRepository) MostActiveUploader(ctx context.Context) (*models.UploaderStats, error) {
	query :=
		`SELECT u.id, u.name, u.email, COUNT(p.id) AS upload_count
		 FROM users u
		 JOIN photos p ON p.owner_id = u.id
		 GROUP BY u.id, u.name, u.email
		 ORDER BY upload_count DESC
		 LIMIT 1
		 `

	stats := &models.UploaderStats{}
	err := r.db.QueryRowContext(ctx, query).Scan(&stats.UserID, &stats.Name, &stats.Email, &stats.UploadCount)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return stats, nil
}

func (r *PostgresRepository) LargestPhoto(ctx context.Context) (*models.Photo, error) {
	query :=
		`SELECT ` + photoColumns + ` FROM photos
		 ORDER BY bytes DESC
		 LIMIT 1
		 `

	return scanPhoto(r.db.QueryRowContext(ctx, query))
}

func scanPhoto(row *sql.Row) (*models.Photo, error) {
	photo := &models.Photo{}
	err := row.Scan(&photo.ID, &photo.OwnerID, &photo.ObjectKey, &photo.URL, &photo.SecureURL,
		&photo.Format, &photo.Bytes, &photo.Width, &photo.Height, &photo.Caption, &photo.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return photo, nil
}
