package orphans

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/photoframe/internal/dbx"
	"github.com/dmitrijs2005/photoframe/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, orphan *models.Orphan) error {

	query :=
		`INSERT INTO photo_orphans (id, object_key, reason, detail)
		 VALUES ($1, $2, $3, $4)
		 `

	_, err := r.db.ExecContext(ctx, query, orphan.ID, orphan.ObjectKey, orphan.Reason, orphan.Detail)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListUnresolved(ctx context.Context, limit int) ([]*models.Orphan, error) {
	query :=
		`SELECT id, object_key, reason, detail, created_at FROM photo_orphans
		 WHERE resolved_at IS NULL
		 ORDER BY created_at
		 LIMIT $1
		 `

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Orphan
	for rows.Next() {
		o := &models.Orphan{}
		if err := rows.Scan(&o.ID, &o.ObjectKey, &o.Reason, &o.Detail, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
