// Package photos provides persistence for photo metadata records. Ownership
// is enforced at the query level: every per-record operation filters on the
// owner id, so a record owned by someone else is reported exactly like a
// record that does not exist.
package photos

import (
	"context"

	"github.com/dmitrijs2005/photoframe/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, photo *models.Photo) (*models.Photo, error)
	GetByIDAndOwner(ctx context.Context, id string, ownerID string) (*models.Photo, error)
	ListByOwner(ctx context.Context, ownerID string, limit int, offset int) ([]*models.Photo, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	DeleteByIDAndOwner(ctx context.Context, id string, ownerID string) error

	// Admin aggregates, read-only.
	CountAll(ctx context.Context) (int64, error)
	MostActiveUploader(ctx context.Context) (*models.UploaderStats, error)
	LargestPhoto(ctx context.Context) (*models.Photo, error)
}
