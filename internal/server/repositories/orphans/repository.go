// Package orphans records blob/metadata pairs that have diverged, so an
// out-of-band reconciliation job can clean them up. Recording is best effort:
// the upload and delete pipelines log the orphan regardless.
package orphans

import (
	"context"

	"github.com/dmitrijs2005/photoframe/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, orphan *models.Orphan) error
	ListUnresolved(ctx context.Context, limit int) ([]*models.Orphan, error)
}
