package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/photoframe/internal/dbx"
	"github.com/dmitrijs2005/photoframe/internal/server/repositories/orphans"
	"github.com/dmitrijs2005/photoframe/internal/server/repositories/photos"
	"github.com/dmitrijs2005/photoframe/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX, so
// services can run several repositories inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Photos(db dbx.DBTX) photos.Repository
	Orphans(db dbx.DBTX) orphans.Repository
}
