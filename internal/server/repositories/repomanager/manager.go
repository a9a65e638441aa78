// Package repomanager vends repository implementations bound to a database
// handle, together with schema migration and transaction hooks.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/osp/internal/dbx"
	"github.com/dmitrijs2005/osp/internal/server/repositories/comments"
	"github.com/dmitrijs2005/osp/internal/server/repositories/media"
	"github.com/dmitrijs2005/osp/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/osp/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	// WithTx runs fn with a handle that repositories created from it share.
	WithTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx dbx.DBTX) error) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Media(db dbx.DBTX) media.Repository
	Comments(db dbx.DBTX) comments.Repository
}
