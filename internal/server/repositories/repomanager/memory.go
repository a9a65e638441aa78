package repomanager

import (
	"context"
	"database/sql"
	"sync"

	"github.com/dmitrijs2005/osp/internal/dbx"
	"github.com/dmitrijs2005/osp/internal/server/repositories/comments"
	"github.com/dmitrijs2005/osp/internal/server/repositories/media"
	"github.com/dmitrijs2005/osp/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/osp/internal/server/repositories/users"
)

// InMemoryRepositoryManager hands out one shared set of in-memory
// repositories. The db arguments are ignored; WithTx serializes fn but does
// not roll back.
type InMemoryRepositoryManager struct {
	mu            sync.Mutex
	users         *users.MemoryRepository
	refreshTokens *refreshtokens.MemoryRepository
	media         *media.MemoryRepository
	comments      *comments.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:         users.NewMemoryRepository(),
		refreshTokens: refreshtokens.NewMemoryRepository(),
		media:         media.NewMemoryRepository(),
		comments:      comments.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *InMemoryRepositoryManager) WithTx(ctx context.Context, _ *sql.DB, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, nil)
}

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *InMemoryRepositoryManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return m.refreshTokens
}

func (m *InMemoryRepositoryManager) Media(dbx.DBTX) media.Repository { return m.media }

func (m *InMemoryRepositoryManager) Comments(dbx.DBTX) comments.Repository { return m.comments }
