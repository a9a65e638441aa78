package comments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/osp/internal/server/models"
)

type MemoryRepository struct {
	mu       sync.RWMutex
	comments []models.Comment
	now      func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: func() time.Time { return time.Now().UTC() }}
}

func (r *MemoryRepository) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = uuid.NewString()
	c.CreatedAt = r.now()
	r.comments = append(r.comments, *c)
	return c, nil
}

func (r *MemoryRepository) ListByMedia(ctx context.Context, mediaID string) ([]models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Comment, 0)
	for i := len(r.comments) - 1; i >= 0; i-- {
		if r.comments[i].MediaID == mediaID {
			result = append(result, r.comments[i])
		}
	}
	// insertion order breaks ties between equal timestamps
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
