// Package media stores media items.
package media

import (
	"context"

	"github.com/dmitrijs2005/osp/internal/server/models"
)

type Repository interface {
	// Create inserts m. An empty ID is assigned by the repository.
	Create(ctx context.Context, m *models.Media) (*models.Media, error)
	// Get returns common.ErrorNotFound for an unknown id.
	Get(ctx context.Context, id string) (*models.Media, error)
}
