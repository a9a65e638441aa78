// Package comments stores comments on media items.
package comments

import (
	"context"

	"github.com/dmitrijs2005/osp/internal/server/models"
)

type Repository interface {
	// Create inserts c and fills ID and CreatedAt.
	Create(ctx context.Context, c *models.Comment) (*models.Comment, error)
	// ListByMedia returns the comments of mediaID, newest first.
	ListByMedia(ctx context.Context, mediaID string) ([]models.Comment, error)
}
