// Package users declares the account repository and its Postgres and
// in-memory implementations.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/osp/internal/server/models"
)

// Repository stores accounts. Lookups return common.ErrorNotFound when the
// account is absent.
type Repository interface {
	// Create inserts user and fills ID and CreatedAt. A taken username or
	// provider subject gives common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByProvider(ctx context.Context, provider, subject string) (*models.User, error)

	// MarkDeletionPending records a deletion request. An account that is
	// already pending gives common.ErrDeletionInProgress.
	MarkDeletionPending(ctx context.Context, id string, at time.Time) error
}
