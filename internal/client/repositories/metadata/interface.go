// Package metadata is the client's key/value table. Session credentials live
// here under fixed keys; a missing key reads as (nil, nil).
package metadata

import (
	"context"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the given keys. Absent keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
