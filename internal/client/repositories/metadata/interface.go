// Package metadata provides the small key/value stores the client keeps its
// local state in. Every backend implements Repository; Get of a missing key
// returns (nil, nil).
package metadata

import (
	"context"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
