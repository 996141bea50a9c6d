package filestore

import (
	"context"
	"errors"
	"fmt"

	"resume-intake/internal/config"
)

// ErrExists is returned by Put when an object is already stored under the key.
var ErrExists = errors.New("object already exists")

// Store keeps uploaded resume files. Put never overwrites: writing to a key that
// is already taken fails with ErrExists.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
}

// New builds the store selected by cfg.Type.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStore(cfg.BasePath)
	case "r2", "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
