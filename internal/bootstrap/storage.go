package bootstrap

import (
	"context"
	"fmt"

	"github.com/wxllspace/wxllspace-backend/config"
	"github.com/wxllspace/wxllspace-backend/internal/storage/objects"
)

// NewObjectStore builds the photo store selected by STORAGE_DRIVER.
func NewObjectStore(ctx context.Context, cfg config.StorageConfig) (objects.Store, error) {
	switch cfg.Driver {
	case config.StorageDriverMinio:
		store, err := objects.NewMinioStore(ctx, cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, cfg.Bucket, cfg.UseSSL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorageDriverS3:
		store, err := objects.NewS3Store(ctx, cfg.Region, cfg.Endpoint, cfg.Bucket)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
