package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/ringpost/ringpost/internal/config"
	"github.com/ringpost/ringpost/internal/credential"
	"github.com/ringpost/ringpost/internal/model"
)

// ErrNotFound means the folder holds no image files. It is an expected
// outcome, not a failure: callers show a friendly message and move on.
var ErrNotFound = errors.New("no image found in the source folder")

// Source yields the most recent image from the configured repository.
type Source interface {
	LatestImage(ctx context.Context) (*model.ImageAsset, error)
}

// New selects the image source for the configured provider.
func New(ctx context.Context, cfg *config.Config, store credential.Store) (Source, error) {
	if err := cfg.ValidateSource(); err != nil {
		return nil, err
	}

	switch cfg.SourceProvider {
	case "drive":
		return NewDriveSource(store, cfg.FolderID, cfg.DriveOrderBy), nil
	case "s3":
		return NewS3Source(ctx, S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown source provider: %s", cfg.SourceProvider)
	}
}
