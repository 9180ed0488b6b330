package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ringpost/ringpost/internal/model"
)

// S3Config holds configuration for the S3-backed image source.
// Works with AWS S3, MinIO, DigitalOcean Spaces, Cloudflare R2, etc.
type S3Config struct {
	Region    string
	Bucket    string
	Prefix    string
	AccessKey string
	SecretKey string
	Endpoint  string // Optional: for S3-compatible services
}

// S3Source picks the newest image object under a key prefix. Unlike the
// Drive listing, S3 has no server-side ordering, so recency comes from
// comparing LastModified across the listed objects.
type S3Source struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3Source(ctx context.Context, cfg S3Config) (*S3Source, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // Required for MinIO and some S3-compatible services
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return &S3Source{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

func (s *S3Source) LatestImage(ctx context.Context) (*model.ImageAsset, error) {
	var newestKey string
	var newestTime time.Time

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list bucket: %w", err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil || obj.LastModified == nil {
				continue
			}
			if mimeFromKey(*obj.Key) == "" {
				continue
			}
			if obj.LastModified.After(newestTime) {
				newestKey = *obj.Key
				newestTime = *obj.LastModified
			}
		}
	}

	if newestKey == "" {
		return nil, ErrNotFound
	}

	slog.Info("found image", "key", newestKey, "modified", newestTime)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(newestKey),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download %q: %w", newestKey, err)
	}
	defer func() {
		closeErr := out.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close object body", "error", closeErr)
		}
	}()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", newestKey, err)
	}

	mimeType := mimeFromKey(newestKey)
	if out.ContentType != nil && model.IsImage(*out.ContentType) {
		mimeType = *out.ContentType
	}

	return &model.ImageAsset{
		ID:       newestKey,
		Name:     path.Base(newestKey),
		MimeType: mimeType,
		Data:     data,
	}, nil
}

// mimeFromKey maps an object key to an image MIME type by extension,
// or "" when the key is not an image.
func mimeFromKey(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".heic":
		return "image/heic"
	default:
		return ""
	}
}
