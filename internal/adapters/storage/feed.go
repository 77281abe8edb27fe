// internal/adapters/storage/feed.go
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// FeedFetcher retrieves feed documents by location. Locations are either
// local file paths or s3://bucket/key URIs.
type FeedFetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// S3Config holds S3 configuration for fetching remote feeds
type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // For MinIO/LocalStack
	UsePathStyle    bool   // For MinIO/LocalStack
}

// Fetcher implements FeedFetcher over the local filesystem and S3
type Fetcher struct {
	downloader *manager.Downloader
	logger     *slog.Logger
}

// NewFetcher creates a feed fetcher. The S3 configuration may be nil when
// only local feeds are used; fetching an s3:// location then fails.
func NewFetcher(ctx context.Context, cfg *S3Config, logger *slog.Logger) (*Fetcher, error) {
	fetcher := &Fetcher{
		logger: logger.With(slog.String("component", "feed_fetcher")),
	}

	if cfg != nil {
		awsCfg, err := buildAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to build AWS config: %w", err)
		}

		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.UsePathStyle
		})
		fetcher.downloader = manager.NewDownloader(client)
	}

	return fetcher, nil
}

// buildAWSConfig builds AWS configuration
func buildAWSConfig(ctx context.Context, cfg *S3Config) (aws.Config, error) {
	// Use custom credentials if provided
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		return config.LoadDefaultConfig(ctx,
			config.WithRegion(cfg.Region),
			config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretAccessKey,
					"",
				),
			),
		)
	}

	// Otherwise use default credential chain
	return config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
}

// Fetch reads the feed at location
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if strings.HasPrefix(location, "s3://") {
		return f.fetchS3(ctx, location)
	}

	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed file %s: %w", location, err)
	}

	f.logger.DebugContext(ctx, "feed read from disk",
		slog.String("location", location),
		slog.Int("bytes", len(data)))

	return data, nil
}

// fetchS3 downloads an s3://bucket/key feed
func (f *Fetcher) fetchS3(ctx context.Context, location string) ([]byte, error) {
	if f.downloader == nil {
		return nil, fmt.Errorf("s3 feed %s requested but no S3 configuration provided", location)
	}

	bucket, key, err := parseS3URI(location)
	if err != nil {
		return nil, err
	}

	buf := manager.NewWriteAtBuffer(nil)
	if _, err := f.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		return nil, fmt.Errorf("failed to download feed %s: %w", location, err)
	}

	f.logger.DebugContext(ctx, "feed downloaded",
		slog.String("bucket", bucket),
		slog.String("key", key),
		slog.Int("bytes", len(buf.Bytes())))

	return buf.Bytes(), nil
}

// parseS3URI splits s3://bucket/key into its parts
func parseS3URI(location string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(location, "s3://")
	bucket, key, found := strings.Cut(trimmed, "/")
	if !found || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 feed location %q, want s3://bucket/key", location)
	}
	return bucket, key, nil
}
