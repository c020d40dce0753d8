// Package dataset opens the Kepler catalog from a local file or an S3 object.
package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"mission-control/internal/shared/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3Scheme = "s3"

// FileSource reads the catalog from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Open(context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", s.Path, err)
	}
	return f, nil
}

func (s FileSource) String() string {
	return s.Path
}

// objectGetter is the subset of *s3.Client used to stream the catalog.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source streams the catalog from a single object.
type S3Source struct {
	client objectGetter
	bucket string
	key    string
}

func NewS3Source(client objectGetter, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return out.Body, nil
}

func (s *S3Source) String() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}

// ParseS3URI splits s3://bucket/key. ok is false for any other location.
func ParseS3URI(location string) (bucket, key string, ok bool, err error) {
	if !strings.HasPrefix(location, s3Scheme+"://") {
		return "", "", false, nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return "", "", true, fmt.Errorf("invalid dataset URI %q: %w", location, err)
	}

	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", true, fmt.Errorf("dataset URI %q must name a bucket and key", location)
	}
	return u.Host, key, true, nil
}

// Source is what the planet loader reads from.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Open resolves cfg.Path to a file or S3 source. S3 credentials come from the
// default AWS chain.
func Open(ctx context.Context, cfg config.DatasetConfig, logger *slog.Logger) (Source, error) {
	logger = logger.With("component", "dataset", "operation", "open")

	bucket, key, isS3, err := ParseS3URI(cfg.Path)
	if err != nil {
		return nil, err
	}
	if !isS3 {
		logger.Debug("Using local dataset", "path", cfg.Path)
		return FileSource{Path: cfg.Path}, nil
	}

	client, err := NewS3Client(ctx, cfg)
	if err != nil {
		logger.Error("Failed to configure S3 client", "error", err)
		return nil, err
	}

	logger.Debug("Using S3 dataset", "bucket", bucket, "key", key, "region", cfg.S3Region)
	return NewS3Source(client, bucket, key), nil
}

// NewS3Client builds a client for the configured region and optional
// S3-compatible endpoint.
func NewS3Client(ctx context.Context, cfg config.DatasetConfig, optFns ...func(*s3.Options)) (*s3.Client, error) {
	region := cfg.S3Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3PathStyle
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		for _, fn := range optFns {
			fn(o)
		}
	}), nil
}
