// Package publish uploads the generated report to S3-compatible storage.
package publish

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aristath/moatwatch/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// Publisher makes the run's files available outside the host
type Publisher interface {
	Publish(ctx context.Context, files []string) error
}

// Uploader is the subset of the S3 upload manager the publisher uses
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// New returns an S3 publisher when a bucket is configured and a no-op otherwise
func New(ctx context.Context, cfg config.PublishConfig, log zerolog.Logger) (Publisher, error) {
	if !cfg.Enabled() {
		return NewNoopPublisher(log), nil
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			// R2, MinIO and other S3-compatible stores
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3Publisher(manager.NewUploader(client), cfg.Bucket, cfg.Prefix, log), nil
}

// S3Publisher uploads files to a bucket under a key prefix
type S3Publisher struct {
	uploader Uploader
	bucket   string
	prefix   string
	log      zerolog.Logger
}

// NewS3Publisher creates an S3 publisher
func NewS3Publisher(uploader Uploader, bucket, prefix string, log zerolog.Logger) *S3Publisher {
	return &S3Publisher{
		uploader: uploader,
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		log:      log.With().Str("component", "s3_publisher").Logger(),
	}
}

// Publish uploads each file as <prefix>/<base name>. It stops at the first failure.
func (p *S3Publisher) Publish(ctx context.Context, files []string) error {
	for _, file := range files {
		key := p.Key(file)
		if err := p.upload(ctx, file, key); err != nil {
			return fmt.Errorf("failed to publish %s: %w", file, err)
		}
		p.log.Info().Str("bucket", p.bucket).Str("key", key).Msg("Published file")
	}
	return nil
}

// Key returns the object key for a local file
func (p *S3Publisher) Key(file string) string {
	name := filepath.Base(file)
	if p.prefix == "" {
		return name
	}
	return path.Join(p.prefix, name)
}

func (p *S3Publisher) upload(ctx context.Context, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	_, err = p.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(ContentType(file)),
	})
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	return nil
}

// ContentType returns the MIME type for a published file
func ContentType(file string) string {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".json":
		return "application/json"
	}
	if ct := mime.TypeByExtension(filepath.Ext(file)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// NoopPublisher is used when no bucket is configured
type NoopPublisher struct {
	log zerolog.Logger
}

// NewNoopPublisher creates a publisher that only logs
func NewNoopPublisher(log zerolog.Logger) *NoopPublisher {
	return &NoopPublisher{log: log.With().Str("component", "noop_publisher").Logger()}
}

// Publish implements Publisher
func (p *NoopPublisher) Publish(_ context.Context, files []string) error {
	p.log.Debug().Int("files", len(files)).Msg("Publishing disabled, skipping upload")
	return nil
}
