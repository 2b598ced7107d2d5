// Package storage keeps raw provider payloads in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	infraconfig "github.com/erp/checkout/internal/infrastructure/config"
)

const uncorrelatedSegment = "uncorrelated"

// S3PayloadArchive stores every webhook body as its own object. It is
// compatible with any S3-compatible storage (AWS S3, MinIO, RustFS, etc.)
type S3PayloadArchive struct {
	client *s3.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// S3PayloadArchiveOption is a functional option for configuring S3PayloadArchive
type S3PayloadArchiveOption func(*S3PayloadArchive)

// WithLogger sets a custom logger for S3PayloadArchive
func WithLogger(logger *zap.Logger) S3PayloadArchiveOption {
	return func(a *S3PayloadArchive) {
		a.logger = logger
	}
}

// NewS3PayloadArchive creates an archive from configuration. Without static
// keys the default AWS credential chain is used.
func NewS3PayloadArchive(cfg *infraconfig.ArchiveConfig, opts ...S3PayloadArchiveOption) (*S3PayloadArchive, error) {
	if cfg == nil {
		return nil, errors.New("archive configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("archive bucket is required")
	}
	if (cfg.AccessKey == "") != (cfg.SecretKey == "") {
		return nil, errors.New("archive access key and secret key must be set together")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		// S3-compatible stores reject the streaming checksums sent by default
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	archive := &S3PayloadArchive{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(archive)
	}
	return archive, nil
}

// Store uploads body under a key derived from the order and receipt time
func (a *S3PayloadArchive) Store(ctx context.Context, orderID string, receivedAt time.Time, body []byte) error {
	key := ArchiveKey(a.prefix, orderID, receivedAt)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to archive payload %s: %w", key, err)
	}
	a.logger.Debug("Archived webhook payload",
		zap.String("order_id", orderID),
		zap.String("key", key),
		zap.Int("bytes", len(body)))
	return nil
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup.
func (a *S3PayloadArchive) EnsureBucket(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(a.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	a.logger.Info("Creating archive bucket", zap.String("bucket", a.bucket))
	_, err = a.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(a.bucket),
	})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Bucket returns the bucket name
func (a *S3PayloadArchive) Bucket() string {
	return a.bucket
}

// ArchiveKey builds {prefix}/{yyyy}/{mm}/{dd}/{orderId}/{unixnano}.json in UTC.
// Uncorrelated deliveries go under "uncorrelated".
func ArchiveKey(prefix, orderID string, receivedAt time.Time) string {
	segment := strings.TrimSpace(orderID)
	if segment == "" {
		segment = uncorrelatedSegment
	}
	segment = strings.ReplaceAll(segment, "/", "_")

	at := receivedAt.UTC()
	key := fmt.Sprintf("%04d/%02d/%02d/%s/%d.json", at.Year(), int(at.Month()), at.Day(), segment, at.UnixNano())
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		key = prefix + "/" + key
	}
	return key
}
