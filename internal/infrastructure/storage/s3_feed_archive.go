// Package storage archives submitted feed documents in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"github.com/erp/mws-connector/internal/domain/amazon"
	infraconfig "github.com/erp/mws-connector/internal/infrastructure/config"
)

var _ amazon.FeedArchive = (*S3FeedArchive)(nil)

const (
	feedContentType = "text/xml; charset=utf-8"
	defaultEndpoint = "http://localhost:9000"
	defaultRegion   = "us-east-1"
)

// S3FeedArchive keeps a copy of every submitted feed envelope in a bucket of
// any S3 compatible store (AWS S3, MinIO, RustFS).
type S3FeedArchive struct {
	client *s3.Client
	bucket string
	prefix string
	logger *zap.Logger
}

type S3FeedArchiveOption func(*S3FeedArchive)

func WithLogger(logger *zap.Logger) S3FeedArchiveOption {
	return func(s *S3FeedArchive) { s.logger = logger }
}

// WithKeyPrefix replaces the default "feeds" key prefix.
func WithKeyPrefix(prefix string) S3FeedArchiveOption {
	return func(s *S3FeedArchive) { s.prefix = strings.Trim(prefix, "/") }
}

func NewS3FeedArchive(cfg *infraconfig.StorageConfig, opts ...S3FeedArchiveOption) (*S3FeedArchive, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	for _, req := range []struct{ value, name string }{
		{cfg.Bucket, "bucket"},
		{cfg.AccessKey, "access key"},
		{cfg.SecretKey, "secret key"},
	} {
		if req.value == "" {
			return nil, fmt.Errorf("storage %s is required", req.name)
		}
	}

	client, err := newS3Client(cfg)
	if err != nil {
		return nil, err
	}
	archive := &S3FeedArchive{client: client, bucket: cfg.Bucket, prefix: "feeds", logger: zap.NewNop()}
	for _, opt := range opts {
		opt(archive)
	}
	return archive, nil
}

func newS3Client(cfg *infraconfig.StorageConfig) (*s3.Client, error) {
	endpoint, err := endpointURL(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = cfg.UsePathStyle
		// not every S3 compatible store accepts trailing checksums
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	}), nil
}

// endpointURL adds a scheme to bare host:port endpoints.
func endpointURL(endpoint string, useSSL bool) (string, error) {
	switch {
	case endpoint == "":
		endpoint = defaultEndpoint
	case !strings.Contains(endpoint, "://"):
		scheme := "http://"
		if useSSL {
			scheme = "https://"
		}
		endpoint = scheme + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid storage endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid storage endpoint scheme %q", u.Scheme)
	}
	return endpoint, nil
}

// EnsureBucket creates the bucket when HeadBucket reports it missing.
func (s *S3FeedArchive) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating feed archive bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		// Lost a creation race with another instance
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Key returns the object key of an archived feed:
// <prefix>/<account>/<feed type>/<submission>.xml
func (s *S3FeedArchive) Key(accountID string, feedType amazon.FeedType, submissionID string) string {
	return path.Join(s.prefix, accountID, strings.Trim(feedType.String(), "_"), submissionID+".xml")
}

// Store uploads the feed document of a submission
func (s *S3FeedArchive) Store(ctx context.Context, account *amazon.Account, feed *amazon.Feed, submission *amazon.FeedSubmission) error {
	if account == nil || feed == nil || submission == nil {
		return errors.New("account, feed and submission are required")
	}
	if submission.SubmissionID == "" {
		return errors.New("submission id is required")
	}

	key := s.Key(account.ID.String(), feed.Type, submission.SubmissionID)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(feed.Document),
		ContentLength: aws.Int64(int64(len(feed.Document))),
		ContentType:   aws.String(feedContentType),
		Metadata: map[string]string{
			"marketplace-id": account.MarketplaceID,
			"feed-type":      feed.Type.String(),
			"messages":       strconv.Itoa(feed.MessageCount()),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to archive feed %s: %w", submission.SubmissionID, err)
	}

	s.logger.Debug("Feed archived",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
	)
	return nil
}

func (s *S3FeedArchive) Bucket() string {
	return s.bucket
}
