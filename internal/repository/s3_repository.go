package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"pixhost/internal/config"
)

// ObjectRepository is the capability the pipeline has over the bucket:
// put, delete, exists and URL construction. No retries and no caches;
// each call either succeeds or reports one error to its caller.
type ObjectRepository interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	PublicURL(key string) string
}

// s3API is the slice of the S3 client the repository actually uses.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

type s3Repository struct {
	client s3API
	cfg    *config.S3Config
	log    *zap.Logger
}

func NewS3Repository(cfg *config.S3Config, log *zap.Logger) (ObjectRepository, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3Repository{
		client: client,
		cfg:    cfg,
		log:    log,
	}, nil
}

// Put uploads data under key. PutObject is atomic on the S3 side: a
// failed call leaves no readable partial object. Public access is the
// bucket policy's job, so no ACL is sent.
func (r *s3Repository) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.cfg.BucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		r.log.Error("Failed to upload object",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("put object %q: %w", key, err)
	}

	r.log.Info("Object uploaded",
		zap.String("key", key),
		zap.Int("size", len(data)))

	return nil
}

// Delete removes key. S3 DeleteObject succeeds for absent keys, which
// gives us idempotency for free.
func (r *s3Repository) Delete(ctx context.Context, key string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.cfg.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		r.log.Error("Failed to delete object",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("delete object %q: %w", key, err)
	}

	r.log.Info("Object deleted", zap.String("key", key))

	return nil
}

// Exists reports whether key is present. Only NotFound maps to false;
// any other failure (auth, network) propagates so callers never
// mistake an outage for a missing object.
func (r *s3Repository) Exists(ctx context.Context, key string) (bool, error) {
	_, err := r.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.cfg.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("head object %q: %w", key, err)
	}
	return true, nil
}

// PublicURL builds the storage-facing URL for key. Pure string work,
// no network call.
func (r *s3Repository) PublicURL(key string) string {
	if r.cfg.CDNBaseURL != "" {
		return strings.TrimRight(r.cfg.CDNBaseURL, "/") + "/" + key
	}
	if r.cfg.Endpoint != "" {
		return strings.TrimRight(r.cfg.Endpoint, "/") + "/" + r.cfg.BucketName + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", r.cfg.BucketName, r.cfg.Region, key)
}
