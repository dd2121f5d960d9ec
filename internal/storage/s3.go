package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pageza/recipebox/backend/config"
)

// S3API is the subset of the S3 client used for image storage.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3ImageStore keeps images in a public-read S3 bucket.
type S3ImageStore struct {
	client S3API
	bucket string
}

var _ ImageStore = (*S3ImageStore)(nil)

func NewS3ImageStore(client S3API, bucket string) *S3ImageStore {
	return &S3ImageStore{client: client, bucket: bucket}
}

// NewS3ImageStoreFromConfig builds the store from the shared S3 config.
func NewS3ImageStoreFromConfig(cfg *config.S3Config) *S3ImageStore {
	return NewS3ImageStore(cfg.Client, cfg.BucketName)
}

func (s *S3ImageStore) Save(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	slog.InfoContext(ctx, "uploaded image to s3", "bucket", s.bucket, "key", key)
	return nil
}

func (s *S3ImageStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

func (s *S3ImageStore) URL(key string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}
