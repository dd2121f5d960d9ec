package config

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds S3 client and bucket info
type S3Config struct {
	Client     *s3.Client
	BucketName string
}

// NewS3Config initializes the S3 client from the shared AWS config chain
// (environment, profile files, instance role).
func NewS3Config(ctx context.Context, cfg *Config) (*S3Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}

	return &S3Config{
		Client:     s3.NewFromConfig(awsCfg),
		BucketName: cfg.S3BucketName,
	}, nil
}

// PublicReadPolicy is the bucket policy that lets anyone fetch uploaded
// recipe images.
func (s *S3Config) PublicReadPolicy() string {
	return `{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Sid": "PublicReadRecipeUploads",
				"Effect": "Allow",
				"Principal": "*",
				"Action": "s3:GetObject",
				"Resource": "arn:aws:s3:::` + s.BucketName + `/uploads/*"
			}
		]
	}`
}

// SetupBucketPolicy applies PublicReadPolicy to the bucket.
func (s *S3Config) SetupBucketPolicy(ctx context.Context) error {
	_, err := s.Client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(s.BucketName),
		Policy: aws.String(s.PublicReadPolicy()),
	})
	return err
}
