package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	appconfig "github.com/devhire/backend/internal/config"
	"github.com/devhire/backend/internal/domain"
)

type s3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3Store builds an S3 (or MinIO) backed image store. The base
// endpoint is optional; without it the standard AWS URL scheme is used.
func NewS3Store(ctx context.Context, cfg *appconfig.Config) (*s3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	if cfg.S3BaseEndpoint != "" {
		baseURL = fmt.Sprintf("%s/%s", cfg.S3BaseEndpoint, cfg.S3Bucket)
	}

	return &s3Store{
		client:  client,
		bucket:  cfg.S3Bucket,
		baseURL: baseURL,
	}, nil
}

func (s *s3Store) Upload(ctx context.Context, folder string, data []byte, contentType string) (domain.Upload, error) {
	key := fmt.Sprintf("%s/%s", folder, uuid.New())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return domain.Upload{}, err
	}

	return domain.Upload{
		URL: fmt.Sprintf("%s/%s", s.baseURL, key),
		Key: key,
	}, nil
}

func (s *s3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
