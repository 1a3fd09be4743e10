package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// S3PutAPI is the part of the S3 client the blob store needs
type S3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3BlobStore stores blobs in an S3 (or S3-compatible) bucket
type S3BlobStore struct {
	client    S3PutAPI
	bucket    string
	objectURL func(key string) string
	logger    *zap.Logger
}

// NewS3BlobStore wraps client. objectURL maps a key to its public URL.
func NewS3BlobStore(client S3PutAPI, bucket string, objectURL func(key string) string, logger *zap.Logger) *S3BlobStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if objectURL == nil {
		objectURL = func(key string) string {
			return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key)
		}
	}
	return &S3BlobStore{
		client:    client,
		bucket:    bucket,
		objectURL: objectURL,
		logger:    logger,
	}
}

// Put uploads data under key and returns its public URL
func (s *S3BlobStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		s.logger.Error("Failed to upload to S3",
			zap.String("bucket", s.bucket),
			zap.String("key", key),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := s.objectURL(key)
	s.logger.Info("Uploaded image to S3", zap.String("url", url))
	return url, nil
}
