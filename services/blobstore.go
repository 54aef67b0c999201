package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/config"
	"github.com/rpupo63/chantier-backend/errs"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3BlobStore keeps uploaded documents and photos in one bucket.
type S3BlobStore struct {
	client s3API
	bucket string
}

// NewS3BlobStore returns nil, nil when S3_BUCKET is not configured.
func NewS3BlobStore(ctx context.Context, c map[string]string) (*S3BlobStore, error) {
	bucket := config.GetString(c, "S3_BUCKET", "")
	if bucket == "" {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3BlobStore{client: s3.NewFromConfig(awsCfg), bucket: bucket}, nil
}

// BlobKey builds "<account>/<folder>/<random>.<ext>".
func BlobKey(accountID uuid.UUID, folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(accountID.String(), folder, uuid.NewString()+ext)
}

func (s *S3BlobStore) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return errs.NewStorageError("upload", err)
	}
	return nil
}

func (s *S3BlobStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errs.NewStorageError("delete", err)
	}
	return nil
}
