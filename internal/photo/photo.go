// Package photo stores plant photos in S3-compatible object storage.
package photo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrNotConfigured is returned when no object storage credentials are set.
var ErrNotConfigured = errors.New("photo storage not configured")

// ErrUnsupportedType is returned for uploads that are not images we accept.
var ErrUnsupportedType = errors.New("unsupported image type")

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// Store uploads and serves plant photos. When storage is unconfigured,
// operations return ErrNotConfigured and plants simply have no photos.
type Store struct {
	cfg    S3Config
	client s3Client
	now    func() time.Time
}

// NewStore creates a photo store. The store is disabled when the bucket or
// credentials are missing.
func NewStore(cfg S3Config) *Store {
	st := &Store{cfg: cfg, now: time.Now}
	if cfg.Bucket != "" && cfg.AccessKey != "" && cfg.SecretKey != "" {
		st.client = newS3Client(cfg)
	}
	return st
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Configured reports whether object storage credentials are present.
func (st *Store) Configured() bool {
	return st.client != nil
}

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// Upload stores a plant photo and returns its object key. Keys are scoped by
// user and plant so deleting a plant can clean up its photos by prefix.
func (st *Store) Upload(ctx context.Context, userID, plantID int64, contentType string, body io.Reader) (string, error) {
	if st.client == nil {
		return "", ErrNotConfigured
	}
	ext, ok := extensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	key := fmt.Sprintf("photos/%d/%d/%d.%s", userID, plantID, st.now().UnixNano(), ext)

	_, err := st.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(st.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}
	return key, nil
}

// Get streams a stored photo. The caller must close the returned reader.
func (st *Store) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if st.client == nil {
		return nil, "", ErrNotConfigured
	}

	out, err := st.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(st.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("get photo: %w", err)
	}

	contentType := "application/octet-stream"
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	return out.Body, contentType, nil
}

// Delete removes a stored photo. Deleting a missing key is not an error.
func (st *Store) Delete(ctx context.Context, key string) error {
	if st.client == nil {
		return ErrNotConfigured
	}

	_, err := st.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(st.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	return nil
}
