// Package media stores memory attachments in an S3 compatible bucket.
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

var (
	ErrInvalidDataURL = errors.New("media: data url must look like data:<mime>;base64,<payload>")
	ErrInvalidPath    = errors.New("media: object path is required")

	errMissingBucket = errors.New("media: bucket is required")
	noOpLogger       = zap.NewNop()
)

// objectPutter is the slice of the S3 client the storage needs.
type objectPutter interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// StorageConfig carries the bucket coordinates. Endpoint is optional and
// points the client at a MinIO or other S3 compatible service.
type StorageConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	Bucket          string
	PublicBaseURL   string
	Logger          *zap.Logger
}

// Storage uploads base64 data URLs as publicly addressable objects.
type Storage struct {
	client        objectPutter
	bucket        string
	publicBaseURL string
	logger        *zap.Logger
}

// NewStorage builds a Storage backed by a real S3 client.
func NewStorage(ctx context.Context, cfg StorageConfig) (*Storage, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errMissingBucket
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("media: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newStorage(client, cfg), nil
}

func newStorage(client objectPutter, cfg StorageConfig) *Storage {
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	publicBase := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &Storage{client: client, bucket: cfg.Bucket, publicBaseURL: publicBase, logger: logger}
}

// UploadDataURL decodes a data:<mime>;base64 payload, writes it under path
// and returns the public URL of the object.
func (s *Storage) UploadDataURL(ctx context.Context, dataURL, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrInvalidPath
	}
	contentType, payload, err := splitDataURL(dataURL)
	if err != nil {
		return "", err
	}

	body, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(path),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error("media upload failed", zap.String("path", path), zap.Error(err))
		return "", fmt.Errorf("media: put object: %w", err)
	}

	s.logger.Info("media uploaded", zap.String("path", path), zap.Int("bytes", len(body)))
	return s.publicBaseURL + "/" + path, nil
}

func splitDataURL(dataURL string) (contentType, payload string, err error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return "", "", ErrInvalidDataURL
	}
	meta, payload, found := strings.Cut(dataURL[len("data:"):], ",")
	if !found || !strings.HasSuffix(meta, ";base64") {
		return "", "", ErrInvalidDataURL
	}
	contentType = strings.TrimSuffix(meta, ";base64")
	if contentType == "" {
		return "", "", ErrInvalidDataURL
	}
	return contentType, payload, nil
}

// MemoryImagePath names the object for a memory photo.
func MemoryImagePath(memoryID string, now time.Time) string {
	return fmt.Sprintf("memories/%s_%d.jpg", memoryID, now.UTC().UnixMilli())
}
