// Package storage provides the S3-compatible object storage collaborator
// used for post media uploads.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	appcfg "ripple/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// File is an in-memory upload buffer with its original name and MIME type.
type File struct {
	Name     string
	MimeType string
	Data     []byte
}

// Stored describes a successfully uploaded object.
type Stored struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// Service is the storage collaborator contract the post service depends on.
// Upload failures are compensated by DeleteFile calls; neither participates
// in the SQL transaction.
type Service interface {
	UploadFile(ctx context.Context, userID uint, file File, subfolder string) (*Stored, error)
	DeleteFile(ctx context.Context, key string) error
}

type s3Service struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// New builds an S3-backed storage service from the application config.
func New(cfg *appcfg.Config) (Service, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.StorageAccessKey, cfg.StorageSecretKey, "")),
		awsconfig.WithRegion(cfg.StorageRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage credentials: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.StorageEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.StorageEndpoint)
		}
		o.UsePathStyle = true
	})

	return &s3Service{
		client:    client,
		bucket:    cfg.StorageBucket,
		publicURL: strings.TrimRight(cfg.StoragePublicURL, "/"),
	}, nil
}

// ObjectKey builds a collision-resistant key scoped by user and subfolder.
func ObjectKey(userID uint, subfolder, filename string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	ext := path.Ext(filename)
	return fmt.Sprintf("%s/%d/%s%s", subfolder, userID, id, ext), nil
}

func (s *s3Service) UploadFile(ctx context.Context, userID uint, file File, subfolder string) (*Stored, error) {
	key, err := ObjectKey(userID, subfolder, file.Name)
	if err != nil {
		return nil, err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file.Data),
		ContentType: aws.String(file.MimeType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", file.Name, err)
	}

	return &Stored{
		URL:      fmt.Sprintf("%s/%s", s.publicURL, key),
		Key:      key,
		MimeType: file.MimeType,
		Size:     int64(len(file.Data)),
	}, nil
}

func (s *s3Service) DeleteFile(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
