package minio

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"horas-backend/internal/config"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// MinioProvider stores uploaded chat images and avatars in a public-read
// bucket and hands back the URL clients embed in messages.
type MinioProvider struct {
	client    *minio.Client
	bucket    string
	maxSize   int64
	logger    *zap.Logger
	publicURL string
}

type UploadedFile struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

func NewMinioProvider(cfg *config.Config, logger *zap.Logger) (*MinioProvider, error) {
	minioURL := cfg.MinioURL
	if !strings.HasPrefix(minioURL, "http://") && !strings.HasPrefix(minioURL, "https://") {
		minioURL = "http://" + minioURL
	}

	u, err := url.Parse(minioURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse minio URL: %w", err)
	}
	secure := u.Scheme == "https"

	client, err := minio.New(u.Host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioUser, cfg.MinioPassword, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	publicURL := cfg.MinioPublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("http://%s/%s", cfg.MinioURL, cfg.MinioBucket)
	}

	provider := &MinioProvider{
		client:    client,
		bucket:    cfg.MinioBucket,
		maxSize:   cfg.MaxFileSize,
		logger:    logger,
		publicURL: publicURL,
	}

	if err := provider.ensureBucket(); err != nil {
		return nil, err
	}

	logger.Info("MinIO ready", zap.String("bucket", cfg.MinioBucket))
	return provider, nil
}

func (m *MinioProvider) ensureBucket() error {
	ctx := context.Background()

	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		m.logger.Info("Created MinIO bucket", zap.String("bucket", m.bucket))
	}

	policy := `{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Sid": "PublicReadGetObject",
				"Effect": "Allow",
				"Principal": "*",
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::` + m.bucket + `/*"]
			}
		]
	}`
	if err := m.client.SetBucketPolicy(ctx, m.bucket, policy); err != nil {
		m.logger.Warn("Failed to set bucket policy", zap.Error(err))
	}
	return nil
}

// UploadImage validates the file and streams it into the bucket under a
// random object name.
func (m *MinioProvider) UploadImage(ctx context.Context, file *multipart.FileHeader) (*UploadedFile, error) {
	if file.Size > m.maxSize {
		return nil, fmt.Errorf("el archivo supera el tamaño máximo de %d bytes", m.maxSize)
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return nil, fmt.Errorf("tipo de archivo no permitido: %s", contentType)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	objectName := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))

	_, err = m.client.PutObject(ctx, m.bucket, objectName, src, file.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store object: %w", err)
	}

	return &UploadedFile{
		Filename: objectName,
		URL:      fmt.Sprintf("%s/%s", m.publicURL, objectName),
		MimeType: contentType,
		Size:     file.Size,
	}, nil
}
