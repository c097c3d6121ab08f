package uploads

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/yeti47/vidfolio/server/core/ccc/logging"
	"github.com/yeti47/vidfolio/server/core/config"
)

// MinioStore writes uploads to an S3 compatible bucket.
// Object keys are the public paths without the leading slash.
type MinioStore struct {
	logger logging.Logger
	client *minio.Client
	bucket string
}

// NewMinioStore connects to the object storage and creates the bucket when missing
func NewMinioStore(ctx context.Context, logger logging.Logger, settings config.ObjectStorageSettings) (*MinioStore, error) {
	if logger == nil {
		logger = logging.NopLogger
	}

	client, err := minio.New(settings.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(settings.AccessKey, settings.SecretKey, ""),
		Secure: settings.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, settings.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", settings.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, settings.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", settings.Bucket, err)
		}
		logger.Info("Created upload bucket", "bucket", settings.Bucket)
	}

	return &MinioStore{
		logger: logger,
		client: client,
		bucket: settings.Bucket,
	}, nil
}

func (s *MinioStore) Put(ctx context.Context, kind Kind, originalName string, content io.Reader, size int64, contentType string) (*Upload, error) {
	fileName := newFileName(originalName)
	filePath := publicPath(kind, fileName)

	info, err := s.client.PutObject(ctx, s.bucket, objectKey(filePath), content, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object: %w", err)
	}

	s.logger.Info("Stored upload in bucket", "kind", kind, "bucket", s.bucket, "file", fileName, "size", info.Size)
	return &Upload{
		FilePath: filePath,
		FileName: fileName,
		Size:     info.Size,
	}, nil
}

func (s *MinioStore) Open(ctx context.Context, filePath string) (io.ReadCloser, error) {
	key, err := cleanPath(filePath)
	if err != nil {
		return nil, err
	}

	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, &FileNotFoundError{Path: filePath}
		}
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return obj, nil
}

func objectKey(filePath string) string {
	if len(filePath) > 0 && filePath[0] == '/' {
		return filePath[1:]
	}
	return filePath
}
