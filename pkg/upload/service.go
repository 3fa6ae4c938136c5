package upload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/minio/minio-go/v7"
)

func NewService(logger *slog.Logger, objectStore ObjectStore, endpoint string, bucket string, useSSL bool) *Service {
	return &Service{
		logger:      logger,
		objectStore: objectStore,
		endpoint:    endpoint,
		bucket:      bucket,
		useSSL:      useSSL,
	}
}

// ObjectStore defines the methods we need from the MinIO client.
type ObjectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type Service struct {
	logger      *slog.Logger
	objectStore ObjectStore
	endpoint    string
	bucket      string
	useSSL      bool
}

// Upload stores the file and returns the URL it is served under. Object names
// are slugged and suffixed with a random id so uploads never collide.
func (s Service) Upload(ctx context.Context, filename string, contentType string, size int64, file io.Reader) (string, error) {
	objectName := objectName(filename)

	info, err := s.objectStore.PutObject(ctx, s.bucket, objectName, file, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store %q: %v", objectName, err)
	}

	s.logger.InfoContext(ctx, "Uploaded file", "objectName", objectName, "size", info.Size)

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, objectName), nil
}

func objectName(filename string) string {
	extension := path.Ext(filename)
	name := strings.TrimSuffix(filename, extension)
	return fmt.Sprintf("%s-%s%s", slug.Make(name), uuid.NewString(), extension)
}
