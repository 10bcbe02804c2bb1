package minioctrl

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	ArtifactsBucket = "eval-artifacts"
)

// MinioService stores run artifacts (the score summary and the raw record
// dump) in object storage, keyed by run ID.
type MinioService struct {
	client *minio.Client
}

func NewMinioService(endpoint, accessKeyID, secretAccessKey string, useSSL bool) (*MinioService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %v", err)
	}

	return &MinioService{
		client: client,
	}, nil
}

func (s *MinioService) EnsureBucketExists(ctx context.Context, bucketName string) error {
	exists, err := s.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
	}

	return nil
}

// UploadArtifact writes one artifact under <runID>/<name>.
func (s *MinioService) UploadArtifact(ctx context.Context, runID int64, name, contentType string, data []byte) error {
	objectName := fmt.Sprintf("%d/%s", runID, name)
	reader := bytes.NewReader(data)
	_, err := s.client.PutObject(ctx, ArtifactsBucket, objectName, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload artifact %s: %v", objectName, err)
	}

	return nil
}

// GetArtifact fetches one artifact by run ID and name.
func (s *MinioService) GetArtifact(ctx context.Context, runID int64, name string) ([]byte, error) {
	objectName := fmt.Sprintf("%d/%s", runID, name)
	obj, err := s.client.GetObject(ctx, ArtifactsBucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact %s: %v", objectName, err)
	}
	defer obj.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(obj); err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %v", objectName, err)
	}

	return buf.Bytes(), nil
}
