package supabase

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(supabaseURL, serviceRoleKey, bucket string) (*StorageClient, error) {
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	client := storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// PhotoPath builds the storage path for an uploaded photo:
// photos/{userID}/{timestamp}.{ext}. The nanosecond component keeps photos
// uploaded within the same second from colliding.
func PhotoPath(userID uuid.UUID, originalFilename string, now time.Time) string {
	ext := strings.TrimPrefix(path.Ext(originalFilename), ".")
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("photos/%s/%d.%s", userID.String(), now.UnixNano(), ext)
}

// UploadPhoto stores one photo binary and returns its storage path and
// public URL.
func (s *StorageClient) UploadPhoto(userID uuid.UUID, originalFilename string, data []byte) (string, string, error) {
	storagePath := PhotoPath(userID, originalFilename, time.Now())

	contentType := "image/jpeg"
	upsert := true
	_, err := s.client.UploadFile(s.bucket, storagePath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload photo: %w", err)
	}

	return storagePath, s.GetPublicURL(storagePath), nil
}

func (s *StorageClient) GetPublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, storagePath)
}

func (s *StorageClient) DeleteFile(storagePath string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{storagePath})
	return err
}

// DeleteUserPhotos removes every stored photo for a user.
func (s *StorageClient) DeleteUserPhotos(userID uuid.UUID) error {
	prefix := fmt.Sprintf("photos/%s/", userID.String())

	files, err := s.client.ListFiles(s.bucket, prefix, storage.FileSearchOptions{
		Limit: 1000,
	})
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	if len(files) > 0 {
		filePaths := make([]string, len(files))
		for i, file := range files {
			filePaths[i] = file.Name
		}
		if _, err := s.client.RemoveFile(s.bucket, filePaths); err != nil {
			return fmt.Errorf("failed to delete files: %w", err)
		}
	}

	return nil
}

func (s *StorageClient) DownloadFile(storagePath string) ([]byte, error) {
	data, err := s.client.DownloadFile(s.bucket, storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	return data, nil
}
