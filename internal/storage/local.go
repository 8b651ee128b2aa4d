package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorageService stores photos on the local filesystem and serves them
// back through the server's media endpoint. It stands in for a cloud bucket
// in development and in the single-node deployment.
type LocalStorageService struct {
	baseURL   string // Server URL (e.g. "http://localhost:8080")
	uploadDir string // Local directory for uploads (e.g. "./uploads")
}

func NewLocalStorageService(baseURL, uploadDir string) (*LocalStorageService, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorageService{
		baseURL:   strings.TrimRight(baseURL, "/"),
		uploadDir: uploadDir,
	}, nil
}

func (s *LocalStorageService) Save(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create object file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write object: %w", err)
	}

	return fmt.Sprintf("%s/api/v1/media/%s", s.baseURL, url.PathEscape(key)), nil
}

func (s *LocalStorageService) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

func (s *LocalStorageService) Delete(ctx context.Context, key string) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// pathFor resolves a key inside the upload directory, rejecting keys that
// would escape it.
func (s *LocalStorageService) pathFor(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key: %q", key)
	}
	return filepath.Join(s.uploadDir, clean), nil
}
