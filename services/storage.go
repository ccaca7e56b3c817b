package services

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StorageService persists uploaded resume files on local disk under
// unique names.
type StorageService struct {
	uploadDir string
}

func NewStorageService(uploadDir string) (*StorageService, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &StorageService{uploadDir: uploadDir}, nil
}

// SaveFile writes the upload under a generated name, preserving the
// extension, and returns the stored filename.
func (s *StorageService) SaveFile(file multipart.File, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	filename := uuid.NewString() + ext
	fullPath := filepath.Join(s.uploadDir, filename)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	slog.Info("File stored", "filename", filename, "original", originalName)
	return filename, nil
}

// ReadFile returns the stored file's contents.
func (s *StorageService) ReadFile(filename string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.uploadDir, filename))
}
