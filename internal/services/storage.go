package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"resumeagent/resume-agent/internal/models"
)

var ErrInvalidFileType = errors.New("only PDF files are accepted")

type StorageService interface {
	SaveFile(file *multipart.FileHeader, fileType models.DocumentType) (string, string, error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// SaveFile copies an uploaded PDF into the upload directory under a unique
// "<type>_<uuid>.pdf" name and returns that name and its full path.
func (s *storageService) SaveFile(file *multipart.FileHeader, fileType models.DocumentType) (string, string, error) {
	if !models.IsPDF(file.Filename, file.Header.Get("Content-Type")) {
		return "", "", fmt.Errorf("%s %q: %w", fileType, file.Filename, ErrInvalidFileType)
	}

	uniqueFilename := fmt.Sprintf("%s_%s.pdf", fileType, uuid.New().String())
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	return uniqueFilename, filePath, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filename)
}

func (s *storageService) DeleteFile(filename string) error {
	filePath := s.GetFilePath(filename)
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
