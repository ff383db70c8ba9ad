package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"cafehub/internal/logger"
	"cafehub/internal/utils"
)

const maxUploadBytes = 5 << 20 // 5 MB

var (
	ErrFileTooLarge    = errors.New("file exceeds the size limit")
	ErrUnsupportedFile = errors.New("unsupported file type")
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var documentExtensions = map[string]bool{
	".pdf":  true,
	".csv":  true,
	".xlsx": true,
}

// UploadService writes uploaded files to local disk and hands back the URL
// they will be served under.
type UploadService struct {
	dir     string
	baseURL string
	log     *logger.Logger
}

func NewUploadService(dir, baseURL string, log *logger.Logger) *UploadService {
	return &UploadService{dir: dir, baseURL: baseURL, log: log}
}

func (s *UploadService) SaveImage(file *multipart.FileHeader) (string, error) {
	return s.save(file, imageExtensions)
}

func (s *UploadService) SaveDocument(file *multipart.FileHeader) (string, error) {
	return s.save(file, documentExtensions)
}

func (s *UploadService) save(file *multipart.FileHeader, allowed map[string]bool) (string, error) {
	if file.Size > maxUploadBytes {
		return "", ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowed[ext] {
		return "", ErrUnsupportedFile
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	name := utils.GenerateID("file") + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	url := s.baseURL + "/" + name
	s.log.LogProcess("UPLOAD", fmt.Sprintf("Stored %s (%d bytes)", name, file.Size))
	return url, nil
}
