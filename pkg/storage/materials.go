package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "campushub/pkg/errors"
	"campushub/pkg/sanitizer"

	"github.com/google/uuid"
)

var allowedMaterialExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".ppt":  {},
	".pptx": {},
	".txt":  {},
}

// MaterialStore persists lecture material files and hands back a stable
// key that can be stored on the course document.
type MaterialStore interface {
	Save(ctx context.Context, courseCode, fileName string, content io.Reader) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

type FilesystemStore struct {
	baseDir string
	maxSize int64
}

func NewFilesystemStore(baseDir string, maxSize int64) (*FilesystemStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating materials directory %q: %w", baseDir, err)
	}
	return &FilesystemStore{baseDir: baseDir, maxSize: maxSize}, nil
}

func (s *FilesystemStore) Save(ctx context.Context, courseCode, fileName string, content io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	clean := sanitizer.SanitizeFileName(fileName)
	ext := strings.ToLower(filepath.Ext(clean))
	if _, ok := allowedMaterialExtensions[ext]; !ok {
		return "", apperrors.Validation(fmt.Sprintf("unsupported material file type: %s", ext), nil)
	}

	key := filepath.Join(sanitizer.NormalizeCourseCode(courseCode), uuid.NewString()+"_"+clean)
	path := filepath.Join(s.baseDir, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating course directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating material file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, io.LimitReader(content, s.maxSize+1))
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("writing material file: %w", err)
	}
	if written > s.maxSize {
		_ = os.Remove(path)
		return "", apperrors.Validation(fmt.Sprintf("material exceeds maximum upload size of %d bytes", s.maxSize), nil)
	}

	return key, nil
}

func (s *FilesystemStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound("lecture material")
		}
		return nil, fmt.Errorf("opening material file: %w", err)
	}
	return f, nil
}

func (s *FilesystemStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing material file: %w", err)
	}
	return nil
}

// resolve rejects keys that escape the base directory.
func (s *FilesystemStore) resolve(key string) (string, error) {
	path := filepath.Join(s.baseDir, filepath.Clean("/"+key))
	rel, err := filepath.Rel(s.baseDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", apperrors.InvalidInput("invalid material key")
	}
	return path, nil
}
