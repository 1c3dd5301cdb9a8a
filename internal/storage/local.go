package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/stayspot/stayspot/pkg/config"
)

var (
	ErrTooManyFiles      = errors.New("too many files in upload")
	ErrFileTooLarge      = errors.New("file exceeds the maximum allowed size")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Local stores uploaded images on the local filesystem and serves them by
// URL path under the output directory.
type Local struct {
	dir         string
	maxFileSize int64
	maxFiles    int
}

func NewLocal(cfg config.UploadConfig) (*Local, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Local{
		dir:         filepath.ToSlash(filepath.Clean(cfg.OutputDir)),
		maxFileSize: cfg.MaxFileSize,
		maxFiles:    cfg.MaxFiles,
	}, nil
}

// Dir returns the directory files are written to, for static file serving.
func (l *Local) Dir() string {
	return l.dir
}

// SaveAll writes every file in the batch under a random name and returns
// their URLs in input order. The batch is all-or-nothing; on any failure the
// files written so far are removed again.
func (l *Local) SaveAll(files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > l.maxFiles {
		return nil, ErrTooManyFiles
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := l.save(fh)
		if err != nil {
			for _, saved := range urls {
				l.Remove(saved)
			}
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (l *Local) save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > l.maxFileSize {
		return "", fmt.Errorf("%w: %s", ErrFileTooLarge, fh.Filename)
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, fh.Filename)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(l.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, l.maxFileSize)); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return "/" + path.Join(l.dir, name), nil
}

// Remove deletes a stored file given its public URL. URLs pointing outside
// the upload directory are rejected.
func (l *Local) Remove(url string) error {
	rel := strings.TrimPrefix(url, "/")
	clean := path.Clean(rel)
	if !strings.HasPrefix(clean, l.dir+"/") {
		return fmt.Errorf("url %q is outside the upload directory", url)
	}
	err := os.Remove(filepath.FromSlash(clean))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
