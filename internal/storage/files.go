package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/inkwell-hq/inkwell/pkg/logger"
	"go.uber.org/zap"
)

// Thumbnail uploads are capped well below the multipart memory limit.
const maxThumbnailSize = 10 * 1024 * 1024

// PublicPrefix is the URL prefix the static directory is served under.
const PublicPrefix = "/static"

// FileStore manages files under the static directory: uploaded
// thumbnails (served publicly) and temporary CSV exports.
type FileStore struct {
	baseDir string
}

func NewFileStore(baseDir string) (*FileStore, error) {
	for _, sub := range []string{"thumbnails", "tmp"} {
		if err := os.MkdirAll(filepath.Join(baseDir, sub), 0755); err != nil {
			return nil, err
		}
	}

	return &FileStore{baseDir: baseDir}, nil
}

// SaveThumbnail stores an uploaded thumbnail under a date-partitioned
// directory and returns its public URL path.
func (fs *FileStore) SaveThumbnail(fh *multipart.FileHeader) (string, error) {
	if fh.Size > maxThumbnailSize {
		return "", fmt.Errorf("thumbnail exceeds %d bytes", maxThumbnailSize)
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	now := time.Now()
	relDir := filepath.Join("thumbnails", now.Format("2006"), now.Format("01"), now.Format("02"))
	absDir := filepath.Join(fs.baseDir, relDir)
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return "", err
	}

	name := filepath.Base(fh.Filename)
	if name == "." || name == "" {
		name = "thumbnail"
	}
	safeName := fmt.Sprintf("%d_%s", now.UnixNano(), name)
	dstPath := filepath.Join(absDir, safeName)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	lr := &io.LimitedReader{R: src, N: maxThumbnailSize + 1}
	written, err := io.Copy(dst, lr)
	if err != nil {
		_ = os.Remove(dstPath)
		return "", err
	}
	if written > maxThumbnailSize {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("thumbnail exceeds %d bytes", maxThumbnailSize)
	}

	return PublicPrefix + "/" + filepath.ToSlash(filepath.Join(relDir, safeName)), nil
}

// Remove deletes the file behind a public URL path. Failures are logged
// and swallowed; stale files never block the primary operation.
func (fs *FileStore) Remove(publicPath string) {
	rel := strings.TrimPrefix(publicPath, PublicPrefix+"/")
	if rel == publicPath || rel == "" {
		return
	}

	abs := filepath.Join(fs.baseDir, filepath.FromSlash(rel))
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		logger.Log.Warn("Failed to remove stored file",
			zap.String("path", abs),
			zap.Error(err),
		)
	}
}

// TempFile returns an absolute path for a short-lived export file.
func (fs *FileStore) TempFile(name string) string {
	return filepath.Join(fs.baseDir, "tmp", name)
}

// RemoveAfter deletes path after the delay, once the response that
// streamed it has long completed.
func RemoveAfter(path string, delay time.Duration) {
	go func() {
		time.Sleep(delay)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Log.Warn("Failed to remove temp file",
				zap.String("path", path),
				zap.Error(err),
			)
		}
	}()
}
