package photo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// =============================================================================
// LocalSource Implementation
// =============================================================================

// LocalSource implements the Source interface on the local filesystem.
//
// Security: Path traversal prevention is enforced in resolvePath().
type LocalSource struct {
	basePath string // Root directory photos are read from
	logger   *slog.Logger
}

// NewLocalSource creates a LocalSource rooted at cfg.BasePath.
// The directory must already exist.
func NewLocalSource(cfg LocalConfig, logger *slog.Logger) (*LocalSource, error) {
	absPath, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base path: %w", err)
	}

	stat, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open photo directory: %w", err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("photo path %s is not a directory", absPath)
	}

	logger.Info("initialized local photo source", "base_path", absPath)

	return &LocalSource{
		basePath: absPath,
		logger:   logger,
	}, nil
}

// =============================================================================
// Interface Implementation
// =============================================================================

// Open retrieves the photo at the specified key.
func (s *LocalSource) Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	if ctx.Err() != nil {
		return nil, ObjectInfo{}, ctx.Err()
	}

	filePath, err := s.resolvePath(key)
	if err != nil {
		return nil, ObjectInfo{}, &SourceError{Op: "Open", Key: key, Err: err}
	}

	stat, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ObjectInfo{}, &SourceError{Op: "Open", Key: key, Err: ErrNotFound}
		}
		return nil, ObjectInfo{}, &SourceError{Op: "Open", Key: key, Err: fmt.Errorf("failed to stat file: %w", err)}
	}
	if stat.IsDir() {
		return nil, ObjectInfo{}, &SourceError{Op: "Open", Key: key, Err: ErrNotFound}
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, ObjectInfo{}, &SourceError{Op: "Open", Key: key, Err: fmt.Errorf("failed to open file: %w", err)}
	}

	info := ObjectInfo{
		Key:          key,
		Size:         stat.Size(),
		ContentType:  DetectContentType("", key),
		LastModified: stat.ModTime(),
	}

	s.logger.Debug("opened photo", "key", key, "size", info.Size)

	return file, info, nil
}

// =============================================================================
// Internal Helpers
// =============================================================================

// resolvePath converts a photo key to an absolute file path inside basePath.
// Keys with ".." components or that resolve outside basePath are rejected.
func (s *LocalSource) resolvePath(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}

	cleanKey := filepath.Clean(key)
	if strings.Contains(cleanKey, "..") || filepath.IsAbs(key) {
		return "", ErrInvalidKey
	}

	absPath := filepath.Join(s.basePath, cleanKey)
	if !strings.HasPrefix(absPath, s.basePath+string(filepath.Separator)) {
		return "", ErrInvalidKey
	}

	return absPath, nil
}
