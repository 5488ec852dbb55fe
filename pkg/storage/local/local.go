// Package local implements storage.BlobStore on a filesystem directory.
package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	apperr "github.com/matzehuels/snapshare/pkg/errors"
	"github.com/matzehuels/snapshare/pkg/storage"
)

// contentTypeSuffix names the sidecar file holding an object's content type.
const contentTypeSuffix = ".content-type"

// Store keeps objects as files under a root directory.
type Store struct {
	root    string
	baseURL string
}

// New creates a Store rooted at dir, creating it if needed. Objects are
// reported under baseURL (see storage.PublicURL).
func New(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Store{root: dir, baseURL: baseURL}, nil
}

// Root returns the directory objects are stored in.
func (s *Store) Root() string { return s.root }

// Fetch reads the object stored under key.
func (s *Store) Fetch(ctx context.Context, key string) ([]byte, error) {
	data, _, err := s.Open(ctx, key)
	return data, err
}

// Version reports the object's size and modification time, so a photo
// edited in place gets a new cache key.
func (s *Store) Version(ctx context.Context, key string) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", storage.ErrNotFound
	case err != nil:
		return "", err
	}
	return fmt.Sprintf("%d-%d", info.Size(), info.ModTime().UnixNano()), nil
}

// Open reads the object and its content type.
func (s *Store) Open(ctx context.Context, key string) ([]byte, string, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, "", storage.ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		return nil, "", storage.ErrAccessDenied
	case err != nil:
		return nil, "", err
	}
	contentType, _ := os.ReadFile(path + contentTypeSuffix)
	return data, string(contentType), nil
}

// Put writes data under key and returns its public URL.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	if contentType != "" {
		if err := os.WriteFile(path+contentTypeSuffix, []byte(contentType), 0644); err != nil {
			return "", err
		}
	}
	return storage.PublicURL(s.baseURL, key), nil
}

func (s *Store) path(key string) (string, error) {
	if err := apperr.ValidateStorageKey(key); err != nil {
		return "", errors.Join(storage.ErrAccessDenied, err)
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

var (
	_ storage.BlobStore = (*Store)(nil)
	_ storage.Versioner = (*Store)(nil)
)
