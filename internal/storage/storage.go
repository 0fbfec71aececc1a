package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// ObjectStore persists uploaded files (menu and category images) and returns
// a public URL for each stored object.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key string, r io.Reader) (string, error)
}

// DiskStore keeps objects on the local filesystem under root/bucket/key and
// serves them from baseURL.
type DiskStore struct {
	Root    string
	BaseURL string
}

func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	return &DiskStore{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiskStore) Upload(_ context.Context, bucket, key string, r io.Reader) (string, error) {
	key = sanitizeKey(key)
	dir := filepath.Join(s.Root, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: create bucket: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, key))
	if err != nil {
		return "", fmt.Errorf("storage: create object: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("storage: write object: %w", err)
	}

	return s.BaseURL + "/" + bucket + "/" + key, nil
}

// UniqueKey derives a collision-free object key from an uploaded file name.
func UniqueKey(filename string) string {
	ext := path.Ext(filename)
	return fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
}

func sanitizeKey(key string) string {
	key = path.Base(key)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, key)
}
