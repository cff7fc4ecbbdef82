package storage

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNotFound   = errors.New("stored file not found")
	ErrInvalidKey = errors.New("invalid storage key")
)

// FileStore keeps the original resume bytes.
type FileStore interface {
	// Put writes data under key and returns the public URL of the object.
	Put(ctx context.Context, key string, data []byte, contentType string, meta map[string]string) (string, error)
	// Delete removes key, returning ErrNotFound when nothing is stored there.
	Delete(ctx context.Context, key string) error
}

func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}
