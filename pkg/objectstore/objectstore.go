// Package objectstore persists generated artifacts.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

const (
	BackendFS = "fs"
	BackendS3 = "s3"
)

var (
	ErrInvalidKey     = errors.New("invalid object key")
	ErrUnknownBackend = errors.New("unknown object store backend")
)

// Store writes artifacts by key. Put returns a location the artifact can be
// retrieved from.
type Store interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// Settings configure every backend. Each backend reads the fields it needs.
type Settings struct {
	Dir             string
	Bucket          string
	Region          string
	Profile         string
	Endpoint        string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
}

// CleanKey normalises a slash separated key and rejects keys escaping the
// store root.
func CleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", ErrInvalidKey
		}
	}
	cleaned := path.Clean(key)
	if cleaned == "." {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

// New opens the named backend.
func New(ctx context.Context, backend string, settings Settings) (Store, error) {
	switch backend {
	case BackendFS:
		return NewFSStore(ctx, settings)
	case BackendS3:
		return NewS3Store(ctx, settings)
	default:
		return nil, fmt.Errorf("%w %q, expected %s or %s", ErrUnknownBackend, backend, BackendFS, BackendS3)
	}
}
