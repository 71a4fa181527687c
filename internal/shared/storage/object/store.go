// Package object reads documents from blob storage by key.
package object

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// ErrNotFound is returned when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// Store opens stored objects for reading.
type Store interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Location is a parsed s3://bucket/key reference.
type Location struct {
	Bucket string
	Key    string
}

// IsS3 reports whether raw names an S3 object.
func IsS3(raw string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(raw)), "s3://")
}

// ParseS3 splits an s3://bucket/key URL.
func ParseS3(raw string) (Location, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Location{}, fmt.Errorf("parse object url: %w", err)
	}
	if !strings.EqualFold(u.Scheme, "s3") {
		return Location{}, fmt.Errorf("unsupported object scheme %q", u.Scheme)
	}
	loc := Location{Bucket: u.Host, Key: strings.TrimLeft(u.Path, "/")}
	if loc.Bucket == "" || loc.Key == "" {
		return Location{}, fmt.Errorf("object url %q needs a bucket and a key", raw)
	}
	return loc, nil
}

// ReadAll opens key and reads it fully.
func ReadAll(ctx context.Context, s Store, key string) ([]byte, error) {
	rc, err := s.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
