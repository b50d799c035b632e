// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"
	"errors"

	"github.com/smartworkmark/seo-content-portal/internal/model"
)

// ErrNotFound is returned when a key or row does not exist.
var ErrNotFound = errors.New("not found")

// Storage is the interface for all persistence operations.
type Storage interface {
	// GetBlob returns the value stored under key, or ErrNotFound.
	GetBlob(ctx context.Context, key string) ([]byte, error)
	// PutBlob replaces the value stored under key.
	PutBlob(ctx context.Context, key string, value []byte) error

	MarkSeen(ctx context.Context, kind model.ContentKind, fingerprint string) error
	IsSeen(ctx context.Context, kind model.ContentKind, fingerprint string) (bool, error)

	RecordRefresh(ctx context.Context, run *model.RefreshRun) error
	// LastRefresh returns the most recent run from source, or from any
	// source when it is empty. It returns ErrNotFound before the first.
	LastRefresh(ctx context.Context, source model.Source) (*model.RefreshRun, error)

	Close() error
}
