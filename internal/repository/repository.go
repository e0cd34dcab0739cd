package repository

import (
	"context"
	"errors"

	"forcemap/internal/domain"
)

// ErrNotFound is returned when a named snapshot does not exist
var ErrNotFound = errors.New("snapshot not found")

// ErrInvalidName is returned for empty or oversized snapshot names
var ErrInvalidName = errors.New("invalid snapshot name")

// MaxNameLength bounds snapshot names
const MaxNameLength = 128

// SnapshotRepository defines the interface for the named snapshot library
type SnapshotRepository interface {
	// SaveSnapshot creates or replaces the snapshot called name
	SaveSnapshot(ctx context.Context, name string, snap domain.Snapshot) (domain.SnapshotInfo, error)
	// GetSnapshot loads a snapshot, or returns ErrNotFound
	GetSnapshot(ctx context.Context, name string) (domain.Snapshot, error)
	// ListSnapshots describes every stored snapshot ordered by name
	ListSnapshots(ctx context.Context) ([]domain.SnapshotInfo, error)
	// DeleteSnapshot removes a snapshot, or returns ErrNotFound
	DeleteSnapshot(ctx context.Context, name string) error

	// Close releases resources
	Close() error
}

// ValidateName checks a snapshot name
func ValidateName(name string) error {
	if name == "" || len(name) > MaxNameLength {
		return ErrInvalidName
	}
	return nil
}
