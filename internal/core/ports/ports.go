package ports

import (
	"context"

	"inv/internal/core/domain"
)

// Repository defines the port for inventory persistence operations.
// Mutating primitives are applied one at a time by the service layer,
// which has already validated the whole batch against a snapshot.
type Repository interface {
	// Snapshot returns a consistent view of all assets and containers.
	Snapshot(ctx context.Context) (*domain.Snapshot, error)

	// WriteAsset creates or overwrites the asset file at its current path.
	WriteAsset(ctx context.Context, asset *domain.Asset) error

	// RemoveAsset deletes the asset file at the given path.
	RemoveAsset(ctx context.Context, relPath string) error

	// MakeContainer creates a container directory (with anchor), parents included.
	MakeContainer(ctx context.Context, relPath string) error

	// RemoveContainer deletes a container and everything below it.
	RemoveContainer(ctx context.Context, relPath string) error

	// Move relocates an asset file or container directory to a new path.
	Move(ctx context.Context, oldRel, newRel string) error
}

// SerialGenerator defines the port for faux serial generation. Tests
// inject deterministic sequences instead of randomness.
type SerialGenerator interface {
	// Generate returns a serial suffix of the given length (without the
	// faux prefix).
	Generate(length int) (string, error)
}

// Versioner defines the port for the version-control collaborator that
// snapshots the repository after every completed operation.
type Versioner interface {
	// Init prepares version control in the vault, if not already done.
	Init(ctx context.Context) error

	// Commit records the current state with the given message.
	Commit(ctx context.Context, message string) error

	// Restore discards uncommitted changes, returning the working tree
	// to the last committed state.
	Restore(ctx context.Context) error

	// Log returns the change history for a path, newest first.
	Log(ctx context.Context, relPath string, limit int) (string, error)
}
