package storage

import (
	"context"

	"github.com/codebang/atomkb/core"
)

// AtomRepository provides durable keyed storage of atoms plus embeddings.
// Implementations must be thread-safe and support concurrent access; Upsert
// must be atomic per atom id so concurrent writers serialize as
// last-commit-wins, and readers always observe fully committed atoms.
type AtomRepository interface {
	// Upsert inserts or replaces an atom by its AtomID.
	// Returns replaced=true when an atom with the same id already existed.
	// The embedding dimensionality of the store is fixed by the first
	// committed atom; a vector of any other length fails with
	// ErrDimensionMismatch. CreatedAt is set on first insert and preserved
	// on replace; UpdatedAt is refreshed on every commit.
	Upsert(ctx context.Context, atom *core.Atom) (replaced bool, err error)

	// Get retrieves a single atom by id.
	// Returns ErrNotFound if the atom doesn't exist.
	Get(ctx context.Context, atomID string) (*core.Atom, error)

	// GetAtoms retrieves multiple atoms by their ids.
	// Returns only the atoms that exist (no error for missing ids).
	GetAtoms(ctx context.Context, atomIDs ...string) ([]*core.Atom, error)

	// Delete removes an atom and its namespace index entry atomically.
	// Returns ErrNotFound if the atom doesn't exist.
	Delete(ctx context.Context, atomID string) error

	// Search ranks committed atoms by cosine similarity to the query vector.
	// Results are ordered by descending score; ties are broken by ascending
	// AtomID so repeated calls over an unchanged store return the identical
	// list. A non-empty namespace restricts the scan to that namespace.
	// topK must be >= 1; fewer results are returned when fewer atoms exist.
	Search(ctx context.Context, vector []float32, topK int, namespace string) ([]core.SimilarityMatch, error)

	// Stats reports the total atom count and per-namespace counts over the
	// currently committed set.
	Stats(ctx context.Context) (*core.StoreStats, error)

	// GetAllAtoms retrieves every committed atom, ordered by AtomID.
	// Used by the re-embedding tooling; not part of the serving path.
	GetAllAtoms(ctx context.Context) ([]*core.Atom, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
