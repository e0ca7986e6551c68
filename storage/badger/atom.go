package badger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/codebang/atomkb/core"
	"github.com/codebang/atomkb/storage"
	"github.com/dgraph-io/badger/v4"
)

// checkEvery is how many scanned keys pass between context checks during
// iteration.
const checkEvery = 256

// AtomRepository implements storage.AtomRepository for BadgerDB.
type AtomRepository struct {
	backend *Backend
}

var _ storage.AtomRepository = (*AtomRepository)(nil)

// NewAtomRepository creates a new AtomRepository.
func NewAtomRepository(backend *Backend) (*AtomRepository, error) {
	return &AtomRepository{
		backend: backend,
	}, nil
}

// Close releases resources. AtomRepository has no resources to release.
func (r *AtomRepository) Close() error {
	return nil
}

// Upsert inserts or replaces an atom by its AtomID.
// Concurrent upserts of the same id serialize as last-commit-wins: a commit
// that loses a BadgerDB conflict is retried against the winner's state, so a
// partial interleaving of two writes can never be observed.
func (r *AtomRepository) Upsert(ctx context.Context, atom *core.Atom) (bool, error) {
	if err := core.ValidateAtom(atom); err != nil {
		return false, err
	}

	for {
		if err := ctxErr(ctx); err != nil {
			return false, err
		}

		replaced, err := r.upsertOnce(atom)
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		return replaced, err
	}
}

func (r *AtomRepository) upsertOnce(atom *core.Atom) (replaced bool, err error) {
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		// Enforce the store-wide embedding dimensionality. The first
		// committed atom fixes it; every later vector must agree.
		dim, err := readDimension(tx)
		if err != nil {
			return err
		}
		if dim == 0 {
			if len(atom.Vector) == 0 {
				return fmt.Errorf("%w: cannot commit atom %q without an embedding", storage.ErrDimensionMismatch, atom.AtomID)
			}
			if err := tx.Set([]byte(atomDimensionKey), []byte(strconv.Itoa(len(atom.Vector)))); err != nil {
				return err
			}
		} else if len(atom.Vector) != dim {
			return fmt.Errorf("%w: atom %q has %d dimensions, store has %d",
				storage.ErrDimensionMismatch, atom.AtomID, len(atom.Vector), dim)
		}

		key := makeAtomKey(atom.AtomID)
		existing, err := readAtom(tx, key)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if existing != nil {
			replaced = true
			atom.CreatedAt = existing.CreatedAt
		} else {
			atom.CreatedAt = now
		}
		atom.UpdatedAt = now

		if err := tx.Set(key, storage.MarshalAtom(atom)); err != nil {
			return err
		}

		// Maintain the namespace index
		if existing != nil && existing.Namespace != atom.Namespace {
			if err := tx.Delete(makeNamespaceKey(existing.Namespace, atom.AtomID)); err != nil {
				return err
			}
		}
		if err := tx.Set(makeNamespaceKey(atom.Namespace, atom.AtomID), []byte{}); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
	return replaced, err
}

// Get retrieves a single atom by id.
func (r *AtomRepository) Get(ctx context.Context, atomID string) (*core.Atom, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	var result *core.Atom
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readAtom(tx, makeAtomKey(atomID))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetAtoms retrieves multiple atoms by their ids. Missing ids are skipped.
func (r *AtomRepository) GetAtoms(ctx context.Context, atomIDs ...string) ([]*core.Atom, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	var result []*core.Atom
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range atomIDs {
			atom, err := readAtom(tx, makeAtomKey(id))
			if err != nil {
				return err
			}
			if atom != nil {
				result = append(result, atom)
			}
		}
		return nil
	}, false)
	return result, err
}

// Delete removes an atom and its namespace index entry atomically.
func (r *AtomRepository) Delete(ctx context.Context, atomID string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeAtomKey(atomID)

		// Read the atom to find its namespace for index cleanup
		atom, err := readAtom(tx, key)
		if err != nil {
			return err
		}
		if atom == nil {
			return storage.ErrNotFound
		}

		if err := tx.Delete(makeNamespaceKey(atom.Namespace, atomID)); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Search ranks committed atoms by cosine similarity to the query vector.
func (r *AtomRepository) Search(ctx context.Context, vector []float32, topK int, namespace string) ([]core.SimilarityMatch, error) {
	if topK < 1 {
		return nil, fmt.Errorf("%w: topK must be >= 1, got %d", storage.ErrInvalidQuery, topK)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: query vector is empty", storage.ErrInvalidQuery)
	}

	var matches []core.SimilarityMatch
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(atomRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		scanned := 0
		for iter.Rewind(); iter.Valid(); iter.Next() {
			scanned++
			if scanned%checkEvery == 0 {
				if err := ctxErr(ctx); err != nil {
					return err
				}
			}

			var atom *core.Atom
			err := iter.Item().Value(func(val []byte) error {
				var err error
				atom, err = storage.UnmarshalAtom(val)
				return err
			})
			if err != nil {
				return err
			}
			if atom == nil || len(atom.Vector) == 0 {
				continue
			}
			if namespace != "" && atom.Namespace != namespace {
				continue
			}

			matches = append(matches, core.SimilarityMatch{
				AtomID: atom.AtomID,
				Score:  cosineSimilarity(vector, atom.Vector),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Descending by score; ties broken by ascending atom id so repeated
	// searches over an unchanged store return the identical ordering.
	slices.SortFunc(matches, func(a, b core.SimilarityMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return strings.Compare(a.AtomID, b.AtomID)
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Stats reports total and per-namespace atom counts.
// Served entirely from the namespace index, no record scan.
func (r *AtomRepository) Stats(ctx context.Context) (*core.StoreStats, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	stats := &core.StoreStats{Namespaces: make(map[string]int)}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(atomNamespacePrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			ns := splitNamespaceKey(iter.Item().Key())
			if ns == "" {
				continue
			}
			stats.Namespaces[ns]++
			stats.TotalAtoms++
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// GetAllAtoms retrieves every committed atom, ordered by AtomID.
func (r *AtomRepository) GetAllAtoms(ctx context.Context) ([]*core.Atom, error) {
	var results []*core.Atom
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(atomRecordPrefix + ":")
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		scanned := 0
		for iter.Rewind(); iter.Valid(); iter.Next() {
			scanned++
			if scanned%checkEvery == 0 {
				if err := ctxErr(ctx); err != nil {
					return err
				}
			}

			var atom *core.Atom
			err := iter.Item().Value(func(val []byte) error {
				var err error
				atom, err = storage.UnmarshalAtom(val)
				return err
			})
			if err != nil {
				return err
			}
			if atom != nil {
				results = append(results, atom)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Helper functions

// readAtom reads an atom from the transaction. Returns nil when absent.
func readAtom(tx *badger.Txn, key []byte) (*core.Atom, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var atom *core.Atom
	err = item.Value(func(val []byte) error {
		var err error
		atom, err = storage.UnmarshalAtom(val)
		return err
	})
	return atom, err
}

// readDimension reads the store's fixed embedding dimensionality.
// Returns 0 when no atom has been committed yet.
func readDimension(tx *badger.Txn) (int, error) {
	item, err := tx.Get([]byte(atomDimensionKey))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}

	var dim int
	err = item.Value(func(val []byte) error {
		var err error
		dim, err = strconv.Atoi(string(val))
		return err
	})
	return dim, err
}

// cosineSimilarity computes the normalized dot product of two vectors.
// Vectors are assumed to be the same length (the store enforces it).
func cosineSimilarity(a, b []float32) float32 {
	var dot, normA, normB float32
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}

// ctxErr maps context errors to the storage error taxonomy.
func ctxErr(ctx context.Context) error {
	err := ctx.Err()
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", storage.ErrTimeout, err)
	}
	return err
}
