// Package reembed provides functionality for regenerating the embeddings of
// every committed atom, for example after an embedding model revision.
//
// This package supports batch processing of atoms, progress tracking, retry
// logic with exponential backoff, and vector normalization. The store's
// dimensionality invariant still applies: re-embedding refreshes vectors, it
// does not change their dimensionality. A model producing a different
// dimensionality fails the run with a dimension mismatch.
package reembed
