// Package ingestion provides pipeline orchestration for committing atoms.
//
// The Pipeline type manages the ingestion workflow for a source document:
//   - Parsing the document into atom records
//   - Short-circuiting atoms whose stored content hash is unchanged
//   - Generating embeddings in a batch with per-atom failure isolation
//   - Upserting embedded atoms into storage
//
// Each atom's final state is independent; the Report accounts for every
// section of the document keyed by atom id. Ingestion is idempotent: running
// it any number of times against the same document converges to the same
// store state.
package ingestion
