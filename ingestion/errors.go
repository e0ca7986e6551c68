package ingestion

import "errors"

var (
	// ErrAtomRepositoryRequired is returned when an atom repository is not provided.
	ErrAtomRepositoryRequired = errors.New("atom repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrNamespaceRequired is returned when ingestion is called without a namespace.
	ErrNamespaceRequired = errors.New("namespace required")
)
