package ai

import "context"

// Result holds the outcome of embedding a single batch slot.
// Exactly one of Vector or Err is set.
type Result struct {
	Vector []float32
	Err    error
}

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Failures follow the package taxonomy: ErrInvalidInput for oversized
	// text, ErrRateLimited when the provider throttles and retries are not
	// yet exhausted, ErrProviderUnavailable for transport/auth failures and
	// for exhausted retries.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings.
	// The returned slice is parallel to the input: slot i holds the vector
	// or error for texts[i]. A failure on one slot never fails the batch;
	// the returned error is reserved for failures to run the batch at all.
	EmbedTexts(ctx context.Context, texts []string) ([]Result, error)

	// Close releases resources held by the embedder. After Close is called,
	// the embedder should not be used.
	Close() error
}
