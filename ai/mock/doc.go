// Package mock provides a test double implementation of ai.Embedder.
//
// The mock allows tests to run without external embedding services and
// enables controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	embedder := mock.NewMockEmbedder()
//	vector, err := embedder.EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return nil, ai.ErrProviderUnavailable
//	}
//
//	// Check call counts
//	count := embedder.CallCount()
//
// # Default Behavior
//
// By default MockEmbedder returns deterministic unit vectors derived from a
// hash of the input text, so identical texts always embed identically.
package mock
