package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/codebang/atomkb/ai"
	"github.com/panjf2000/ants/v2"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
// Rate-limited calls are retried with exponential backoff and jitter; batch
// calls fan out over a fixed-size worker pool.
type Embedder struct {
	embedder       embeddings.Embedder
	pool           *ants.Pool
	maxInputBytes  int
	maxRetries     int
	retryBaseDelay time.Duration
	logger         *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for embeddings.
	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication.
	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	inner, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return newEmbedderWithClient(inner, config)
}

// newEmbedderWithClient wires a pre-built langchaingo embedder.
// Split out so tests can inject a fake client.
func newEmbedderWithClient(inner embeddings.Embedder, config *ai.Config) (*Embedder, error) {
	pool, err := ants.NewPool(config.PoolSize)
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder:       inner,
		pool:           pool,
		maxInputBytes:  config.MaxInputBytes,
		maxRetries:     config.MaxRetries,
		retryBaseDelay: config.RetryBaseDelay,
		logger:         slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// Close releases the batch worker pool.
// The embedder should not be used after calling Close.
func (e *Embedder) Close() error {
	e.pool.Release()
	return nil
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if len(text) > e.maxInputBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d", ai.ErrInvalidInput, len(text), e.maxInputBytes)
	}

	attempts := e.maxRetries + 1
	for attempt := 1; ; attempt++ {
		vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
		if err == nil {
			if len(vectors) == 0 {
				return nil, fmt.Errorf("%w: provider returned empty result", ai.ErrProviderUnavailable)
			}
			if attempt > 1 {
				e.logger.Debug("embedding succeeded after retry", "attempt", attempt)
			}
			return vectors[0], nil
		}

		classified := classify(err)
		if !errors.Is(classified, ai.ErrRateLimited) {
			e.logger.Error("failed to generate embedding", "err", err)
			return nil, classified
		}
		if attempt == attempts {
			return nil, fmt.Errorf("%w: rate limited after %d attempts: %w", ai.ErrProviderUnavailable, attempt, err)
		}

		delay := backoffDelay(e.retryBaseDelay, attempt)
		e.logger.Debug("rate limited, backing off", "attempt", attempt, "delay", delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, classify(ctx.Err())
		case <-timer.C:
		}
	}
}

// EmbedTexts generates embeddings for multiple texts.
// Sub-requests run on the worker pool; each slot succeeds or fails on its
// own, so one oversized text never poisons the rest of the batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([]ai.Result, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	results := make([]ai.Result, len(texts))
	var wg sync.WaitGroup
	for i := range texts {
		wg.Add(1)
		err := e.pool.Submit(func() {
			defer wg.Done()
			vector, err := e.EmbedText(ctx, texts[i])
			results[i] = ai.Result{Vector: vector, Err: err}
		})
		if err != nil {
			wg.Done()
			results[i] = ai.Result{Err: fmt.Errorf("%w: %w", ai.ErrProviderUnavailable, err)}
		}
	}
	wg.Wait()

	return results, nil
}

// classify maps raw provider errors onto the ai package taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", ai.ErrProviderUnavailable, err)
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "too many requests") {
		return fmt.Errorf("%w: %w", ai.ErrRateLimited, err)
	}
	return fmt.Errorf("%w: %w", ai.ErrProviderUnavailable, err)
}

// backoffDelay computes baseDelay * 2^(attempt-1) plus up to 50% jitter.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	if delay > 0 {
		delay += rand.N(delay/2 + 1)
	}
	return delay
}
