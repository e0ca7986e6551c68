package openai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/codebang/atomkb/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient implements embeddings.Embedder with scripted responses.
type fakeClient struct {
	vectors   [][]float32
	errs      []error // consumed one per call; nil entries mean success
	calls     int
	lastTexts []string
}

func (f *fakeClient) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	f.lastTexts = texts
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	if f.vectors != nil {
		return f.vectors, nil
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = []float32{0.1, 0.2, 0.3}
	}
	return result, nil
}

func (f *fakeClient) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := f.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func testConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithModel("test-model"),
		ai.WithMaxRetries(2),
		ai.WithRetryBaseDelay(time.Millisecond),
	)
}

func TestNewEmbedder(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		embedder, err := NewEmbedder(testConfig())
		require.NoError(t, err)
		require.NotNil(t, embedder)
		assert.NoError(t, embedder.Close())
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := testConfig()
		cfg.Model = ""
		_, err := NewEmbedder(cfg)
		assert.Error(t, err)
	})
}

func TestEmbedText(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		client := &fakeClient{}
		embedder, err := newEmbedderWithClient(client, testConfig())
		require.NoError(t, err)
		defer embedder.Close()

		vector, err := embedder.EmbedText(ctx, "hello")
		require.NoError(t, err)
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)
		assert.Equal(t, 1, client.calls)
	})

	t.Run("oversized input", func(t *testing.T) {
		cfg := testConfig()
		cfg.MaxInputBytes = 8
		client := &fakeClient{}
		embedder, err := newEmbedderWithClient(client, cfg)
		require.NoError(t, err)
		defer embedder.Close()

		_, err = embedder.EmbedText(ctx, strings.Repeat("x", 9))
		assert.ErrorIs(t, err, ai.ErrInvalidInput)
		assert.Equal(t, 0, client.calls, "oversized input must not reach the provider")
	})

	t.Run("rate limit retried until success", func(t *testing.T) {
		client := &fakeClient{
			errs: []error{
				errors.New("429 too many requests"),
				errors.New("429 too many requests"),
				nil,
			},
		}
		embedder, err := newEmbedderWithClient(client, testConfig())
		require.NoError(t, err)
		defer embedder.Close()

		vector, err := embedder.EmbedText(ctx, "hello")
		require.NoError(t, err)
		assert.NotEmpty(t, vector)
		assert.Equal(t, 3, client.calls)
	})

	t.Run("rate limit exhausts retries", func(t *testing.T) {
		client := &fakeClient{
			errs: []error{
				errors.New("429 too many requests"),
				errors.New("429 too many requests"),
				errors.New("429 too many requests"),
			},
		}
		embedder, err := newEmbedderWithClient(client, testConfig())
		require.NoError(t, err)
		defer embedder.Close()

		_, err = embedder.EmbedText(ctx, "hello")
		assert.ErrorIs(t, err, ai.ErrProviderUnavailable)
		// MaxRetries=2 means 3 attempts total
		assert.Equal(t, 3, client.calls)
	})

	t.Run("non-retryable error fails immediately", func(t *testing.T) {
		client := &fakeClient{
			errs: []error{errors.New("connection refused")},
		}
		embedder, err := newEmbedderWithClient(client, testConfig())
		require.NoError(t, err)
		defer embedder.Close()

		_, err = embedder.EmbedText(ctx, "hello")
		assert.ErrorIs(t, err, ai.ErrProviderUnavailable)
		assert.Equal(t, 1, client.calls)
	})

	t.Run("cancelled context stops the backoff wait", func(t *testing.T) {
		client := &fakeClient{
			errs: []error{errors.New("429 too many requests")},
		}
		cfg := testConfig()
		cfg.RetryBaseDelay = time.Minute
		embedder, err := newEmbedderWithClient(client, cfg)
		require.NoError(t, err)
		defer embedder.Close()

		cctx, cancel := context.WithCancel(ctx)
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		start := time.Now()
		_, err = embedder.EmbedText(cctx, "hello")
		assert.Error(t, err)
		assert.Less(t, time.Since(start), 10*time.Second)
	})
}

func TestEmbedTexts(t *testing.T) {
	ctx := context.Background()

	t.Run("all slots succeed", func(t *testing.T) {
		client := &fakeClient{}
		embedder, err := newEmbedderWithClient(client, testConfig())
		require.NoError(t, err)
		defer embedder.Close()

		results, err := embedder.EmbedTexts(ctx, []string{"one", "two", "three"})
		require.NoError(t, err)
		require.Len(t, results, 3)
		for i, res := range results {
			assert.NoError(t, res.Err, "slot %d", i)
			assert.NotEmpty(t, res.Vector, "slot %d", i)
		}
	})

	t.Run("slots fail independently", func(t *testing.T) {
		cfg := testConfig()
		cfg.MaxInputBytes = 8
		client := &fakeClient{}
		embedder, err := newEmbedderWithClient(client, cfg)
		require.NoError(t, err)
		defer embedder.Close()

		results, err := embedder.EmbedTexts(ctx, []string{"ok", strings.Repeat("x", 9), "fine"})
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.NoError(t, results[0].Err)
		assert.ErrorIs(t, results[1].Err, ai.ErrInvalidInput)
		assert.Nil(t, results[1].Vector)
		assert.NoError(t, results[2].Err)
	})

	t.Run("empty input", func(t *testing.T) {
		embedder, err := newEmbedderWithClient(&fakeClient{}, testConfig())
		require.NoError(t, err)
		defer embedder.Close()

		results, err := embedder.EmbedTexts(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"http 429", errors.New("API returned unexpected status code: 429"), ai.ErrRateLimited},
		{"rate limit text", errors.New("rate limit exceeded"), ai.ErrRateLimited},
		{"too many requests", errors.New("Too Many Requests"), ai.ErrRateLimited},
		{"deadline", context.DeadlineExceeded, ai.ErrProviderUnavailable},
		{"other", errors.New("connection refused"), ai.ErrProviderUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestBackoffDelay(t *testing.T) {
	base := 100 * time.Millisecond

	for attempt := 1; attempt <= 4; attempt++ {
		exp := base << (attempt - 1)
		for i := 0; i < 10; i++ {
			delay := backoffDelay(base, attempt)
			assert.GreaterOrEqual(t, delay, exp, "attempt %d", attempt)
			assert.LessOrEqual(t, delay, exp+exp/2, "attempt %d", attempt)
		}
	}
}
