package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/codebang/atomkb/ai"
	"github.com/codebang/atomkb/core"
	"github.com/codebang/atomkb/storage"
)

// BatchProcessor handles embedding regeneration for batches of atoms.
type BatchProcessor struct {
	repo           storage.AtomRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo storage.AtomRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process regenerates embeddings for a batch of atoms and upserts them.
// Vectors are normalized after embedding to keep cosine similarity stable.
func (bp *BatchProcessor) Process(ctx context.Context, atoms []*core.Atom) error {
	if len(atoms) == 0 {
		return nil
	}

	texts := make([]string, len(atoms))
	for i, atom := range atoms {
		texts[i] = atom.Content
	}

	// Generate embeddings with retry; any failed slot fails the attempt
	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		results, err := bp.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return err
		}
		vectors = make([][]float32, len(results))
		for i, res := range results {
			if res.Err != nil {
				return fmt.Errorf("embedding atom %q: %w", atoms[i].AtomID, res.Err)
			}
			vectors[i] = res.Vector
		}
		return nil
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	for i, atom := range atoms {
		atom.Vector = NormalizeVector(vectors[i])
		if _, err := bp.repo.Upsert(ctx, atom); err != nil {
			return fmt.Errorf("failed to update atom %q: %w", atom.AtomID, err)
		}
	}

	return nil
}
