// Copyright 2025 CodeBang Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/codebang/atomkb/ai"
	"github.com/codebang/atomkb/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of atoms to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of atoms)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder orchestrates the reembedding of all atoms in a store.
type Reembedder struct {
	repo      storage.AtomRepository
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo storage.AtomRepository, embedder ai.Embedder, config *Config, progress io.Writer) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		repo:      repo,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay),
	}
}

// Run executes the reembedding operation.
// Every atom in the store is reembedded with the configured embedder.
// Progress is reported to the configured writer.
func (r *Reembedder) Run(ctx context.Context) error {
	atoms, err := r.repo.GetAllAtoms(ctx)
	if err != nil {
		return fmt.Errorf("failed to query atoms: %w", err)
	}

	total := len(atoms)
	if total == 0 {
		fmt.Fprintf(r.progress, "No atoms found in store (0 atoms)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d atoms (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	for start := 0; start < total; start += r.config.BatchSize {
		end := start + r.config.BatchSize
		if end > total {
			end = total
		}

		if err := r.processor.Process(ctx, atoms[start:end]); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += end - start
		tracker.Update(processed)
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d atoms in %v (%.1f atoms/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}
