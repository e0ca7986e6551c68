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


package atomkb

import (
	"log/slog"

	"github.com/codebang/atomkb/ai"
	"github.com/codebang/atomkb/ai/openai"
	"github.com/codebang/atomkb/ingestion"
	"github.com/codebang/atomkb/search"
	"github.com/codebang/atomkb/storage"
	"github.com/codebang/atomkb/storage/badger"
)

// KnowledgeBase bundles the atom store and the embedding service behind a
// single handle. It is the entry point for applications that want the full
// stack without wiring the pieces themselves.
type KnowledgeBase struct {
	backend  *badger.Backend
	atomRepo storage.AtomRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a KnowledgeBase.
type Option func(*options)

type options struct {
	aiConfig *ai.Config
	embedder ai.Embedder
}

// WithAIConfig sets the embedding service configuration used when the
// KnowledgeBase constructs its own embedder.
func WithAIConfig(config *ai.Config) Option {
	return func(o *options) {
		o.aiConfig = config
	}
}

// WithEmbedder injects a pre-built embedder, bypassing the embedding
// service configuration entirely. The KnowledgeBase takes ownership and
// closes it on Close.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(o *options) {
		o.embedder = embedder
	}
}

// Open opens (or creates) a knowledge base at filePath.
func Open(filePath string, opts ...Option) (*KnowledgeBase, error) {
	// Apply options
	o := &options{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(o)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	// Create atom repository
	atomRepo, err := badger.NewAtomRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create embedder with configured settings unless one was injected
	embedder := o.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(o.aiConfig)
		if err != nil {
			atomRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &KnowledgeBase{
		backend:  backend,
		atomRepo: atomRepo,
		embedder: embedder,
		logger:   slog.Default(),
	}, nil
}

func (kb *KnowledgeBase) Close() error {
	// Close embedder first
	if err := kb.embedder.Close(); err != nil {
		kb.logger.Error("error closing embedder", "err", err)
	}

	// Close repository
	if err := kb.atomRepo.Close(); err != nil {
		kb.logger.Error("error closing atom repository", "err", err)
		return err
	}

	// Close backend
	if err := kb.backend.Close(); err != nil {
		kb.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (kb *KnowledgeBase) AtomRepository() storage.AtomRepository {
	return kb.atomRepo
}

func (kb *KnowledgeBase) Embedder() ai.Embedder {
	return kb.embedder
}

func (kb *KnowledgeBase) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(kb.atomRepo, kb.embedder, opts...)
}

func (kb *KnowledgeBase) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(kb.atomRepo, kb.embedder, opts...)
}
