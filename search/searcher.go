package search

import (
	"context"
	"errors"
	"log/slog"

	"github.com/codebang/atomkb/ai"
	"github.com/codebang/atomkb/core"
	"github.com/codebang/atomkb/storage"
)

// Searcher provides semantic search over committed atoms.
type Searcher struct {
	atoms    storage.AtomRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(atoms storage.AtomRepository, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if atoms == nil {
		return nil, ErrAtomRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		atoms:    atoms,
		embedder: embedder,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search ranks atoms by semantic similarity to the query text.
// A non-empty namespace restricts results to that namespace.
// Returns up to topK results in descending score order.
func (s *Searcher) Search(ctx context.Context, query string, topK int, namespace string) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, topK, namespace, nil)
}

// SearchWithMonitor runs Search with stage callbacks for observability.
//
// Embedding failures are surfaced to the caller undiluted: when ranking is
// impossible the search fails, it never degrades to an unranked result set.
// Atoms deleted between ranking and hydration are dropped from the results.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, topK int, namespace string, monitor Monitor) ([]*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}
	monitor.AfterQueryEmbedding(len(vector))

	matches, err := s.atoms.Search(ctx, vector, topK, namespace)
	if err != nil {
		s.logger.Error("error querying for similar atoms", "err", err)
		return nil, err
	}
	monitor.AfterVectorSearch(matches)

	// Hydrate ranked ids into full atoms. A concurrent delete between
	// ranking and hydration drops that atom rather than failing the query.
	results := make([]*core.SearchResult, 0, len(matches))
	for _, match := range matches {
		atom, err := s.atoms.Get(ctx, match.AtomID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				s.logger.Debug("atom vanished between ranking and hydration", "atomID", match.AtomID)
				continue
			}
			return nil, err
		}
		results = append(results, &core.SearchResult{
			Atom:  atom,
			Score: match.Score,
		})
	}

	monitor.Finish(results)
	return results, nil
}
