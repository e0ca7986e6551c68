package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/codebang/atomkb/ai"
	"github.com/codebang/atomkb/core"
	"github.com/codebang/atomkb/parser"
	"github.com/codebang/atomkb/storage"
)

// Pipeline orchestrates parsing, embedding, and committing of atoms.
// Each atom moves through its own state machine independently: a failure on
// one atom never blocks committing the others, and re-running ingestion of an
// unchanged document converges to the same store state.
type Pipeline struct {
	atoms    storage.AtomRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(atoms storage.AtomRepository, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if atoms == nil {
		return nil, ErrAtomRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	p := &Pipeline{
		atoms:    atoms,
		embedder: embedder,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Ingest parses the document body, embeds every atom whose content changed,
// and commits the results, returning a per-atom report.
//
// Before embedding, each parsed atom is compared against the stored copy by
// content hash; an unchanged atom short-circuits to committed without an
// embedding call, which is what makes re-runs idempotent and cheap.
func (p *Pipeline) Ingest(ctx context.Context, document, body, namespace string) (*Report, error) {
	if namespace == "" {
		return nil, ErrNamespaceRequired
	}

	results := parser.Parse(document, body, namespace)
	p.logger.Info("parsed document", "document", document, "sections", len(results))

	report := &Report{
		Document:  document,
		Namespace: namespace,
		Attempted: len(results),
	}

	var pending []*core.Atom
	for _, res := range results {
		if res.Err != nil {
			p.logger.Warn("skipping malformed section", "document", document, "section", res.Err.Section, "reason", res.Err.Reason)
			report.Atoms = append(report.Atoms, AtomStatus{
				AtomID: res.Err.Section,
				State:  StateFailed,
				Reason: ReasonParseError,
				Detail: res.Err.Reason,
			})
			continue
		}

		atom := res.Atom
		existing, err := p.atoms.Get(ctx, atom.AtomID)
		switch {
		case err == nil && existing.ContentHash == atom.ContentHash:
			// Unchanged content: committed without re-embedding.
			report.Atoms = append(report.Atoms, AtomStatus{
				AtomID:  atom.AtomID,
				State:   StateCommitted,
				Skipped: true,
			})
		case err == nil, errors.Is(err, storage.ErrNotFound):
			pending = append(pending, atom)
		default:
			report.Atoms = append(report.Atoms, AtomStatus{
				AtomID: atom.AtomID,
				State:  StateFailed,
				Reason: reasonFor(err),
				Detail: err.Error(),
			})
		}
	}

	report.Atoms = append(report.Atoms, p.embedAndCommit(ctx, pending)...)

	sort.Slice(report.Atoms, func(i, j int) bool {
		return report.Atoms[i].AtomID < report.Atoms[j].AtomID
	})
	for _, status := range report.Atoms {
		switch {
		case status.Skipped:
			report.Skipped++
		case status.State == StateCommitted:
			report.Committed++
		default:
			report.Failed++
		}
	}

	p.logger.Info("ingestion finished", "document", document,
		"attempted", report.Attempted, "committed", report.Committed,
		"skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}

// embedAndCommit runs the batch embedding call and upserts each atom that
// received a vector. Every slot succeeds or fails independently.
func (p *Pipeline) embedAndCommit(ctx context.Context, atoms []*core.Atom) []AtomStatus {
	if len(atoms) == 0 {
		return nil
	}

	texts := make([]string, len(atoms))
	for i, atom := range atoms {
		texts[i] = atom.Content
	}

	p.logger.Debug("generating embeddings", "atoms", len(texts))
	embedded, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		// The batch itself could not run; every pending atom fails.
		statuses := make([]AtomStatus, len(atoms))
		for i, atom := range atoms {
			statuses[i] = AtomStatus{
				AtomID: atom.AtomID,
				State:  StateFailed,
				Reason: reasonFor(err),
				Detail: err.Error(),
			}
		}
		return statuses
	}

	statuses := make([]AtomStatus, 0, len(atoms))
	for i, atom := range atoms {
		if slotErr := embedded[i].Err; slotErr != nil {
			statuses = append(statuses, AtomStatus{
				AtomID: atom.AtomID,
				State:  StateFailed,
				Reason: reasonFor(slotErr),
				Detail: slotErr.Error(),
			})
			continue
		}

		atom.Vector = embedded[i].Vector
		if _, err := p.atoms.Upsert(ctx, atom); err != nil {
			statuses = append(statuses, AtomStatus{
				AtomID: atom.AtomID,
				State:  StateFailed,
				Reason: reasonFor(err),
				Detail: err.Error(),
			})
			continue
		}
		statuses = append(statuses, AtomStatus{
			AtomID: atom.AtomID,
			State:  StateCommitted,
		})
	}
	return statuses
}

// reasonFor maps an embedding or store error onto the report taxonomy.
// Deadline errors are checked first: a rate-limited call that ran out of
// time is a timeout, not a provider failure.
func reasonFor(err error) FailureReason {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, storage.ErrTimeout):
		return ReasonTimeout
	case errors.Is(err, ai.ErrRateLimited):
		return ReasonRateLimited
	case errors.Is(err, ai.ErrInvalidInput):
		return ReasonInvalidInput
	case errors.Is(err, ai.ErrProviderUnavailable):
		return ReasonProviderUnavailable
	case errors.Is(err, storage.ErrDimensionMismatch):
		return ReasonDimensionMismatch
	default:
		return ReasonStoreError
	}
}
