package search

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/codebang/atomkb/ai"
	"github.com/codebang/atomkb/ai/mock"
	"github.com/codebang/atomkb/core"
	"github.com/codebang/atomkb/ingestion"
	"github.com/codebang/atomkb/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDocument = `
---

## Atom: a_core_loop

**Summary:** The perceive-decide-act loop at the heart of every agent.

**When to use:** Whenever you are structuring an agent's control flow.

---

## Atom: a_guardrails

**Summary:** Constraints that keep agent behavior inside safe bounds.

**When to use:** Any agent with side effects.

---

## Atom: a_compaction

**Summary:** Summarizing old context to reclaim token budget.

**When to use:** Long-running sessions near the context limit.
`

// seedStore ingests the test document and returns the repo plus the embedder
// used, so queries embed in the same vector space.
func seedStore(t *testing.T) (*badger.AtomRepository, *mock.MockEmbedder) {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	embedder := &mock.MockEmbedder{Dim: 16}
	pipeline, err := ingestion.NewPipeline(repo, embedder)
	require.NoError(t, err)

	report, err := pipeline.Ingest(context.Background(), "handbook.md", testDocument, "agents")
	require.NoError(t, err)
	require.Equal(t, 3, report.Committed)

	return repo.(*badger.AtomRepository), embedder
}

func TestNewSearcher(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	t.Run("requires repository", func(t *testing.T) {
		_, err := NewSearcher(nil, mock.NewMockEmbedder())
		assert.ErrorIs(t, err, ErrAtomRepositoryRequired)
	})

	t.Run("requires embedder", func(t *testing.T) {
		_, err := NewSearcher(repo, nil)
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})
}

func TestSearch_SelfRetrieval(t *testing.T) {
	repo, embedder := seedStore(t)
	ctx := context.Background()

	searcher, err := NewSearcher(repo, embedder)
	require.NoError(t, err)

	// Querying with an atom's own content must rank that atom first: the
	// mock embeds identical text to identical vectors, so the stored copy
	// scores a perfect 1.0.
	stored, err := repo.Get(ctx, "a_guardrails")
	require.NoError(t, err)

	results, err := searcher.Search(ctx, stored.Content, 3, "agents")
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "a_guardrails", results[0].Atom.AtomID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-5)

	// Results are hydrated atoms, not bare ids
	assert.Equal(t, "Constraints that keep agent behavior inside safe bounds.", results[0].Atom.Summary)
}

func TestSearch_TopKAndOrdering(t *testing.T) {
	repo, embedder := seedStore(t)
	ctx := context.Background()

	searcher, err := NewSearcher(repo, embedder)
	require.NoError(t, err)

	results, err := searcher.Search(ctx, "agent control flow", 2, "agents")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
	}
}

func TestSearch_NamespaceFilter(t *testing.T) {
	repo, embedder := seedStore(t)
	ctx := context.Background()

	searcher, err := NewSearcher(repo, embedder)
	require.NoError(t, err)

	results, err := searcher.Search(ctx, "anything", 10, "no_such_namespace")
	require.NoError(t, err)
	assert.Empty(t, results)

	// Empty namespace searches everything
	results, err = searcher.Search(ctx, "anything", 10, "")
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSearch_EmbeddingFailureSurfaces(t *testing.T) {
	repo, _ := seedStore(t)
	ctx := context.Background()

	failing := &mock.MockEmbedder{
		EmbedTextFunc: func(ctx context.Context, text string) ([]float32, error) {
			return nil, fmt.Errorf("%w: connection refused", ai.ErrProviderUnavailable)
		},
	}

	searcher, err := NewSearcher(repo, failing)
	require.NoError(t, err)

	results, err := searcher.Search(ctx, "query", 5, "")
	assert.ErrorIs(t, err, ai.ErrProviderUnavailable)
	assert.Nil(t, results)
}

func TestSearch_DroppedAtomDuringHydration(t *testing.T) {
	repo, embedder := seedStore(t)
	ctx := context.Background()

	// Delete an atom between ranking and hydration by deleting it before the
	// hydration Get runs. Simulate with an embedder whose query vector ranks
	// everything, then delete one atom mid-flight via a monitor hook.
	searcher, err := NewSearcher(repo, embedder)
	require.NoError(t, err)

	monitor := &deletingMonitor{repo: repo, victim: "a_compaction"}
	results, err := searcher.SearchWithMonitor(ctx, "agent control flow", 10, "", monitor)
	require.NoError(t, err)

	// The deleted atom is dropped, not an error
	assert.Len(t, results, 2)
	for _, res := range results {
		assert.NotEqual(t, "a_compaction", res.Atom.AtomID)
	}
}

// deletingMonitor deletes an atom after ranking, before hydration.
type deletingMonitor struct {
	repo   *badger.AtomRepository
	victim string
}

func (m *deletingMonitor) Start(_ string)            {}
func (m *deletingMonitor) AfterQueryEmbedding(_ int) {}
func (m *deletingMonitor) AfterVectorSearch(_ []core.SimilarityMatch) {
	_ = m.repo.Delete(context.Background(), m.victim)
}
func (m *deletingMonitor) Finish(_ []*core.SearchResult) {}

func TestSearch_RanksByRelevance(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()
	ctx := context.Background()

	// Scripted embedding space: guardrail-ish text points one way,
	// loop-ish text the other.
	vecFor := func(text string) []float32 {
		switch {
		case containsAny(text, "guardrails", "safe bounds", "safety"):
			return []float32{1.0, 0.0}
		case containsAny(text, "loop", "control flow"):
			return []float32{0.0, 1.0}
		default:
			return []float32{0.5, 0.5}
		}
	}
	embedder := &mock.MockEmbedder{
		EmbedTextFunc: func(ctx context.Context, text string) ([]float32, error) {
			return vecFor(text), nil
		},
		EmbedTextsFunc: func(ctx context.Context, texts []string) ([]ai.Result, error) {
			results := make([]ai.Result, len(texts))
			for i, text := range texts {
				results[i] = ai.Result{Vector: vecFor(text)}
			}
			return results, nil
		},
	}

	document := `
---

## Atom: a_core_loop

**Summary:** The perceive-decide-act loop.

**When to use:** Structuring agent control flow.

---

## Atom: a_guardrails

**Summary:** Constraints that keep agent behavior inside safe bounds.

**When to use:** Any agent with side effects.
`

	pipeline, err := ingestion.NewPipeline(repo, embedder)
	require.NoError(t, err)
	report, err := pipeline.Ingest(ctx, "handbook.md", document, "agents")
	require.NoError(t, err)
	require.Equal(t, 2, report.Committed)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalAtoms)

	searcher, err := NewSearcher(repo, embedder)
	require.NoError(t, err)

	results, err := searcher.Search(ctx, "guardrails safety", 1, "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a_guardrails", results[0].Atom.AtomID)

	_, err = repo.Get(ctx, "a_missing")
	assert.Error(t, err)
}

func containsAny(text string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(strings.ToLower(text), needle) {
			return true
		}
	}
	return false
}

func TestSearchWithMonitor_Callbacks(t *testing.T) {
	repo, embedder := seedStore(t)
	ctx := context.Background()

	searcher, err := NewSearcher(repo, embedder)
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	results, err := searcher.SearchWithMonitor(ctx, "agent control flow", 2, "", monitor)
	require.NoError(t, err)

	assert.Equal(t, "agent control flow", monitor.query)
	assert.Equal(t, 16, monitor.dimensions)
	assert.Len(t, monitor.matches, 2)
	assert.Equal(t, len(results), len(monitor.results))
}

// recordingMonitor captures every callback for assertions.
type recordingMonitor struct {
	query      string
	dimensions int
	matches    []core.SimilarityMatch
	results    []*core.SearchResult
}

func (m *recordingMonitor) Start(query string)            { m.query = query }
func (m *recordingMonitor) AfterQueryEmbedding(dims int)  { m.dimensions = dims }
func (m *recordingMonitor) AfterVectorSearch(matches []core.SimilarityMatch) {
	m.matches = matches
}
func (m *recordingMonitor) Finish(results []*core.SearchResult) { m.results = results }
