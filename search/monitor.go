package search

import "github.com/codebang/atomkb/core"

// Monitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type Monitor interface {
	Start(query string)
	AfterQueryEmbedding(dimensions int)
	AfterVectorSearch(matches []core.SimilarityMatch)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                            {}
func (n *noopMonitor) AfterQueryEmbedding(_ int)                 {}
func (n *noopMonitor) AfterVectorSearch(_ []core.SimilarityMatch) {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)             {}
