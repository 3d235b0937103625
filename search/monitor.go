package search

import "github.com/hirelens/hirelens/core"

// Monitor provides hooks to observe the ranking pipeline.
// Implement this interface to track intermediate stages during a search.
type Monitor interface {
	Start(position, description string)
	AfterNormalize(query core.Query)
	AfterLexical(matches []core.LexicalMatch)
	AfterSemantic(matches []core.SemanticMatch)
	AfterFusion(fused []core.FusedMatch)
	Finish(results []core.CandidateScore)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_, _ string)                    {}
func (n *noopMonitor) AfterNormalize(_ core.Query)          {}
func (n *noopMonitor) AfterLexical(_ []core.LexicalMatch)   {}
func (n *noopMonitor) AfterSemantic(_ []core.SemanticMatch) {}
func (n *noopMonitor) AfterFusion(_ []core.FusedMatch)      {}
func (n *noopMonitor) Finish(_ []core.CandidateScore)       {}
