package search

import "github.com/tastetrail/tastetrail/core"

// RankMonitor provides hooks to observe the ranking process.
// Implement this interface to track intermediate stages during a Rank call.
type RankMonitor interface {
	Start(query Query)
	AfterSemanticScores(scores []float64)
	AfterLexicalScores(scores []float64)
	AfterLocalityFilter(kept int, fellBack bool)
	AfterGeoFilter(kept int)
	Finish(candidates []core.Candidate)
}

// noopMonitor is a no-op implementation of RankMonitor
type noopMonitor struct{}

var _ RankMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ Query)                      {}
func (n *noopMonitor) AfterSemanticScores(_ []float64)    {}
func (n *noopMonitor) AfterLexicalScores(_ []float64)     {}
func (n *noopMonitor) AfterLocalityFilter(_ int, _ bool)  {}
func (n *noopMonitor) AfterGeoFilter(_ int)               {}
func (n *noopMonitor) Finish(_ []core.Candidate)          {}
