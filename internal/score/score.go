// Package score computes per-component health scores: a priority-weighted
// penalty fold over the component's issues, sequentially averaged with any
// available analyzer sub-scores.
package score

import "github.com/paulbreuler/runi-audit/internal/types"

// Penalty weights per issue priority.
const (
	PenaltyCritical = 25
	PenaltyHigh     = 15
	PenaltyMedium   = 8
	PenaltyLow      = 3
)

// PriorityWeight returns the penalty weight for an issue priority.
func PriorityWeight(p types.Priority) float64 {
	switch p {
	case types.PriorityCritical:
		return PenaltyCritical
	case types.PriorityHigh:
		return PenaltyHigh
	case types.PriorityMedium:
		return PenaltyMedium
	case types.PriorityLow:
		return PenaltyLow
	default:
		return 0
	}
}

// SubScore is one analyzer's 0-100 score for a component, folded into the
// health score after the issue penalties.
type SubScore struct {
	Domain string
	Value  float64
}

// SubScoreDomains lists the domains whose scores fold into the health
// score, in fold order. The fold is order-dependent (each sub-score is
// averaged in sequentially), so this order is part of the scoring
// contract.
var SubScoreDomains = []string{"principles", "accessibility", "fixtures"}

// Health computes a component's 0-100 health score. A component with no
// issues and no sub-scores scores exactly 100.
func Health(issues []types.CategorizedIssue, subScores []SubScore) float64 {
	s := 100.0
	for _, iss := range issues {
		s -= PriorityWeight(iss.Priority)
	}
	if s < 0 {
		s = 0
	}

	// Sequential averaging: each available sub-score is folded in one at
	// a time, in SubScoreDomains order.
	for _, sub := range subScores {
		s = (s + sub.Value) / 2
	}

	return clamp(s)
}

// CollectSubScores pulls a component's sub-scores out of the analyzer
// results, in fold order, skipping domains without a result for the path.
func CollectSubScores(path string, results map[string][]types.AnalysisResult) []SubScore {
	var subs []SubScore
	for _, domain := range SubScoreDomains {
		for _, r := range results[domain] {
			if r.ComponentPath == path {
				subs = append(subs, SubScore{Domain: domain, Value: r.Score})
				break
			}
		}
	}
	return subs
}

func clamp(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
