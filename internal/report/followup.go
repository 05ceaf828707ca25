package report

import (
	"sort"

	"github.com/paulbreuler/runi-audit/internal/types"
)

// phaseSpec defines one conditional follow-up phase. Phases are emitted in
// order, each only when at least one issue matches, and claimed issues are
// not re-planned by later phases except the dedicated priority sweeps.
type phaseSpec struct {
	name  string
	match func(iss types.CategorizedIssue, claimed bool) bool
}

var phases = []phaseSpec{
	{
		name: "Critical fixes",
		match: func(iss types.CategorizedIssue, claimed bool) bool {
			return iss.Priority == types.PriorityCritical
		},
	},
	{
		name: "High-priority fixes",
		match: func(iss types.CategorizedIssue, claimed bool) bool {
			return iss.Priority == types.PriorityHigh
		},
	},
	{
		name: "Accessibility remediation",
		match: func(iss types.CategorizedIssue, claimed bool) bool {
			// Critical items are already handled in phase 1.
			return iss.Category == "accessibility" && iss.Priority != types.PriorityCritical
		},
	},
	{
		name: "Performance optimization",
		match: func(iss types.CategorizedIssue, claimed bool) bool {
			return iss.Category == "performance"
		},
	},
	{
		name: "Coverage improvement",
		match: func(iss types.CategorizedIssue, claimed bool) bool {
			return iss.Category == "fixture-coverage"
		},
	},
	{
		name: "Low-priority polish",
		match: func(iss types.CategorizedIssue, claimed bool) bool {
			return iss.Priority == types.PriorityLow && !claimed
		},
	},
}

// followUpPlan builds the phased remediation plan. An empty issue set
// yields an empty plan.
func followUpPlan(issues []types.CategorizedIssue) []types.FollowUpItem {
	var plan []types.FollowUpItem
	claimed := make([]bool, len(issues))

	for _, spec := range phases {
		var members []int
		for i, iss := range issues {
			if spec.match(iss, claimed[i]) {
				members = append(members, i)
			}
		}
		if len(members) == 0 {
			continue
		}

		item := types.FollowUpItem{
			Phase:      len(plan) + 1,
			PhaseName:  spec.name,
			IssueCount: len(members),
			Priority:   types.PriorityLow,
			Effort:     types.EffortTrivial,
		}

		seen := map[string]bool{}
		for _, i := range members {
			claimed[i] = true
			iss := issues[i]
			if !seen[iss.ComponentName] {
				seen[iss.ComponentName] = true
				item.Components = append(item.Components, iss.ComponentName)
			}
			if iss.Priority.Rank() < item.Priority.Rank() {
				item.Priority = iss.Priority
			}
			if iss.Effort.Rank() > item.Effort.Rank() {
				item.Effort = iss.Effort
			}
		}
		sort.Strings(item.Components)
		plan = append(plan, item)
	}

	return plan
}
