// Package issue normalizes heterogeneous analyzer findings into the common
// issue taxonomy: one CategorizedIssue per violation or failed check, with
// a priority, recommendation, and effort estimate. The mapping is
// rule-based and deterministic; issues are regenerated every report run.
package issue

import (
	"fmt"
	"sort"

	"github.com/paulbreuler/runi-audit/internal/analyzer"
	"github.com/paulbreuler/runi-audit/internal/catalog"
	"github.com/paulbreuler/runi-audit/internal/types"
)

// DomainOrder is the fixed source order issues are emitted in. Ties in the
// final priority sort preserve this order. The checklist domain emits no
// issues; its results surface as findings only.
var DomainOrder = []string{
	"motion",
	"fixtures",
	"principles",
	"performance",
	"accessibility",
	"material",
	"library",
}

// DomainCategories maps analyzer domain names to the issue category names
// surfaced in reports.
var DomainCategories = map[string]string{
	"motion":        "motion",
	"fixtures":      "fixture-coverage",
	"principles":    "principle-compliance",
	"performance":   "performance",
	"accessibility": "accessibility",
	"material":      "cross-cutting-material",
	"library":       "library-usage",
}

// severityPriority is the fixed severity-to-priority table.
func severityPriority(s types.Severity) types.Priority {
	switch s {
	case types.SeverityError:
		return types.PriorityHigh
	case types.SeverityWarning:
		return types.PriorityMedium
	default:
		return types.PriorityLow
	}
}

// effortForRule estimates remediation effort per rule. Rules not listed
// default to medium.
var effortForRule = map[string]types.Effort{
	"layout-thrashing":         types.EffortSmall,
	"missing-reactive-values":  types.EffortMedium,
	"no-fixture":               types.EffortSmall,
	"sparse-fixture":           types.EffortTrivial,
	"inline-object-prop":       types.EffortTrivial,
	"inline-arrow-prop":        types.EffortTrivial,
	"unstable-key":             types.EffortTrivial,
	"expensive-render-op":      types.EffortSmall,
	"unmemoized-list-item":     types.EffortTrivial,
	"oversized-component":      types.EffortLarge,
	"missing-alt":              types.EffortTrivial,
	"missing-accessible-name":  types.EffortTrivial,
	"non-interactive-handler":  types.EffortSmall,
	"missing-keyboard-handler": types.EffortSmall,
	"positive-tabindex":        types.EffortTrivial,
	"hidden-focusable":         types.EffortSmall,
	"raw-hex-color":            types.EffortTrivial,
	"off-scale-spacing":        types.EffortTrivial,
	"adhoc-shadow":             types.EffortTrivial,
	"adhoc-zindex":             types.EffortTrivial,
	"inline-style-object":      types.EffortSmall,
	"disallowed-library":       types.EffortLarge,
	"unapproved-library":       types.EffortLarge,
	"deep-import":              types.EffortTrivial,
	"unpinned-version":         types.EffortTrivial,
	"unparseable-version":      types.EffortTrivial,
	"principle-failed":         types.EffortMedium,
}

func effortFor(rule string) types.Effort {
	if e, ok := effortForRule[rule]; ok {
		return e
	}
	return types.EffortMedium
}

// Extract maps every analyzer's results into the normalized issue list,
// sorted by priority rank with insertion order preserved among equals.
// Issues referencing components absent from the inventory are dropped.
func Extract(results map[string][]types.AnalysisResult, inv types.Inventory, cat *catalog.Catalog) []types.CategorizedIssue {
	known := inv.Paths()
	var issues []types.CategorizedIssue

	for _, domain := range DomainOrder {
		seq := 0
		for _, result := range results[domain] {
			// Orphaned results reference components removed since
			// discovery; drop them silently.
			if !known[result.ComponentPath] {
				continue
			}
			for _, iss := range mapResult(domain, result, cat) {
				seq++
				iss.ID = fmt.Sprintf("%s-%03d", domain, seq)
				issues = append(issues, iss)
			}
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Priority.Rank() < issues[j].Priority.Rank()
	})
	return issues
}

// mapResult converts one analyzer result into zero or more issues.
func mapResult(domain string, result types.AnalysisResult, cat *catalog.Catalog) []types.CategorizedIssue {
	category := DomainCategories[domain]
	base := func(rule string, priority types.Priority, description string) types.CategorizedIssue {
		return types.CategorizedIssue{
			ComponentPath:  result.ComponentPath,
			ComponentName:  result.ComponentName,
			Category:       category,
			Priority:       priority,
			Description:    description,
			Recommendation: cat.Recommendation(rule),
			Effort:         effortFor(rule),
		}
	}

	var issues []types.CategorizedIssue

	// Each concrete violation becomes one issue. Accessibility overrides
	// the nominal severity when the impact is critical or serious.
	for _, v := range result.Violations {
		priority := severityPriority(v.Severity)
		if domain == "accessibility" {
			switch v.Impact {
			case types.ImpactCritical:
				priority = types.PriorityCritical
			case types.ImpactSerious:
				priority = types.PriorityHigh
			}
		}

		description := v.Message
		if v.Line > 0 {
			description = fmt.Sprintf("%s (line %d)", v.Message, v.Line)
		}
		issues = append(issues, base(recommendationKey(v.Rule), priority, description))
	}

	// Principles that fail without any concrete violation get one generic
	// issue each, so the same defect is never penalized twice.
	if domain == "principles" {
		var details analyzer.PrinciplesDetails
		if err := result.DetailsAs(&details); err == nil {
			for _, status := range details.Statuses {
				if status.Status != analyzer.StatusPass && len(status.Violations) == 0 {
					priority := types.PriorityMedium
					if status.Status == analyzer.StatusPartial {
						priority = types.PriorityLow
					}
					issues = append(issues, base("principle-failed", priority,
						fmt.Sprintf("Principle %q is not satisfied", status.Name)))
				}
			}
		}
	}

	// Flag-derived issues, emitted only when no violation already covers
	// the same defect.
	if domain == "motion" && len(result.Violations) == 0 &&
		result.Flags["animated"] && !result.Flags["hardwareAccelerated"] {
		issues = append(issues, base("layout-thrashing", types.PriorityMedium,
			"Animation is not hardware accelerated"))
	}

	return issues
}

// recommendationKey strips the principle id from principle violation rules
// so they share the generic principle recommendation unless the catalog
// carries a specific one.
func recommendationKey(rule string) string {
	if len(rule) > len("principle:") && rule[:len("principle:")] == "principle:" {
		return "principle-failed"
	}
	return rule
}
