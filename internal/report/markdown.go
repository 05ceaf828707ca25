package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/paulbreuler/runi-audit/internal/types"
)

// RenderMarkdown produces the human-readable narrative document. The five
// section headers always render, in a fixed order, even when a section's
// dataset is empty.
func RenderMarkdown(r *types.AuditReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Component Audit Report\n\n")
	fmt.Fprintf(&b, "Run %s, generated %s\n\n", r.RunID, r.GeneratedAt.Format("2006-01-02 15:04:05"))

	writeExecutiveSummary(&b, r)
	writeComponentAnalysis(&b, r)
	writeIssuesByPriority(&b, r)
	writeRecommendations(&b, r)
	writeFollowUpPlan(&b, r)

	return b.String()
}

func writeExecutiveSummary(b *strings.Builder, r *types.AuditReport) {
	fmt.Fprintf(b, "## Executive Summary\n\n")

	es := r.ExecutiveSummary
	fmt.Fprintf(b, "- Components audited: %d\n", es.TotalComponents)
	fmt.Fprintf(b, "- Overall score: %.1f / 100 (%s)\n", es.OverallScore, es.Grade)
	for _, p := range types.Priorities {
		fmt.Fprintf(b, "- %s issues: %d\n", titleCase(string(p)), es.IssuesByPriority[p])
	}
	fmt.Fprintf(b, "\n")

	if len(es.TopConcerns) > 0 {
		fmt.Fprintf(b, "Top concerns:\n\n")
		for _, c := range es.TopConcerns {
			fmt.Fprintf(b, "- %s\n", c)
		}
		fmt.Fprintf(b, "\n")
	}

	if len(es.ScoresByCategory) > 0 {
		fmt.Fprintf(b, "| Category | Score |\n|---|---|\n")
		keys := make([]string, 0, len(es.ScoresByCategory))
		for k := range es.ScoresByCategory {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(b, "| %s | %.1f |\n", k, es.ScoresByCategory[k])
		}
		fmt.Fprintf(b, "\n")
	}
}

func writeComponentAnalysis(b *strings.Builder, r *types.AuditReport) {
	fmt.Fprintf(b, "## Component Analysis\n\n")

	if len(r.ComponentAnalysis) == 0 {
		fmt.Fprintf(b, "No components were discovered.\n\n")
		return
	}

	for _, c := range r.ComponentAnalysis {
		fmt.Fprintf(b, "### %s (%s)\n\n", c.Name, c.Path)
		fmt.Fprintf(b, "Health: %.1f (%s), category %s\n\n", c.HealthScore, c.Grade, c.Category)
		for _, f := range c.Findings {
			fmt.Fprintf(b, "- %s\n", f)
		}
		if len(c.Findings) > 0 {
			fmt.Fprintf(b, "\n")
		}
	}
}

func writeIssuesByPriority(b *strings.Builder, r *types.AuditReport) {
	fmt.Fprintf(b, "## Issues by Priority\n\n")

	if len(r.Issues) == 0 {
		fmt.Fprintf(b, "No issues were found.\n\n")
		return
	}

	for _, p := range types.Priorities {
		var matching []types.CategorizedIssue
		for _, iss := range r.Issues {
			if iss.Priority == p {
				matching = append(matching, iss)
			}
		}
		if len(matching) == 0 {
			continue
		}
		fmt.Fprintf(b, "### %s (%d)\n\n", titleCase(string(p)), len(matching))
		for _, iss := range matching {
			fmt.Fprintf(b, "- **%s** [%s] %s — %s\n", iss.ComponentName, iss.Category, iss.Description, iss.Recommendation)
		}
		fmt.Fprintf(b, "\n")
	}
}

func writeRecommendations(b *strings.Builder, r *types.AuditReport) {
	fmt.Fprintf(b, "## Recommendations\n\n")

	if len(r.ExecutiveSummary.KeyRecommendations) == 0 {
		fmt.Fprintf(b, "No recommendations.\n\n")
		return
	}
	for i, rec := range r.ExecutiveSummary.KeyRecommendations {
		fmt.Fprintf(b, "%d. %s\n", i+1, rec)
	}
	fmt.Fprintf(b, "\n")
}

func writeFollowUpPlan(b *strings.Builder, r *types.AuditReport) {
	fmt.Fprintf(b, "## Follow-Up Plan\n\n")

	if len(r.FollowUpPlan) == 0 {
		fmt.Fprintf(b, "No follow-up work is required.\n")
		return
	}

	for _, item := range r.FollowUpPlan {
		fmt.Fprintf(b, "### Phase %d: %s\n\n", item.Phase, item.PhaseName)
		fmt.Fprintf(b, "- Issues: %d (priority %s, effort %s)\n", item.IssueCount, item.Priority, item.Effort)
		fmt.Fprintf(b, "- Components: %s\n\n", strings.Join(item.Components, ", "))
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// BuildRunSummary condenses a report into the summary.json shape.
// outputFiles maps artifact labels to the paths written this run.
func BuildRunSummary(r *types.AuditReport, outputFiles map[string]string) *types.RunSummary {
	return &types.RunSummary{
		Version:          r.Version,
		RunID:            r.RunID,
		Timestamp:        r.GeneratedAt,
		Root:             r.Root,
		TotalComponents:  r.ExecutiveSummary.TotalComponents,
		TotalIssues:      len(r.Issues),
		IssuesByPriority: r.ExecutiveSummary.IssuesByPriority,
		OverallScore:     r.ExecutiveSummary.OverallScore,
		Grade:            r.ExecutiveSummary.Grade,
		ScoresByCategory: r.ExecutiveSummary.ScoresByCategory,
		OutputFiles:      outputFiles,
	}
}
