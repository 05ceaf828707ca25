package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulbreuler/runi-audit/internal/types"
)

func sampleInventory() types.Inventory {
	return types.Inventory{
		{Path: "src/ui/Panels/StatusPanel.tsx", Name: "StatusPanel", Category: types.CategoryPanels},
		{Path: "src/ui/Inputs/TextField.tsx", Name: "TextField", Category: types.CategoryInputs},
	}
}

func sampleIssues() []types.CategorizedIssue {
	return []types.CategorizedIssue{
		{
			ID: "accessibility-001", ComponentPath: "src/ui/Panels/StatusPanel.tsx", ComponentName: "StatusPanel",
			Category: "accessibility", Priority: types.PriorityCritical,
			Description: "Image without alt text", Recommendation: "Add alt text to images", Effort: types.EffortSmall,
		},
		{
			ID: "fixtures-001", ComponentPath: "src/ui/Inputs/TextField.tsx", ComponentName: "TextField",
			Category: "fixture-coverage", Priority: types.PriorityHigh,
			Description: "No fixture file", Recommendation: "Add a fixture", Effort: types.EffortSmall,
		},
		{
			ID: "performance-001", ComponentPath: "src/ui/Panels/StatusPanel.tsx", ComponentName: "StatusPanel",
			Category: "performance", Priority: types.PriorityMedium,
			Description: "Unmemoized list items", Recommendation: "Memoize list items", Effort: types.EffortMedium,
		},
	}
}

func sampleOptions() Options {
	return Options{
		RunID:       "run-test",
		Root:        "/repo/src/ui",
		GeneratedAt: time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
	}
}

func TestSynthesizeExecutiveSummary(t *testing.T) {
	r := Synthesize(sampleInventory(), nil, sampleIssues(), sampleOptions())

	es := r.ExecutiveSummary
	assert.Equal(t, 2, es.TotalComponents)
	assert.Equal(t, 1, es.IssuesByPriority[types.PriorityCritical])
	assert.Equal(t, 1, es.IssuesByPriority[types.PriorityHigh])
	assert.Equal(t, 1, es.IssuesByPriority[types.PriorityMedium])
	assert.Equal(t, 0, es.IssuesByPriority[types.PriorityLow])

	// StatusPanel: 100-25-8 = 67. TextField: 100-15 = 85. Mean = 76.
	assert.Equal(t, 76.0, es.OverallScore)
	assert.Equal(t, types.GradeC, es.Grade)

	assert.Contains(t, es.TopConcerns[0], "1 critical issue")
	assert.Equal(t, []string{"Add alt text to images", "Add a fixture"}, es.KeyRecommendations)
}

func TestSynthesizeScoresByCategory(t *testing.T) {
	r := Synthesize(sampleInventory(), nil, sampleIssues(), sampleOptions())

	scores := r.ExecutiveSummary.ScoresByCategory
	assert.Equal(t, 67.0, scores["Panels"])
	assert.Equal(t, 85.0, scores["Inputs"])

	assert.Equal(t, 75.0, scores["accessibility"])
	assert.Equal(t, 92.0, scores["performance"])
	assert.Equal(t, 85.0, scores["fixture-coverage"])

	// Issue-free domains still get an entry.
	assert.Equal(t, 100.0, scores["motion"])
	assert.Equal(t, 100.0, scores["principle-compliance"])
	assert.Equal(t, 100.0, scores["cross-cutting-material"])
	assert.Equal(t, 100.0, scores["library-usage"])
}

func TestSynthesizeComponentAnalysis(t *testing.T) {
	r := Synthesize(sampleInventory(), nil, sampleIssues(), sampleOptions())

	require.Len(t, r.ComponentAnalysis, 2)
	panel := r.ComponentAnalysis[0]
	assert.Equal(t, "StatusPanel", panel.Name)
	assert.Equal(t, 67.0, panel.HealthScore)
	assert.Equal(t, types.GradeD, panel.Grade)
	assert.Equal(t, 1, panel.IssuesByPriority[types.PriorityCritical])
	assert.Equal(t, []string{"Add alt text to images", "Memoize list items"}, panel.Recommendations)
	assert.Contains(t, panel.Findings[0], "2 issue(s)")
}

func TestFollowUpPlanPhases(t *testing.T) {
	r := Synthesize(sampleInventory(), nil, sampleIssues(), sampleOptions())

	plan := r.FollowUpPlan
	require.Len(t, plan, 4)

	// No non-critical accessibility issues and no unclaimed low-priority
	// issues, so those phases are skipped and numbering stays consecutive.
	names := make([]string, len(plan))
	for i, item := range plan {
		assert.Equal(t, i+1, item.Phase)
		names[i] = item.PhaseName
	}
	assert.Equal(t, []string{
		"Critical fixes",
		"High-priority fixes",
		"Performance optimization",
		"Coverage improvement",
	}, names)

	assert.Equal(t, types.PriorityCritical, plan[0].Priority)
	assert.Equal(t, []string{"StatusPanel"}, plan[0].Components)
	assert.Equal(t, types.EffortMedium, plan[2].Effort)
}

func TestFollowUpPlanEmpty(t *testing.T) {
	assert.Empty(t, followUpPlan(nil))
}

func TestKeyRecommendationsFrequencyRanking(t *testing.T) {
	issues := []types.CategorizedIssue{
		{Priority: types.PriorityHigh, Recommendation: "Add a fixture"},
		{Priority: types.PriorityCritical, Recommendation: "Add alt text to images"},
		{Priority: types.PriorityHigh, Recommendation: "Add alt text to images"},
		{Priority: types.PriorityLow, Recommendation: "Use spacing tokens"},
	}

	recs := keyRecommendations(issues)
	assert.Equal(t, []string{"Add alt text to images", "Add a fixture"}, recs)
}

func TestKeyRecommendationsFallback(t *testing.T) {
	issues := []types.CategorizedIssue{
		{Priority: types.PriorityMedium, Recommendation: "Memoize list items"},
	}
	assert.Equal(t, fallbackRecommendations, keyRecommendations(issues))
}

func TestSynthesizeEmptyInventory(t *testing.T) {
	r := Synthesize(nil, nil, nil, sampleOptions())

	assert.Equal(t, 0, r.ExecutiveSummary.TotalComponents)
	assert.Equal(t, 0.0, r.ExecutiveSummary.OverallScore)
	assert.Equal(t, types.GradeF, r.ExecutiveSummary.Grade)
	assert.Equal(t, fallbackRecommendations, r.ExecutiveSummary.KeyRecommendations)
	assert.Empty(t, r.ComponentAnalysis)
	assert.Empty(t, r.FollowUpPlan)
	assert.Equal(t, 100.0, r.ExecutiveSummary.ScoresByCategory["motion"])
}

func TestRenderMarkdownFixedHeaders(t *testing.T) {
	md := RenderMarkdown(Synthesize(nil, nil, nil, sampleOptions()))

	for _, header := range []string{
		"## Executive Summary",
		"## Component Analysis",
		"## Issues by Priority",
		"## Recommendations",
		"## Follow-Up Plan",
	} {
		assert.Contains(t, md, header)
	}
	assert.Contains(t, md, "No components were discovered.")
	assert.Contains(t, md, "No issues were found.")
	assert.Contains(t, md, "No follow-up work is required.")
}

func TestRenderMarkdownContent(t *testing.T) {
	md := RenderMarkdown(Synthesize(sampleInventory(), nil, sampleIssues(), sampleOptions()))

	assert.Contains(t, md, "### StatusPanel (src/ui/Panels/StatusPanel.tsx)")
	assert.Contains(t, md, "### Critical (1)")
	assert.Contains(t, md, "### Phase 1: Critical fixes")
	assert.Contains(t, md, "Image without alt text")
}

func TestBuildRunSummary(t *testing.T) {
	r := Synthesize(sampleInventory(), nil, sampleIssues(), sampleOptions())
	files := map[string]string{"report": "out/audit-report.json"}

	s := BuildRunSummary(r, files)
	assert.Equal(t, Version, s.Version)
	assert.Equal(t, "run-test", s.RunID)
	assert.Equal(t, 2, s.TotalComponents)
	assert.Equal(t, 3, s.TotalIssues)
	assert.Equal(t, r.ExecutiveSummary.OverallScore, s.OverallScore)
	assert.Equal(t, files, s.OutputFiles)
}

func TestReportJSONRoundTrip(t *testing.T) {
	r := Synthesize(sampleInventory(), nil, sampleIssues(), sampleOptions())

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded types.AuditReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *r, decoded)
}
