// Package report synthesizes the final audit report: the executive
// summary, per-component analysis, the priority-ordered issue list, and
// the phased follow-up plan.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/paulbreuler/runi-audit/internal/analyzer"
	"github.com/paulbreuler/runi-audit/internal/issue"
	"github.com/paulbreuler/runi-audit/internal/score"
	"github.com/paulbreuler/runi-audit/internal/types"
)

// Version is the report format version.
const Version = "1.0.0"

// fallbackRecommendations are emitted when no critical or high issues
// carry recommendations; keyRecommendations is never empty.
var fallbackRecommendations = []string{
	"Keep fixture coverage growing alongside new components",
	"Re-run the audit after each significant component change",
}

const maxComponentRecommendations = 5

// Options parameterize a synthesis run.
type Options struct {
	RunID       string
	Root        string
	GeneratedAt time.Time
}

// Synthesize builds the full audit report from the discovery inventory,
// the per-domain analyzer results, and the extracted issue list. Absent
// analyzer domains simply contribute nothing.
func Synthesize(inv types.Inventory, results map[string][]types.AnalysisResult, issues []types.CategorizedIssue, opts Options) *types.AuditReport {
	issuesByPath := map[string][]types.CategorizedIssue{}
	for _, iss := range issues {
		issuesByPath[iss.ComponentPath] = append(issuesByPath[iss.ComponentPath], iss)
	}

	componentAnalysis := make([]types.ComponentAnalysisSummary, 0, len(inv))
	healthByPath := map[string]float64{}
	for _, rec := range inv {
		summary := summarizeComponent(rec, issuesByPath[rec.Path], results)
		healthByPath[rec.Path] = summary.HealthScore
		componentAnalysis = append(componentAnalysis, summary)
	}

	return &types.AuditReport{
		Version:           Version,
		RunID:             opts.RunID,
		GeneratedAt:       opts.GeneratedAt,
		Root:              opts.Root,
		ExecutiveSummary:  executiveSummary(inv, issues, healthByPath),
		ComponentAnalysis: componentAnalysis,
		Issues:            issues,
		FollowUpPlan:      followUpPlan(issues),
	}
}

func summarizeComponent(rec types.ComponentRecord, owned []types.CategorizedIssue, results map[string][]types.AnalysisResult) types.ComponentAnalysisSummary {
	subs := score.CollectSubScores(rec.Path, results)
	health := score.Health(owned, subs)

	byPriority := map[types.Priority]int{}
	for _, p := range types.Priorities {
		byPriority[p] = 0
	}
	for _, iss := range owned {
		byPriority[iss.Priority]++
	}

	return types.ComponentAnalysisSummary{
		Path:             rec.Path,
		Name:             rec.Name,
		Category:         rec.Category,
		HealthScore:      round2(health),
		Grade:            types.GradeForScore(health),
		IssuesByPriority: byPriority,
		Findings:         componentFindings(rec, owned, results),
		Recommendations:  componentRecommendations(owned),
	}
}

// componentFindings builds the short narrative strings for one component.
func componentFindings(rec types.ComponentRecord, owned []types.CategorizedIssue, results map[string][]types.AnalysisResult) []string {
	var findings []string

	if len(owned) == 0 {
		findings = append(findings, "No issues found")
	} else {
		findings = append(findings, fmt.Sprintf("%d issue(s) across %d domain(s)", len(owned), countDomains(owned)))
	}

	for _, r := range results["motion"] {
		if r.ComponentPath == rec.Path && r.Flags["animated"] {
			if r.Flags["hardwareAccelerated"] {
				findings = append(findings, "Animations are hardware accelerated")
			} else {
				findings = append(findings, "Animations touch layout-affecting properties")
			}
		}
	}

	for _, r := range results["checklist"] {
		if r.ComponentPath != rec.Path {
			continue
		}
		var details analyzer.ChecklistDetails
		if err := r.DetailsAs(&details); err == nil && details.Total > 0 {
			findings = append(findings, fmt.Sprintf("Checklist %d/%d items passing", details.Passed, details.Total))
		}
	}

	return findings
}

func countDomains(issues []types.CategorizedIssue) int {
	seen := map[string]bool{}
	for _, iss := range issues {
		seen[iss.Category] = true
	}
	return len(seen)
}

// componentRecommendations dedupes the component's issue recommendations,
// preserving first-seen order, capped.
func componentRecommendations(owned []types.CategorizedIssue) []string {
	seen := map[string]bool{}
	var recs []string
	for _, iss := range owned {
		if iss.Recommendation == "" || seen[iss.Recommendation] {
			continue
		}
		seen[iss.Recommendation] = true
		recs = append(recs, iss.Recommendation)
		if len(recs) == maxComponentRecommendations {
			break
		}
	}
	return recs
}

func executiveSummary(inv types.Inventory, issues []types.CategorizedIssue, healthByPath map[string]float64) types.ExecutiveSummary {
	overall := 0.0
	if len(inv) > 0 {
		for _, h := range healthByPath {
			overall += h
		}
		overall /= float64(len(inv))
	}

	byPriority := map[types.Priority]int{}
	for _, p := range types.Priorities {
		byPriority[p] = 0
	}
	for _, iss := range issues {
		byPriority[iss.Priority]++
	}

	return types.ExecutiveSummary{
		TotalComponents:    len(inv),
		OverallScore:       round2(overall),
		Grade:              types.GradeForScore(overall),
		ScoresByCategory:   scoresByCategory(inv, issues, healthByPath),
		IssuesByPriority:   byPriority,
		TopConcerns:        topConcerns(byPriority, healthByPath),
		KeyRecommendations: keyRecommendations(issues),
	}
}

// scoresByCategory combines two namespaces into one map: UI-category
// health means under TitleCase keys, and issue-domain scores under
// lowercase keys. The casing keeps the namespaces disjoint.
func scoresByCategory(inv types.Inventory, issues []types.CategorizedIssue, healthByPath map[string]float64) map[string]float64 {
	scores := map[string]float64{}

	sums := map[types.Category]float64{}
	counts := map[types.Category]int{}
	for _, rec := range inv {
		sums[rec.Category] += healthByPath[rec.Path]
		counts[rec.Category]++
	}
	for cat, n := range counts {
		scores[string(cat)] = round2(sums[cat] / float64(n))
	}

	penalties := map[string]float64{}
	for _, iss := range issues {
		penalties[iss.Category] += score.PriorityWeight(iss.Priority)
	}
	for _, domain := range issue.DomainOrder {
		name := issue.DomainCategories[domain]
		s := 100 - penalties[name]
		if s < 0 {
			s = 0
		}
		scores[name] = round2(s)
	}

	return scores
}

const lowHealthThreshold = 60

func topConcerns(byPriority map[types.Priority]int, healthByPath map[string]float64) []string {
	var concerns []string

	if n := byPriority[types.PriorityCritical]; n > 0 {
		concerns = append(concerns, fmt.Sprintf("%d critical issue(s) require immediate attention", n))
	}
	if n := byPriority[types.PriorityHigh]; n > 0 {
		concerns = append(concerns, fmt.Sprintf("%d high-priority issue(s) should be scheduled", n))
	}

	low := 0
	for _, h := range healthByPath {
		if h < lowHealthThreshold {
			low++
		}
	}
	if low > 0 {
		concerns = append(concerns, fmt.Sprintf("%d component(s) have a health score below %d", low, lowHealthThreshold))
	}

	return concerns
}

// keyRecommendations ranks the distinct recommendation strings attached to
// critical and high issues by frequency, first-seen order breaking ties,
// top 5. Falls back to the static pair so the list is never empty.
func keyRecommendations(issues []types.CategorizedIssue) []string {
	counts := map[string]int{}
	firstSeen := map[string]int{}
	var distinct []string

	for i, iss := range issues {
		if iss.Priority != types.PriorityCritical && iss.Priority != types.PriorityHigh {
			continue
		}
		if iss.Recommendation == "" {
			continue
		}
		if counts[iss.Recommendation] == 0 {
			firstSeen[iss.Recommendation] = i
			distinct = append(distinct, iss.Recommendation)
		}
		counts[iss.Recommendation]++
	}

	if len(distinct) == 0 {
		return append([]string{}, fallbackRecommendations...)
	}

	sort.SliceStable(distinct, func(i, j int) bool {
		if counts[distinct[i]] != counts[distinct[j]] {
			return counts[distinct[i]] > counts[distinct[j]]
		}
		return firstSeen[distinct[i]] < firstSeen[distinct[j]]
	})

	if len(distinct) > 5 {
		distinct = distinct[:5]
	}
	return distinct
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
