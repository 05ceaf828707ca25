// Package types defines the shared data model for the audit pipeline:
// component records produced by discovery, analysis results produced by
// analyzers, and the normalized issue/report shapes consumed by the
// extractor and synthesizer.
package types

import (
	"encoding/json"
	"time"
)

// Category classifies a component by its location in the UI tree.
type Category string

const (
	CategoryLayout        Category = "Layout"
	CategoryEditors       Category = "Editors"
	CategoryPanels        Category = "Panels"
	CategorySignals       Category = "Signals"
	CategoryCanvas        Category = "Canvas"
	CategoryInputs        Category = "Inputs"
	CategoryOverlays      Category = "Overlays"
	CategoryPrimitives    Category = "Primitives"
	CategoryUncategorized Category = "Uncategorized"
)

// Categories lists every valid category except Uncategorized,
// in the order discovery matches path segments against them.
var Categories = []Category{
	CategoryLayout,
	CategoryEditors,
	CategoryPanels,
	CategorySignals,
	CategoryCanvas,
	CategoryInputs,
	CategoryOverlays,
	CategoryPrimitives,
}

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	if c == CategoryUncategorized {
		return true
	}
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ExportShape describes how a component module exports its component.
type ExportShape string

const (
	ExportDefault ExportShape = "default"
	ExportNamed   ExportShape = "named"
	ExportBoth    ExportShape = "both"
)

// Severity is the severity an analyzer assigns to a single violation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Impact is the user-impact rating carried by accessibility violations.
// Empty for every other analyzer domain.
type Impact string

const (
	ImpactCritical Impact = "critical"
	ImpactSerious  Impact = "serious"
	ImpactModerate Impact = "moderate"
	ImpactMinor    Impact = "minor"
)

// Priority is the normalized priority of a categorized issue.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Priorities lists all priorities from most to least urgent.
var Priorities = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// Rank returns the sort rank of a priority: critical=0 … low=3.
// Unknown priorities rank after low.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	return p.Rank() < 4
}

// Effort estimates the work needed to resolve an issue.
type Effort string

const (
	EffortTrivial Effort = "trivial"
	EffortSmall   Effort = "small"
	EffortMedium  Effort = "medium"
	EffortLarge   Effort = "large"
)

// Rank returns the sort rank of an effort bucket: trivial=0 … large=3.
func (e Effort) Rank() int {
	switch e {
	case EffortTrivial:
		return 0
	case EffortSmall:
		return 1
	case EffortMedium:
		return 2
	case EffortLarge:
		return 3
	default:
		return 4
	}
}

// ComponentRecord is one discovered component. Created once per discovery
// run and immutable afterward; keyed by Path, which is unique within an
// inventory and always relative, forward-slash form.
type ComponentRecord struct {
	Path         string      `json:"path"`
	Name         string      `json:"name"`
	Category     Category    `json:"category"`
	ExportShape  ExportShape `json:"exportShape"`
	PropsType    string      `json:"propsType,omitempty"`
	SizeBytes    int64       `json:"sizeBytes"`
	LineCount    int         `json:"lineCount"`
	HasChildren  bool        `json:"hasChildren"`
	Dependencies []string    `json:"dependencies,omitempty"`
	Parent       string      `json:"parent,omitempty"`
}

// Inventory is the ordered result of one discovery run.
type Inventory []ComponentRecord

// Paths returns the set of component paths in the inventory.
func (inv Inventory) Paths() map[string]bool {
	paths := make(map[string]bool, len(inv))
	for _, rec := range inv {
		paths[rec.Path] = true
	}
	return paths
}

// ByPath returns the record with the given path, if present.
func (inv Inventory) ByPath(path string) (ComponentRecord, bool) {
	for _, rec := range inv {
		if rec.Path == path {
			return rec, true
		}
	}
	return ComponentRecord{}, false
}

// Violation is a single located defect found by an analyzer.
// Rule identifies the heuristic that fired and keys recommendation lookup.
type Violation struct {
	Rule       string   `json:"rule"`
	Line       int      `json:"line,omitempty"`
	Snippet    string   `json:"snippet,omitempty"`
	Message    string   `json:"message"`
	Severity   Severity `json:"severity"`
	Suggestion string   `json:"suggestion,omitempty"`
	Impact     Impact   `json:"impact,omitempty"`
}

// AnalysisResult is one analyzer's findings for one component.
// Details carries the analyzer's domain-specific payload as raw JSON so
// results survive the artifact round trip without losing structure.
type AnalysisResult struct {
	ComponentPath string          `json:"componentPath"`
	ComponentName string          `json:"componentName"`
	Domain        string          `json:"domain"`
	Score         float64         `json:"score"`
	Flags         map[string]bool `json:"flags,omitempty"`
	Violations    []Violation     `json:"violations,omitempty"`
	Details       json.RawMessage `json:"details,omitempty"`
}

// SetDetails marshals v into the Details payload.
func (r *AnalysisResult) SetDetails(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	r.Details = data
	return nil
}

// DetailsAs unmarshals the Details payload into target.
func (r *AnalysisResult) DetailsAs(target any) error {
	if len(r.Details) == 0 {
		return nil
	}
	return json.Unmarshal(r.Details, target)
}

// CategorizedIssue is the normalized, cross-domain representation of a
// violation or failed check. Regenerated every report run.
type CategorizedIssue struct {
	ID             string   `json:"id"`
	ComponentPath  string   `json:"componentPath"`
	ComponentName  string   `json:"componentName"`
	Category       string   `json:"category"`
	Priority       Priority `json:"priority"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation"`
	Effort         Effort   `json:"effort"`
}

// ComponentAnalysisSummary is the per-component rollup in the final report.
type ComponentAnalysisSummary struct {
	Path             string           `json:"path"`
	Name             string           `json:"name"`
	Category         Category         `json:"category"`
	HealthScore      float64          `json:"healthScore"`
	Grade            Grade            `json:"grade"`
	IssuesByPriority map[Priority]int `json:"issuesByPriority"`
	Findings         []string         `json:"findings,omitempty"`
	Recommendations  []string         `json:"recommendations,omitempty"`
}

// ExecutiveSummary is the run-level rollup in the final report.
type ExecutiveSummary struct {
	TotalComponents    int                `json:"totalComponents"`
	OverallScore       float64            `json:"overallScore"`
	Grade              Grade              `json:"grade"`
	ScoresByCategory   map[string]float64 `json:"scoresByCategory"`
	IssuesByPriority   map[Priority]int   `json:"issuesByPriority"`
	TopConcerns        []string           `json:"topConcerns,omitempty"`
	KeyRecommendations []string           `json:"keyRecommendations"`
}

// FollowUpItem is one remediation phase in the follow-up plan.
type FollowUpItem struct {
	Phase      int      `json:"phase"`
	PhaseName  string   `json:"phaseName"`
	Components []string `json:"components"`
	IssueCount int      `json:"issueCount"`
	Priority   Priority `json:"priority"`
	Effort     Effort   `json:"effort"`
}

// AuditReport is the full structured report written to audit-report.json.
type AuditReport struct {
	Version           string                     `json:"version"`
	RunID             string                     `json:"runId"`
	GeneratedAt       time.Time                  `json:"generatedAt"`
	Root              string                     `json:"root"`
	ExecutiveSummary  ExecutiveSummary           `json:"executiveSummary"`
	ComponentAnalysis []ComponentAnalysisSummary `json:"componentAnalysis"`
	Issues            []CategorizedIssue         `json:"issues"`
	FollowUpPlan      []FollowUpItem             `json:"followUpPlan"`
}

// RunSummary is the condensed run metadata written to summary.json.
type RunSummary struct {
	Version          string             `json:"version"`
	RunID            string             `json:"runId"`
	Timestamp        time.Time          `json:"timestamp"`
	Root             string             `json:"root"`
	TotalComponents  int                `json:"totalComponents"`
	TotalIssues      int                `json:"totalIssues"`
	IssuesByPriority map[Priority]int   `json:"issuesByPriority"`
	OverallScore     float64            `json:"overallScore"`
	Grade            Grade              `json:"grade"`
	ScoresByCategory map[string]float64 `json:"scoresByCategory"`
	OutputFiles      map[string]string  `json:"outputFiles"`
}

// Grade is the letter band for a 0-100 score.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// GradeForScore maps a 0-100 score to its letter grade.
func GradeForScore(score float64) Grade {
	switch {
	case score >= 90:
		return GradeA
	case score >= 80:
		return GradeB
	case score >= 70:
		return GradeC
	case score >= 60:
		return GradeD
	default:
		return GradeF
	}
}
