package analyzer

import (
	"github.com/paulbreuler/runi-audit/internal/catalog"
	"github.com/paulbreuler/runi-audit/internal/types"
)

// PrinciplesAnalyzer evaluates each component against the catalog's design
// principles. A principle passes when none of its forbidden signals fire
// and, if it declares required patterns, at least one is present.
type PrinciplesAnalyzer struct{}

// Principle statuses.
const (
	StatusPass    = "pass"
	StatusPartial = "partial"
	StatusFail    = "fail"
)

// PrincipleStatus is one principle's outcome for one component.
type PrincipleStatus struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Status     string            `json:"status"`
	Violations []types.Violation `json:"violations,omitempty"`
}

// PrinciplesDetails is the principle-compliance analyzer's domain payload.
type PrinciplesDetails struct {
	Statuses []PrincipleStatus `json:"statuses"`
}

func (a *PrinciplesAnalyzer) Name() string           { return "principles" }
func (a *PrinciplesAnalyzer) Dependencies() []string { return nil }

func (a *PrinciplesAnalyzer) AnalyzeAll(inv types.Inventory, env *Env) ([]types.AnalysisResult, error) {
	return analyzeEach(a, inv, env)
}

func (a *PrinciplesAnalyzer) AnalyzeComponent(rec types.ComponentRecord, src string, env *Env) (types.AnalysisResult, error) {
	result := newResult(rec, a.Name())

	var details PrinciplesDetails
	earned, total := 0.0, 0.0

	for _, principle := range env.Catalog.Principles {
		status := evaluatePrinciple(principle, src)
		details.Statuses = append(details.Statuses, status)

		// Concrete violations are surfaced at the result level so the
		// extractor maps each to its own issue.
		result.Violations = append(result.Violations, status.Violations...)

		weight := principle.Weight
		if weight <= 0 {
			weight = 1
		}
		total += weight
		switch status.Status {
		case StatusPass:
			earned += weight
		case StatusPartial:
			earned += weight / 2
		}
		result.Flags["principle:"+principle.ID] = status.Status == StatusPass
	}

	if total > 0 {
		result.Score = clampScore(100 * earned / total)
	}
	if err := result.SetDetails(details); err != nil {
		return result, err
	}
	return result, nil
}

func evaluatePrinciple(p catalog.Principle, src string) PrincipleStatus {
	status := PrincipleStatus{ID: p.ID, Name: p.Name}

	for _, signal := range p.Forbidden {
		severity := types.Severity(signal.Severity)
		if severity == "" {
			severity = types.SeverityWarning
		}
		for _, hit := range findSubstring(src, signal.Pattern) {
			status.Violations = append(status.Violations, types.Violation{
				Rule:       "principle:" + p.ID,
				Line:       hit.Line,
				Snippet:    hit.Snippet,
				Message:    signal.Message,
				Severity:   severity,
				Suggestion: signal.Suggestion,
			})
		}
	}

	requiredMet := len(p.RequiredPatterns) == 0 || containsAny(src, p.RequiredPatterns)

	switch {
	case requiredMet && len(status.Violations) == 0:
		status.Status = StatusPass
	case requiredMet:
		status.Status = StatusPartial
	default:
		// Required evidence absent. With violations too, this is an
		// outright fail; with none, it is the fail-without-violations
		// case the extractor turns into a single generic issue.
		status.Status = StatusFail
	}
	return status
}
