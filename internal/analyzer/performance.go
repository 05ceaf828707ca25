package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/paulbreuler/runi-audit/internal/types"
)

// PerformanceAnalyzer flags render-path work that defeats memoization:
// inline object and arrow props, unstable list keys, expensive operations
// outside useMemo, unmemoized list items, and oversized components.
type PerformanceAnalyzer struct{}

// PerformanceDetails is the performance analyzer's domain payload.
type PerformanceDetails struct {
	InlineObjectProps int  `json:"inlineObjectProps"`
	InlineArrowProps  int  `json:"inlineArrowProps"`
	RendersList       bool `json:"rendersList"`
	Memoized          bool `json:"memoized"`
	Oversized         bool `json:"oversized"`
}

func (a *PerformanceAnalyzer) Name() string           { return "performance" }
func (a *PerformanceAnalyzer) Dependencies() []string { return nil }

func (a *PerformanceAnalyzer) AnalyzeAll(inv types.Inventory, env *Env) ([]types.AnalysisResult, error) {
	return analyzeEach(a, inv, env)
}

var (
	reInlineObjectProp = regexp.MustCompile(`[a-zA-Z]\w*=\{\{`)
	reInlineArrowProp  = regexp.MustCompile(`on[A-Z]\w*=\{\s*\(`)
	reUnstableKey      = regexp.MustCompile(`key=\{(?:index|i|idx)\b|key=\{Math\.random`)
	reListRender       = regexp.MustCompile(`\.map\(\s*\(?[^)]*\)?\s*=>`)
)

const (
	perfPenaltyError   = 20
	perfPenaltyWarning = 10
	perfPenaltyInfo    = 5
)

func (a *PerformanceAnalyzer) AnalyzeComponent(rec types.ComponentRecord, src string, env *Env) (types.AnalysisResult, error) {
	cfg := env.Catalog.Performance
	result := newResult(rec, a.Name())
	details := PerformanceDetails{
		RendersList: reListRender.MatchString(src),
		Memoized:    strings.Contains(src, "memo(") || strings.Contains(src, "React.memo"),
	}

	addViolation := func(v types.Violation) {
		result.Violations = append(result.Violations, v)
	}

	// style={{ is the material analyzer's concern; skip it here so the
	// same line is not penalized twice across domains.
	for _, hit := range findRegexp(src, reInlineObjectProp) {
		if strings.Contains(hit.Snippet, "style={{") {
			continue
		}
		details.InlineObjectProps++
		addViolation(types.Violation{
			Rule:       "inline-object-prop",
			Line:       hit.Line,
			Snippet:    hit.Snippet,
			Message:    "Inline object prop allocates a new reference every render",
			Severity:   types.SeverityWarning,
			Suggestion: "Hoist the object or wrap it in useMemo",
		})
	}

	for _, hit := range findRegexp(src, reInlineArrowProp) {
		details.InlineArrowProps++
		addViolation(types.Violation{
			Rule:       "inline-arrow-prop",
			Line:       hit.Line,
			Snippet:    hit.Snippet,
			Message:    "Inline handler creates a new function every render",
			Severity:   types.SeverityWarning,
			Suggestion: "Extract the handler with useCallback",
		})
	}

	for _, hit := range findRegexp(src, reUnstableKey) {
		addViolation(types.Violation{
			Rule:       "unstable-key",
			Line:       hit.Line,
			Snippet:    hit.Snippet,
			Message:    "List key is not a stable identifier",
			Severity:   types.SeverityError,
			Suggestion: "Key by a stable id from the data",
		})
	}

	if !strings.Contains(src, "useMemo") {
		for _, op := range cfg.ExpensiveRenderOps {
			for _, hit := range findSubstring(src, op) {
				addViolation(types.Violation{
					Rule:       "expensive-render-op",
					Line:       hit.Line,
					Snippet:    hit.Snippet,
					Message:    fmt.Sprintf("Expensive operation %q runs on every render", strings.TrimSuffix(op, "(")),
					Severity:   types.SeverityWarning,
					Suggestion: "Move the computation into useMemo",
				})
			}
		}
	}

	if details.RendersList && !details.Memoized {
		addViolation(types.Violation{
			Rule:       "unmemoized-list-item",
			Message:    "Component renders a list without memoized items",
			Severity:   types.SeverityInfo,
			Suggestion: "Wrap the item component in memo",
		})
	}

	maxLines := cfg.MaxLines
	if maxLines <= 0 {
		maxLines = 300
	}
	if rec.LineCount > maxLines {
		details.Oversized = true
		addViolation(types.Violation{
			Rule:       "oversized-component",
			Message:    fmt.Sprintf("Component is %d lines, over the %d-line ceiling", rec.LineCount, maxLines),
			Severity:   types.SeverityWarning,
			Suggestion: "Split the component along its natural seams",
		})
	}

	score := 100.0
	for _, v := range result.Violations {
		switch v.Severity {
		case types.SeverityError:
			score -= perfPenaltyError
		case types.SeverityWarning:
			score -= perfPenaltyWarning
		default:
			score -= perfPenaltyInfo
		}
	}

	result.Score = clampScore(score)
	result.Flags["memoized"] = details.Memoized
	result.Flags["oversized"] = details.Oversized
	if err := result.SetDetails(details); err != nil {
		return result, err
	}
	return result, nil
}
