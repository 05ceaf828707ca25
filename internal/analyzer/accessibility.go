package analyzer

import (
	"regexp"
	"strings"

	"github.com/paulbreuler/runi-audit/internal/types"
)

// AccessibilityAnalyzer finds interactive elements without accessible
// names, missing keyboard support, and focus-order hazards. Violations
// carry an impact rating in addition to severity; the issue extractor
// escalates critical and serious impacts regardless of severity.
type AccessibilityAnalyzer struct{}

// AccessibilityDetails is the accessibility analyzer's domain payload.
type AccessibilityDetails struct {
	InteractiveElements int `json:"interactiveElements"`
	ViolationsByImpact  map[types.Impact]int `json:"violationsByImpact,omitempty"`
}

func (a *AccessibilityAnalyzer) Name() string           { return "accessibility" }
func (a *AccessibilityAnalyzer) Dependencies() []string { return nil }

func (a *AccessibilityAnalyzer) AnalyzeAll(inv types.Inventory, env *Env) ([]types.AnalysisResult, error) {
	return analyzeEach(a, inv, env)
}

var (
	reImgTag          = regexp.MustCompile(`<img\b[^>]*`)
	reAltAttr         = regexp.MustCompile(`\balt=`)
	rePositiveTabIdx  = regexp.MustCompile(`tabIndex=\{?["']?[1-9]`)
	reClickableDiv    = regexp.MustCompile(`<(?:div|span)\b[^>]*onClick`)
	reIconButton      = regexp.MustCompile(`<button\b[^>]*>`)
	reAriaHiddenFocus = regexp.MustCompile(`aria-hidden[^>]*(?:tabIndex|onClick)|(?:tabIndex|onClick)[^>]*aria-hidden`)
)

func impactPenalty(impact types.Impact) float64 {
	switch impact {
	case types.ImpactCritical:
		return 30
	case types.ImpactSerious:
		return 20
	case types.ImpactModerate:
		return 10
	default:
		return 5
	}
}

func (a *AccessibilityAnalyzer) AnalyzeComponent(rec types.ComponentRecord, src string, env *Env) (types.AnalysisResult, error) {
	cfg := env.Catalog.Accessibility
	result := newResult(rec, a.Name())
	details := AccessibilityDetails{ViolationsByImpact: map[types.Impact]int{}}

	for _, el := range cfg.InteractiveElements {
		details.InteractiveElements += strings.Count(src, "<"+el)
	}

	addViolation := func(v types.Violation) {
		result.Violations = append(result.Violations, v)
		details.ViolationsByImpact[v.Impact]++
	}

	// Images without alt text.
	for _, hit := range findRegexp(src, reImgTag) {
		if !reAltAttr.MatchString(hit.Snippet) {
			addViolation(types.Violation{
				Rule:       "missing-alt",
				Line:       hit.Line,
				Snippet:    hit.Snippet,
				Message:    "Image has no alt attribute",
				Severity:   types.SeverityError,
				Suggestion: "Add a descriptive alt attribute",
				Impact:     types.ImpactSerious,
			})
		}
	}

	// Icon-only buttons without an accessible name.
	for _, hit := range findRegexp(src, reIconButton) {
		if hasLabelAttr(hit.Snippet, cfg.LabelAttributes) {
			continue
		}
		if strings.Contains(hit.Snippet, "<svg") || strings.Contains(hit.Snippet, "Icon") {
			addViolation(types.Violation{
				Rule:       "missing-accessible-name",
				Line:       hit.Line,
				Snippet:    hit.Snippet,
				Message:    "Icon-only button has no accessible name",
				Severity:   types.SeverityError,
				Suggestion: "Add an aria-label to the button",
				Impact:     types.ImpactSerious,
			})
		}
	}

	// Click handlers on non-interactive elements.
	for _, hit := range findRegexp(src, reClickableDiv) {
		if strings.Contains(hit.Snippet, "role=") {
			// Role given but still needs keyboard support.
			if !strings.Contains(src, "onKeyDown") && !strings.Contains(src, "onKeyUp") {
				addViolation(types.Violation{
					Rule:       "missing-keyboard-handler",
					Line:       hit.Line,
					Snippet:    hit.Snippet,
					Message:    "Clickable element has no keyboard handler",
					Severity:   types.SeverityWarning,
					Suggestion: "Pair onClick with onKeyDown",
					Impact:     types.ImpactModerate,
				})
			}
			continue
		}
		addViolation(types.Violation{
			Rule:       "non-interactive-handler",
			Line:       hit.Line,
			Snippet:    hit.Snippet,
			Message:    "Click handler on a non-interactive element without a role",
			Severity:   types.SeverityError,
			Suggestion: "Use a button, or add role and keyboard handlers",
			Impact:     types.ImpactSerious,
		})
	}

	// Positive tabIndex breaks the natural focus order.
	for _, hit := range findRegexp(src, rePositiveTabIdx) {
		addViolation(types.Violation{
			Rule:       "positive-tabindex",
			Line:       hit.Line,
			Snippet:    hit.Snippet,
			Message:    "Positive tabIndex overrides the natural focus order",
			Severity:   types.SeverityWarning,
			Suggestion: "Remove the positive tabIndex and rely on DOM order",
			Impact:     types.ImpactModerate,
		})
	}

	// aria-hidden on focusable elements traps screen-reader focus.
	for _, hit := range findRegexp(src, reAriaHiddenFocus) {
		addViolation(types.Violation{
			Rule:       "hidden-focusable",
			Line:       hit.Line,
			Snippet:    hit.Snippet,
			Message:    "aria-hidden element is still focusable",
			Severity:   types.SeverityError,
			Suggestion: "Remove aria-hidden or make the element unfocusable",
			Impact:     types.ImpactCritical,
		})
	}

	score := 100.0
	for _, v := range result.Violations {
		score -= impactPenalty(v.Impact)
	}

	result.Score = clampScore(score)
	result.Flags["hasInteractiveElements"] = details.InteractiveElements > 0
	if err := result.SetDetails(details); err != nil {
		return result, err
	}
	return result, nil
}

func hasLabelAttr(line string, labelAttrs []string) bool {
	for _, attr := range labelAttrs {
		if strings.Contains(line, attr) {
			return true
		}
	}
	return false
}
