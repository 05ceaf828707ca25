package analyzer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulbreuler/runi-audit/internal/types"
)

// MaterialAnalyzer checks design-token conformance across every component:
// raw hex colors, spacing values off the scale, ad-hoc shadows and
// z-indexes, and inline style objects where tokens exist.
type MaterialAnalyzer struct{}

// MaterialDetails is the cross-cutting material analyzer's domain payload.
type MaterialDetails struct {
	RawHexColors    int  `json:"rawHexColors"`
	OffScaleSpacing int  `json:"offScaleSpacing"`
	InlineStyles    int  `json:"inlineStyles"`
	UsesTokens      bool `json:"usesTokens"`
}

func (a *MaterialAnalyzer) Name() string           { return "material" }
func (a *MaterialAnalyzer) Dependencies() []string { return nil }

func (a *MaterialAnalyzer) AnalyzeAll(inv types.Inventory, env *Env) ([]types.AnalysisResult, error) {
	return analyzeEach(a, inv, env)
}

var (
	reRawHex   = regexp.MustCompile(`#[0-9a-fA-F]{3,8}\b`)
	rePxValue  = regexp.MustCompile(`\b(\d+)px\b`)
	reShadow   = regexp.MustCompile(`box-?[sS]hadow\s*[:=]`)
	reZIndex   = regexp.MustCompile(`z-?[iI]ndex\s*[:=]\s*\{?\s*(\d+)`)
	reStyleObj = regexp.MustCompile(`style=\{\{`)
)

const materialPenalty = 8

func (a *MaterialAnalyzer) AnalyzeComponent(rec types.ComponentRecord, src string, env *Env) (types.AnalysisResult, error) {
	cfg := env.Catalog.Material
	result := newResult(rec, a.Name())
	details := MaterialDetails{UsesTokens: containsAny(src, cfg.TokenMarkers)}

	scale := map[int]bool{}
	for _, v := range cfg.SpacingScale {
		scale[v] = true
	}

	addViolation := func(v types.Violation) {
		result.Violations = append(result.Violations, v)
	}

	for _, hit := range findRegexp(src, reRawHex) {
		details.RawHexColors++
		addViolation(types.Violation{
			Rule:       "raw-hex-color",
			Line:       hit.Line,
			Snippet:    hit.Snippet,
			Message:    "Raw hex color instead of a color token",
			Severity:   types.SeverityWarning,
			Suggestion: "Replace the hex value with a color token",
		})
	}

	for i, line := range strings.Split(src, "\n") {
		for _, m := range rePxValue.FindAllStringSubmatch(line, -1) {
			px, err := strconv.Atoi(m[1])
			if err != nil || scale[px] {
				continue
			}
			details.OffScaleSpacing++
			addViolation(types.Violation{
				Rule:       "off-scale-spacing",
				Line:       i + 1,
				Snippet:    snippet(line),
				Message:    fmt.Sprintf("%dpx is not on the spacing scale", px),
				Severity:   types.SeverityInfo,
				Suggestion: "Use a spacing-scale value",
			})
		}
	}

	for _, hit := range findRegexp(src, reShadow) {
		if lineHasMarker(hit.Snippet, cfg.TokenMarkers) {
			continue
		}
		addViolation(types.Violation{
			Rule:       "adhoc-shadow",
			Line:       hit.Line,
			Snippet:    hit.Snippet,
			Message:    "Hand-rolled shadow instead of an elevation token",
			Severity:   types.SeverityWarning,
			Suggestion: "Use the elevation tokens",
		})
	}

	for _, hit := range findRegexp(src, reZIndex) {
		if lineHasMarker(hit.Snippet, cfg.TokenMarkers) {
			continue
		}
		addViolation(types.Violation{
			Rule:       "adhoc-zindex",
			Line:       hit.Line,
			Snippet:    hit.Snippet,
			Message:    "Raw z-index instead of a layering token",
			Severity:   types.SeverityWarning,
			Suggestion: "Use the layering tokens",
		})
	}

	for _, hit := range findRegexp(src, reStyleObj) {
		details.InlineStyles++
		addViolation(types.Violation{
			Rule:       "inline-style-object",
			Line:       hit.Line,
			Snippet:    hit.Snippet,
			Message:    "Inline style object bypasses the token-based styling layer",
			Severity:   types.SeverityInfo,
			Suggestion: "Move the styles into the styling layer",
		})
	}

	result.Score = clampScore(100 - float64(len(result.Violations))*materialPenalty)
	result.Flags["usesTokens"] = details.UsesTokens
	if err := result.SetDetails(details); err != nil {
		return result, err
	}
	return result, nil
}
