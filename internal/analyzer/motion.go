package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/paulbreuler/runi-audit/internal/types"
)

// MotionAnalyzer checks animation code for layout thrashing and for
// interval-driven state animation that should use reactive motion values.
// Which property and primitive names count is catalog configuration.
type MotionAnalyzer struct{}

// MotionDetails is the motion analyzer's domain payload.
type MotionDetails struct {
	Animated            bool     `json:"animated"`
	HardwareAccelerated bool     `json:"hardwareAccelerated"`
	LayoutProps         []string `json:"layoutProps,omitempty"`
	UsesReactiveValues  bool     `json:"usesReactiveValues"`
	IntervalDriven      bool     `json:"intervalDriven"`
}

func (a *MotionAnalyzer) Name() string           { return "motion" }
func (a *MotionAnalyzer) Dependencies() []string { return nil }

func (a *MotionAnalyzer) AnalyzeAll(inv types.Inventory, env *Env) ([]types.AnalysisResult, error) {
	return analyzeEach(a, inv, env)
}

var reSetState = regexp.MustCompile(`\bset[A-Z]\w*\s*\(`)

func (a *MotionAnalyzer) AnalyzeComponent(rec types.ComponentRecord, src string, env *Env) (types.AnalysisResult, error) {
	cfg := env.Catalog.Motion
	result := newResult(rec, a.Name())

	details := MotionDetails{
		Animated:           containsAny(src, cfg.AnimationMarkers),
		UsesReactiveValues: containsAny(src, cfg.ReactivePrimitives),
	}

	score := 100.0

	// Layout-affecting properties animated on lines that also carry an
	// animation marker indicate layout thrashing.
	if details.Animated {
		seen := map[string]bool{}
		for _, prop := range cfg.LayoutProperties {
			for _, hit := range findSubstring(src, prop) {
				if !lineHasMarker(hit.Snippet, cfg.AnimationMarkers) {
					continue
				}
				result.Violations = append(result.Violations, types.Violation{
					Rule:       "layout-thrashing",
					Line:       hit.Line,
					Snippet:    hit.Snippet,
					Message:    fmt.Sprintf("Animating %q forces layout and repaint every frame", prop),
					Severity:   types.SeverityWarning,
					Suggestion: "Animate transform or opacity instead",
				})
				if !seen[prop] {
					seen[prop] = true
					details.LayoutProps = append(details.LayoutProps, prop)
				}
				score -= 20
			}
		}
		details.HardwareAccelerated = len(details.LayoutProps) == 0 &&
			containsAny(src, cfg.AcceleratedProperties)
	}

	// Interval-driven state animation without reactive-value primitives.
	details.IntervalDriven = intervalDrivesState(src, cfg.IntervalMarkers)
	if details.IntervalDriven && !details.UsesReactiveValues {
		line := 0
		for _, marker := range cfg.IntervalMarkers {
			if hits := findSubstring(src, marker); len(hits) > 0 {
				line = hits[0].Line
				break
			}
		}
		result.Violations = append(result.Violations, types.Violation{
			Rule:       "missing-reactive-values",
			Line:       line,
			Message:    "Animation driven by interval state updates instead of reactive motion values",
			Severity:   types.SeverityWarning,
			Suggestion: "Use a motion value primitive to drive the animation",
		})
		score -= 15
	}

	result.Score = clampScore(score)
	result.Flags["animated"] = details.Animated
	result.Flags["hardwareAccelerated"] = details.HardwareAccelerated
	result.Flags["usesReactiveValues"] = details.UsesReactiveValues
	result.Flags["intervalDriven"] = details.IntervalDriven
	if err := result.SetDetails(details); err != nil {
		return result, err
	}
	return result, nil
}

func lineHasMarker(line string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// intervalDrivesState reports whether the component both schedules an
// interval/timeout and calls a state setter, the signature of a hand-rolled
// animation loop.
func intervalDrivesState(src string, intervalMarkers []string) bool {
	return containsAny(src, intervalMarkers) && reSetState.MatchString(src)
}
