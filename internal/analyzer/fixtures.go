package analyzer

import (
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/paulbreuler/runi-audit/internal/types"
)

// FixturesAnalyzer measures story/fixture coverage: does a component have a
// story or fixture file, and how many variants and interaction tests does
// it exercise.
type FixturesAnalyzer struct{}

// FixturesDetails is the fixture-coverage analyzer's domain payload.
type FixturesDetails struct {
	FixturePath   string `json:"fixturePath,omitempty"`
	VariantCount  int    `json:"variantCount"`
	PlayFunctions int    `json:"playFunctions"`
}

func (a *FixturesAnalyzer) Name() string           { return "fixtures" }
func (a *FixturesAnalyzer) Dependencies() []string { return nil }

func (a *FixturesAnalyzer) AnalyzeAll(inv types.Inventory, env *Env) ([]types.AnalysisResult, error) {
	return analyzeEach(a, inv, env)
}

var reStoryVariant = regexp.MustCompile(`(?m)^\s*export\s+const\s+[A-Z]`)

func (a *FixturesAnalyzer) AnalyzeComponent(rec types.ComponentRecord, src string, env *Env) (types.AnalysisResult, error) {
	cfg := env.Catalog.Fixtures
	result := newResult(rec, a.Name())

	fixturePath, fixtureSrc := a.locateFixture(env.Sources.Root(), rec, cfg.StorySuffixes, cfg.FixtureDirs)

	details := FixturesDetails{FixturePath: fixturePath}
	if fixturePath == "" {
		result.Score = 0
		result.Flags["hasFixture"] = false
		result.Violations = append(result.Violations, types.Violation{
			Rule:       "no-fixture",
			Message:    "Component has no story or fixture file",
			Severity:   types.SeverityWarning,
			Suggestion: "Add a story file covering the primary states",
		})
		if err := result.SetDetails(details); err != nil {
			return result, err
		}
		return result, nil
	}

	details.VariantCount = len(reStoryVariant.FindAllString(fixtureSrc, -1))
	details.PlayFunctions = strings.Count(fixtureSrc, "play:")

	score := cfg.BaseScore
	variantPoints := float64(details.VariantCount) * cfg.VariantPoints
	if variantPoints > cfg.MaxVariantPoints {
		variantPoints = cfg.MaxVariantPoints
	}
	score += variantPoints
	if details.PlayFunctions > 0 {
		score += cfg.PlayPoints
	}

	if details.VariantCount < 2 {
		result.Violations = append(result.Violations, types.Violation{
			Rule:       "sparse-fixture",
			Message:    "Fixture covers fewer than two variants",
			Severity:   types.SeverityInfo,
			Suggestion: "Add variants for the component's distinct states",
		})
	}

	result.Score = clampScore(score)
	result.Flags["hasFixture"] = true
	result.Flags["hasPlayFunction"] = details.PlayFunctions > 0
	if err := result.SetDetails(details); err != nil {
		return result, err
	}
	return result, nil
}

// locateFixture looks for a story file next to the component, then a
// fixture directory entry named after the component.
func (a *FixturesAnalyzer) locateFixture(root string, rec types.ComponentRecord, storySuffixes, fixtureDirs []string) (string, string) {
	dir := path.Dir(rec.Path)
	base := strings.TrimSuffix(path.Base(rec.Path), path.Ext(rec.Path))

	var candidates []string
	for _, suffix := range storySuffixes {
		candidates = append(candidates, path.Join(dir, base+suffix))
	}
	for _, fixDir := range fixtureDirs {
		candidates = append(candidates,
			path.Join(dir, fixDir, base+".tsx"),
			path.Join(dir, fixDir, base+".jsx"),
		)
	}

	for _, candidate := range candidates {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(candidate)))
		if err == nil {
			return candidate, string(data)
		}
	}
	return "", ""
}
