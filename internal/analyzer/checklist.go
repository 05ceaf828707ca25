package analyzer

import (
	"fmt"
	"regexp"

	"github.com/paulbreuler/runi-audit/internal/types"
)

// ChecklistAnalyzer evaluates the catalog's component checklist. It depends
// on the fixture-coverage analyzer: the "has test fixture" item reads that
// analyzer's persisted results rather than re-scanning the tree.
type ChecklistAnalyzer struct {
	fixtures map[string]types.AnalysisResult
}

// ChecklistItemResult is one checklist item's outcome.
type ChecklistItemResult struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Passed      bool   `json:"passed"`
}

// ChecklistDetails is the checklist analyzer's domain payload.
type ChecklistDetails struct {
	Items  []ChecklistItemResult `json:"items"`
	Passed int                   `json:"passed"`
	Total  int                   `json:"total"`
}

func (a *ChecklistAnalyzer) Name() string           { return "checklist" }
func (a *ChecklistAnalyzer) Dependencies() []string { return []string{"fixtures"} }

// AnalyzeAll fetches the prerequisite fixture-coverage results up front so
// a missing artifact fails the whole analyzer fast instead of degrading
// every component's "has-fixture" item.
func (a *ChecklistAnalyzer) AnalyzeAll(inv types.Inventory, env *Env) ([]types.AnalysisResult, error) {
	fixtureResults, err := env.Prior("fixtures")
	if err != nil {
		return nil, err
	}

	a.fixtures = make(map[string]types.AnalysisResult, len(fixtureResults))
	for _, r := range fixtureResults {
		a.fixtures[r.ComponentPath] = r
	}
	return analyzeEach(a, inv, env)
}

var (
	reHexColor       = regexp.MustCompile(`#[0-9a-fA-F]{3,8}\b`)
	reInlineStyleObj = regexp.MustCompile(`style=\{\{`)
)

func (a *ChecklistAnalyzer) AnalyzeComponent(rec types.ComponentRecord, src string, env *Env) (types.AnalysisResult, error) {
	if a.fixtures == nil {
		// Called outside AnalyzeAll; load the prerequisite now.
		fixtureResults, err := env.Prior("fixtures")
		if err != nil {
			return types.AnalysisResult{}, err
		}
		a.fixtures = make(map[string]types.AnalysisResult, len(fixtureResults))
		for _, r := range fixtureResults {
			a.fixtures[r.ComponentPath] = r
		}
	}

	result := newResult(rec, a.Name())
	details := ChecklistDetails{}

	for _, item := range env.Catalog.Checklist {
		passed, err := a.evaluate(item.Kind, item.Limit, rec, src)
		if err != nil {
			return result, err
		}
		details.Items = append(details.Items, ChecklistItemResult{
			ID:          item.ID,
			Description: item.Description,
			Passed:      passed,
		})
		details.Total++
		if passed {
			details.Passed++
		}
		result.Flags["item:"+item.ID] = passed
	}

	if details.Total > 0 {
		result.Score = clampScore(100 * float64(details.Passed) / float64(details.Total))
	}
	if err := result.SetDetails(details); err != nil {
		return result, err
	}
	return result, nil
}

func (a *ChecklistAnalyzer) evaluate(kind string, limit int, rec types.ComponentRecord, src string) (bool, error) {
	switch kind {
	case "props-type":
		return rec.PropsType != "", nil
	case "named-export":
		return rec.ExportShape == types.ExportNamed || rec.ExportShape == types.ExportBoth, nil
	case "has-fixture":
		fixture, ok := a.fixtures[rec.Path]
		return ok && fixture.Flags["hasFixture"], nil
	case "no-raw-hex":
		return !reHexColor.MatchString(src), nil
	case "no-inline-styles":
		return !reInlineStyleObj.MatchString(src), nil
	case "max-lines":
		if limit <= 0 {
			limit = 300
		}
		return rec.LineCount <= limit, nil
	default:
		return false, fmt.Errorf("unknown checklist item kind %q", kind)
	}
}
