// Package catalog loads the audit heuristic catalog: the pattern lists,
// principles, checklist items, library policy, and recommendation texts the
// analyzers evaluate. The catalog is configuration, not code — a default is
// embedded in the binary and a local catalog.toml overrides it wholesale.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed default_catalog.toml
var embeddedCatalog []byte

// Catalog is the full heuristic catalog.
type Catalog struct {
	Motion          MotionConfig        `toml:"motion"`
	Fixtures        FixturesConfig      `toml:"fixtures"`
	Performance     PerformanceConfig   `toml:"performance"`
	Accessibility   AccessibilityConfig `toml:"accessibility"`
	Material        MaterialConfig      `toml:"material"`
	Principles      []Principle         `toml:"principles"`
	Checklist       []ChecklistItem     `toml:"checklist"`
	Library         LibraryConfig       `toml:"library"`
	Recommendations map[string]string   `toml:"recommendations"`
}

// MotionConfig lists the property and primitive patterns the motion
// analyzer matches.
type MotionConfig struct {
	LayoutProperties      []string `toml:"layout_properties"`
	AcceleratedProperties []string `toml:"accelerated_properties"`
	AnimationMarkers      []string `toml:"animation_markers"`
	ReactivePrimitives    []string `toml:"reactive_primitives"`
	IntervalMarkers       []string `toml:"interval_markers"`
}

// FixturesConfig controls fixture discovery and coverage scoring.
type FixturesConfig struct {
	StorySuffixes    []string `toml:"story_suffixes"`
	FixtureDirs      []string `toml:"fixture_dirs"`
	BaseScore        float64  `toml:"base_score"`
	VariantPoints    float64  `toml:"variant_points"`
	MaxVariantPoints float64  `toml:"max_variant_points"`
	PlayPoints       float64  `toml:"play_points"`
}

// PerformanceConfig holds the performance analyzer's thresholds and
// expensive-operation patterns.
type PerformanceConfig struct {
	MaxLines           int      `toml:"max_lines"`
	ExpensiveRenderOps []string `toml:"expensive_render_ops"`
}

// AccessibilityConfig lists the element and attribute names the
// accessibility analyzer inspects.
type AccessibilityConfig struct {
	InteractiveElements []string `toml:"interactive_elements"`
	LabelAttributes     []string `toml:"label_attributes"`
}

// MaterialConfig holds the design-token conformance rules.
type MaterialConfig struct {
	SpacingScale []int    `toml:"spacing_scale"`
	TokenMarkers []string `toml:"token_markers"`
}

// Principle is one catalog-defined design principle. A component passes
// when none of the forbidden signals fire and, if RequiredPatterns is
// non-empty, at least one required pattern is present.
type Principle struct {
	ID               string   `toml:"id"`
	Name             string   `toml:"name"`
	Weight           float64  `toml:"weight"`
	RequiredPatterns []string `toml:"required_patterns"`
	Forbidden        []Signal `toml:"forbidden"`
}

// Signal is one forbidden-pattern rule inside a principle.
type Signal struct {
	Pattern    string `toml:"pattern"`
	Message    string `toml:"message"`
	Suggestion string `toml:"suggestion"`
	Severity   string `toml:"severity"`
}

// ChecklistItem is one catalog-defined checklist entry. Kind selects the
// evaluation the checklist analyzer applies; Limit parameterizes kinds
// that need a threshold.
type ChecklistItem struct {
	ID          string `toml:"id"`
	Description string `toml:"description"`
	Kind        string `toml:"kind"`
	Limit       int    `toml:"limit"`
}

// LibraryConfig is the library-usage policy.
type LibraryConfig struct {
	DeepImportPackages []string        `toml:"deep_import_packages"`
	Approved           []ApprovedLib   `toml:"approved"`
	Disallowed         []DisallowedLib `toml:"disallowed"`
}

// ApprovedLib names the approved package for a concern plus the known
// alternatives that should be flagged.
type ApprovedLib struct {
	Concern      string   `toml:"concern"`
	Package      string   `toml:"package"`
	Alternatives []string `toml:"alternatives"`
}

// DisallowedLib names a package that must not be imported.
type DisallowedLib struct {
	Package     string `toml:"package"`
	Reason      string `toml:"reason"`
	Alternative string `toml:"alternative"`
}

// Load returns the catalog. When path is non-empty the file replaces the
// embedded default; otherwise a catalog.toml in the working directory is
// used if present, else the embedded default.
func Load(path string) (*Catalog, error) {
	if path != "" {
		return loadFile(path)
	}

	if _, err := os.Stat("catalog.toml"); err == nil {
		cat, err := loadFile("catalog.toml")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load local catalog.toml: %v\n", err)
		} else {
			return cat, nil
		}
	}

	var cat Catalog
	if err := toml.Unmarshal(embeddedCatalog, &cat); err != nil {
		return nil, fmt.Errorf("parsing embedded catalog: %w", err)
	}
	return &cat, nil
}

func loadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	var cat Catalog
	if err := toml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	return &cat, nil
}

// Recommendation returns the recommendation text for a rule key, falling
// back to the catalog default. The result is never empty.
func (c *Catalog) Recommendation(rule string) string {
	if text, ok := c.Recommendations[rule]; ok && text != "" {
		return text
	}
	if text, ok := c.Recommendations["default"]; ok && text != "" {
		return text
	}
	return "Review the flagged code against the component conventions guide"
}
