package analyzer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/mod/semver"

	"github.com/paulbreuler/runi-audit/internal/types"
)

// LibraryAnalyzer audits third-party usage: imports checked against the
// approved-library catalog, deep imports into packages that forbid them,
// and dependency pins read from the UI package.json.
type LibraryAnalyzer struct {
	once sync.Once
	deps map[string]string // package.json dependencies, nil when absent
}

// LibraryDetails is the library-usage analyzer's domain payload.
type LibraryDetails struct {
	Imports []string `json:"imports,omitempty"`
}

func (a *LibraryAnalyzer) Name() string           { return "library" }
func (a *LibraryAnalyzer) Dependencies() []string { return nil }

func (a *LibraryAnalyzer) AnalyzeAll(inv types.Inventory, env *Env) ([]types.AnalysisResult, error) {
	return analyzeEach(a, inv, env)
}

var reLibImport = regexp.MustCompile(`(?m)^\s*import\s+[^'"]*?from\s+['"]([^'".][^'"]*)['"]`)

func (a *LibraryAnalyzer) AnalyzeComponent(rec types.ComponentRecord, src string, env *Env) (types.AnalysisResult, error) {
	a.once.Do(func() { a.deps = loadPackageDeps(env.Sources.Root()) })

	cfg := env.Catalog.Library
	result := newResult(rec, a.Name())
	details := LibraryDetails{}

	seen := map[string]bool{}
	for i, line := range strings.Split(src, "\n") {
		m := reLibImport.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		from := m[1]
		if strings.HasPrefix(from, ".") || strings.HasPrefix(from, "@/") {
			continue
		}

		pkg := packageName(from)
		if !seen[pkg] {
			seen[pkg] = true
			details.Imports = append(details.Imports, pkg)
		}

		lineNo := i + 1
		snip := snippet(line)

		for _, dis := range cfg.Disallowed {
			if pkg == dis.Package {
				result.Violations = append(result.Violations, types.Violation{
					Rule:       "disallowed-library",
					Line:       lineNo,
					Snippet:    snip,
					Message:    fmt.Sprintf("%s is disallowed: %s", pkg, dis.Reason),
					Severity:   types.SeverityError,
					Suggestion: fmt.Sprintf("Use %s instead", dis.Alternative),
				})
			}
		}

		for _, approved := range cfg.Approved {
			for _, alt := range approved.Alternatives {
				if pkg == alt || pkg == packageName(alt) {
					result.Violations = append(result.Violations, types.Violation{
						Rule:       "unapproved-library",
						Line:       lineNo,
						Snippet:    snip,
						Message:    fmt.Sprintf("%s duplicates the %s concern covered by %s", pkg, approved.Concern, approved.Package),
						Severity:   types.SeverityWarning,
						Suggestion: fmt.Sprintf("Use %s for %s", approved.Package, approved.Concern),
					})
				}
			}
		}

		for _, deep := range cfg.DeepImportPackages {
			if strings.HasPrefix(from, deep+"/") {
				result.Violations = append(result.Violations, types.Violation{
					Rule:       "deep-import",
					Line:       lineNo,
					Snippet:    snip,
					Message:    fmt.Sprintf("Deep import into %s", deep),
					Severity:   types.SeverityInfo,
					Suggestion: "Import from the package root",
				})
			}
		}

		if a.deps != nil {
			if version, declared := a.deps[pkg]; declared {
				result.Violations = append(result.Violations, versionViolations(pkg, version, lineNo)...)
			}
		}
	}

	score := 100.0
	for _, v := range result.Violations {
		switch v.Severity {
		case types.SeverityError:
			score -= 12
		case types.SeverityWarning:
			score -= 6
		default:
			score -= 3
		}
	}

	result.Score = clampScore(score)
	result.Flags["hasThirdPartyImports"] = len(details.Imports) > 0
	if err := result.SetDetails(details); err != nil {
		return result, err
	}
	return result, nil
}

// versionViolations checks one dependency's declared version range.
func versionViolations(pkg, version string, line int) []types.Violation {
	if version == "*" || version == "latest" || version == "" {
		return []types.Violation{{
			Rule:       "unpinned-version",
			Line:       line,
			Message:    fmt.Sprintf("%s is not pinned (%q)", pkg, version),
			Severity:   types.SeverityWarning,
			Suggestion: "Pin the dependency to an exact version",
		}}
	}
	if !semver.IsValid(CanonicalVersion(version)) {
		return []types.Violation{{
			Rule:       "unparseable-version",
			Line:       line,
			Message:    fmt.Sprintf("%s version %q does not parse as semver", pkg, version),
			Severity:   types.SeverityWarning,
			Suggestion: "Fix the dependency version so it parses as semver",
		}}
	}
	return nil
}

// CanonicalVersion converts an npm version range to the canonical form
// x/mod/semver compares: range prefixes stripped, leading v ensured.
func CanonicalVersion(version string) string {
	v := strings.TrimSpace(version)
	for _, prefix := range []string{"^", "~", ">=", "<=", ">", "<", "="} {
		v = strings.TrimPrefix(v, prefix)
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return v
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// packageName reduces an import path to its npm package name, keeping the
// scope for scoped packages.
func packageName(from string) string {
	parts := strings.Split(from, "/")
	if strings.HasPrefix(from, "@") && len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

// loadPackageDeps reads dependencies from the package.json at or above the
// discovery root. Absent or unparseable files disable version checks.
func loadPackageDeps(root string) map[string]string {
	dir := root
	for i := 0; i < 4; i++ {
		data, err := os.ReadFile(filepath.Join(dir, "package.json"))
		if err == nil {
			var pkg struct {
				Dependencies    map[string]string `json:"dependencies"`
				DevDependencies map[string]string `json:"devDependencies"`
			}
			if err := json.Unmarshal(data, &pkg); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: parsing package.json: %v\n", err)
				return nil
			}
			deps := make(map[string]string, len(pkg.Dependencies)+len(pkg.DevDependencies))
			for k, v := range pkg.DevDependencies {
				deps[k] = v
			}
			for k, v := range pkg.Dependencies {
				deps[k] = v
			}
			return deps
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil
}
