// Package analyzer defines the analyzer contract and the eight concrete
// analyzers that inspect component sources. Analyzers are independent of
// each other except where Dependencies declares otherwise; the registry
// orders execution and the audit orchestrator drives it.
package analyzer

import (
	"fmt"
	"os"
	"sync"

	"github.com/paulbreuler/runi-audit/internal/artifact"
	"github.com/paulbreuler/runi-audit/internal/catalog"
	"github.com/paulbreuler/runi-audit/internal/srccache"
	"github.com/paulbreuler/runi-audit/internal/types"
)

// Analyzer is one pluggable audit concern.
type Analyzer interface {
	// Name returns the domain key, e.g. "motion".
	Name() string

	// Dependencies returns the names of analyzers whose results this one
	// reads. They must have run, and persisted output, before this one.
	Dependencies() []string

	// AnalyzeComponent inspects one component's source and structural
	// facts and returns the analyzer's findings for it.
	AnalyzeComponent(rec types.ComponentRecord, src string, env *Env) (types.AnalysisResult, error)

	// AnalyzeAll runs the analyzer over a whole inventory. Per-component
	// failures are warnings, not aborts.
	AnalyzeAll(inv types.Inventory, env *Env) ([]types.AnalysisResult, error)
}

// Env carries the shared, read-only context analyzers run against plus the
// finalized results of analyzers that already ran.
type Env struct {
	Catalog *catalog.Catalog
	Sources *srccache.Cache
	Store   *artifact.Store
	Verbose bool

	mu    sync.RWMutex
	prior map[string][]types.AnalysisResult
}

// NewEnv creates an analyzer environment.
func NewEnv(cat *catalog.Catalog, sources *srccache.Cache, store *artifact.Store) *Env {
	return &Env{
		Catalog: cat,
		Sources: sources,
		Store:   store,
		prior:   make(map[string][]types.AnalysisResult),
	}
}

// Record stores a finished analyzer's results for dependents to read.
func (e *Env) Record(domain string, results []types.AnalysisResult) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prior[domain] = results
}

// Prior returns a prerequisite analyzer's results. In the orchestrated run
// the results are in memory; standalone, the prerequisite's JSON artifact
// is read instead. When neither exists the caller must fail fast, so the
// error satisfies errors.Is(err, artifact.ErrMissingArtifact).
func (e *Env) Prior(domain string) ([]types.AnalysisResult, error) {
	e.mu.RLock()
	results, ok := e.prior[domain]
	e.mu.RUnlock()
	if ok {
		return results, nil
	}

	name, known := artifact.DomainFiles[domain]
	if !known {
		return nil, fmt.Errorf("unknown analyzer domain %q", domain)
	}
	if e.Store == nil {
		return nil, fmt.Errorf("%w: %s (no artifact store configured)", artifact.ErrMissingArtifact, name)
	}

	var loaded []types.AnalysisResult
	if err := e.Store.ReadJSON(name, &loaded); err != nil {
		return nil, fmt.Errorf("prerequisite %q: %w", domain, err)
	}
	e.Record(domain, loaded)
	return loaded, nil
}

// analyzeEach is the shared AnalyzeAll loop: read each component's source,
// run the analyzer, and on failure warn and exclude the component so one
// bad file never blocks the rest.
func analyzeEach(a Analyzer, inv types.Inventory, env *Env) ([]types.AnalysisResult, error) {
	results := make([]types.AnalysisResult, 0, len(inv))
	for _, rec := range inv {
		src, err := env.Sources.Get(rec.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", rec.Path, err)
			continue
		}
		result, err := a.AnalyzeComponent(rec, src, env)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %s: %s analyzer: %v\n", rec.Path, a.Name(), err)
			continue
		}
		if env.Verbose {
			fmt.Printf("  %s %s: %.0f\n", a.Name(), rec.Path, result.Score)
		}
		results = append(results, result)
	}
	return results, nil
}

// newResult initializes a result envelope for one (component, analyzer) pair.
func newResult(rec types.ComponentRecord, domain string) types.AnalysisResult {
	return types.AnalysisResult{
		ComponentPath: rec.Path,
		ComponentName: rec.Name,
		Domain:        domain,
		Score:         100,
		Flags:         map[string]bool{},
	}
}

// clampScore bounds a score to [0, 100].
func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
