// Package audit orchestrates the full pipeline: discovery, scheduled
// analyzer execution, issue extraction, report synthesis, and run history.
package audit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/paulbreuler/runi-audit/internal/analyzer"
	"github.com/paulbreuler/runi-audit/internal/artifact"
	"github.com/paulbreuler/runi-audit/internal/catalog"
	"github.com/paulbreuler/runi-audit/internal/discovery"
	"github.com/paulbreuler/runi-audit/internal/history"
	"github.com/paulbreuler/runi-audit/internal/issue"
	"github.com/paulbreuler/runi-audit/internal/report"
	"github.com/paulbreuler/runi-audit/internal/srccache"
	"github.com/paulbreuler/runi-audit/internal/types"
)

// DefaultConcurrency bounds how many independent analyzers run at once.
const DefaultConcurrency = 4

// Config parameterizes one orchestrated run.
type Config struct {
	Root        string
	OutDir      string
	Include     []string
	Exclude     []string
	Analyzers   []string // empty = all registered
	Concurrency int      // <=0 = DefaultConcurrency
	CatalogPath string
	HistoryPath string // empty = <OutDir>/history.db
	Verbose     bool
}

// Result is what a completed run produced.
type Result struct {
	Report  *types.AuditReport
	Summary *types.RunSummary
	Trend   *history.Trend // nil when no previous run exists
	Skipped []string       // analyzer domains skipped after failure
}

// Run executes the full pipeline. Only setup and discovery-root errors
// abort; a failing analyzer is a warning and its domain is skipped.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	store, err := artifact.NewStore(cfg.OutDir)
	if err != nil {
		return nil, err
	}

	sources, err := srccache.New(cfg.Root)
	if err != nil {
		return nil, err
	}

	inv, err := discovery.Discover(cfg.Root, discovery.Options{
		Include: cfg.Include,
		Exclude: cfg.Exclude,
		Sources: sources,
		Verbose: cfg.Verbose,
	})
	if err != nil {
		return nil, err
	}
	if err := store.WriteJSON(artifact.InventoryFile, inv); err != nil {
		return nil, err
	}

	registry, err := analyzer.DefaultRegistry()
	if err != nil {
		return nil, err
	}
	names := cfg.Analyzers
	if len(names) == 0 {
		names = registry.List()
	}
	ordered, err := registry.Resolve(names)
	if err != nil {
		return nil, err
	}

	env := analyzer.NewEnv(cat, sources, store)
	env.Verbose = cfg.Verbose

	results, skipped := runAnalyzers(ctx, ordered, inv, env, store, cfg.Concurrency)

	issues := issue.Extract(results, inv, cat)
	rep := report.Synthesize(inv, results, issues, report.Options{
		RunID:       uuid.NewString(),
		Root:        cfg.Root,
		GeneratedAt: time.Now().UTC(),
	})

	outputFiles := map[string]string{
		artifact.InventoryFile: store.Path(artifact.InventoryFile),
	}
	for domain := range results {
		name := artifact.DomainFiles[domain]
		outputFiles[name] = store.Path(name)
	}

	if err := store.WriteJSON(artifact.ReportFile, rep); err != nil {
		return nil, err
	}
	outputFiles[artifact.ReportFile] = store.Path(artifact.ReportFile)

	if err := store.WriteText(artifact.NarrativeFile, report.RenderMarkdown(rep)); err != nil {
		return nil, err
	}
	outputFiles[artifact.NarrativeFile] = store.Path(artifact.NarrativeFile)

	outputFiles[artifact.SummaryFile] = store.Path(artifact.SummaryFile)
	summary := report.BuildRunSummary(rep, outputFiles)
	if err := store.WriteJSON(artifact.SummaryFile, summary); err != nil {
		return nil, err
	}

	result := &Result{Report: rep, Summary: summary, Skipped: skipped}
	result.Trend = recordHistory(ctx, cfg, summary)
	return result, nil
}

// runAnalyzers executes the topologically ordered analyzers: the ones with
// no dependencies fan out concurrently, the dependent ones run after them
// in order. A failed analyzer is warned about and its domain skipped.
func runAnalyzers(ctx context.Context, ordered []analyzer.Analyzer, inv types.Inventory, env *analyzer.Env, store *artifact.Store, concurrency int) (map[string][]types.AnalysisResult, []string) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var free, dependent []analyzer.Analyzer
	for _, a := range ordered {
		if len(a.Dependencies()) == 0 {
			free = append(free, a)
		} else {
			dependent = append(dependent, a)
		}
	}

	var mu sync.Mutex
	results := map[string][]types.AnalysisResult{}
	var skipped []string

	runOne := func(a analyzer.Analyzer) {
		domainResults, err := a.AnalyzeAll(inv, env)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: analyzer %s failed: %v\n", a.Name(), err)
			skipped = append(skipped, a.Name())
			return
		}
		env.Record(a.Name(), domainResults)
		results[a.Name()] = domainResults
		if name, ok := artifact.DomainFiles[a.Name()]; ok {
			if err := store.WriteJSON(name, domainResults); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: writing %s: %v\n", name, err)
			}
		}
	}

	sem := semaphore.NewWeighted(int64(concurrency))
	g, gctx := errgroup.WithContext(ctx)
	for _, a := range free {
		a := a
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			runOne(a)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: analyzer scheduling interrupted: %v\n", err)
	}

	// Dependent analyzers read their prerequisites through the env; a
	// skipped prerequisite surfaces as a missing-artifact failure here.
	for _, a := range dependent {
		runOne(a)
	}

	return results, skipped
}

// recordHistory appends the run to the history database and returns the
// trend against the previous run. History problems never fail the audit.
func recordHistory(ctx context.Context, cfg Config, summary *types.RunSummary) *history.Trend {
	path := cfg.HistoryPath
	if path == "" {
		path = filepath.Join(cfg.OutDir, "history.db")
	}

	store, err := history.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: opening run history: %v\n", err)
		return nil
	}
	defer func() { _ = store.Close() }()

	if err := store.Record(ctx, summary); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: recording run history: %v\n", err)
		return nil
	}

	trend, ok, err := store.ComputeTrend(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: computing trend: %v\n", err)
		return nil
	}
	if !ok {
		return nil
	}
	return &trend
}
