// Package discovery scans a component source tree and produces the
// component inventory: one ComponentRecord per module with its identity,
// category, structural facts, and dependency edges. Discovery is the only
// pipeline stage that touches the filesystem tree; everything downstream
// works from its output.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/paulbreuler/runi-audit/internal/srccache"
	"github.com/paulbreuler/runi-audit/internal/types"
)

// ErrRootMissing is returned when the discovery root does not exist.
var ErrRootMissing = errors.New("discovery root does not exist")

// Options controls which files discovery considers.
type Options struct {
	// Include globs matched against the file base name. Empty means the
	// default component patterns (*.tsx, *.jsx).
	Include []string

	// Exclude patterns matched against the relative path, in addition to
	// the built-in exclusions (tests, stories, fixtures, build output).
	Exclude []string

	// Sources, when non-nil, is seeded with each file's text so analyzers
	// skip the re-read.
	Sources *srccache.Cache

	// Verbose enables per-file progress lines on stdout.
	Verbose bool
}

var defaultInclude = []string{"*.tsx", "*.jsx"}

// Built-in exclusions: test, story, and fixture modules are never audited
// components, and build output is never walked.
var defaultExcludeSuffixes = []string{
	".test.tsx", ".test.jsx", ".spec.tsx", ".spec.jsx",
	".stories.tsx", ".stories.jsx", ".d.ts",
}

var defaultExcludeDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
	".git":         true,
	"coverage":     true,
	"__fixtures__": true,
	"__tests__":    true,
	"__mocks__":    true,
}

// Discover walks root and returns the component inventory, ordered by path.
// A file that fails to parse is skipped with a warning; only a missing or
// unreadable root aborts the run.
func Discover(root string, opts Options) (types.Inventory, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRootMissing, root)
		}
		return nil, fmt.Errorf("reading discovery root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootMissing, root)
	}

	include := opts.Include
	if len(include) == 0 {
		include = defaultInclude
	}

	var inv types.Inventory
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if p == root {
				return fmt.Errorf("walking discovery root: %w", walkErr)
			}
			fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", p, walkErr)
			return nil
		}

		if d.IsDir() {
			if defaultExcludeDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if !matchesInclude(d.Name(), include) || isExcluded(rel, opts.Exclude) {
			return nil
		}

		rec, src, err := parseComponent(root, rel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", rel, err)
			return nil
		}

		if opts.Sources != nil {
			opts.Sources.Put(rel, src)
		}
		if opts.Verbose {
			fmt.Printf("  discovered %s (%s)\n", rec.Name, rel)
		}
		inv = append(inv, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(inv, func(i, j int) bool { return inv[i].Path < inv[j].Path })
	linkParents(inv)
	return inv, nil
}

func matchesInclude(base string, include []string) bool {
	for _, pattern := range include {
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

func isExcluded(rel string, extra []string) bool {
	base := path.Base(rel)
	for _, suffix := range defaultExcludeSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	for _, pattern := range extra {
		if strings.HasPrefix(rel, pattern) ||
			strings.Contains(rel, "/"+pattern) ||
			strings.HasSuffix(rel, pattern) {
			return true
		}
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
	}
	// Barrel files re-export, they are not components themselves.
	if base == "index.tsx" || base == "index.jsx" {
		return true
	}
	return false
}

func parseComponent(root, rel string) (types.ComponentRecord, string, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return types.ComponentRecord{}, "", fmt.Errorf("reading source: %w", err)
	}
	if !utf8.Valid(data) {
		return types.ComponentRecord{}, "", fmt.Errorf("source is not valid UTF-8")
	}

	src := string(data)
	facts, err := parseSource(src)
	if err != nil {
		return types.ComponentRecord{}, "", err
	}

	name := facts.Name
	if name == "" {
		name = strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	}

	rec := types.ComponentRecord{
		Path:         rel,
		Name:         name,
		Category:     categoryForPath(rel),
		ExportShape:  facts.ExportShape,
		PropsType:    facts.PropsType,
		SizeBytes:    int64(len(data)),
		LineCount:    strings.Count(src, "\n") + 1,
		HasChildren:  facts.HasChildren,
		Dependencies: facts.Dependencies,
	}
	return rec, src, nil
}

// categoryForPath maps the deepest matching path segment to a category.
// Deepest wins so Panels/Inputs/Field.tsx is Inputs, not Panels.
func categoryForPath(rel string) types.Category {
	segments := strings.Split(path.Dir(rel), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		for _, cat := range types.Categories {
			if strings.EqualFold(segments[i], string(cat)) {
				return cat
			}
		}
	}
	return types.CategoryUncategorized
}

// linkParents sets Parent on each record: the first dependency (in
// dependency order) that resolves to another discovered component whose
// directory is a strict ancestor of the record's directory.
func linkParents(inv types.Inventory) {
	byName := make(map[string][]int, len(inv))
	for i, rec := range inv {
		byName[rec.Name] = append(byName[rec.Name], i)
	}

	for i := range inv {
		dir := path.Dir(inv[i].Path)
		for _, dep := range inv[i].Dependencies {
			found := ""
			for _, j := range byName[dep] {
				if j == i {
					continue
				}
				depDir := path.Dir(inv[j].Path)
				if isStrictAncestor(depDir, dir) {
					found = inv[j].Path
					break
				}
			}
			if found != "" {
				inv[i].Parent = found
				break
			}
		}
	}
}

// isStrictAncestor reports whether ancestor is a proper ancestor directory
// of dir, with "." treated as the tree root.
func isStrictAncestor(ancestor, dir string) bool {
	if ancestor == dir {
		return false
	}
	if ancestor == "." {
		return true
	}
	return strings.HasPrefix(dir, ancestor+"/")
}
