package analyzer

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages analyzer registration and execution order.
type Registry struct {
	mu        sync.RWMutex
	analyzers map[string]Analyzer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{analyzers: make(map[string]Analyzer)}
}

// Register adds an analyzer. Registering the same name twice is an error.
func (r *Registry) Register(a Analyzer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := a.Name()
	if _, exists := r.analyzers[name]; exists {
		return fmt.Errorf("analyzer %q already registered", name)
	}
	r.analyzers[name] = a
	return nil
}

// Get returns a registered analyzer by name.
func (r *Registry) Get(name string) (Analyzer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.analyzers[name]
	return a, ok
}

// List returns all registered analyzer names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.analyzers))
	for name := range r.analyzers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the named analyzers in topological order: every analyzer
// appears after all of its declared dependencies. Dependencies not in the
// requested set are pulled in. A cycle is an error.
func (r *Registry) Resolve(names []string) ([]Analyzer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Close over dependencies so a requested analyzer never runs without
	// its prerequisite.
	wanted := map[string]bool{}
	queue := append([]string{}, names...)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if wanted[name] {
			continue
		}
		a, exists := r.analyzers[name]
		if !exists {
			return nil, fmt.Errorf("analyzer %q not registered", name)
		}
		wanted[name] = true
		queue = append(queue, a.Dependencies()...)
	}

	// Kahn's algorithm over the closed set.
	inDegree := map[string]int{}
	dependents := map[string][]string{}
	for name := range wanted {
		inDegree[name] = 0
	}
	for name := range wanted {
		for _, dep := range r.analyzers[name].Dependencies() {
			dependents[dep] = append(dependents[dep], name)
			inDegree[name]++
		}
	}

	ready := []string{}
	for name, degree := range inDegree {
		if degree == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	var order []string
	for len(ready) > 0 {
		current := ready[0]
		ready = ready[1:]
		order = append(order, current)

		next := dependents[current]
		sort.Strings(next)
		for _, dep := range next {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(order) != len(wanted) {
		return nil, fmt.Errorf("circular dependency detected among analyzers")
	}

	result := make([]Analyzer, len(order))
	for i, name := range order {
		result[i] = r.analyzers[name]
	}
	return result, nil
}

// DefaultRegistry returns a registry with all eight built-in analyzers.
func DefaultRegistry() (*Registry, error) {
	registry := NewRegistry()
	builtins := []Analyzer{
		&MotionAnalyzer{},
		&FixturesAnalyzer{},
		&PrinciplesAnalyzer{},
		&ChecklistAnalyzer{},
		&PerformanceAnalyzer{},
		&AccessibilityAnalyzer{},
		&MaterialAnalyzer{},
		&LibraryAnalyzer{},
	}
	for _, a := range builtins {
		if err := registry.Register(a); err != nil {
			return nil, fmt.Errorf("registering %s analyzer: %w", a.Name(), err)
		}
	}

	// Statically verify every declared dependency resolves.
	for _, name := range registry.List() {
		a, _ := registry.Get(name)
		for _, dep := range a.Dependencies() {
			if _, ok := registry.Get(dep); !ok {
				return nil, fmt.Errorf("analyzer %q depends on unregistered analyzer %q", name, dep)
			}
		}
	}
	return registry, nil
}
