package discovery

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/paulbreuler/runi-audit/internal/types"
)

// sourceFacts are the structural facts extracted from one component module.
type sourceFacts struct {
	Name         string
	ExportShape  types.ExportShape
	PropsType    string
	HasChildren  bool
	Dependencies []string
}

var (
	// export default Foo / export default function Foo(
	reDefaultExport = regexp.MustCompile(`(?m)^\s*export\s+default\s+(?:function\s+|class\s+)?([A-Z][A-Za-z0-9_]*)`)

	// export const Foo / export function Foo / export class Foo
	reNamedExport = regexp.MustCompile(`(?m)^\s*export\s+(?:const|function|class|let|var)\s+([A-Za-z_][A-Za-z0-9_]*)`)

	// interface FooProps / type FooProps =
	rePropsType = regexp.MustCompile(`(?m)\b(?:interface|type)\s+([A-Za-z0-9_]*Props)\b`)

	// import Foo from './x' / import { Foo, Bar } from '../y' / import Foo, { Bar } from '@/z'
	reImport = regexp.MustCompile(`(?m)^\s*import\s+(?:type\s+)?([^'"]+?)\s+from\s+['"]([^'"]+)['"]`)

	reChildren = regexp.MustCompile(`\bchildren\b|props\.children`)
)

// parseSource extracts structural facts from component source text.
// The parse is heuristic and line-oriented; it never executes anything.
func parseSource(src string) (sourceFacts, error) {
	facts := sourceFacts{}

	defaultName := ""
	if m := reDefaultExport.FindStringSubmatch(src); m != nil {
		defaultName = m[1]
	}
	hasDefault := defaultName != "" || strings.Contains(src, "export default")

	namedNames := []string{}
	for _, m := range reNamedExport.FindAllStringSubmatch(src, -1) {
		namedNames = append(namedNames, m[1])
	}

	switch {
	case hasDefault && len(namedNames) > 0:
		facts.ExportShape = types.ExportBoth
	case hasDefault:
		facts.ExportShape = types.ExportDefault
	default:
		facts.ExportShape = types.ExportNamed
	}

	// Exported identifier: default export name, else first exported
	// declaration, else the caller falls back to the file name.
	if defaultName != "" {
		facts.Name = defaultName
	} else {
		for _, n := range namedNames {
			if isComponentName(n) {
				facts.Name = n
				break
			}
		}
		if facts.Name == "" && len(namedNames) > 0 {
			facts.Name = namedNames[0]
		}
	}

	if m := rePropsType.FindStringSubmatch(src); m != nil {
		facts.PropsType = m[1]
	}

	facts.HasChildren = reChildren.MatchString(src)
	facts.Dependencies = componentImports(src)
	return facts, nil
}

// componentImports returns the capitalized identifiers imported from
// relative or alias paths, i.e. other components rather than libraries.
func componentImports(src string) []string {
	seen := map[string]bool{}
	var deps []string

	for _, m := range reImport.FindAllStringSubmatch(src, -1) {
		clause, from := m[1], m[2]
		if !isComponentPath(from) {
			continue
		}
		for _, name := range importedNames(clause) {
			if isComponentName(name) && !seen[name] {
				seen[name] = true
				deps = append(deps, name)
			}
		}
	}

	sort.Strings(deps)
	return deps
}

func isComponentPath(from string) bool {
	return strings.HasPrefix(from, "./") ||
		strings.HasPrefix(from, "../") ||
		strings.HasPrefix(from, "@/")
}

// importedNames splits an import clause into its bound identifiers,
// handling default, namespace, and brace forms plus "as" renames.
func importedNames(clause string) []string {
	clause = strings.TrimSpace(clause)
	var names []string

	brace := strings.Index(clause, "{")
	if brace >= 0 {
		end := strings.Index(clause, "}")
		if end > brace {
			inner := clause[brace+1 : end]
			for _, part := range strings.Split(inner, ",") {
				names = append(names, bindingName(part))
			}
		}
		clause = strings.TrimSuffix(strings.TrimSpace(clause[:brace]), ",")
	}

	if clause != "" && !strings.HasPrefix(clause, "*") {
		names = append(names, bindingName(clause))
	}
	return names
}

// bindingName resolves "Foo as Bar" to the local binding Bar.
func bindingName(part string) string {
	part = strings.TrimSpace(part)
	if idx := strings.Index(part, " as "); idx >= 0 {
		part = strings.TrimSpace(part[idx+4:])
	}
	return part
}

func isComponentName(name string) bool {
	if name == "" {
		return false
	}
	return unicode.IsUpper(rune(name[0]))
}
