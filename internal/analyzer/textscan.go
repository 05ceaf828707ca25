package analyzer

import (
	"regexp"
	"strings"
)

// match is one located pattern hit in a source file.
type match struct {
	Line    int
	Snippet string
}

// findSubstring returns every line containing pattern, 1-based.
func findSubstring(src, pattern string) []match {
	var hits []match
	for i, line := range strings.Split(src, "\n") {
		if strings.Contains(line, pattern) {
			hits = append(hits, match{Line: i + 1, Snippet: snippet(line)})
		}
	}
	return hits
}

// findRegexp returns every line matching re, 1-based.
func findRegexp(src string, re *regexp.Regexp) []match {
	var hits []match
	for i, line := range strings.Split(src, "\n") {
		if re.MatchString(line) {
			hits = append(hits, match{Line: i + 1, Snippet: snippet(line)})
		}
	}
	return hits
}

// containsAny reports whether src contains any of the patterns.
func containsAny(src string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(src, p) {
			return true
		}
	}
	return false
}

// snippet trims and caps a source line for violation reporting.
func snippet(line string) string {
	line = strings.TrimSpace(line)
	if len(line) > 120 {
		line = line[:117] + "..."
	}
	return line
}
