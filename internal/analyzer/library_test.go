package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.2.3", "v1.2.3"},
		{"^1.2.3", "v1.2.3"},
		{"~0.4.1", "v0.4.1"},
		{">=2.0.0", "v2.0.0"},
		{"v1.0.0", "v1.0.0"},
		{" ^1.0.0 ", "v1.0.0"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalVersion(tt.in), "input %q", tt.in)
	}
}

func TestLibraryDisallowedImport(t *testing.T) {
	src := `
import moment from 'moment';
export const Clock = () => <span>{moment().format()}</span>;
`
	env, _ := testEnv(t, nil)

	a := &LibraryAnalyzer{}
	result, err := a.AnalyzeComponent(record("Signals/Clock.tsx", "Clock"), src, env)
	require.NoError(t, err)

	require.NotEmpty(t, result.Violations)
	assert.Equal(t, "disallowed-library", result.Violations[0].Rule)
	assert.Contains(t, result.Violations[0].Suggestion, "date-fns")
	assert.Less(t, result.Score, 100.0)
}

func TestLibraryUnapprovedConcern(t *testing.T) {
	src := `
import { useSpring } from 'react-spring';
export const Fader = () => null;
`
	env, _ := testEnv(t, nil)

	a := &LibraryAnalyzer{}
	result, err := a.AnalyzeComponent(record("Signals/Fader.tsx", "Fader"), src, env)
	require.NoError(t, err)

	var rules []string
	for _, v := range result.Violations {
		rules = append(rules, v.Rule)
	}
	assert.Contains(t, rules, "unapproved-library")
}

func TestLibraryDeepImport(t *testing.T) {
	src := `
import merge from 'lodash/merge';
export const Merger = () => null;
`
	env, _ := testEnv(t, nil)

	a := &LibraryAnalyzer{}
	result, err := a.AnalyzeComponent(record("Panels/Merger.tsx", "Merger"), src, env)
	require.NoError(t, err)

	var rules []string
	for _, v := range result.Violations {
		rules = append(rules, v.Rule)
	}
	// lodash is both disallowed and a deep import here.
	assert.Contains(t, rules, "deep-import")
	assert.Contains(t, rules, "disallowed-library")
}

func TestLibraryVersionPins(t *testing.T) {
	src := `
import { motion } from 'framer-motion';
import { create } from 'zustand';
export const Store = () => null;
`
	env, _ := testEnv(t, map[string]string{
		"package.json": `{
  "dependencies": {
    "framer-motion": "*",
    "zustand": "not-a-version"
  }
}`,
	})

	a := &LibraryAnalyzer{}
	result, err := a.AnalyzeComponent(record("Panels/Store.tsx", "Store"), src, env)
	require.NoError(t, err)

	rules := map[string]bool{}
	for _, v := range result.Violations {
		rules[v.Rule] = true
	}
	assert.True(t, rules["unpinned-version"], "framer-motion is unpinned")
	assert.True(t, rules["unparseable-version"], "zustand version is not semver")
}

func TestPackageName(t *testing.T) {
	assert.Equal(t, "framer-motion", packageName("framer-motion"))
	assert.Equal(t, "lodash", packageName("lodash/fp/merge"))
	assert.Equal(t, "@radix-ui/react-dialog", packageName("@radix-ui/react-dialog"))
	assert.Equal(t, "@emotion/react", packageName("@emotion/react/jsx-runtime"))
}
