package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulbreuler/runi-audit/internal/types"
)

// writeTree creates a fixture component tree under a temp dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return root
}

func TestDiscoverMissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRootMissing))
}

func TestDiscoverBasicTree(t *testing.T) {
	root := writeTree(t, map[string]string{
		"Panels/ResponsePanel.tsx": `
import { StatusBadge } from './StatusBadge';

interface ResponsePanelProps {
	children?: React.ReactNode;
}

export default function ResponsePanel({ children }: ResponsePanelProps) {
	return <div>{children}</div>;
}
`,
		"Panels/StatusBadge.tsx": `
export const StatusBadge = () => <span />;
`,
		"Panels/ResponsePanel.test.tsx":    `export default function T() {}`,
		"Panels/ResponsePanel.stories.tsx": `export default {};`,
		"Panels/index.tsx":                 `export * from './ResponsePanel';`,
		"node_modules/pkg/Thing.tsx":       `export default function Thing() {}`,
	})

	inv, err := Discover(root, Options{})
	require.NoError(t, err)
	require.Len(t, inv, 2)

	// Ordered by path, paths unique.
	assert.Equal(t, "Panels/ResponsePanel.tsx", inv[0].Path)
	assert.Equal(t, "Panels/StatusBadge.tsx", inv[1].Path)

	panel := inv[0]
	assert.Equal(t, "ResponsePanel", panel.Name)
	assert.Equal(t, types.CategoryPanels, panel.Category)
	assert.Equal(t, types.ExportDefault, panel.ExportShape)
	assert.Equal(t, "ResponsePanelProps", panel.PropsType)
	assert.True(t, panel.HasChildren)
	assert.Equal(t, []string{"StatusBadge"}, panel.Dependencies)
	assert.Greater(t, panel.LineCount, 1)
	assert.Greater(t, panel.SizeBytes, int64(0))

	badge := inv[1]
	assert.Equal(t, "StatusBadge", badge.Name)
	assert.Equal(t, types.ExportNamed, badge.ExportShape)
	assert.False(t, badge.HasChildren)
}

func TestDiscoverUniquePathsAndParentReferences(t *testing.T) {
	root := writeTree(t, map[string]string{
		"Editors/RequestEditor.tsx": `
import { HeaderRow } from './Rows/HeaderRow';
export default function RequestEditor() { return <div />; }
`,
		"Editors/Rows/HeaderRow.tsx": `
import RequestEditor from '../RequestEditor';
export const HeaderRow = () => <tr />;
`,
	})

	inv, err := Discover(root, Options{})
	require.NoError(t, err)

	seen := map[string]bool{}
	paths := inv.Paths()
	for _, rec := range inv {
		assert.False(t, seen[rec.Path], "duplicate path %s", rec.Path)
		seen[rec.Path] = true
		if rec.Parent != "" {
			assert.True(t, paths[rec.Parent], "parent %s not in inventory", rec.Parent)
		}
	}

	// HeaderRow's dependency RequestEditor lives in an ancestor directory.
	row, ok := inv.ByPath("Editors/Rows/HeaderRow.tsx")
	require.True(t, ok)
	assert.Equal(t, "Editors/RequestEditor.tsx", row.Parent)

	// RequestEditor's dependency lives below it, so no parent.
	editor, ok := inv.ByPath("Editors/RequestEditor.tsx")
	require.True(t, ok)
	assert.Empty(t, editor.Parent)
}

func TestDiscoverSkipsUnparseableFile(t *testing.T) {
	root := writeTree(t, map[string]string{
		"Signals/DriftBadge.tsx": `export default function DriftBadge() { return <span />; }`,
	})
	// Binary garbage fails the UTF-8 parse and is skipped with a warning.
	require.NoError(t, os.WriteFile(filepath.Join(root, "Signals", "Broken.tsx"), []byte{0xff, 0xfe, 0x00, 0x80}, 0644))

	inv, err := Discover(root, Options{})
	require.NoError(t, err)
	require.Len(t, inv, 1)
	assert.Equal(t, "DriftBadge", inv[0].Name)
}

func TestCategoryForPath(t *testing.T) {
	tests := []struct {
		path string
		want types.Category
	}{
		{"Layout/Shell.tsx", types.CategoryLayout},
		{"Panels/Inputs/Field.tsx", types.CategoryInputs}, // deepest segment wins
		{"canvas/TabStrip.tsx", types.CategoryCanvas},     // case-insensitive
		{"shared/Button.tsx", types.CategoryUncategorized},
		{"Toolbar.tsx", types.CategoryUncategorized},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, categoryForPath(tt.path), tt.path)
	}
}

func TestParseSourceExportShapes(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		shape types.ExportShape
		ident string
	}{
		{
			"default only",
			`export default function Toolbar() {}`,
			types.ExportDefault, "Toolbar",
		},
		{
			"named only",
			`export const Toolbar = () => null;`,
			types.ExportNamed, "Toolbar",
		},
		{
			"both",
			"export const ToolbarButton = () => null;\nexport default function Toolbar() {}",
			types.ExportBoth, "Toolbar",
		},
		{
			"anonymous default falls back to named",
			"export const helpers = 1;\nexport const Toolbar = () => null;\nexport default () => null;",
			types.ExportBoth, "Toolbar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts, err := parseSource(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.shape, facts.ExportShape)
			assert.Equal(t, tt.ident, facts.Name)
		})
	}
}

func TestComponentImportsFiltersLibraries(t *testing.T) {
	src := `
import React from 'react';
import { motion } from 'framer-motion';
import StatusBadge from './StatusBadge';
import { DriftIcon as Icon, helpers } from '@/Signals/DriftIcon';
import * as utils from '../utils';
`
	deps := componentImports(src)
	assert.Equal(t, []string{"Icon", "StatusBadge"}, deps)
}
