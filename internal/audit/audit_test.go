package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulbreuler/runi-audit/internal/artifact"
	"github.com/paulbreuler/runi-audit/internal/discovery"
	"github.com/paulbreuler/runi-audit/internal/history"
)

const panelSource = `import React from 'react';

interface StatusPanelProps {
  label: string;
}

export const StatusPanel = ({ label }: StatusPanelProps) => {
  return <div>{label}</div>;
};
`

const panelStories = `import { StatusPanel } from './StatusPanel';

export const Default = () => <StatusPanel label="ok" />;
export const Empty = () => <StatusPanel label="" />;
`

func writeFixtureTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "src", "Panels")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "StatusPanel.tsx"), []byte(panelSource), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "StatusPanel.stories.tsx"), []byte(panelStories), 0644))
	return root
}

func TestRunFullPipeline(t *testing.T) {
	root := writeFixtureTree(t)
	out := t.TempDir()

	result, err := Run(context.Background(), Config{Root: root, OutDir: out})
	require.NoError(t, err)
	assert.Empty(t, result.Skipped)

	require.NotNil(t, result.Report)
	assert.Equal(t, 1, result.Report.ExecutiveSummary.TotalComponents)
	require.Len(t, result.Report.ComponentAnalysis, 1)
	assert.Equal(t, "StatusPanel", result.Report.ComponentAnalysis[0].Name)

	wantFiles := []string{
		artifact.InventoryFile,
		artifact.ReportFile,
		artifact.SummaryFile,
		artifact.NarrativeFile,
	}
	for name := range artifact.DomainFiles {
		wantFiles = append(wantFiles, artifact.DomainFiles[name])
	}
	for _, name := range wantFiles {
		assert.FileExists(t, filepath.Join(out, name), name)
	}

	require.NotNil(t, result.Summary)
	assert.Len(t, result.Summary.OutputFiles, len(wantFiles))
	assert.FileExists(t, filepath.Join(out, "history.db"))
}

func TestRunRecordsTrendOnSecondRun(t *testing.T) {
	root := writeFixtureTree(t)
	out := t.TempDir()
	cfg := Config{Root: root, OutDir: out}

	first, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, first.Trend)

	second, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, second.Trend)
	assert.Equal(t, history.TrendSteady, second.Trend.Direction)
}

func TestRunMissingRoot(t *testing.T) {
	_, err := Run(context.Background(), Config{
		Root:   filepath.Join(t.TempDir(), "nope"),
		OutDir: t.TempDir(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, discovery.ErrRootMissing)
}

func TestRunSubsetPullsDependencies(t *testing.T) {
	root := writeFixtureTree(t)
	out := t.TempDir()

	result, err := Run(context.Background(), Config{
		Root:      root,
		OutDir:    out,
		Analyzers: []string{"checklist"},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Skipped)

	// checklist pulls fixtures in; nothing else runs.
	assert.FileExists(t, filepath.Join(out, artifact.DomainFiles["checklist"]))
	assert.FileExists(t, filepath.Join(out, artifact.DomainFiles["fixtures"]))
	assert.NoFileExists(t, filepath.Join(out, artifact.DomainFiles["motion"]))
}
