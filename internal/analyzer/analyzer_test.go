package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paulbreuler/runi-audit/internal/artifact"
	"github.com/paulbreuler/runi-audit/internal/catalog"
	"github.com/paulbreuler/runi-audit/internal/srccache"
	"github.com/paulbreuler/runi-audit/internal/types"
)

// testEnv builds an analyzer environment over a temp component tree.
func testEnv(t *testing.T, files map[string]string) (*Env, string) {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}

	cat, err := catalog.Load("")
	require.NoError(t, err)

	sources, err := srccache.New(root)
	require.NoError(t, err)

	store, err := artifact.NewStore(filepath.Join(root, ".audit"))
	require.NoError(t, err)

	return NewEnv(cat, sources, store), root
}

// record builds a minimal component record for a fixture file.
func record(path, name string) types.ComponentRecord {
	return types.ComponentRecord{
		Path:      path,
		Name:      name,
		Category:  types.CategoryPanels,
		LineCount: 10,
	}
}

func TestEnvPriorPrefersMemory(t *testing.T) {
	env, _ := testEnv(t, nil)

	want := []types.AnalysisResult{{ComponentPath: "a.tsx", Domain: "fixtures", Score: 80}}
	env.Record("fixtures", want)

	got, err := env.Prior("fixtures")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestEnvPriorFallsBackToArtifact(t *testing.T) {
	env, _ := testEnv(t, nil)

	want := []types.AnalysisResult{{ComponentPath: "b.tsx", Domain: "fixtures", Score: 60}}
	require.NoError(t, env.Store.WriteJSON(artifact.DomainFiles["fixtures"], want))

	got, err := env.Prior("fixtures")
	require.NoError(t, err)
	require.Equal(t, want, got)
}
