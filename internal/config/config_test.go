package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDefaults(t *testing.T) {
	settings, err := Resolve(filepath.Join(t.TempDir(), "definitely-missing.yaml"))
	require.Error(t, err, "explicit missing path is fatal")

	// No explicit path and no file in CWD: pure defaults.
	settings, err = Resolve("")
	require.NoError(t, err)
	assert.Equal(t, ".", settings.Root)
	assert.Equal(t, "audit-output", settings.Out)
	assert.Equal(t, 4, settings.Concurrency)
	assert.Equal(t, 0.0, settings.MinScore)
}

func TestResolveFileOverridesEnv(t *testing.T) {
	t.Setenv(EnvRoot, "/from-env")
	t.Setenv(EnvMinScore, "50")

	path := filepath.Join(t.TempDir(), "audit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
root: /from-file
analyzers: [motion, fixtures]
concurrency: 2
min_score: 70
`), 0644))

	settings, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, "/from-file", settings.Root)
	assert.Equal(t, []string{"motion", "fixtures"}, settings.Analyzers)
	assert.Equal(t, 2, settings.Concurrency)
	assert.Equal(t, 70.0, settings.MinScore)
}

func TestResolveEnvFillsGaps(t *testing.T) {
	t.Setenv(EnvOut, "/from-env-out")
	t.Setenv(EnvMinScore, "65.5")

	settings, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "/from-env-out", settings.Out)
	assert.Equal(t, 65.5, settings.MinScore)
	assert.Equal(t, ".", settings.Root)
}

func TestResolveBadMinScoreEnv(t *testing.T) {
	t.Setenv(EnvMinScore, "not-a-number")
	_, err := Resolve("")
	require.Error(t, err)
}

func TestResolveBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: [::"), 0644))
	_, err := Resolve(path)
	require.Error(t, err)
}
