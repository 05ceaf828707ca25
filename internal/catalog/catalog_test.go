package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedDefault(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)

	assert.NotEmpty(t, cat.Motion.LayoutProperties)
	assert.NotEmpty(t, cat.Motion.AcceleratedProperties)
	assert.NotEmpty(t, cat.Motion.ReactivePrimitives)
	assert.NotEmpty(t, cat.Principles)
	assert.NotEmpty(t, cat.Checklist)
	assert.NotEmpty(t, cat.Library.Disallowed)
	assert.Greater(t, cat.Performance.MaxLines, 0)
}

func TestLoadOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.toml")
	override := `
[motion]
layout_properties = ["width"]
accelerated_properties = ["transform"]

[recommendations]
default = "custom default"
`
	require.NoError(t, os.WriteFile(path, []byte(override), 0644))

	cat, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"width"}, cat.Motion.LayoutProperties)
	assert.Equal(t, "custom default", cat.Recommendation("unknown-rule"))
}

func TestLoadMissingOverride(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestRecommendationLookup(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)

	// Known rule gets its own text.
	assert.Contains(t, cat.Recommendation("layout-thrashing"), "transform")

	// Unknown rule falls back to the default, never empty.
	assert.NotEmpty(t, cat.Recommendation("no-such-rule"))
}

func TestChecklistItemsHaveKinds(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)

	for _, item := range cat.Checklist {
		assert.NotEmpty(t, item.ID)
		assert.NotEmpty(t, item.Kind, "checklist item %s missing kind", item.ID)
	}
}
