package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulbreuler/runi-audit/internal/types"
)

func TestWriteReadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	inv := types.Inventory{
		{Path: "Panels/ResponsePanel.tsx", Name: "ResponsePanel", Category: types.CategoryPanels},
	}
	require.NoError(t, store.WriteJSON(InventoryFile, inv))

	var loaded types.Inventory
	require.NoError(t, store.ReadJSON(InventoryFile, &loaded))
	assert.Equal(t, inv, loaded)
}

func TestReadMissingArtifact(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	var inv types.Inventory
	err = store.ReadJSON(InventoryFile, &inv)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingArtifact))
	assert.Contains(t, err.Error(), InventoryFile)
}

func TestExists(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	assert.False(t, store.Exists(SummaryFile))
	require.NoError(t, store.WriteJSON(SummaryFile, map[string]int{"n": 1}))
	assert.True(t, store.Exists(SummaryFile))
}

func TestWriteJSONLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.WriteJSON("motion.json", []string{"a"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func TestDomainFilesCoverAllDomains(t *testing.T) {
	for _, domain := range []string{"motion", "fixtures", "principles", "checklist", "performance", "accessibility", "material", "library"} {
		name, ok := DomainFiles[domain]
		assert.True(t, ok, "domain %s has no artifact file", domain)
		assert.Equal(t, ".json", filepath.Ext(name))
	}
}
