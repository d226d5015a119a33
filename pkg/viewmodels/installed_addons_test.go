package viewmodels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
)

func descriptorWithTypes(name string, types ...string) catalogtypes.Descriptor {
	return catalogtypes.Descriptor{
		TransportURL: "https://" + name + "/manifest.json",
		Manifest:     catalogtypes.Manifest{ID: name, Name: name, Types: types},
	}
}

func TestInstalledAddonsFiltersByType(t *testing.T) {
	addons := []catalogtypes.Descriptor{
		descriptorWithTypes("movies", "movie"),
		descriptorWithTypes("shows", "series"),
	}
	m := NewInstalledAddonsWithFilters()
	movie := "movie"
	m.Load(addons, InstalledAddonsSelected{Type: &movie})
	require.Len(t, m.Catalog, 1)
	assert.Equal(t, "movies", m.Catalog[0].Manifest.ID)
	assert.ElementsMatch(t, []string{"movie", "series"}, m.Types)
}

func TestInstalledAddonsFiltersByQueryCaseInsensitive(t *testing.T) {
	addons := []catalogtypes.Descriptor{
		descriptorWithTypes("Cinemeta", "movie"),
		descriptorWithTypes("OpenSubtitles", "movie"),
	}
	m := NewInstalledAddonsWithFilters()
	m.Load(addons, InstalledAddonsSelected{Query: "cine"})
	require.Len(t, m.Catalog, 1)
	assert.Equal(t, "Cinemeta", m.Catalog[0].Manifest.ID)
}

func TestInstalledAddonsPreservesInstallOrder(t *testing.T) {
	addons := []catalogtypes.Descriptor{
		descriptorWithTypes("b", "movie"),
		descriptorWithTypes("a", "movie"),
	}
	m := NewInstalledAddonsWithFilters()
	m.Load(addons, InstalledAddonsSelected{})
	require.Len(t, m.Catalog, 2)
	assert.Equal(t, "b", m.Catalog[0].Manifest.ID)
	assert.Equal(t, "a", m.Catalog[1].Manifest.ID)
}
