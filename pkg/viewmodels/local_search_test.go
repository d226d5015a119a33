package viewmodels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/catalogcore/pkg/addon"
	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
)

func TestLocalSearchPrefixMatch(t *testing.T) {
	m := NewLocalSearch()
	m.Reindex([]addon.MetaPreview{
		{ID: "tt1", Name: "Breaking Bad"},
		{ID: "tt2", Name: "Better Call Saul"},
		{ID: "tt3", Name: "The Wire"},
	})
	m.Search("bre", nil)
	require.Len(t, m.Results, 1)
	assert.Equal(t, "tt1", m.Results[0].ID)
}

func TestLocalSearchCaseInsensitive(t *testing.T) {
	m := NewLocalSearch()
	m.Reindex([]addon.MetaPreview{{ID: "tt1", Name: "Breaking Bad"}})
	m.Search("BREAK", nil)
	require.Len(t, m.Results, 1)
}

func TestLocalSearchHistoryBoostsExactTitleMatch(t *testing.T) {
	m := NewLocalSearch()
	m.Reindex([]addon.MetaPreview{
		{ID: "tt1", Name: "Battle"},
		{ID: "tt2", Name: "Battlestar"},
	})
	history := catalogtypes.NewSearchHistoryBucket(nil)
	history.Record("battlestar", 5000)
	m.Search("battle", history)
	require.Len(t, m.Results, 2)
	assert.Equal(t, "tt2", m.Results[0].ID, "an exact title match against recent search history should rank first")
}

func TestLocalSearchReindexReplacesIndex(t *testing.T) {
	m := NewLocalSearch()
	m.Reindex([]addon.MetaPreview{{ID: "tt1", Name: "Old"}})
	m.Reindex([]addon.MetaPreview{{ID: "tt2", Name: "New"}})
	m.Search("old", nil)
	assert.Empty(t, m.Results)
}
