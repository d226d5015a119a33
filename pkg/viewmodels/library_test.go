package viewmodels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
)

func int64p(v int64) *int64 { return &v }

func TestLibraryFiltersRemovedItems(t *testing.T) {
	bucket := catalogtypes.NewLibraryBucket(nil, []catalogtypes.LibraryItem{
		{ID: "a", Name: "Alpha", Type: "movie", Removed: false},
		{ID: "b", Name: "Beta", Type: "movie", Removed: true},
	})
	m := NewLibraryWithFilters(NotRemovedFilter)
	m.Load(bucket, LibrarySelected{})
	require.Len(t, m.Items, 1)
	assert.Equal(t, "a", m.Items[0].ID)
}

func TestLibrarySelectableTypesIgnoreTypeScope(t *testing.T) {
	bucket := catalogtypes.NewLibraryBucket(nil, []catalogtypes.LibraryItem{
		{ID: "a", Name: "Alpha", Type: "movie"},
		{ID: "b", Name: "Beta", Type: "series"},
	})
	m := NewLibraryWithFilters(NotRemovedFilter)
	movie := "movie"
	m.Load(bucket, LibrarySelected{Type: &movie})
	require.Len(t, m.Items, 1)
	assert.ElementsMatch(t, []string{"movie", "series"}, m.Selectable.Types)
}

func TestLibrarySortByLastWatchedThenName(t *testing.T) {
	bucket := catalogtypes.NewLibraryBucket(nil, []catalogtypes.LibraryItem{
		{ID: "a", Name: "Zeta", Type: "movie", State: catalogtypes.LibraryItemState{LastWatched: int64p(100)}},
		{ID: "b", Name: "Alpha", Type: "movie", State: catalogtypes.LibraryItemState{LastWatched: int64p(200)}},
		{ID: "c", Name: "Beta", Type: "movie"},
	})
	m := NewLibraryWithFilters(NotRemovedFilter)
	m.Load(bucket, LibrarySelected{Sort: SortLastWatched})
	require.Len(t, m.Items, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{m.Items[0].ID, m.Items[1].ID, m.Items[2].ID})
}

func TestLibraryContinueWatchingFilterExcludesUnwatched(t *testing.T) {
	bucket := catalogtypes.NewLibraryBucket(nil, []catalogtypes.LibraryItem{
		{ID: "a", Name: "Alpha", Type: "movie", State: catalogtypes.LibraryItemState{TimeOffset: 1000}},
		{ID: "b", Name: "Beta", Type: "movie"},
	})
	m := NewLibraryWithFilters(ContinueWatchingFilter)
	m.Load(bucket, LibrarySelected{})
	require.Len(t, m.Items, 1)
	assert.Equal(t, "a", m.Items[0].ID)
}

func TestLibraryPaginates(t *testing.T) {
	items := make([]catalogtypes.LibraryItem, 0, 120)
	for i := 0; i < 120; i++ {
		items = append(items, catalogtypes.LibraryItem{ID: itoa(i), Name: itoa(i), Type: "movie"})
	}
	bucket := catalogtypes.NewLibraryBucket(nil, items)
	m := NewLibraryWithFilters(NotRemovedFilter)
	m.Load(bucket, LibrarySelected{Sort: SortName, Page: 1})
	assert.Len(t, m.Items, LibraryPageSize)
}
