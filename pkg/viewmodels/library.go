package viewmodels

import (
	"sort"

	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/effects"
)

// LibrarySort orders a LibraryWithFilters' filtered item collection.
type LibrarySort int

const (
	SortLastWatched LibrarySort = iota
	SortTimesWatched
	SortName
)

// ItemFilter decides whether a library item belongs in a
// LibraryWithFilters' filtered collection. NotRemovedFilter and
// ContinueWatchingFilter are the two instances spec.md names.
type ItemFilter func(catalogtypes.LibraryItem) bool

// NotRemovedFilter keeps every item the user hasn't removed.
func NotRemovedFilter(item catalogtypes.LibraryItem) bool { return !item.Removed }

// ContinueWatchingFilter keeps items that belong in the
// continue-watching projection.
func ContinueWatchingFilter(item catalogtypes.LibraryItem) bool { return item.IsInContinueWatching() }

// LibrarySelected is the current type/sort/page selection.
type LibrarySelected struct {
	Type *string
	Sort LibrarySort
	Page int
}

// LibrarySelectable lists the types present among the items that pass
// the view model's filter.
type LibrarySelectable struct {
	Types []string
}

// LibraryPageSize bounds how many items one page of LibraryWithFilters
// returns.
const LibraryPageSize = 50

// LibraryWithFilters projects the library bucket through a predicate,
// sort order, optional type scope, and page.
type LibraryWithFilters struct {
	Filter     ItemFilter
	Selected   LibrarySelected
	Selectable LibrarySelectable
	Items      []catalogtypes.LibraryItem
}

// NewLibraryWithFilters builds a view model scoped by filter (one of
// NotRemovedFilter, ContinueWatchingFilter, or a caller-supplied
// predicate).
func NewLibraryWithFilters(filter ItemFilter) *LibraryWithFilters {
	return &LibraryWithFilters{Filter: filter}
}

// Load recomputes Selectable and the sorted/filtered/paginated Items
// slice from the current library bucket. This view model never issues
// network effects: the library bucket is already in memory.
func (m *LibraryWithFilters) Load(bucket *catalogtypes.LibraryBucket, selected LibrarySelected) effects.Effects {
	m.Selected = selected

	var filtered []catalogtypes.LibraryItem
	seenType := map[string]bool{}
	var types []string
	for _, item := range bucket.Items {
		if !m.Filter(item) {
			continue
		}
		if !seenType[item.Type] {
			seenType[item.Type] = true
			types = append(types, item.Type)
		}
		if selected.Type != nil && item.Type != *selected.Type {
			continue
		}
		filtered = append(filtered, item)
	}
	sort.Strings(types)
	m.Selectable = LibrarySelectable{Types: types}

	sortLibraryItems(filtered, selected.Sort)

	m.Items = paginate(filtered, selected.Page*LibraryPageSize, LibraryPageSize)
	return effects.Changed()
}

// sortLibraryItems orders items per the requested total order, with Name
// as the universal tie-break (sorts are total orders with name as
// tie-break).
func sortLibraryItems(items []catalogtypes.LibraryItem, by LibrarySort) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch by {
		case SortLastWatched:
			al, bl := int64(0), int64(0)
			if a.State.LastWatched != nil {
				al = *a.State.LastWatched
			}
			if b.State.LastWatched != nil {
				bl = *b.State.LastWatched
			}
			if al != bl {
				return al > bl
			}
		case SortTimesWatched:
			if a.State.TimesWatched != b.State.TimesWatched {
				return a.State.TimesWatched > b.State.TimesWatched
			}
		}
		return a.Name < b.Name
	})
}
