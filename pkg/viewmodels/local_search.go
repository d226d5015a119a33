package viewmodels

import (
	"github.com/tomtom215/catalogcore/pkg/addon"
	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
)

// LocalSearchResultLimit bounds how many ranked matches Search returns.
const LocalSearchResultLimit = 50

// LocalSearch indexes meta previews by title and answers prefix queries,
// boosted by the user's own search history so a query matching a past
// search ranks its title matches above unrelated equally-named ones.
type LocalSearch struct {
	index *searchTrie
	Query string
	Results []addon.MetaPreview
}

// NewLocalSearch builds an empty, unindexed search view model.
func NewLocalSearch() *LocalSearch {
	return &LocalSearch{index: newSearchTrie()}
}

// Reindex replaces the title index with the given meta item set, typically
// called whenever a CatalogsWithExtra/CatalogWithFilters row resolves new
// content worth making searchable.
func (m *LocalSearch) Reindex(items []addon.MetaPreview) {
	m.index.Clear()
	for _, item := range items {
		m.index.Insert(item.Name, item)
	}
}

// Search updates Query/Results: every indexed title containing query as a
// prefix, ranked by search-history recency boost then name.
func (m *LocalSearch) Search(query string, history *catalogtypes.SearchHistoryBucket) {
	m.Query = query
	matches := m.index.PrefixSearch(query)
	ranked := comparePriorities(matches, historyBoosts(history))
	if len(ranked) > LocalSearchResultLimit {
		ranked = ranked[:LocalSearchResultLimit]
	}
	m.Results = ranked
}

func historyBoosts(history *catalogtypes.SearchHistoryBucket) map[string]int64 {
	boosts := make(map[string]int64)
	if history == nil {
		return boosts
	}
	for query, at := range history.Items {
		boosts[normalizeSearchKey(query)] = at
	}
	return boosts
}
