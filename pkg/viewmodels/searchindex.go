package viewmodels

import (
	"sort"
	"strings"
	"sync"

	"github.com/tomtom215/catalogcore/pkg/addon"
)

// searchNode is one node of the prefix tree LocalSearch indexes meta
// titles into.
type searchNode struct {
	children map[rune]*searchNode
	isEnd    bool
	entries  []addon.MetaPreview
}

func newSearchNode() *searchNode {
	return &searchNode{children: make(map[rune]*searchNode)}
}

// searchTrie is a thread-safe, case-insensitive prefix tree over meta
// titles, each leaf carrying every meta item that title was inserted for
// (titles are not assumed unique across addons/catalogs).
type searchTrie struct {
	mu   sync.RWMutex
	root *searchNode
}

func newSearchTrie() *searchTrie {
	return &searchTrie{root: newSearchNode()}
}

func normalizeSearchKey(s string) string { return strings.ToLower(s) }

// Insert adds one meta item under its display name.
func (t *searchTrie) Insert(name string, item addon.MetaPreview) {
	if name == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	node := t.root
	for _, ch := range normalizeSearchKey(name) {
		if node.children[ch] == nil {
			node.children[ch] = newSearchNode()
		}
		node = node.children[ch]
	}
	node.isEnd = true
	node.entries = append(node.entries, item)
}

// Clear empties the index, used before a full reindex.
func (t *searchTrie) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.root = newSearchNode()
}

// PrefixSearch collects every entry reachable under query's prefix path.
func (t *searchTrie) PrefixSearch(query string) []addon.MetaPreview {
	if query == "" {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	node := t.root
	for _, ch := range normalizeSearchKey(query) {
		node = node.children[ch]
		if node == nil {
			return nil
		}
	}
	var out []addon.MetaPreview
	collectSearchEntries(node, &out)
	return out
}

func collectSearchEntries(node *searchNode, out *[]addon.MetaPreview) {
	if node == nil {
		return
	}
	if node.isEnd {
		*out = append(*out, node.entries...)
	}
	for _, child := range node.children {
		collectSearchEntries(child, out)
	}
}

// comparePriorities orders matches the way the reference client's
// compare_with_priorities ranks suggestions: recency (a boost from the
// user's own search history, keyed by normalized title) first, then
// popularity (how many indexed catalog rows surfaced this exact item,
// the only cross-addon frequency signal available offline), then name as
// a stable tie-break.
func comparePriorities(items []addon.MetaPreview, recentQueries map[string]int64) []addon.MetaPreview {
	popularity := make(map[string]int, len(items))
	for _, item := range items {
		popularity[item.ID]++
	}

	out := append([]addon.MetaPreview(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		ri := recentQueries[normalizeSearchKey(out[i].Name)]
		rj := recentQueries[normalizeSearchKey(out[j].Name)]
		if ri != rj {
			return ri > rj
		}
		pi, pj := popularity[out[i].ID], popularity[out[j].ID]
		if pi != pj {
			return pi > pj
		}
		return out[i].Name < out[j].Name
	})
	return out
}
