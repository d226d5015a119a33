package catalogtypes

// timeHeapEntry is one slot in a boundedTimeHeap, keyed by an arbitrary
// string and ordered by Stamp.
type timeHeapEntry[T any] struct {
	Key   string
	Value T
	Stamp int64 // unix millis
	index int
}

// boundedTimeHeap is a min-heap ordered by Stamp that evicts the oldest
// entry once it grows past capacity. It bounds ServerUrlsBucket's capacity
// eviction (drop the oldest non-default slot) with O(log n) maintenance.
// LibraryBucket also keeps an uncapped instance keyed by mtime, but its
// "recent" partition is computed by SplitByRecent, which sorts Items.
type boundedTimeHeap[T any] struct {
	entries []*timeHeapEntry[T]
	byKey   map[string]*timeHeapEntry[T]
	cap     int
}

func newBoundedTimeHeap[T any](capacity int) *boundedTimeHeap[T] {
	return &boundedTimeHeap[T]{
		entries: make([]*timeHeapEntry[T], 0),
		byKey:   make(map[string]*timeHeapEntry[T]),
		cap:     capacity,
	}
}

// Upsert inserts or updates the entry for key. It returns the evicted
// entry's key and whether an eviction happened.
func (h *boundedTimeHeap[T]) Upsert(key string, value T, stamp int64) (evictedKey string, evicted bool) {
	if existing, ok := h.byKey[key]; ok {
		existing.Value = value
		existing.Stamp = stamp
		h.fix(existing.index)
		return "", false
	}

	e := &timeHeapEntry[T]{Key: key, Value: value, Stamp: stamp, index: len(h.entries)}
	h.entries = append(h.entries, e)
	h.byKey[key] = e
	h.bubbleUp(e.index)

	if h.cap > 0 && len(h.entries) > h.cap {
		old := h.popMin()
		return old.Key, true
	}
	return "", false
}

// Remove deletes the entry for key, if present.
func (h *boundedTimeHeap[T]) Remove(key string) {
	e, ok := h.byKey[key]
	if !ok {
		return
	}
	delete(h.byKey, key)
	last := len(h.entries) - 1
	h.swap(e.index, last)
	h.entries = h.entries[:last]
	if e.index < len(h.entries) {
		h.fix(e.index)
	}
}

// Len returns the number of stored entries.
func (h *boundedTimeHeap[T]) Len() int { return len(h.entries) }

// Keys returns all stored keys in no particular order.
func (h *boundedTimeHeap[T]) Keys() []string {
	keys := make([]string, 0, len(h.entries))
	for _, e := range h.entries {
		keys = append(keys, e.Key)
	}
	return keys
}

// TopN returns up to n keys ordered by descending Stamp (most recent
// first), breaking ties by key for stable output.
func (h *boundedTimeHeap[T]) TopN(n int) []string {
	sorted := make([]*timeHeapEntry[T], len(h.entries))
	copy(sorted, h.entries)
	sortEntriesDesc(sorted)
	if n > len(sorted) {
		n = len(sorted)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = sorted[i].Key
	}
	return out
}

func sortEntriesDesc[T any](s []*timeHeapEntry[T]) {
	// insertion sort: these collections are small (library recent window,
	// server URL book) so O(n^2) is not a concern and keeps this
	// allocation-free relative to sort.Slice's reflection path.
	for i := 1; i < len(s); i++ {
		j := i
		for j > 0 && less(s[j-1], s[j]) {
			s[j-1], s[j] = s[j], s[j-1]
			j--
		}
	}
}

// less reports whether a sorts after b in descending-stamp order (a has a
// smaller stamp, or equal stamp and a larger key so ties break stably).
func less[T any](a, b *timeHeapEntry[T]) bool {
	if a.Stamp != b.Stamp {
		return a.Stamp < b.Stamp
	}
	return a.Key > b.Key
}

func (h *boundedTimeHeap[T]) popMin() *timeHeapEntry[T] {
	min := h.entries[0]
	last := len(h.entries) - 1
	h.swap(0, last)
	h.entries = h.entries[:last]
	if len(h.entries) > 0 {
		h.bubbleDown(0)
	}
	delete(h.byKey, min.Key)
	return min
}

func (h *boundedTimeHeap[T]) swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
	h.entries[i].index = i
	h.entries[j].index = j
}

func (h *boundedTimeHeap[T]) bubbleUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.entries[parent].Stamp <= h.entries[i].Stamp {
			break
		}
		h.swap(parent, i)
		i = parent
	}
}

func (h *boundedTimeHeap[T]) bubbleDown(i int) {
	n := len(h.entries)
	for {
		left, right := 2*i+1, 2*i+2
		smallest := i
		if left < n && h.entries[left].Stamp < h.entries[smallest].Stamp {
			smallest = left
		}
		if right < n && h.entries[right].Stamp < h.entries[smallest].Stamp {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.swap(i, smallest)
		i = smallest
	}
}

func (h *boundedTimeHeap[T]) fix(i int) {
	h.bubbleDown(i)
	h.bubbleUp(i)
}
