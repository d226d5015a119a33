package catalogtypes

import (
	"sort"
	"strconv"
)

// UID is a per-user bucket owner id (the authenticated user's id, or nil
// for the anonymous/local profile).
type UID = *string

func sameUID(a, b UID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// LibraryBucket holds a user's library items keyed by id. Merges are
// idempotent and monotone in mtime.
type LibraryBucket struct {
	UID   UID
	Items map[string]LibraryItem

	recent *boundedTimeHeap[struct{}]
}

// NewLibraryBucket constructs a bucket from a flat item list.
func NewLibraryBucket(uid UID, items []LibraryItem) *LibraryBucket {
	b := &LibraryBucket{UID: uid, Items: make(map[string]LibraryItem, len(items))}
	b.recent = newBoundedTimeHeap[struct{}](0) // unbounded mtime index; SplitByRecent does not read it
	for _, it := range items {
		b.Items[it.ID] = it
		b.recent.Upsert(it.ID, struct{}{}, it.Mtime)
	}
	return b
}

// MergeBucket folds another bucket's items into this one, provided both
// buckets share the same owner ("buckets with mismatched uid do not
// merge").
func (b *LibraryBucket) MergeBucket(other *LibraryBucket) {
	if !sameUID(b.UID, other.UID) {
		return
	}
	items := make([]LibraryItem, 0, len(other.Items))
	for _, it := range other.Items {
		items = append(items, it)
	}
	b.MergeItems(items)
}

// MergeItems applies the per-item merge rule: overwrite if absent
// locally, else overwrite iff new.mtime >= local.mtime.
func (b *LibraryBucket) MergeItems(items []LibraryItem) {
	if b.Items == nil {
		b.Items = make(map[string]LibraryItem)
	}
	if b.recent == nil {
		b.recent = newBoundedTimeHeap[struct{}](0)
	}
	for _, item := range items {
		local, exists := b.Items[item.ID]
		if !exists || item.Mtime >= local.Mtime {
			b.Items[item.ID] = item
			b.recent.Upsert(item.ID, struct{}{}, item.Mtime)
		}
	}
}

// SplitByRecent partitions the bucket into (recent, other) where recent is
// the top LibraryRecentCount items by mtime.
func (b *LibraryBucket) SplitByRecent() (recent []LibraryItem, other []LibraryItem) {
	ids := make([]string, 0, len(b.Items))
	for id := range b.Items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		mi, mj := b.Items[ids[i]].Mtime, b.Items[ids[j]].Mtime
		if mi != mj {
			return mi > mj
		}
		return ids[i] > ids[j] // stable tie-break
	})
	cut := LibraryRecentCount
	if cut > len(ids) {
		cut = len(ids)
	}
	for _, id := range ids[:cut] {
		recent = append(recent, b.Items[id])
	}
	for _, id := range ids[cut:] {
		other = append(other, b.Items[id])
	}
	return recent, other
}

// AreIDsInRecent reports whether every id in ids is within the recent
// partition.
func (b *LibraryBucket) AreIDsInRecent(ids []string) bool {
	recent, _ := b.SplitByRecent()
	set := make(map[string]struct{}, len(recent))
	for _, it := range recent {
		set[it.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}

// NotificationItem is one unseen-video notification for a library item.
type NotificationItem struct {
	MetaID  string `json:"metaId"`
	VideoID string `json:"videoId"`
	Video   any    `json:"video"`
}

// NotificationsBucket holds pending per-video notifications, deduplicated
// on (meta_id, video_id) keeping the first insertion.
type NotificationsBucket struct {
	UID         UID
	Items       map[string]map[string]NotificationItem
	LastUpdated *int64
	Created     int64
}

// NewNotificationsBucket constructs an empty bucket for uid.
func NewNotificationsBucket(uid UID, created int64) *NotificationsBucket {
	return &NotificationsBucket{UID: uid, Items: map[string]map[string]NotificationItem{}, Created: created}
}

// Add inserts a notification item, keeping the first insertion for any
// (meta_id, video_id) pair already present.
func (b *NotificationsBucket) Add(item NotificationItem) {
	videos, ok := b.Items[item.MetaID]
	if !ok {
		videos = map[string]NotificationItem{}
		b.Items[item.MetaID] = videos
	}
	if _, exists := videos[item.VideoID]; exists {
		return
	}
	videos[item.VideoID] = item
}

// Dismiss clears all pending notifications for a meta id.
func (b *NotificationsBucket) Dismiss(metaID string) {
	delete(b.Items, metaID)
}

// SearchHistoryBucket records recent search queries with last-write-wins
// on timestamp.
type SearchHistoryBucket struct {
	UID   UID
	Items map[string]int64 // query -> unix millis
}

// NewSearchHistoryBucket constructs an empty bucket for uid.
func NewSearchHistoryBucket(uid UID) *SearchHistoryBucket {
	return &SearchHistoryBucket{UID: uid, Items: map[string]int64{}}
}

// Record inserts a query timestamp, keeping the most recent one on
// conflict.
func (b *SearchHistoryBucket) Record(query string, at int64) {
	if existing, ok := b.Items[query]; !ok || at > existing {
		b.Items[query] = at
	}
}

// StreamsItem is a persisted stream selection for a (meta, video) pair,
// used to resume playback of a specific addon-provided stream.
type StreamsItem struct {
	Stream       Stream `json:"stream"`
	MetaID       string `json:"metaId"`
	VideoID      string `json:"videoId"`
	TransportURL string `json:"transportUrl"`
	Mtime        int64  `json:"mtime"`
}

func streamsKey(metaID, videoID string) string { return metaID + "\x1f" + videoID }

// StreamsBucket holds persisted stream selections keyed by (meta_id,
// video_id).
type StreamsBucket struct {
	UID   UID
	Items map[string]StreamsItem
}

// NewStreamsBucket constructs an empty bucket for uid.
func NewStreamsBucket(uid UID) *StreamsBucket {
	return &StreamsBucket{UID: uid, Items: map[string]StreamsItem{}}
}

// Put records or overwrites the stream selection for a (meta, video) pair.
func (b *StreamsBucket) Put(item StreamsItem) {
	b.Items[streamsKey(item.MetaID, item.VideoID)] = item
}

// Get returns the persisted stream selection for a (meta, video) pair.
func (b *StreamsBucket) Get(metaID, videoID string) (StreamsItem, bool) {
	it, ok := b.Items[streamsKey(metaID, videoID)]
	return it, ok
}

// ServerURLItem is one entry of the streaming-server URL book.
type ServerURLItem struct {
	ID    int    `json:"id"`
	URL   string `json:"url"`
	Mtime int64  `json:"mtime"`
}

// ServerUrlsBucket is the streaming-server URL address book, with a
// non-deletable default slot and a capacity cap that evicts the oldest
// non-default entry on overflow.
type ServerUrlsBucket struct {
	UID   UID
	Items map[int]ServerURLItem
	heap  *boundedTimeHeap[struct{}]
	nextID int
}

// NewServerUrlsBucket constructs a bucket seeded with the mandatory
// default entry at slot DefaultServerURLID.
func NewServerUrlsBucket(uid UID, defaultURL string, now int64) *ServerUrlsBucket {
	b := &ServerUrlsBucket{
		UID:    uid,
		Items:  map[int]ServerURLItem{},
		heap:   newBoundedTimeHeap[struct{}](ServerURLBookCapacity),
		nextID: DefaultServerURLID + 1,
	}
	item := ServerURLItem{ID: DefaultServerURLID, URL: defaultURL, Mtime: now}
	b.Items[DefaultServerURLID] = item
	b.heap.Upsert(strconv.Itoa(DefaultServerURLID), struct{}{}, now)
	return b
}

// Add inserts a new server URL, evicting the oldest non-default entry if
// the bucket is at capacity. Returns the new entry's id.
func (b *ServerUrlsBucket) Add(url string, now int64) int {
	id := b.nextID
	b.nextID++
	b.Items[id] = ServerURLItem{ID: id, URL: url, Mtime: now}
	evictedKey, evicted := b.heap.Upsert(strconv.Itoa(id), struct{}{}, now)
	b.settleEviction(evictedKey, evicted, now)
	return id
}

// settleEviction deletes whichever entry the heap actually evicted. The
// default slot can never be evicted: if it comes back as the victim, it
// is re-inserted with a newer stamp, which itself may push the heap back
// over capacity and evict someone else — so the re-insertion's own
// result is fed back through this same loop until a non-default victim
// is deleted or nothing more is evicted.
func (b *ServerUrlsBucket) settleEviction(evictedKey string, evicted bool, now int64) {
	for evicted {
		evictedID, _ := strconv.Atoi(evictedKey)
		if evictedID != DefaultServerURLID {
			delete(b.Items, evictedID)
			return
		}
		now++
		evictedKey, evicted = b.heap.Upsert(evictedKey, struct{}{}, now)
	}
}

// Delete removes a server URL entry. The default slot can never be
// deleted.
func (b *ServerUrlsBucket) Delete(id int) bool {
	if id == DefaultServerURLID {
		return false
	}
	if _, ok := b.Items[id]; !ok {
		return false
	}
	delete(b.Items, id)
	b.heap.Remove(strconv.Itoa(id))
	return true
}

// Reindex rebuilds the eviction heap and nextID counter from Items. The
// heap is unexported and so never round-trips through a plain
// marshal/unmarshal of the bucket; a caller restoring a ServerUrlsBucket
// from storage must call Reindex before Add/Delete, or those calls would
// dereference a nil heap.
func (b *ServerUrlsBucket) Reindex() {
	b.heap = newBoundedTimeHeap[struct{}](ServerURLBookCapacity)
	maxID := DefaultServerURLID
	for id, item := range b.Items {
		b.heap.Upsert(strconv.Itoa(id), struct{}{}, item.Mtime)
		if id > maxID {
			maxID = id
		}
	}
	b.nextID = maxID + 1
}

