package viewmodels

import (
	"sort"

	"github.com/tomtom215/catalogcore/pkg/addon"
	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
)

// ContinueWatchingPreviewSize bounds how many items the preview row
// surfaces, matching the board's "a handful of rows" framing for this
// projection (distinct from LibraryWithFilters' full paginated list).
const ContinueWatchingPreviewSize = 20

// ContinueWatchingItem is one row of the continue-watching preview: a
// library item plus whether it currently has an unseen-episode
// notification pending.
type ContinueWatchingItem struct {
	Item            catalogtypes.LibraryItem
	HasNotification bool
}

// ContinueWatchingPreview is the bounded, most-recently-relevant-first
// projection shown on the home screen.
type ContinueWatchingPreview struct {
	Items []ContinueWatchingItem
}

// NewContinueWatchingPreview builds an empty, unloaded preview.
func NewContinueWatchingPreview() *ContinueWatchingPreview { return &ContinueWatchingPreview{} }

// Load recomputes the preview: every library item satisfying
// ContinueWatchingFilter, ordered by max(item.mtime, latest notified video
// release) descending (falling back to name), capped to
// ContinueWatchingPreviewSize, overlaid with pending notification state.
// This view model issues no network effects — both source buckets are
// already in memory.
func (m *ContinueWatchingPreview) Load(library *catalogtypes.LibraryBucket, notifications *catalogtypes.NotificationsBucket) {
	var items []catalogtypes.LibraryItem
	for _, it := range library.Items {
		if ContinueWatchingFilter(it) {
			items = append(items, it)
		}
	}

	rank := make(map[string]int64, len(items))
	for _, it := range items {
		rank[it.ID] = maxInt64(it.Mtime, latestNotifiedRelease(notifications, it.ID))
	}
	sort.Slice(items, func(i, j int) bool {
		ri, rj := rank[items[i].ID], rank[items[j].ID]
		if ri != rj {
			return ri > rj
		}
		return items[i].Name < items[j].Name
	})
	if len(items) > ContinueWatchingPreviewSize {
		items = items[:ContinueWatchingPreviewSize]
	}

	out := make([]ContinueWatchingItem, len(items))
	for i, it := range items {
		out[i] = ContinueWatchingItem{Item: it, HasNotification: hasNotification(notifications, it.ID)}
	}
	m.Items = out
}

func hasNotification(notifications *catalogtypes.NotificationsBucket, metaID string) bool {
	if notifications == nil {
		return false
	}
	videos, ok := notifications.Items[metaID]
	return ok && len(videos) > 0
}

// latestNotifiedRelease returns the most recent "released" timestamp among
// metaID's pending notifications. NotificationItem.Video is an opaque
// decoded-addon-video value (any), so this best-effort-extracts a
// "released" field from either a map[string]any (generic JSON decode) or
// an addon.MetaVideo; a notification whose Video shape doesn't carry one
// contributes 0, never a hard error.
func latestNotifiedRelease(notifications *catalogtypes.NotificationsBucket, metaID string) int64 {
	if notifications == nil {
		return 0
	}
	videos, ok := notifications.Items[metaID]
	if !ok {
		return 0
	}
	var latest int64
	for _, item := range videos {
		if released := extractReleased(item.Video); released > latest {
			latest = released
		}
	}
	return latest
}

func extractReleased(video any) int64 {
	switch v := video.(type) {
	case map[string]any:
		switch released := v["released"].(type) {
		case float64:
			return int64(released)
		case int64:
			return released
		}
	case addon.MetaVideo:
		if v.Released != nil {
			return *v.Released
		}
	}
	return 0
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
