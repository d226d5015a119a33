package viewmodels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
)

func TestContinueWatchingPreviewOrdersByMtime(t *testing.T) {
	library := catalogtypes.NewLibraryBucket(nil, []catalogtypes.LibraryItem{
		{ID: "a", Name: "Alpha", Type: "movie", Mtime: 100, State: catalogtypes.LibraryItemState{TimeOffset: 100}},
		{ID: "b", Name: "Beta", Type: "movie", Mtime: 300, State: catalogtypes.LibraryItemState{TimeOffset: 200}},
		{ID: "c", Name: "Gamma", Type: "movie", Mtime: 500}, // no progress, excluded
	})
	notifications := catalogtypes.NewNotificationsBucket(nil, 0)
	notifications.Add(catalogtypes.NotificationItem{MetaID: "a", VideoID: "v1"})

	m := NewContinueWatchingPreview()
	m.Load(library, notifications)

	require.Len(t, m.Items, 2)
	assert.Equal(t, "b", m.Items[0].Item.ID)
	assert.Equal(t, "a", m.Items[1].Item.ID)
	assert.True(t, m.Items[1].HasNotification)
	assert.False(t, m.Items[0].HasNotification)
}

func TestContinueWatchingPreviewUsesLatestNotifiedRelease(t *testing.T) {
	library := catalogtypes.NewLibraryBucket(nil, []catalogtypes.LibraryItem{
		{ID: "a", Name: "Alpha", Type: "series", Mtime: 100, State: catalogtypes.LibraryItemState{TimeOffset: 100}},
		{ID: "b", Name: "Beta", Type: "series", Mtime: 200, State: catalogtypes.LibraryItemState{TimeOffset: 100}},
	})
	notifications := catalogtypes.NewNotificationsBucket(nil, 0)
	notifications.Add(catalogtypes.NotificationItem{MetaID: "a", VideoID: "v1", Video: map[string]any{"released": float64(9000)}})

	m := NewContinueWatchingPreview()
	m.Load(library, notifications)

	require.Len(t, m.Items, 2)
	assert.Equal(t, "a", m.Items[0].Item.ID, "a's notified video release (9000) outranks b's bare mtime (200)")
}

func TestContinueWatchingPreviewCapsSize(t *testing.T) {
	items := make([]catalogtypes.LibraryItem, 0, ContinueWatchingPreviewSize+5)
	for i := 0; i < ContinueWatchingPreviewSize+5; i++ {
		items = append(items, catalogtypes.LibraryItem{
			ID: itoa(i), Name: itoa(i), Type: "movie",
			State: catalogtypes.LibraryItemState{TimeOffset: 100},
		})
	}
	library := catalogtypes.NewLibraryBucket(nil, items)
	m := NewContinueWatchingPreview()
	m.Load(library, nil)
	assert.Len(t, m.Items, ContinueWatchingPreviewSize)
}
