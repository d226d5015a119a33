package ctx

import (
	"context"

	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/effects"
	"github.com/tomtom215/catalogcore/pkg/env"
)

// AddToLibrary inserts or overwrites a library item by the standard
// mtime-monotone merge rule, then pushes the change if authenticated.
func (c *Ctx) AddToLibrary(environ env.Environment, apiURL string, item catalogtypes.LibraryItem) effects.Effects {
	item.Mtime = environ.Now().UnixMilli()
	c.Library.MergeItems([]catalogtypes.LibraryItem{item})
	return c.pushLibraryItemsEffect(environ, apiURL, item)
}

// RemoveFromLibrary marks an item removed rather than deleting it, since
// removed-but-recently-watched items still sync to the API.
func (c *Ctx) RemoveFromLibrary(environ env.Environment, apiURL string, id string) (effects.Effects, error) {
	item, ok := c.Library.Items[id]
	if !ok {
		return effects.None(), otherErr(LibraryItemNotFound)
	}
	item.Removed = true
	item.Mtime = environ.Now().UnixMilli()
	c.Library.MergeItems([]catalogtypes.LibraryItem{item})
	return c.pushLibraryItemsEffect(environ, apiURL, item), nil
}

// RewindLibraryItem resets watch progress to the start, used by the
// "watch again" action.
func (c *Ctx) RewindLibraryItem(environ env.Environment, apiURL string, id string) (effects.Effects, error) {
	item, ok := c.Library.Items[id]
	if !ok {
		return effects.None(), otherErr(LibraryItemNotFound)
	}
	item.State.TimeOffset = 0
	item.State.TimeWatched = 0
	item.Mtime = environ.Now().UnixMilli()
	c.Library.MergeItems([]catalogtypes.LibraryItem{item})
	return c.pushLibraryItemsEffect(environ, apiURL, item), nil
}

// ToggleLibraryItemNotifications flips the NoNotif flag, controlling
// whether new-episode notifications fire for this item.
func (c *Ctx) ToggleLibraryItemNotifications(environ env.Environment, apiURL string, id string, noNotif bool) (effects.Effects, error) {
	item, ok := c.Library.Items[id]
	if !ok {
		return effects.None(), otherErr(LibraryItemNotFound)
	}
	item.State.NoNotif = noNotif
	item.Mtime = environ.Now().UnixMilli()
	c.Library.MergeItems([]catalogtypes.LibraryItem{item})
	return c.pushLibraryItemsEffect(environ, apiURL, item), nil
}

// UpdateLibraryItem replaces the full item in place except for its id,
// bumping mtime, used after playback progress updates.
func (c *Ctx) UpdateLibraryItem(environ env.Environment, apiURL string, item catalogtypes.LibraryItem) (effects.Effects, error) {
	existing, ok := c.Library.Items[item.ID]
	if !ok {
		return effects.None(), otherErr(LibraryItemNotFound)
	}
	item.Ctime = existing.Ctime
	item.Mtime = environ.Now().UnixMilli()
	c.Library.MergeItems([]catalogtypes.LibraryItem{item})
	return c.pushLibraryItemsEffect(environ, apiURL, item), nil
}

// pushLibraryItemsEffect pushes a single changed item to the API when
// authenticated, mirroring pushAddonsEffect's anonymous-profile fallback.
func (c *Ctx) pushLibraryItemsEffect(environ env.Environment, apiURL string, items ...catalogtypes.LibraryItem) effects.Effects {
	if c.Profile.Auth == nil {
		return effects.Changed()
	}
	authKey := c.Profile.Auth.Key
	toPush := make([]catalogtypes.LibraryItem, 0, len(items))
	for _, it := range items {
		if it.ShouldSync() {
			toPush = append(toPush, it)
		}
	}
	if len(toPush) == 0 {
		return effects.Changed()
	}
	client := newAPIClient(environ, apiURL)
	return effects.FromFutureChanged(func(ctxt context.Context) effects.Msg {
		if err := client.datastorePut(ctxt, authKey, toPush); err != nil {
			return effects.NewEvent("Error", errorEventPayload(toCtxError(err), "LibraryItemsPushedFromAPI"))
		}
		return effects.NewEvent("LibraryItemsPushedFromAPI", nil)
	})
}
