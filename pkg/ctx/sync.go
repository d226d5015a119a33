package ctx

import (
	"context"

	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/effects"
	"github.com/tomtom215/catalogcore/pkg/env"
)

// SyncLibraryWithAPI reconciles the local library against the remote
// datastore: items that are newer remotely are pulled, items that are
// newer locally (and eligible to sync) are pushed. A failed half does
// not roll back the other; each direction is independent.
func (c *Ctx) SyncLibraryWithAPI(environ env.Environment, apiURL string) (effects.Effects, error) {
	if c.Profile.Auth == nil {
		return effects.None(), otherErr(UserNotLoggedIn)
	}
	authKey := c.Profile.Auth.Key
	client := newAPIClient(environ, apiURL)

	localItems := make(map[string]catalogtypes.LibraryItem, len(c.Library.Items))
	for id, it := range c.Library.Items {
		localItems[id] = it
	}

	plan := effects.FromFutureChanged(func(ctxt context.Context) effects.Msg {
		remote, err := client.datastoreMeta(ctxt, authKey)
		if err != nil {
			return effects.NewEvent("Error", errorEventPayload(toCtxError(err), "LibrarySyncWithAPIPlanned"))
		}

		remoteMtime := make(map[string]int64, len(remote))
		for _, e := range remote {
			remoteMtime[e.ID] = e.Mtime
		}

		var toPull []string
		for id, mtime := range remoteMtime {
			if local, ok := localItems[id]; !ok || mtime > local.Mtime {
				toPull = append(toPull, id)
			}
		}
		var toPush []catalogtypes.LibraryItem
		for id, local := range localItems {
			if !local.ShouldSync() {
				continue
			}
			if mtime, ok := remoteMtime[id]; !ok || local.Mtime > mtime {
				toPush = append(toPush, local)
			}
		}

		return effects.NewInternal("LibrarySyncWithAPIPlanned", librarySyncPlan{Pull: toPull, Push: toPush})
	})
	return effects.Join(effects.Changed(), plan), nil
}

// librarySyncPlan is the Internal message payload SyncLibraryWithAPI's
// planning future resolves to.
type librarySyncPlan struct {
	Pull []string
	Push []catalogtypes.LibraryItem
}

// HandleLibrarySyncWithAPIPlanned executes the two independent halves of
// a sync plan: pulling items the remote has newer, and pushing items the
// local copy has newer. Either half failing does not affect the other.
func (c *Ctx) HandleLibrarySyncWithAPIPlanned(environ env.Environment, apiURL string, plan librarySyncPlan) effects.Effects {
	if c.Profile.Auth == nil {
		return effects.None()
	}
	authKey := c.Profile.Auth.Key
	client := newAPIClient(environ, apiURL)

	var pull, push effects.Effects
	if len(plan.Pull) > 0 {
		ids := plan.Pull
		pull = effects.FromFutureChanged(func(ctxt context.Context) effects.Msg {
			items, err := client.datastoreGet(ctxt, authKey, ids, false)
			if err != nil {
				return effects.NewEvent("Error", errorEventPayload(toCtxError(err), "LibraryItemsPulledFromAPI"))
			}
			return effects.NewInternal("LibraryItemsPulledFromAPI", items)
		})
	} else {
		pull = effects.None()
	}

	if len(plan.Push) > 0 {
		items := plan.Push
		push = effects.FromFutureChanged(func(ctxt context.Context) effects.Msg {
			if err := client.datastorePut(ctxt, authKey, items); err != nil {
				return effects.NewEvent("Error", errorEventPayload(toCtxError(err), "LibraryItemsPushedFromAPI"))
			}
			return effects.NewEvent("LibraryItemsPushedFromAPI", nil)
		})
	} else {
		push = effects.None()
	}

	return effects.Join(pull, push)
}
