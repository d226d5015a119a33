package ctx

import (
	"context"

	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/effects"
	"github.com/tomtom215/catalogcore/pkg/env"
)

// AuthenticateResult is the Internal message payload Authenticate's
// future resolves to.
type AuthenticateResult struct {
	Auth    catalogtypes.Auth
	Request AuthRequest
	Err     *CtxError
}

// Authenticate begins a login or register flow: the model moves to
// Loading immediately, and a future performs the actual API call.
func (c *Ctx) Authenticate(environ env.Environment, apiURL string, req AuthRequest) effects.Effects {
	c.Status = Status{Kind: StatusLoading, Pending: &req}
	client := newAPIClient(environ, apiURL)

	return effects.FromFutureChanged(func(ctxt context.Context) effects.Msg {
		var auth catalogtypes.Auth
		var err error
		switch {
		case req.Login != nil:
			auth, err = client.login(ctxt, req.Login.Email, req.Login.Password)
		case req.Register != nil:
			auth, err = client.register(ctxt, req.Register.Email, req.Register.Password)
		}
		if err != nil {
			ce := toCtxError(err)
			return effects.NewInternal("AuthenticateResult", AuthenticateResult{Request: req, Err: &ce})
		}
		return effects.NewInternal("AuthenticateResult", AuthenticateResult{Auth: auth, Request: req})
	})
}

// HandleAuthenticateResult applies an AuthenticateResult: on success it
// stores the returned credential, returns to Ready, and launches the
// addon-collection and library-recent pulls; on failure it surfaces
// Event::Error and returns to Ready without mutating the profile.
func (c *Ctx) HandleAuthenticateResult(environ env.Environment, apiURL string, result AuthenticateResult) effects.Effects {
	c.Status = Status{Kind: StatusReady}
	if result.Err != nil {
		return effects.Join(effects.Changed(), errorEffect(*result.Err, "UserAuthenticated"))
	}

	c.Profile.Auth = &result.Auth
	uid := c.Profile.UID()
	c.Library = catalogtypes.NewLibraryBucket(uid, nil)
	c.Notifications = catalogtypes.NewNotificationsBucket(uid, environ.Now().UnixMilli())
	c.SearchHistory = catalogtypes.NewSearchHistoryBucket(uid)
	c.Streams = catalogtypes.NewStreamsBucket(uid)

	authKey := result.Auth.Key
	client := newAPIClient(environ, apiURL)

	pullAddons := effects.FromFutureChanged(func(ctxt context.Context) effects.Msg {
		addons, err := client.addonCollectionGet(ctxt, authKey, true)
		if err != nil {
			return effects.NewEvent("Error", errorEventPayload(toCtxError(err), "AddonsPulledFromAPI"))
		}
		return effects.NewInternal("AddonsPulledFromAPI", addons)
	})

	pullLibraryRecent := effects.FromFutureChanged(func(ctxt context.Context) effects.Msg {
		entries, err := client.datastoreMeta(ctxt, authKey)
		if err != nil {
			return effects.NewEvent("Error", errorEventPayload(toCtxError(err), "LibraryItemsPulledFromAPI"))
		}
		ids := make([]string, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.ID)
		}
		items, err := client.datastoreGet(ctxt, authKey, ids, false)
		if err != nil {
			return effects.NewEvent("Error", errorEventPayload(toCtxError(err), "LibraryItemsPulledFromAPI"))
		}
		return effects.NewInternal("LibraryItemsPulledFromAPI", items)
	})

	return effects.Join(
		effects.Changed(),
		effects.FromFuture(func(context.Context) effects.Msg {
			return effects.NewEvent("UserAuthenticated", result.Request)
		}),
		pullAddons,
		pullLibraryRecent,
	)
}

// HandleAddonsPulledFromAPI merges the remote addon collection into the
// profile, replacing the local list wholesale (the API is the source of
// truth for an authenticated addon collection).
func (c *Ctx) HandleAddonsPulledFromAPI(addons []catalogtypes.Descriptor) effects.Effects {
	c.Profile.Addons = addons
	return effects.Changed()
}

// HandleLibraryItemsPulledFromAPI merges pulled items into the library
// bucket by the standard mtime rule.
func (c *Ctx) HandleLibraryItemsPulledFromAPI(items []catalogtypes.LibraryItem) effects.Effects {
	c.Library.MergeItems(items)
	return effects.Changed()
}

// Logout calls the API best-effort and unconditionally clears every
// per-user bucket, resetting uid everywhere.
func (c *Ctx) Logout(environ env.Environment, apiURL string) effects.Effects {
	var authKey string
	if c.Profile.Auth != nil {
		authKey = c.Profile.Auth.Key
	}

	c.Profile.Auth = nil
	now := environ.Now().UnixMilli()
	c.Library = catalogtypes.NewLibraryBucket(nil, nil)
	c.Notifications = catalogtypes.NewNotificationsBucket(nil, now)
	c.SearchHistory = catalogtypes.NewSearchHistoryBucket(nil)
	c.Streams = catalogtypes.NewStreamsBucket(nil)
	c.TraktAddon = nil

	if authKey == "" {
		return effects.Changed()
	}
	client := newAPIClient(environ, apiURL)
	return effects.Join(effects.Changed(), effects.FromFuture(func(ctxt context.Context) effects.Msg {
		_ = client.logout(ctxt, authKey) // best-effort: failures are not surfaced
		return effects.NewEvent("UserLoggedOut", nil)
	}))
}

// errorEffect produces an Event::Error future for a synchronously-known
// error (no network round trip needed).
func errorEffect(err CtxError, source string) effects.Effects {
	return effects.FromFuture(func(context.Context) effects.Msg {
		return effects.NewEvent("Error", errorEventPayload(err, source))
	})
}
