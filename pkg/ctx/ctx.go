// Package ctx implements Ctx, the root of application state: profile,
// library, notifications, search history, streams, server URLs, and the
// action set that mutates them. Every mutating method returns
// effects.Effects describing the side effects to spawn; nothing here
// performs I/O directly.
package ctx

import (
	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/loadable"
)

// StatusKind discriminates Ctx.Status.
type StatusKind int

const (
	StatusReady StatusKind = iota
	StatusLoading
)

// AuthRequest is the pending login/register request while Status is
// Loading.
type AuthRequest struct {
	Login    *LoginRequest
	Register *RegisterRequest
}

type LoginRequest struct {
	Email    string
	Password string
}

type RegisterRequest struct {
	Email    string
	Password string
}

// Status is Ctx's top-level auth-flow state machine.
type Status struct {
	Kind    StatusKind
	Pending *AuthRequest
}

// Ctx is the root application state.
type Ctx struct {
	Profile       catalogtypes.Profile
	Library       *catalogtypes.LibraryBucket
	Notifications *catalogtypes.NotificationsBucket
	SearchHistory *catalogtypes.SearchHistoryBucket
	Streams       *catalogtypes.StreamsBucket
	ServerURLs    *catalogtypes.ServerUrlsBucket
	TraktAddon    *catalogtypes.Descriptor

	Events Events

	Status Status
}

// Events holds the two modal/notification feeds fetched via GetEvents.
type Events struct {
	Modal        loadable.Loadable[any, loadable.ResourceError]
	Notification loadable.Loadable[any, loadable.ResourceError]
}

// New builds an anonymous Ctx seeded with the official addon set and a
// default streaming server URL.
func New(officialAddons []catalogtypes.Descriptor, defaultServerURL string, now int64) *Ctx {
	return &Ctx{
		Profile:       catalogtypes.Profile{Addons: officialAddons, Settings: catalogtypes.DefaultSettings()},
		Library:       catalogtypes.NewLibraryBucket(nil, nil),
		Notifications: catalogtypes.NewNotificationsBucket(nil, now),
		SearchHistory: catalogtypes.NewSearchHistoryBucket(nil),
		Streams:       catalogtypes.NewStreamsBucket(nil),
		ServerURLs:    catalogtypes.NewServerUrlsBucket(nil, defaultServerURL, now),
		Status:        Status{Kind: StatusReady},
	}
}

// uid is a small convenience wrapper matching the reference
// implementation's ubiquitous "current user id" accessor.
func (c *Ctx) uid() catalogtypes.UID { return c.Profile.UID() }
