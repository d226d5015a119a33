// Package runtime owns the root Model tree and the dispatch loop that
// drives it: Dispatch(Action) runs Model.Update under a write lock,
// collects the returned effects.Effects, releases the lock, emits
// RuntimeEvent.NewState when something changed, and spawns each returned
// Future through env.Environment.Exec. A resolved Future's Msg re-enters
// the loop (Internal) or is forwarded to subscribers untouched (Event);
// a Future resolving to effects.Action is an invariant violation and
// panics.
package runtime

import (
	"github.com/tomtom215/catalogcore/pkg/addon"
	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/ctx"
	"github.com/tomtom215/catalogcore/pkg/viewmodels"
)

// FieldID is a tagged field selector: one enum value per sub-model the
// root Model tree holds, used to route an Action to the right update
// function without reflection.
type FieldID int

const (
	FieldCtx FieldID = iota
	FieldDiscover
	FieldCatalogsWithExtra
	FieldLibrary
	FieldMetaDetails
	FieldPlayer
	FieldStreamingServer
	FieldContinueWatching
	FieldInstalledAddons
	FieldAddonDetails
	FieldLocalSearch
	FieldDataExport
	FieldLink
)

func (f FieldID) String() string {
	switch f {
	case FieldCtx:
		return "Ctx"
	case FieldDiscover:
		return "Discover"
	case FieldCatalogsWithExtra:
		return "CatalogsWithExtra"
	case FieldLibrary:
		return "Library"
	case FieldMetaDetails:
		return "MetaDetails"
	case FieldPlayer:
		return "Player"
	case FieldStreamingServer:
		return "StreamingServer"
	case FieldContinueWatching:
		return "ContinueWatching"
	case FieldInstalledAddons:
		return "InstalledAddons"
	case FieldAddonDetails:
		return "AddonDetails"
	case FieldLocalSearch:
		return "LocalSearch"
	case FieldDataExport:
		return "DataExport"
	case FieldLink:
		return "Link"
	default:
		return "Unknown"
	}
}

// Model is the composite state tree the runtime exclusively owns. Ctx is
// created on process start; every view model field is nil until its
// first Load action and is reset to nil on Unload.
type Model struct {
	Ctx *ctx.Ctx

	Discover          *viewmodels.CatalogWithFilters[addon.MetaPreview]
	CatalogsWithExtra *viewmodels.CatalogsWithExtra[addon.MetaPreview]
	Library           *viewmodels.LibraryWithFilters
	MetaDetails       *viewmodels.MetaDetails
	Player            *viewmodels.Player
	StreamingServer   *viewmodels.StreamingServer
	ContinueWatching  *viewmodels.ContinueWatchingPreview
	InstalledAddons   *viewmodels.InstalledAddonsWithFilters
	AddonDetails      *viewmodels.AddonDetails
	LocalSearch       *viewmodels.LocalSearch
	DataExport        *viewmodels.DataExport
	Link              *viewmodels.Link[catalogtypes.Auth]
}

// NewModel builds a Model around an already-constructed Ctx (typically
// ctx.New for a fresh profile, or a value restored from storage).
func NewModel(root *ctx.Ctx) *Model {
	return &Model{Ctx: root}
}

// snapshot is what the runtime hands a NewState subscriber: an immutable
// copy good enough to serialize for a UI binding layer. It is taken under
// the runtime's read lock, never under the write lock, so a slow
// subscriber never blocks Dispatch.
type Snapshot struct {
	Profile           catalogtypes.Profile
	Status            ctx.Status
	Discover          *viewmodels.CatalogWithFilters[addon.MetaPreview]
	CatalogsWithExtra *viewmodels.CatalogsWithExtra[addon.MetaPreview]
	Library           *viewmodels.LibraryWithFilters
	MetaDetails       *viewmodels.MetaDetails
	Player            *viewmodels.Player
	StreamingServer   *viewmodels.StreamingServer
	ContinueWatching  *viewmodels.ContinueWatchingPreview
	InstalledAddons   *viewmodels.InstalledAddonsWithFilters
	AddonDetails      *viewmodels.AddonDetails
	LocalSearch       *viewmodels.LocalSearch
	DataExport        *viewmodels.DataExport
	Link              *viewmodels.Link[catalogtypes.Auth]
}

// Snapshot copies the fields a UI binding layer needs out of the model.
// Sub-model pointers are shared, not deep-copied: every sub-model is only
// ever mutated by Model.Update under the runtime's write lock, so an
// outstanding reader sees a consistent-as-of-acquisition view as long as
// it doesn't mutate through the pointer itself.
func (m *Model) Snapshot() Snapshot {
	return Snapshot{
		Profile:           m.Ctx.Profile,
		Status:            m.Ctx.Status,
		Discover:          m.Discover,
		CatalogsWithExtra: m.CatalogsWithExtra,
		Library:           m.Library,
		MetaDetails:       m.MetaDetails,
		Player:            m.Player,
		StreamingServer:   m.StreamingServer,
		ContinueWatching:  m.ContinueWatching,
		InstalledAddons:   m.InstalledAddons,
		AddonDetails:      m.AddonDetails,
		LocalSearch:       m.LocalSearch,
		DataExport:        m.DataExport,
		Link:              m.Link,
	}
}
