package viewmodels

import (
	"github.com/tomtom215/catalogcore/pkg/addon"
	"github.com/tomtom215/catalogcore/pkg/aggr"
	"github.com/tomtom215/catalogcore/pkg/bitfield"
	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/effects"
	"github.com/tomtom215/catalogcore/pkg/env"
	"github.com/tomtom215/catalogcore/pkg/loadable"
)

const (
	MetaItemReceivedMsg  = "MetaDetailsMetaReceived"
	StreamItemReceivedMsg = "MetaDetailsStreamsReceived"
)

// MetaDetailsSelected names the meta/video pair currently shown.
type MetaDetailsSelected struct {
	Type    string
	ID      string
	VideoID *string
}

// MetaDetails fans a single meta id out across every addon that declares
// the meta resource for its type, takes the first Ready response in addon
// install order as authoritative, and separately fans the selected video's
// stream resource out the same way.
type MetaDetails struct {
	Selected   *MetaDetailsSelected
	MetaItems  []loadable.ResourceLoadable[addon.Meta]
	Streams    []loadable.ResourceLoadable[[]catalogtypes.Stream]
	Watched    *bitfield.Field
}

// NewMetaDetails builds an empty, unloaded meta-details view model.
func NewMetaDetails() *MetaDetails { return &MetaDetails{} }

func decodeMeta(resp addon.ResourceResponse) (addon.Meta, bool) {
	if resp.Kind != addon.RespMeta || resp.Meta == nil {
		return addon.Meta{}, false
	}
	return *resp.Meta, true
}

func decodeStreams(resp addon.ResourceResponse) ([]catalogtypes.Stream, bool) {
	if resp.Kind != addon.RespStreams {
		return nil, false
	}
	return resp.Streams, true
}

// Load plans and fetches the meta resource across every addon declaring it
// for metaType, and clears any previously loaded stream fan-out (a new meta
// selection always starts without a video selected).
func (m *MetaDetails) Load(environ env.Environment, addons []catalogtypes.Descriptor, metaType, metaID string) effects.Effects {
	m.Selected = &MetaDetailsSelected{Type: metaType, ID: metaID}
	m.Streams = nil
	m.Watched = nil

	path := catalogtypes.ResourcePath{Resource: "meta", Type: metaType, ID: metaID}
	requests := aggr.Plan(addons, aggr.AggrRequest{Kind: aggr.AllOfResource, Path: path})
	m.MetaItems = loadable.UpdatePlan[addon.Meta](nil, requests)

	var futures []effects.Future
	for _, r := range requests {
		futures = append(futures, fetchResource[addon.Meta](environ, r, MetaItemReceivedMsg, decodeMeta))
	}
	if len(futures) == 0 {
		return effects.Changed()
	}
	return effects.Effects{Changed: true, Futures: futures}
}

// HandleMetaReceived applies a resolved per-addon meta fetch.
func (m *MetaDetails) HandleMetaReceived(result ResourceResult[addon.Meta]) effects.Effects {
	for i := range m.MetaItems {
		if m.MetaItems[i].Request.Equal(result.Request) {
			m.MetaItems = loadable.ApplyResponse(m.MetaItems, result.Request, result.Loadable)
			return effects.Changed()
		}
	}
	return effects.None()
}

// Meta returns the first Ready meta in addon install order, the value the
// host UI renders. The zero value and false are returned if no addon has
// resolved one yet.
func (m *MetaDetails) Meta() (addon.Meta, bool) {
	for _, item := range m.MetaItems {
		if item.Content != nil && item.Content.IsReady() {
			return item.Content.Value, true
		}
	}
	return addon.Meta{}, false
}

// SelectVideo plans and fetches the stream resource for videoID across
// every addon declaring the stream resource for this meta's type, keyed by
// (type, video_id) since that's the addon stream-resource identity.
func (m *MetaDetails) SelectVideo(environ env.Environment, addons []catalogtypes.Descriptor, videoID string) effects.Effects {
	if m.Selected == nil {
		return effects.None()
	}
	m.Selected.VideoID = &videoID

	path := catalogtypes.ResourcePath{Resource: "stream", Type: m.Selected.Type, ID: videoID}
	requests := aggr.Plan(addons, aggr.AggrRequest{Kind: aggr.AllOfResource, Path: path})
	m.Streams = loadable.UpdatePlan[[]catalogtypes.Stream](nil, requests)

	var futures []effects.Future
	for _, r := range requests {
		futures = append(futures, fetchResource[[]catalogtypes.Stream](environ, r, StreamItemReceivedMsg, decodeStreams))
	}
	if len(futures) == 0 {
		return effects.Changed()
	}
	return effects.Effects{Changed: true, Futures: futures}
}

// HandleStreamReceived applies a resolved per-addon streams fetch.
func (m *MetaDetails) HandleStreamReceived(result ResourceResult[[]catalogtypes.Stream]) effects.Effects {
	for i := range m.Streams {
		if m.Streams[i].Request.Equal(result.Request) {
			m.Streams = loadable.ApplyResponse(m.Streams, result.Request, result.Loadable)
			return effects.Changed()
		}
	}
	return effects.None()
}

// GuessStream picks the first stream offered by the first addon (install
// order) whose stream fetch has resolved, the default selection a "play"
// tap resolves to without the user picking explicitly.
func (m *MetaDetails) GuessStream() (catalogtypes.Stream, bool) {
	for _, item := range m.Streams {
		if item.Content == nil || !item.Content.IsReady() || len(item.Content.Value) == 0 {
			continue
		}
		return item.Content.Value[0], true
	}
	return catalogtypes.Stream{}, false
}

// LoadWatched overlays a library item's persisted watched-bitfield token
// onto this meta's video list, re-anchoring it against the now-authoritative
// video id order. A nil or unparseable token yields a blank field.
func (m *MetaDetails) LoadWatched(state catalogtypes.LibraryItemState) {
	meta, ok := m.Meta()
	if !ok {
		return
	}
	videoIDs := make([]string, len(meta.Videos))
	for i, v := range meta.Videos {
		videoIDs[i] = v.ID
	}
	if state.Watched == nil {
		m.Watched = bitfield.Construct(make([]bool, len(videoIDs)), videoIDs)
		return
	}
	field, err := bitfield.Parse(*state.Watched, videoIDs)
	if err != nil {
		field = bitfield.Construct(make([]bool, len(videoIDs)), videoIDs)
	}
	m.Watched = field
}

// IsVideoWatched reports whether videoID is marked watched in the current
// overlay, false if no overlay has been loaded yet.
func (m *MetaDetails) IsVideoWatched(videoID string) bool {
	if m.Watched == nil {
		return false
	}
	return m.Watched.GetVideo(videoID)
}

// ToggleWatched flips a video's watched flag in the in-memory overlay and
// returns the new serialized token to persist via Ctx.UpdateLibraryItem.
// The view model does not own the library bucket, so persisting the result
// is the caller's responsibility.
func (m *MetaDetails) ToggleWatched(videoID string, watched bool) (string, error) {
	if m.Watched == nil {
		return "", ErrNoWatchedOverlayLoaded
	}
	m.Watched.SetVideo(videoID, watched)
	return m.Watched.Serialize()
}
