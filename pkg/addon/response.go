// Package addon implements the polymorphic addon transport:
// dialect selection by transport URL shape, with modern REST and legacy
// JSON-RPC implementations plus a no-op Unsupported fallback.
package addon

import "github.com/tomtom215/catalogcore/pkg/catalogtypes"

// ResourceResponseKind discriminates the ResourceResponse union.
type ResourceResponseKind int

const (
	RespMetas ResourceResponseKind = iota
	RespMetasDetailed
	RespMeta
	RespStreams
	RespSubtitles
	RespAddons
	RespVideos
)

// MetaPreview is the summarized meta shape returned by catalog resources.
type MetaPreview struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	Poster      *string `json:"poster,omitempty"`
	PosterShape catalogtypes.PosterShape `json:"posterShape,omitempty"`
}

// Meta is the full metadata shape returned by the meta resource.
type Meta struct {
	ID     string      `json:"id"`
	Type   string      `json:"type"`
	Name   string      `json:"name"`
	Videos []MetaVideo `json:"videos,omitempty"`
}

// MetaVideo is one episode/segment of a series-like meta item.
type MetaVideo struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Season   *int   `json:"season,omitempty"`
	Episode  *int   `json:"episode,omitempty"`
	Released *int64 `json:"released,omitempty"`
}

// Subtitle is a subtitle track advertised by the subtitles resource.
type Subtitle struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Lang string `json:"lang"`
}

// ResourceResponse is the discriminated union an addon resource call
// decodes into. The transport never judges emptiness: a
// successful envelope with zero metas is still Ok; EmptyContent
// detection is the loadable layer's job.
type ResourceResponse struct {
	Kind ResourceResponseKind

	Metas   []MetaPreview `json:"metas,omitempty"`
	Skip    *int          `json:"skip,omitempty"`
	HasMore *bool         `json:"hasMore,omitempty"`

	MetasDetailed []Meta `json:"metasDetailed,omitempty"`

	Meta *Meta `json:"meta,omitempty"`

	Streams []catalogtypes.Stream `json:"streams,omitempty"`

	Subtitles []Subtitle `json:"subtitles,omitempty"`

	Addons []catalogtypes.Descriptor `json:"addons,omitempty"`

	Videos []MetaVideo `json:"videos,omitempty"`
}
