package catalogtypes

// Stream describes one playable source returned by an addon's stream
// resource.
type Stream struct {
	Source        StreamSource    `json:"-"`
	Name          *string         `json:"name,omitempty"`
	Description   *string         `json:"description,omitempty"`
	Thumbnail     *string         `json:"thumbnail,omitempty"`
	Subtitles     []Subtitle      `json:"subtitles,omitempty"`
	BehaviorHints StreamBehavior  `json:"behaviorHints"`
}

// StreamBehavior carries player-facing hints about a stream.
type StreamBehavior struct {
	NotWebReady  bool    `json:"notWebReady,omitempty"`
	BingeGroup   *string `json:"bingeGroup,omitempty"`
	CountryWhitelist []string `json:"countryWhitelist,omitempty"`
}

// Subtitle is an external subtitle track attached directly to a stream.
type Subtitle struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Lang string `json:"lang"`
}

// StreamSourceKind discriminates the StreamSource union.
type StreamSourceKind int

const (
	StreamSourceURL StreamSourceKind = iota
	StreamSourceYouTube
	StreamSourceTorrent
	StreamSourceExternal
	StreamSourcePlayerFrame
)

// StreamSource is the discriminated union `source ∈ {Url, YouTube,
// Torrent, External, PlayerFrame}`. Only the field matching Kind
// is populated.
type StreamSource struct {
	Kind StreamSourceKind

	URL string // StreamSourceURL, StreamSourceExternal, StreamSourcePlayerFrame

	YouTubeID string // StreamSourceYouTube

	InfoHash [20]byte // StreamSourceTorrent
	FileIdx  *uint16  // StreamSourceTorrent, optional
	Announce []string // StreamSourceTorrent, optional tracker list
}
