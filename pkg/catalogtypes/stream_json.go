package catalogtypes

import (
	"encoding/hex"
	"fmt"

	json "github.com/goccy/go-json"
)

// streamWire is the flattened on-the-wire shape of a Stream: the source
// union's fields live alongside name/description/etc, exactly as addons
// serve them, rather than nested under a "source" key.
type streamWire struct {
	URL          *string  `json:"url,omitempty"`
	YtID         *string  `json:"ytId,omitempty"`
	InfoHash     *string  `json:"infoHash,omitempty"`
	FileIdx      *uint16  `json:"fileIdx,omitempty"`
	Announce     []string `json:"announce,omitempty"`
	ExternalURL  *string  `json:"externalUrl,omitempty"`
	PlayerFrame  *string  `json:"playerFrameUrl,omitempty"`

	Name          *string        `json:"name,omitempty"`
	Description   *string        `json:"description,omitempty"`
	Thumbnail     *string        `json:"thumbnail,omitempty"`
	Subtitles     []Subtitle     `json:"subtitles,omitempty"`
	BehaviorHints StreamBehavior `json:"behaviorHints"`
}

// MarshalJSON flattens the Source union onto the wire shape addons expect.
func (s Stream) MarshalJSON() ([]byte, error) {
	w := streamWire{
		Name:          s.Name,
		Description:   s.Description,
		Thumbnail:     s.Thumbnail,
		Subtitles:     s.Subtitles,
		BehaviorHints: s.BehaviorHints,
	}
	switch s.Source.Kind {
	case StreamSourceURL:
		w.URL = &s.Source.URL
	case StreamSourceYouTube:
		w.YtID = &s.Source.YouTubeID
	case StreamSourceTorrent:
		hexHash := hex.EncodeToString(s.Source.InfoHash[:])
		w.InfoHash = &hexHash
		w.FileIdx = s.Source.FileIdx
		w.Announce = s.Source.Announce
	case StreamSourceExternal:
		w.URL = &s.Source.URL
		w.ExternalURL = &s.Source.URL
	case StreamSourcePlayerFrame:
		w.PlayerFrame = &s.Source.URL
	}
	return json.Marshal(w)
}

// UnmarshalJSON reconstructs the Source union from whichever field is
// present, preferring the most specific source kind when several are set
// (addons are expected to only ever set one).
func (s *Stream) UnmarshalJSON(data []byte) error {
	var w streamWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	s.Name = w.Name
	s.Description = w.Description
	s.Thumbnail = w.Thumbnail
	s.Subtitles = w.Subtitles
	s.BehaviorHints = w.BehaviorHints

	switch {
	case w.PlayerFrame != nil:
		s.Source = StreamSource{Kind: StreamSourcePlayerFrame, URL: *w.PlayerFrame}
	case w.InfoHash != nil:
		raw, err := hex.DecodeString(*w.InfoHash)
		if err != nil || len(raw) != 20 {
			return fmt.Errorf("catalogtypes: invalid infoHash %q", *w.InfoHash)
		}
		var hash [20]byte
		copy(hash[:], raw)
		s.Source = StreamSource{Kind: StreamSourceTorrent, InfoHash: hash, FileIdx: w.FileIdx, Announce: w.Announce}
	case w.YtID != nil:
		s.Source = StreamSource{Kind: StreamSourceYouTube, YouTubeID: *w.YtID}
	case w.ExternalURL != nil:
		s.Source = StreamSource{Kind: StreamSourceExternal, URL: *w.ExternalURL}
	case w.URL != nil:
		s.Source = StreamSource{Kind: StreamSourceURL, URL: *w.URL}
	default:
		return fmt.Errorf("catalogtypes: stream has no recognizable source field")
	}
	return nil
}
