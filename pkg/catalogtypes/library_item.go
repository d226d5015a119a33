package catalogtypes

// LibraryRecentCount bounds the "recent" partition of a LibraryBucket
// The reference implementation hard-codes this; we keep it a
// named constant rather than a magic number.
const LibraryRecentCount = 200

// ShouldSyncRemovedThreshold is the overall_time_watched (ms) above which
// a removed library item is still eligible for sync. Preserved here as
// a preserved-for-compatibility magic number worth naming rather than
// replicating blindly.
const ShouldSyncRemovedThreshold = 60_000

// ServerURLBookCapacity bounds ServerUrlsBucket. Preserved here as
// another bit-compatibility constant.
const ServerURLBookCapacity = 20

// DefaultServerURLID is the slot id of the default, non-deletable server
// URL entry.
const DefaultServerURLID = 1

// PosterShape is the aspect ratio hint for a library item's poster.
type PosterShape string

const (
	PosterShapePoster  PosterShape = "poster"
	PosterShapeSquare  PosterShape = "square"
	PosterShapeLandscape PosterShape = "landscape"
)

// LibraryItemState tracks watch progress for a LibraryItem.
type LibraryItemState struct {
	LastWatched        *int64  `json:"lastWatched,omitempty"` // unix millis
	TimeWatched         uint64 `json:"timeWatched"`
	TimeOffset          uint64 `json:"timeOffset"`
	OverallTimeWatched  uint64 `json:"overallTimeWatched"`
	TimesWatched        uint32 `json:"timesWatched"`
	FlaggedWatched      uint32 `json:"flaggedWatched"`
	Duration            uint64 `json:"duration"`
	VideoID             *string `json:"videoId,omitempty"`
	Watched             *string `json:"watched,omitempty"` // opaque WatchedBitField token
	LastVidReleased     *int64  `json:"lastVidReleased,omitempty"`
	NoNotif             bool    `json:"noNotif"`
}

// MetaBehaviorHints mirrors the subset of meta-item behavior hints carried
// onto a LibraryItem (binge-watching defaults, default video id, etc).
type MetaBehaviorHints struct {
	DefaultVideoID *string `json:"defaultVideoId,omitempty"`
	HasScheduledVideos bool `json:"hasScheduledVideos,omitempty"`
}

// LibraryItem is one entry of a user's library.
type LibraryItem struct {
	ID            string            `json:"_id"`
	Name          string            `json:"name"`
	Type          string            `json:"type"`
	Poster        *string           `json:"poster,omitempty"`
	PosterShape   PosterShape       `json:"posterShape"`
	Removed       bool              `json:"removed"`
	Temp          bool              `json:"temp"`
	Ctime         *int64            `json:"_ctime,omitempty"`
	Mtime         int64             `json:"_mtime"`
	State         LibraryItemState  `json:"state"`
	BehaviorHints MetaBehaviorHints `json:"behaviorHints"`
}

// ShouldSync reports whether this item must be pushed to the remote
// datastore: kept items always sync; removed items only sync if they
// accrued enough watch time to be meaningful history.
func (li LibraryItem) ShouldSync() bool {
	return !li.Removed || li.State.OverallTimeWatched > ShouldSyncRemovedThreshold
}

// IsInContinueWatching reports whether this item belongs in the
// continue-watching projection.
func (li LibraryItem) IsInContinueWatching() bool {
	return li.ShouldSync() && (!li.Removed || li.Temp) && li.State.TimeOffset > 0
}

// WatchedCrossingRatio is the fraction of a video's duration past which a
// single playback session counts as "watched" for TimesWatched purposes.
const WatchedCrossingRatio = 0.9

// ApplyProgress folds one playback position report into the item's state:
// time_offset/duration track the latest report, overall_time_watched
// accumulates monotonically by the delta played since the last report
// (never the raw offset, so seeking backward doesn't lose watched time),
// last_watched is stamped to nowMillis, and times_watched increments
// whenever a report moves the offset from below WatchedCrossingRatio of
// the duration to at or above it (seeking back below that point and
// crossing it again counts again). videoID becomes the
// item's State.VideoID so a multi-episode series tracks which episode is
// "current".
func (li *LibraryItem) ApplyProgress(nowMillis int64, videoID string, timeOffset, duration uint64) {
	if duration > 0 {
		delta := int64(timeOffset) - int64(li.State.TimeOffset)
		if delta > 0 {
			li.State.OverallTimeWatched += uint64(delta)
		}
		crossedBefore := li.State.Duration > 0 && float64(li.State.TimeOffset) >= WatchedCrossingRatio*float64(li.State.Duration)
		crossedNow := float64(timeOffset) >= WatchedCrossingRatio*float64(duration)
		if crossedNow && !crossedBefore {
			li.State.TimesWatched++
		}
	}
	li.State.TimeOffset = timeOffset
	li.State.Duration = duration
	li.State.VideoID = &videoID
	li.State.LastWatched = &nowMillis
	li.Mtime = nowMillis
}
