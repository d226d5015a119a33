package viewmodels

import "errors"

// ErrNoWatchedOverlayLoaded is returned by MetaDetails.ToggleWatched when
// called before LoadWatched has run.
var ErrNoWatchedOverlayLoaded = errors.New("viewmodels: no watched overlay loaded")
