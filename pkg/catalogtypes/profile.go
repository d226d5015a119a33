package catalogtypes

// Auth carries the server-issued credential and user record.
type Auth struct {
	Key  string `json:"key"`
	User User   `json:"user"`
}

// User is the minimal account record returned on login/register.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Settings holds the UI/streaming options. All fields are plain values, so
// an explicit false/0 is indistinguishable from "unset".
type Settings struct {
	InterfaceLanguage    string  `json:"interfaceLanguage"`
	StreamingServerURL   string  `json:"streamingServerUrl"`
	BingeWatching        bool    `json:"bingeWatching"`
	PlayInBackground     bool    `json:"playInBackground"`
	HardwareDecoding     bool    `json:"hardwareDecoding"`
	ExternalPlayerEnabled bool   `json:"externalPlayerEnabled"`
	SubtitlesLanguage    string  `json:"subtitlesLanguage"`
	SubtitlesSize        int     `json:"subtitlesSize"`
	SubtitlesFont        string  `json:"subtitlesFont"`
	SubtitlesBold        bool    `json:"subtitlesBold"`
	SubtitlesOffset       int    `json:"subtitlesOffset"`
	SubtitlesTextColor    string `json:"subtitlesTextColor"`
	SubtitlesBackgroundColor string `json:"subtitlesBackgroundColor"`
	SubtitlesOutlineColor string `json:"subtitlesOutlineColor"`
	EscExitFullscreen    bool    `json:"escExitFullscreen"`
	PauseOnMinimize      bool    `json:"pauseOnMinimize"`
	SeekTimeDuration     int     `json:"seekTimeDuration"`
	SeekShortTimeDuration int    `json:"seekShortTimeDuration"`
	PlayerSideLoadSubtitles bool  `json:"playerSideLoadSubtitles"`
	NextVideoNotificationDuration int `json:"nextVideoNotificationDuration"`
	SurroundSound        bool   `json:"surroundSound"`
}

// DefaultSettings returns the baseline settings for a freshly created
// profile.
func DefaultSettings() Settings {
	return Settings{
		InterfaceLanguage:    "eng",
		SubtitlesLanguage:    "eng",
		SubtitlesSize:        100,
		BingeWatching:        false,
		SeekTimeDuration:     10000,
		SeekShortTimeDuration: 3000,
	}
}

// Profile is the root of a user's identity + addon list. Invariant:
// if Auth is nil, Addons must be the built-in official set (enforced by
// the ctx package, not here, since constructing the official set requires
// the process-wide addon catalog).
type Profile struct {
	Auth         *Auth        `json:"auth,omitempty"`
	Addons       []Descriptor `json:"addons"`
	Settings     Settings     `json:"settings"`
	AddonsLocked bool         `json:"addonsLocked"`
}

// UID returns the owning user's id, or nil if anonymous.
func (p Profile) UID() UID {
	if p.Auth == nil {
		return nil
	}
	id := p.Auth.User.ID
	return &id
}

// FindAddon returns the installed descriptor with the given transport URL.
func (p Profile) FindAddon(transportURL string) (Descriptor, int, bool) {
	for i, d := range p.Addons {
		if d.TransportURL == transportURL {
			return d, i, true
		}
	}
	return Descriptor{}, -1, false
}
