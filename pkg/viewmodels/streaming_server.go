package viewmodels

import (
	"context"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/catalogcore/pkg/effects"
	"github.com/tomtom215/catalogcore/pkg/env"
	"github.com/tomtom215/catalogcore/pkg/loadable"
)

// ServerSettings is the subset of the local streaming server's /settings
// response this view model cares about.
type ServerSettings struct {
	CacheRoot           string `json:"cacheRoot"`
	MaxConnections      int    `json:"btMaxConnections"`
	ProxyStreamsEnabled bool   `json:"proxyStreamsEnabled"`
}

// NetworkInfo is the streaming server's /capabilities/networkInfo response.
type NetworkInfo struct {
	IPAddress    string `json:"ipAddress"`
	TunnelInUse  bool   `json:"tunnelIsUsed"`
}

// DeviceInfo is the streaming server's /capabilities/deviceInfo response.
type DeviceInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// PlaybackDevice is one entry of the /playbackDevices response (a Cast/
// DLNA-style renderer the server can forward a stream to).
type PlaybackDevice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// StreamingServer tracks the local streaming server's settings and
// capability endpoints, each loaded and refreshed independently, plus the
// set of torrents already registered for playback this session.
type StreamingServer struct {
	BaseURL string

	Settings        *loadable.Loadable[ServerSettings, loadable.ResourceError]
	Network         *loadable.Loadable[NetworkInfo, loadable.ResourceError]
	Device          *loadable.Loadable[DeviceInfo, loadable.ResourceError]
	PlaybackDevices *loadable.Loadable[[]PlaybackDevice, loadable.ResourceError]

	registeredTorrents map[string]bool
}

// NewStreamingServer builds an unloaded view model bound to baseURL.
func NewStreamingServer(baseURL string) *StreamingServer {
	return &StreamingServer{BaseURL: baseURL, registeredTorrents: map[string]bool{}}
}

const (
	ServerSettingsReceivedMsg = "StreamingServerSettingsReceived"
	ServerNetworkReceivedMsg  = "StreamingServerNetworkReceived"
	ServerDeviceReceivedMsg   = "StreamingServerDeviceReceived"
	ServerPlaybackDevicesReceivedMsg  = "StreamingServerPlaybackDevicesReceived"
	TorrentRegisteredMsg      = "StreamingServerTorrentRegistered"
)

func fetchServerJSON[T any](environ env.Environment, baseURL, path, msgName string) effects.Future {
	return func(ctx context.Context) effects.Msg {
		result, err := environ.Fetch(ctx, env.HTTPRequest[any]{Method: "GET", URL: baseURL + path})
		if err != nil {
			return effects.NewInternal(msgName, loadable.FoldResult[T](zero[T](), err, nil))
		}
		var value T
		if jsonErr := json.Unmarshal(result.Body, &value); jsonErr != nil {
			return effects.NewInternal(msgName, loadable.Errored[T, loadable.ResourceError](loadable.ResourceError{Kind: loadable.UnexpectedResp}))
		}
		return effects.NewInternal(msgName, loadable.Ready[T, loadable.ResourceError](value))
	}
}

// LoadSettings fetches /settings.
func (m *StreamingServer) LoadSettings(environ env.Environment) effects.Effects {
	loading := loadable.Loading[ServerSettings, loadable.ResourceError]()
	m.Settings = &loading
	return effects.FromFutureChanged(fetchServerJSON[ServerSettings](environ, m.BaseURL, "/settings", ServerSettingsReceivedMsg))
}

// HandleSettingsReceived applies a resolved /settings fetch.
func (m *StreamingServer) HandleSettingsReceived(result loadable.Loadable[ServerSettings, loadable.ResourceError]) effects.Effects {
	m.Settings = &result
	return effects.Changed()
}

// UpdateSettingsMsg names the Internal message UpdateSettings' POST
// resolves to.
const UpdateSettingsMsg = "StreamingServerSettingsUpdated"

// UpdateSettings POSTs the given settings to the server and, once
// acknowledged, reloads them (rather than trusting the POST body echoed
// back, in case the server clamps or rejects individual fields).
func (m *StreamingServer) UpdateSettings(environ env.Environment, settings ServerSettings) effects.Effects {
	loading := loadable.Loading[ServerSettings, loadable.ResourceError]()
	m.Settings = &loading
	baseURL := m.BaseURL
	return effects.FromFutureChanged(func(ctx context.Context) effects.Msg {
		body, err := json.Marshal(settings)
		if err != nil {
			return effects.NewInternal(UpdateSettingsMsg, loadable.Errored[ServerSettings, loadable.ResourceError](loadable.ResourceError{Kind: loadable.Other, Message: err.Error()}))
		}
		_, err = environ.Fetch(ctx, env.HTTPRequest[any]{
			Method:  "POST",
			URL:     baseURL + "/settings",
			Headers: map[string]string{"Content-Type": "application/json"},
			Body:    string(body),
		})
		if err != nil {
			return effects.NewInternal(UpdateSettingsMsg, loadable.Errored[ServerSettings, loadable.ResourceError](loadable.ResourceError{Kind: loadable.Other, Message: err.Error()}))
		}
		return fetchServerJSON[ServerSettings](environ, baseURL, "/settings", UpdateSettingsMsg)(ctx)
	})
}

// LoadNetworkInfo fetches /capabilities/networkInfo.
func (m *StreamingServer) LoadNetworkInfo(environ env.Environment) effects.Effects {
	loading := loadable.Loading[NetworkInfo, loadable.ResourceError]()
	m.Network = &loading
	return effects.FromFutureChanged(fetchServerJSON[NetworkInfo](environ, m.BaseURL, "/capabilities/networkInfo", ServerNetworkReceivedMsg))
}

// HandleNetworkReceived applies a resolved network-info fetch.
func (m *StreamingServer) HandleNetworkReceived(result loadable.Loadable[NetworkInfo, loadable.ResourceError]) effects.Effects {
	m.Network = &result
	return effects.Changed()
}

// LoadDeviceInfo fetches /capabilities/deviceInfo.
func (m *StreamingServer) LoadDeviceInfo(environ env.Environment) effects.Effects {
	loading := loadable.Loading[DeviceInfo, loadable.ResourceError]()
	m.Device = &loading
	return effects.FromFutureChanged(fetchServerJSON[DeviceInfo](environ, m.BaseURL, "/capabilities/deviceInfo", ServerDeviceReceivedMsg))
}

// HandleDeviceReceived applies a resolved device-info fetch.
func (m *StreamingServer) HandleDeviceReceived(result loadable.Loadable[DeviceInfo, loadable.ResourceError]) effects.Effects {
	m.Device = &result
	return effects.Changed()
}

// LoadPlaybackDevices fetches /playbackDevices.
func (m *StreamingServer) LoadPlaybackDevices(environ env.Environment) effects.Effects {
	loading := loadable.Loading[[]PlaybackDevice, loadable.ResourceError]()
	m.PlaybackDevices = &loading
	return effects.FromFutureChanged(fetchServerJSON[[]PlaybackDevice](environ, m.BaseURL, "/playbackDevices", ServerPlaybackDevicesReceivedMsg))
}

// HandlePlaybackDevicesReceived applies a resolved playback-devices fetch.
func (m *StreamingServer) HandlePlaybackDevicesReceived(result loadable.Loadable[[]PlaybackDevice, loadable.ResourceError]) effects.Effects {
	m.PlaybackDevices = &result
	return effects.Changed()
}

// torrentRegistrationPayload is the body POSTed to register a torrent
// source with the streaming server before it can be played.
type torrentRegistrationPayload struct {
	InfoHash string   `json:"infoHash"`
	FileIdx  *uint16  `json:"fileIdx,omitempty"`
	Announce []string `json:"announce,omitempty"`
}

// RegisterTorrent POSTs a torrent source to the server's /torrents
// endpoint so its files become playable, skipping the request entirely if
// this infoHash was already registered this session (the streaming server
// itself is idempotent, but a duplicate POST is still wasted round-trip
// and log noise).
func (m *StreamingServer) RegisterTorrent(environ env.Environment, infoHashHex string, fileIdx *uint16, announce []string) effects.Effects {
	if m.registeredTorrents[infoHashHex] {
		return effects.None()
	}
	m.registeredTorrents[infoHashHex] = true

	payload := torrentRegistrationPayload{InfoHash: infoHashHex, FileIdx: fileIdx, Announce: announce}
	baseURL := m.BaseURL
	return effects.FromFutureChanged(func(ctx context.Context) effects.Msg {
		body, err := json.Marshal(payload)
		if err != nil {
			return effects.NewEvent("Error", err.Error())
		}
		_, err = environ.Fetch(ctx, env.HTTPRequest[any]{
			Method:  "POST",
			URL:     baseURL + "/torrents",
			Headers: map[string]string{"Content-Type": "application/json"},
			Body:    string(body),
		})
		if err != nil {
			return effects.NewEvent("Error", err.Error())
		}
		return effects.NewInternal(TorrentRegisteredMsg, infoHashHex)
	})
}
