package runtime

import (
	"fmt"
	"time"

	"github.com/tomtom215/catalogcore/internal/linkcodes"
	"github.com/tomtom215/catalogcore/pkg/addon"
	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/ctx"
	"github.com/tomtom215/catalogcore/pkg/effects"
	"github.com/tomtom215/catalogcore/pkg/env"
	"github.com/tomtom215/catalogcore/pkg/loadable"
	"github.com/tomtom215/catalogcore/pkg/viewmodels"
)

// Config bundles the per-process wiring Update needs beyond the model
// itself: where the platform API lives, which addon install/uninstall
// policy to enforce, and the pairing-code signer the Link view model
// uses. It is immutable for the process lifetime.
type Config struct {
	APIURL string
	Policy ctx.AddonPolicy
	Signer *linkcodes.Signer
}

// DiscoverLoadPayload is FieldDiscover's Load payload.
type DiscoverLoadPayload struct {
	AddonBase   string
	CatalogType string
	CatalogID   string
	Extra       []catalogtypes.ExtraValue
	Skip        int
}

// CatalogsWithExtraLoadPayload is FieldCatalogsWithExtra's Load payload.
type CatalogsWithExtraLoadPayload struct {
	Type  *string
	Extra []catalogtypes.ExtraValue
}

// LibraryLoadPayload is FieldLibrary's Load payload. Filter is only
// consulted the first time the field is loaded (it is fixed for the
// lifetime of the view model thereafter, matching NewLibraryWithFilters).
type LibraryLoadPayload struct {
	Filter   viewmodels.ItemFilter
	Selected viewmodels.LibrarySelected
}

// MetaDetailsLoadPayload is FieldMetaDetails's Load payload.
type MetaDetailsLoadPayload struct {
	Type string
	ID   string
}

// PlayerLoadPayload is FieldPlayer's Load payload.
type PlayerLoadPayload struct {
	Stream        catalogtypes.Stream
	MetaID        string
	VideoID       string
	LibraryItemID string
}

// StreamingServerLoadPayload is FieldStreamingServer's Load payload.
type StreamingServerLoadPayload struct {
	BaseURL string
}

// AddonDetailsLoadPayload is FieldAddonDetails's Load payload.
type AddonDetailsLoadPayload struct {
	TransportURL string
}

// SearchPayload is FieldLocalSearch's Search verb payload.
type SearchPayload struct {
	Query string
}

// LinkCreateCodePayload is FieldLink's CreateCode verb payload.
// TTLSeconds of zero uses defaultLinkCodeTTL.
type LinkCreateCodePayload struct {
	TTLSeconds int64
}

// defaultLinkCodeTTL bounds how long a freshly minted pairing code stays
// valid absent an explicit TTLSeconds.
const defaultLinkCodeTTL = 10 * time.Minute

func linkCodeTTL(seconds int64) time.Duration {
	if seconds <= 0 {
		return defaultLinkCodeTTL
	}
	return time.Duration(seconds) * time.Second
}

// Update is the single entry point Dispatch calls under the write lock.
// It routes a to the affected sub-model(s) and returns the effects those
// sub-models produced. An unrecognized (Field, Verb) pair is a caller
// bug, not a runtime fault, and returns an error rather than panicking.
func Update(m *Model, environ env.Environment, cfg Config, a Action) (effects.Effects, error) {
	if a.Field == FieldCtx {
		return updateCtx(m, environ, cfg, a)
	}
	return updateViewModel(m, environ, cfg, a)
}

func updateCtx(m *Model, environ env.Environment, cfg Config, a Action) (effects.Effects, error) {
	c := m.Ctx
	switch a.Verb {
	case VerbAuthenticate:
		req, ok := a.Payload.(ctx.AuthRequest)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: Authenticate payload must be ctx.AuthRequest")
		}
		return c.Authenticate(environ, cfg.APIURL, req), nil
	case VerbLogout:
		return c.Logout(environ, cfg.APIURL), nil
	case VerbInstallTraktAddon:
		d, ok := a.Payload.(catalogtypes.Descriptor)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: InstallTraktAddon payload must be catalogtypes.Descriptor")
		}
		return c.InstallTraktAddon(d), nil
	case VerbLogoutTrakt:
		return c.LogoutTrakt(), nil
	case VerbInstallAddon:
		d, ok := a.Payload.(catalogtypes.Descriptor)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: InstallAddon payload must be catalogtypes.Descriptor")
		}
		return c.InstallAddon(environ, cfg.APIURL, cfg.Policy, d)
	case VerbUpgradeAddon:
		d, ok := a.Payload.(catalogtypes.Descriptor)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: UpgradeAddon payload must be catalogtypes.Descriptor")
		}
		return c.UpgradeAddon(environ, cfg.APIURL, d)
	case VerbUninstallAddon:
		url, ok := a.Payload.(string)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: UninstallAddon payload must be string")
		}
		return c.UninstallAddon(environ, cfg.APIURL, cfg.Policy, url)
	case VerbAddToLibrary:
		item, ok := a.Payload.(catalogtypes.LibraryItem)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: AddToLibrary payload must be catalogtypes.LibraryItem")
		}
		return c.AddToLibrary(environ, cfg.APIURL, item), nil
	case VerbRemoveFromLibrary:
		id, ok := a.Payload.(string)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: RemoveFromLibrary payload must be string")
		}
		return c.RemoveFromLibrary(environ, cfg.APIURL, id)
	case VerbRewindLibraryItem:
		id, ok := a.Payload.(string)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: RewindLibraryItem payload must be string")
		}
		return c.RewindLibraryItem(environ, cfg.APIURL, id)
	case VerbToggleLibraryItemNotifications:
		p, ok := a.Payload.(ToggleNotificationsPayload)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: ToggleLibraryItemNotifications payload must be ToggleNotificationsPayload")
		}
		return c.ToggleLibraryItemNotifications(environ, cfg.APIURL, p.ID, p.NoNotif)
	case VerbUpdateLibraryItem:
		item, ok := a.Payload.(catalogtypes.LibraryItem)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: UpdateLibraryItem payload must be catalogtypes.LibraryItem")
		}
		return c.UpdateLibraryItem(environ, cfg.APIURL, item)
	case VerbSyncLibraryWithAPI:
		return c.SyncLibraryWithAPI(environ, cfg.APIURL)
	case VerbPullNotifications:
		return c.PullNotifications(environ), nil
	case VerbDismissNotificationItem:
		id, ok := a.Payload.(string)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: DismissNotificationItem payload must be string")
		}
		return c.DismissNotificationItem(id), nil
	case VerbRecordSearchHistory:
		q, ok := a.Payload.(string)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: RecordSearchHistory payload must be string")
		}
		return c.RecordSearchHistory(environ, q), nil
	case VerbClearSearchHistory:
		return c.ClearSearchHistory(), nil
	case VerbAddServerURL:
		url, ok := a.Payload.(string)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: AddServerUrl payload must be string")
		}
		_, eff := c.AddServerUrl(environ, url)
		return eff, nil
	case VerbDeleteServerURL:
		id, ok := a.Payload.(int)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: DeleteServerUrl payload must be int")
		}
		return c.DeleteServerUrl(id)
	case VerbGetEvents:
		return c.GetEvents(environ, cfg.APIURL), nil
	default:
		return effects.None(), fmt.Errorf("runtime: unknown Ctx verb %q", a.Verb)
	}
}

// ToggleNotificationsPayload is FieldCtx's ToggleLibraryItemNotifications
// verb payload.
type ToggleNotificationsPayload struct {
	ID      string
	NoNotif bool
}

func updateViewModel(m *Model, environ env.Environment, cfg Config, a Action) (effects.Effects, error) {
	switch a.Field {
	case FieldDiscover:
		return updateDiscover(m, environ, a)
	case FieldCatalogsWithExtra:
		return updateCatalogsWithExtra(m, environ, a)
	case FieldLibrary:
		return updateLibrary(m, a)
	case FieldMetaDetails:
		return updateMetaDetails(m, environ, cfg, a)
	case FieldPlayer:
		return updatePlayer(m, environ, a)
	case FieldStreamingServer:
		return updateStreamingServer(m, environ, a)
	case FieldContinueWatching:
		return updateContinueWatching(m, a)
	case FieldInstalledAddons:
		return updateInstalledAddons(m, a)
	case FieldAddonDetails:
		return updateAddonDetails(m, environ, a)
	case FieldLocalSearch:
		return updateLocalSearch(m, a)
	case FieldDataExport:
		return updateDataExport(m, environ, cfg, a)
	case FieldLink:
		return updateLink(m, environ, cfg, a)
	default:
		return effects.None(), fmt.Errorf("runtime: unknown field %v", a.Field)
	}
}

func updateDiscover(m *Model, environ env.Environment, a Action) (effects.Effects, error) {
	switch a.Verb {
	case VerbUnload:
		m.Discover = nil
		return effects.Changed(), nil
	case VerbLoad:
		p, ok := a.Payload.(DiscoverLoadPayload)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: Discover Load payload must be DiscoverLoadPayload")
		}
		if m.Discover == nil {
			m.Discover = viewmodels.NewCatalogWithFilters[addon.MetaPreview]()
		}
		return m.Discover.Load(environ, m.Ctx.Profile.Addons, p.AddonBase, p.CatalogType, p.CatalogID, p.Extra, p.Skip), nil
	default:
		return effects.None(), fmt.Errorf("runtime: unknown Discover verb %q", a.Verb)
	}
}

func updateCatalogsWithExtra(m *Model, environ env.Environment, a Action) (effects.Effects, error) {
	switch a.Verb {
	case VerbUnload:
		m.CatalogsWithExtra = nil
		return effects.Changed(), nil
	case VerbLoad:
		p, ok := a.Payload.(CatalogsWithExtraLoadPayload)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: CatalogsWithExtra Load payload must be CatalogsWithExtraLoadPayload")
		}
		if m.CatalogsWithExtra == nil {
			m.CatalogsWithExtra = viewmodels.NewCatalogsWithExtra[addon.MetaPreview]()
		}
		return m.CatalogsWithExtra.Load(environ, m.Ctx.Profile.Addons, p.Type, p.Extra), nil
	default:
		return effects.None(), fmt.Errorf("runtime: unknown CatalogsWithExtra verb %q", a.Verb)
	}
}

func updateLibrary(m *Model, a Action) (effects.Effects, error) {
	switch a.Verb {
	case VerbUnload:
		m.Library = nil
		return effects.Changed(), nil
	case VerbLoad:
		p, ok := a.Payload.(LibraryLoadPayload)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: Library Load payload must be LibraryLoadPayload")
		}
		if m.Library == nil {
			filter := p.Filter
			if filter == nil {
				filter = viewmodels.NotRemovedFilter
			}
			m.Library = viewmodels.NewLibraryWithFilters(filter)
		}
		return m.Library.Load(m.Ctx.Library, p.Selected), nil
	default:
		return effects.None(), fmt.Errorf("runtime: unknown Library verb %q", a.Verb)
	}
}

func updateMetaDetails(m *Model, environ env.Environment, cfg Config, a Action) (effects.Effects, error) {
	switch a.Verb {
	case VerbUnload:
		m.MetaDetails = nil
		return effects.Changed(), nil
	case VerbLoad:
		p, ok := a.Payload.(MetaDetailsLoadPayload)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: MetaDetails Load payload must be MetaDetailsLoadPayload")
		}
		if m.MetaDetails == nil {
			m.MetaDetails = viewmodels.NewMetaDetails()
		}
		eff := m.MetaDetails.Load(environ, m.Ctx.Profile.Addons, p.Type, p.ID)
		if item, ok := m.Ctx.Library.Items[p.ID]; ok {
			m.MetaDetails.LoadWatched(item.State)
		}
		return eff, nil
	case VerbSelectVideo:
		videoID, ok := a.Payload.(string)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: MetaDetails SelectVideo payload must be string")
		}
		if m.MetaDetails == nil {
			return effects.None(), fmt.Errorf("runtime: MetaDetails not loaded")
		}
		return m.MetaDetails.SelectVideo(environ, m.Ctx.Profile.Addons, videoID), nil
	case VerbToggleWatched:
		return toggleWatched(m, environ, cfg, a)
	default:
		return effects.None(), fmt.Errorf("runtime: unknown MetaDetails verb %q", a.Verb)
	}
}

// ToggleWatchedPayload is FieldMetaDetails' ToggleWatched verb payload.
type ToggleWatchedPayload struct {
	VideoID string
	Watched bool
}

// toggleWatched flips the in-memory overlay and, if the meta is already a
// library item, persists the new token via Ctx.UpdateLibraryItem; a meta
// with no library item yet only updates the overlay shown to the user.
func toggleWatched(m *Model, environ env.Environment, cfg Config, a Action) (effects.Effects, error) {
	p, ok := a.Payload.(ToggleWatchedPayload)
	if !ok || m.MetaDetails == nil || m.MetaDetails.Selected == nil {
		return effects.None(), fmt.Errorf("runtime: ToggleWatched payload must be ToggleWatchedPayload, with MetaDetails loaded")
	}
	token, err := m.MetaDetails.ToggleWatched(p.VideoID, p.Watched)
	if err != nil {
		return effects.None(), err
	}
	toggled := effects.Changed()
	item, ok := m.Ctx.Library.Items[m.MetaDetails.Selected.ID]
	if !ok {
		return toggled, nil
	}
	item.State.Watched = &token
	eff, err := m.Ctx.UpdateLibraryItem(environ, cfg.APIURL, item)
	if err != nil {
		return toggled, err
	}
	return effects.Join(toggled, eff), nil
}

func updatePlayer(m *Model, environ env.Environment, a Action) (effects.Effects, error) {
	switch a.Verb {
	case VerbLoad:
		p, ok := a.Payload.(PlayerLoadPayload)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: Player Load payload must be PlayerLoadPayload")
		}
		if m.Player == nil {
			m.Player = viewmodels.NewPlayer()
		}
		return m.Player.Load(p.Stream, p.MetaID, p.VideoID, p.LibraryItemID), nil
	case VerbPlayerTimeChanged:
		p, ok := a.Payload.(PlayerTimeChangedPayload)
		if !ok || m.Player == nil {
			return effects.None(), fmt.Errorf("runtime: Player TimeChanged payload must be PlayerTimeChangedPayload, with Player loaded")
		}
		return m.Player.TimeChanged(environ, p.Time, p.Duration), nil
	case VerbPlayerEnded:
		if m.Player == nil {
			return effects.None(), fmt.Errorf("runtime: Player not loaded")
		}
		return m.Player.Ended(), nil
	case VerbPlayerStop, VerbUnload:
		if m.Player == nil {
			return effects.Changed(), nil
		}
		eff := m.Player.Stop()
		if a.Verb == VerbUnload {
			m.Player = nil
		}
		return eff, nil
	default:
		return effects.None(), fmt.Errorf("runtime: unknown Player verb %q", a.Verb)
	}
}

// PlayerTimeChangedPayload is FieldPlayer's TimeChanged verb payload.
type PlayerTimeChangedPayload struct {
	Time     uint64
	Duration uint64
}

func updateStreamingServer(m *Model, environ env.Environment, a Action) (effects.Effects, error) {
	switch a.Verb {
	case VerbUnload:
		m.StreamingServer = nil
		return effects.Changed(), nil
	case VerbLoad:
		p, ok := a.Payload.(StreamingServerLoadPayload)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: StreamingServer Load payload must be StreamingServerLoadPayload")
		}
		if m.StreamingServer == nil || m.StreamingServer.BaseURL != p.BaseURL {
			m.StreamingServer = viewmodels.NewStreamingServer(p.BaseURL)
		}
		return m.StreamingServer.LoadSettings(environ), nil
	case VerbServerLoadSettings:
		if m.StreamingServer == nil {
			return effects.None(), fmt.Errorf("runtime: StreamingServer not loaded")
		}
		return m.StreamingServer.LoadSettings(environ), nil
	case VerbServerUpdateSettings:
		settings, ok := a.Payload.(viewmodels.ServerSettings)
		if !ok || m.StreamingServer == nil {
			return effects.None(), fmt.Errorf("runtime: StreamingServer UpdateSettings payload must be viewmodels.ServerSettings, with StreamingServer loaded")
		}
		return m.StreamingServer.UpdateSettings(environ, settings), nil
	case VerbServerLoadNetwork:
		if m.StreamingServer == nil {
			return effects.None(), fmt.Errorf("runtime: StreamingServer not loaded")
		}
		return m.StreamingServer.LoadNetworkInfo(environ), nil
	case VerbServerLoadDevice:
		if m.StreamingServer == nil {
			return effects.None(), fmt.Errorf("runtime: StreamingServer not loaded")
		}
		return m.StreamingServer.LoadDeviceInfo(environ), nil
	case VerbServerLoadDevices:
		if m.StreamingServer == nil {
			return effects.None(), fmt.Errorf("runtime: StreamingServer not loaded")
		}
		return m.StreamingServer.LoadPlaybackDevices(environ), nil
	case VerbServerRegisterTorrent:
		p, ok := a.Payload.(RegisterTorrentPayload)
		if !ok || m.StreamingServer == nil {
			return effects.None(), fmt.Errorf("runtime: StreamingServer RegisterTorrent payload must be RegisterTorrentPayload, with StreamingServer loaded")
		}
		return m.StreamingServer.RegisterTorrent(environ, p.InfoHashHex, p.FileIdx, p.Announce), nil
	default:
		return effects.None(), fmt.Errorf("runtime: unknown StreamingServer verb %q", a.Verb)
	}
}

// RegisterTorrentPayload is FieldStreamingServer's RegisterTorrent verb
// payload.
type RegisterTorrentPayload struct {
	InfoHashHex string
	FileIdx     *uint16
	Announce    []string
}

func updateContinueWatching(m *Model, a Action) (effects.Effects, error) {
	switch a.Verb {
	case VerbUnload:
		m.ContinueWatching = nil
		return effects.Changed(), nil
	case VerbLoad:
		if m.ContinueWatching == nil {
			m.ContinueWatching = viewmodels.NewContinueWatchingPreview()
		}
		m.ContinueWatching.Load(m.Ctx.Library, m.Ctx.Notifications)
		return effects.Changed(), nil
	default:
		return effects.None(), fmt.Errorf("runtime: unknown ContinueWatching verb %q", a.Verb)
	}
}

func updateInstalledAddons(m *Model, a Action) (effects.Effects, error) {
	switch a.Verb {
	case VerbUnload:
		m.InstalledAddons = nil
		return effects.Changed(), nil
	case VerbLoad:
		selected, ok := a.Payload.(viewmodels.InstalledAddonsSelected)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: InstalledAddons Load payload must be viewmodels.InstalledAddonsSelected")
		}
		if m.InstalledAddons == nil {
			m.InstalledAddons = viewmodels.NewInstalledAddonsWithFilters()
		}
		m.InstalledAddons.Load(m.Ctx.Profile.Addons, selected)
		return effects.Changed(), nil
	default:
		return effects.None(), fmt.Errorf("runtime: unknown InstalledAddons verb %q", a.Verb)
	}
}

func updateAddonDetails(m *Model, environ env.Environment, a Action) (effects.Effects, error) {
	switch a.Verb {
	case VerbUnload:
		m.AddonDetails = nil
		return effects.Changed(), nil
	case VerbLoad:
		p, ok := a.Payload.(AddonDetailsLoadPayload)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: AddonDetails Load payload must be AddonDetailsLoadPayload")
		}
		if m.AddonDetails == nil {
			m.AddonDetails = viewmodels.NewAddonDetails()
		}
		return m.AddonDetails.Load(environ, p.TransportURL), nil
	default:
		return effects.None(), fmt.Errorf("runtime: unknown AddonDetails verb %q", a.Verb)
	}
}

func updateLocalSearch(m *Model, a Action) (effects.Effects, error) {
	switch a.Verb {
	case VerbUnload:
		m.LocalSearch = nil
		return effects.Changed(), nil
	case VerbReindex:
		items, ok := a.Payload.([]addon.MetaPreview)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: LocalSearch Reindex payload must be []addon.MetaPreview")
		}
		if m.LocalSearch == nil {
			m.LocalSearch = viewmodels.NewLocalSearch()
		}
		m.LocalSearch.Reindex(items)
		return effects.Changed(), nil
	case VerbSearch:
		p, ok := a.Payload.(SearchPayload)
		if !ok {
			return effects.None(), fmt.Errorf("runtime: LocalSearch Search payload must be SearchPayload")
		}
		if m.LocalSearch == nil {
			m.LocalSearch = viewmodels.NewLocalSearch()
		}
		m.LocalSearch.Search(p.Query, m.Ctx.SearchHistory)
		return effects.Changed(), nil
	default:
		return effects.None(), fmt.Errorf("runtime: unknown LocalSearch verb %q", a.Verb)
	}
}

func updateDataExport(m *Model, environ env.Environment, cfg Config, a Action) (effects.Effects, error) {
	switch a.Verb {
	case VerbUnload:
		m.DataExport = nil
		return effects.Changed(), nil
	case VerbDataExportRequest:
		if m.Ctx.Profile.Auth == nil {
			return effects.None(), fmt.Errorf("runtime: DataExport requires an authenticated profile")
		}
		if m.DataExport == nil {
			m.DataExport = viewmodels.NewDataExport()
		}
		return m.DataExport.Request(environ, cfg.APIURL, m.Ctx.Profile.Auth.Key), nil
	default:
		return effects.None(), fmt.Errorf("runtime: unknown DataExport verb %q", a.Verb)
	}
}

func updateLink(m *Model, environ env.Environment, cfg Config, a Action) (effects.Effects, error) {
	switch a.Verb {
	case VerbUnload:
		m.Link = nil
		return effects.Changed(), nil
	case VerbLinkCreateCode:
		p, _ := a.Payload.(LinkCreateCodePayload)
		ttl := linkCodeTTL(p.TTLSeconds)
		if m.Link == nil {
			m.Link = viewmodels.NewLink[catalogtypes.Auth]()
		}
		return m.Link.CreateCode(environ, cfg.Signer, cfg.APIURL, ttl), nil
	case VerbLinkReadData:
		if m.Link == nil {
			return effects.None(), fmt.Errorf("runtime: Link not loaded")
		}
		return m.Link.ReadData(environ, cfg.Signer, cfg.APIURL, 0), nil
	default:
		return effects.None(), fmt.Errorf("runtime: unknown Link verb %q", a.Verb)
	}
}

// dispatchInternal routes one resolved Internal effects.Msg to the
// sub-model that owns it, discarding it quietly if the owning field is
// currently unloaded (a stale resolution from before an Unload) or the
// payload shape doesn't match (a caller bug, not something the dispatch
// loop can report synchronously).
func dispatchInternal(m *Model, environ env.Environment, cfg Config, msg effects.Msg) effects.Effects {
	if eff, ok := m.Ctx.ApplyInternal(environ, cfg.APIURL, msg); ok {
		return eff
	}

	switch msg.Name {
	case "CatalogResourceReceived":
		if m.Discover == nil {
			return effects.None()
		}
		result, ok := msg.Payload.(viewmodels.ResourceResult[[]addon.MetaPreview])
		if !ok {
			return effects.None()
		}
		return m.Discover.HandleResourceReceived(result)
	case viewmodels.CatalogsWithExtraMsg:
		if m.CatalogsWithExtra == nil {
			return effects.None()
		}
		result, ok := msg.Payload.(viewmodels.ResourceResult[[]addon.MetaPreview])
		if !ok {
			return effects.None()
		}
		return m.CatalogsWithExtra.HandleResourceReceived(result)
	case viewmodels.MetaItemReceivedMsg:
		if m.MetaDetails == nil {
			return effects.None()
		}
		result, ok := msg.Payload.(viewmodels.ResourceResult[addon.Meta])
		if !ok {
			return effects.None()
		}
		return m.MetaDetails.HandleMetaReceived(result)
	case viewmodels.StreamItemReceivedMsg:
		if m.MetaDetails == nil {
			return effects.None()
		}
		result, ok := msg.Payload.(viewmodels.ResourceResult[[]catalogtypes.Stream])
		if !ok {
			return effects.None()
		}
		return m.MetaDetails.HandleStreamReceived(result)
	case viewmodels.AddonDetailsManifestReceivedMsg:
		if m.AddonDetails == nil {
			return effects.None()
		}
		result, ok := msg.Payload.(viewmodels.ManifestResult)
		if !ok {
			return effects.None()
		}
		return m.AddonDetails.HandleManifestReceived(result)
	case viewmodels.DataExportReceivedMsg:
		if m.DataExport == nil {
			return effects.None()
		}
		result, ok := msg.Payload.(loadable.Loadable[string, loadable.ResourceError])
		if !ok {
			return effects.None()
		}
		return m.DataExport.HandleReceived(result)
	case viewmodels.LinkCodeReceivedMsg:
		if m.Link == nil {
			return effects.None()
		}
		result, ok := msg.Payload.(loadable.Loadable[viewmodels.LinkCodeResponse, loadable.ResourceError])
		if !ok {
			return effects.None()
		}
		return m.Link.HandleCodeReceived(result)
	case viewmodels.LinkDataReceivedMsg:
		if m.Link == nil {
			return effects.None()
		}
		result, ok := msg.Payload.(loadable.Loadable[catalogtypes.Auth, loadable.ResourceError])
		if !ok {
			return effects.None()
		}
		return m.Link.HandleDataReceived(result)
	case viewmodels.ServerSettingsReceivedMsg, viewmodels.UpdateSettingsMsg:
		if m.StreamingServer == nil {
			return effects.None()
		}
		result, ok := msg.Payload.(loadable.Loadable[viewmodels.ServerSettings, loadable.ResourceError])
		if !ok {
			return effects.None()
		}
		return m.StreamingServer.HandleSettingsReceived(result)
	case viewmodels.ServerNetworkReceivedMsg:
		if m.StreamingServer == nil {
			return effects.None()
		}
		result, ok := msg.Payload.(loadable.Loadable[viewmodels.NetworkInfo, loadable.ResourceError])
		if !ok {
			return effects.None()
		}
		return m.StreamingServer.HandleNetworkReceived(result)
	case viewmodels.ServerDeviceReceivedMsg:
		if m.StreamingServer == nil {
			return effects.None()
		}
		result, ok := msg.Payload.(loadable.Loadable[viewmodels.DeviceInfo, loadable.ResourceError])
		if !ok {
			return effects.None()
		}
		return m.StreamingServer.HandleDeviceReceived(result)
	case viewmodels.ServerPlaybackDevicesReceivedMsg:
		if m.StreamingServer == nil {
			return effects.None()
		}
		result, ok := msg.Payload.(loadable.Loadable[[]viewmodels.PlaybackDevice, loadable.ResourceError])
		if !ok {
			return effects.None()
		}
		return m.StreamingServer.HandlePlaybackDevicesReceived(result)
	case viewmodels.TorrentRegisteredMsg:
		// RegisterTorrent already updated registeredTorrents synchronously;
		// this resolution carries nothing further to apply.
		return effects.None()
	default:
		return effects.None()
	}
}
