package runtime

import (
	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/ctx"
)

// Action is what the UI dispatches into the runtime: a field selector
// plus a verb naming the operation and whatever payload it needs. A
// field+verb+payload triple keeps Dispatch a single, reviewable switch
// rather than an explosion of near-identical wrapper types.
type Action struct {
	Field   FieldID
	Verb    string
	Payload any
}

// Ctx action verbs.
const (
	VerbAuthenticate                  = "Authenticate"
	VerbLogout                        = "Logout"
	VerbInstallTraktAddon              = "InstallTraktAddon"
	VerbLogoutTrakt                    = "LogoutTrakt"
	VerbInstallAddon                   = "InstallAddon"
	VerbUpgradeAddon                   = "UpgradeAddon"
	VerbUninstallAddon                 = "UninstallAddon"
	VerbAddToLibrary                   = "AddToLibrary"
	VerbRemoveFromLibrary               = "RemoveFromLibrary"
	VerbRewindLibraryItem               = "RewindLibraryItem"
	VerbToggleLibraryItemNotifications = "ToggleLibraryItemNotifications"
	VerbUpdateLibraryItem              = "UpdateLibraryItem"
	VerbSyncLibraryWithAPI             = "SyncLibraryWithAPI"
	VerbPullNotifications               = "PullNotifications"
	VerbDismissNotificationItem         = "DismissNotificationItem"
	VerbRecordSearchHistory             = "RecordSearchHistory"
	VerbClearSearchHistory              = "ClearSearchHistory"
	VerbAddServerURL                    = "AddServerUrl"
	VerbDeleteServerURL                 = "DeleteServerUrl"
	VerbGetEvents                       = "GetEvents"
)

// Generic view-model verbs. Unload is valid against any FieldID other than
// FieldCtx; Load against all of those except FieldLocalSearch,
// FieldDataExport and FieldLink, which are driven by their own verbs.
const (
	VerbLoad   = "Load"
	VerbUnload = "Unload"
)

// Field-specific view-model verbs beyond Load/Unload.
const (
	VerbSelectVideo          = "SelectVideo"  // FieldMetaDetails
	VerbToggleWatched        = "ToggleWatched" // FieldMetaDetails
	VerbPlayerTimeChanged    = "TimeChanged"   // FieldPlayer
	VerbPlayerEnded          = "Ended"         // FieldPlayer
	VerbPlayerStop           = "Stop"          // FieldPlayer
	VerbServerLoadSettings    = "LoadSettings"  // FieldStreamingServer
	VerbServerUpdateSettings  = "UpdateSettings" // FieldStreamingServer
	VerbServerLoadNetwork     = "LoadNetworkInfo"
	VerbServerLoadDevice      = "LoadDeviceInfo"
	VerbServerLoadDevices     = "LoadPlaybackDevices"
	VerbServerRegisterTorrent = "RegisterTorrent"
	VerbSearch                = "Search"        // FieldLocalSearch
	VerbReindex               = "Reindex"        // FieldLocalSearch
	VerbDataExportRequest     = "Request"        // FieldDataExport
	VerbLinkCreateCode        = "CreateCode"      // FieldLink
	VerbLinkReadData          = "ReadData"        // FieldLink
)

// AuthenticateAction wraps a login/register request (exported for
// clarity at call sites, equivalent to ctx.AuthRequest).
type AuthenticateAction = ctx.AuthRequest

// AddonPayload and LibraryItemPayload are thin payload aliases
// so callers don't need to import pkg/catalogtypes just to build an
// Action.Payload value.
type (
	AddonPayload      = catalogtypes.Descriptor
	LibraryItemPayload = catalogtypes.LibraryItem
)
