package ctx

import (
	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/effects"
	"github.com/tomtom215/catalogcore/pkg/env"
)

// ApplyInternal routes one resolved Internal effects.Msg to whichever
// Handle* method owns it. Several of Ctx's own Internal payloads
// (eventFetchResult, notificationsPulled, librarySyncPlan) are unexported,
// so the type switch has to live here rather than in the runtime package
// that only sees msg.Payload as any. The bool return reports whether msg
// was one of Ctx's own messages at all; callers fall through to their own
// routing when it is false.
func (c *Ctx) ApplyInternal(environ env.Environment, apiURL string, msg effects.Msg) (effects.Effects, bool) {
	switch msg.Name {
	case "AuthenticateResult":
		result, _ := msg.Payload.(AuthenticateResult)
		return c.HandleAuthenticateResult(environ, apiURL, result), true
	case "AddonsPulledFromAPI":
		addons, _ := msg.Payload.([]catalogtypes.Descriptor)
		return c.HandleAddonsPulledFromAPI(addons), true
	case "LibraryItemsPulledFromAPI":
		items, _ := msg.Payload.([]catalogtypes.LibraryItem)
		return c.HandleLibraryItemsPulledFromAPI(items), true
	case "ModalFetched":
		result, _ := msg.Payload.(eventFetchResult)
		return c.HandleModalFetched(result), true
	case "NotificationOfTheDayFetched":
		result, _ := msg.Payload.(eventFetchResult)
		return c.HandleNotificationOfTheDayFetched(result), true
	case "NotificationsPulledFromAddon":
		pulled, _ := msg.Payload.(notificationsPulled)
		return c.HandleNotificationsPulledFromAddon(environ, pulled), true
	case "LibrarySyncWithAPIPlanned":
		plan, _ := msg.Payload.(librarySyncPlan)
		return c.HandleLibrarySyncWithAPIPlanned(environ, apiURL, plan), true
	default:
		return effects.None(), false
	}
}
