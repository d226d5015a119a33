package ctx

import (
	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/effects"
)

// InstallTraktAddon records the Trakt integration's addon descriptor,
// fetched separately via the addon transport since Trakt is configured
// out-of-band rather than installed through the normal addon collection.
func (c *Ctx) InstallTraktAddon(addon catalogtypes.Descriptor) effects.Effects {
	c.TraktAddon = &addon
	return effects.Changed()
}

// LogoutTrakt clears the Trakt integration without touching auth state.
func (c *Ctx) LogoutTrakt() effects.Effects {
	if c.TraktAddon == nil {
		return effects.None()
	}
	c.TraktAddon = nil
	return effects.Changed()
}
