package ctx

import (
	"context"

	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/effects"
	"github.com/tomtom215/catalogcore/pkg/env"
)

// InstallAddon appends a newly installed addon to the profile, rejecting
// duplicate transport URLs and locked/configuration-required addons.
// After a successful mutation the local list is pushed to the API if
// authenticated.
func (c *Ctx) InstallAddon(environ env.Environment, apiURL string, policy AddonPolicy, addon catalogtypes.Descriptor) (effects.Effects, error) {
	if err := policy.CanInstall(c.Profile.Addons, addon, c.Profile.AddonsLocked); err != nil {
		return effects.None(), err
	}
	c.Profile.Addons = append(c.Profile.Addons, addon)
	return c.pushAddonsEffect(environ, apiURL), nil
}

// UpgradeAddon replaces an installed addon in place, preserving its
// position in the list.
func (c *Ctx) UpgradeAddon(environ env.Environment, apiURL string, addon catalogtypes.Descriptor) (effects.Effects, error) {
	_, idx, ok := c.Profile.FindAddon(addon.TransportURL)
	if !ok {
		return effects.None(), otherErr(AddonNotInstalled)
	}
	c.Profile.Addons[idx] = addon
	return c.pushAddonsEffect(environ, apiURL), nil
}

// UninstallAddon removes an installed addon by transport URL, refusing to
// remove protected addons or mutate a locked list.
func (c *Ctx) UninstallAddon(environ env.Environment, apiURL string, policy AddonPolicy, transportURL string) (effects.Effects, error) {
	addon, idx, ok := c.Profile.FindAddon(transportURL)
	if !ok {
		return effects.None(), otherErr(AddonNotInstalled)
	}
	if err := policy.CanUninstall(addon, c.Profile.AddonsLocked); err != nil {
		return effects.None(), err
	}
	c.Profile.Addons = append(c.Profile.Addons[:idx], c.Profile.Addons[idx+1:]...)
	return c.pushAddonsEffect(environ, apiURL), nil
}

// pushAddonsEffect pushes the local addon list to the API when
// authenticated: the model is marked changed and the push future emits
// AddonsPushedToAPI on success or an Error event on failure; no
// ProfileChanged event is emitted on either path. Anonymous
// profiles only mark the model changed (persistence happens separately,
// driven by the runtime's storage-write discipline).
func (c *Ctx) pushAddonsEffect(environ env.Environment, apiURL string) effects.Effects {
	if c.Profile.Auth == nil {
		return effects.Changed()
	}
	authKey := c.Profile.Auth.Key
	addons := append([]catalogtypes.Descriptor(nil), c.Profile.Addons...)
	client := newAPIClient(environ, apiURL)
	return effects.FromFutureChanged(func(ctxt context.Context) effects.Msg {
		err := client.addonCollectionSet(ctxt, authKey, addons)
		if err != nil {
			return effects.NewEvent("Error", errorEventPayload(toCtxError(err), "AddonsPushedToAPI"))
		}
		return effects.NewEvent("AddonsPushedToAPI", nil)
	})
}
