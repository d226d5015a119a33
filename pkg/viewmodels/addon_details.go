package viewmodels

import (
	"context"

	"github.com/tomtom215/catalogcore/pkg/addon"
	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/effects"
	"github.com/tomtom215/catalogcore/pkg/env"
	"github.com/tomtom215/catalogcore/pkg/loadable"
)

// AddonDetailsManifestReceivedMsg names the Internal message Load's fetch
// resolves to.
const AddonDetailsManifestReceivedMsg = "AddonDetailsManifestReceived"

// AddonDetails shows a single addon's manifest, fetched fresh from its
// transport URL so a not-yet-installed addon (found via search/a remote
// catalog) can be previewed before InstallAddon is ever called.
type AddonDetails struct {
	TransportURL string
	Manifest     *loadable.Loadable[catalogtypes.Manifest, loadable.ResourceError]
}

// NewAddonDetails builds an empty, unloaded view model.
func NewAddonDetails() *AddonDetails { return &AddonDetails{} }

// ManifestResult is the payload AddonDetailsManifestReceivedMsg carries.
type ManifestResult struct {
	TransportURL string
	Loadable     loadable.Loadable[catalogtypes.Manifest, loadable.ResourceError]
}

// Load fetches the manifest at transportURL. Re-calling Load with the same
// URL while a fetch is already in flight or already resolved is a no-op.
func (m *AddonDetails) Load(environ env.Environment, transportURL string) effects.Effects {
	if m.TransportURL == transportURL && m.Manifest != nil {
		return effects.Changed()
	}
	m.TransportURL = transportURL
	loading := loadable.Loading[catalogtypes.Manifest, loadable.ResourceError]()
	m.Manifest = &loading

	return effects.FromFutureChanged(func(ctx context.Context) effects.Msg {
		transport := addon.NewFactory(environ, transportURL).Build()
		manifest, err := transport.Manifest(ctx)
		result := loadable.FoldResult(manifest, err, nil)
		return effects.NewInternal(AddonDetailsManifestReceivedMsg, ManifestResult{TransportURL: transportURL, Loadable: result})
	})
}

// HandleManifestReceived applies a resolved manifest fetch, discarding it
// if Load has since moved on to a different transport URL.
func (m *AddonDetails) HandleManifestReceived(result ManifestResult) effects.Effects {
	if m.TransportURL != result.TransportURL {
		return effects.None()
	}
	m.Manifest = &result.Loadable
	return effects.Changed()
}

// IsInstalled reports whether this addon's transport URL appears in the
// given installed addon list.
func (m *AddonDetails) IsInstalled(addons []catalogtypes.Descriptor) bool {
	_, _, ok := findDescriptor(addons, m.TransportURL)
	return ok
}

func findDescriptor(addons []catalogtypes.Descriptor, transportURL string) (catalogtypes.Descriptor, int, bool) {
	for i, a := range addons {
		if a.TransportURL == transportURL {
			return a, i, true
		}
	}
	return catalogtypes.Descriptor{}, -1, false
}
