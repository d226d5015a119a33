package addon

import (
	"context"

	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/env"
)

// Transport is the per-addon client contract: fetch a manifest, or
// fetch one resource, speaking whichever wire dialect this transport_url
// requires. Implementers must never branch on the URL inside a concrete
// Transport — dialect selection happens once, in Factory.Build.
type Transport interface {
	Manifest(ctx context.Context) (catalogtypes.Manifest, error)
	Resource(ctx context.Context, path catalogtypes.ResourcePath) (ResourceResponse, error)
}

// Factory selects a Transport implementation for a base URL, by suffix:
// modern addons end in /manifest.json, legacy addons end in /stremio/v1,
// anything else is Unsupported.
type Factory struct {
	Env env.Fetcher
	URL string
}

// NewFactory builds a transport factory bound to one addon base URL.
func NewFactory(fetcher env.Fetcher, baseURL string) *Factory {
	return &Factory{Env: fetcher, URL: baseURL}
}

// TransportURL implements env.AddonTransportFactory.
func (f *Factory) TransportURL() string { return f.URL }

// Build returns the concrete Transport for this factory's URL.
func (f *Factory) Build() Transport {
	switch {
	case hasSuffix(f.URL, manifestSuffix):
		return &modernTransport{env: f.Env, baseURL: f.URL}
	case hasSuffix(f.URL, legacySuffix):
		return &legacyTransport{env: f.Env, baseURL: f.URL}
	default:
		return &unsupportedTransport{baseURL: f.URL}
	}
}

const (
	manifestSuffix = "/manifest.json"
	legacySuffix   = "/stremio/v1"
)

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}
