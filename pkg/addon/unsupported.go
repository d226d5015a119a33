package addon

import (
	"context"
	"fmt"

	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/env"
)

// unsupportedTransport fails every call; it exists so the planner and
// loadables never need a nil check for an addon with a malformed or
// unrecognized transport URL scheme.
type unsupportedTransport struct {
	baseURL string
}

func (u *unsupportedTransport) Manifest(context.Context) (catalogtypes.Manifest, error) {
	return catalogtypes.Manifest{}, u.err()
}

func (u *unsupportedTransport) Resource(context.Context, catalogtypes.ResourcePath) (ResourceResponse, error) {
	return ResourceResponse{}, u.err()
}

func (u *unsupportedTransport) err() error {
	return env.NewAddonTransportError(fmt.Sprintf("unsupported scheme for transport url %q", u.baseURL))
}
