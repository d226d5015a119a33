package addon

import (
	"context"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/env"
)

// modernTransport speaks the REST dialect: GET the manifest verbatim, and
// GET the resource URL formed by substituting "manifest.json" with the
// resource's canonical path form.
type modernTransport struct {
	env     env.Fetcher
	baseURL string
}

func (m *modernTransport) Manifest(ctx context.Context) (catalogtypes.Manifest, error) {
	if !strings.HasSuffix(m.baseURL, manifestSuffix) {
		return catalogtypes.Manifest{}, env.NewAddonTransportError(
			fmt.Sprintf("addon http transport url must end with %s", manifestSuffix))
	}
	result, err := m.env.Fetch(ctx, env.HTTPRequest[any]{Method: "GET", URL: m.baseURL})
	if err != nil {
		return catalogtypes.Manifest{}, err
	}
	var manifest catalogtypes.Manifest
	if err := json.Unmarshal(result.Body, &manifest); err != nil {
		return catalogtypes.Manifest{}, env.NewSerdeError(err)
	}
	return manifest, nil
}

func (m *modernTransport) Resource(ctx context.Context, path catalogtypes.ResourcePath) (ResourceResponse, error) {
	url := strings.Replace(m.baseURL, manifestSuffix, path.ToURLPath(), 1)
	result, err := m.env.Fetch(ctx, env.HTTPRequest[any]{Method: "GET", URL: url})
	if err != nil {
		return ResourceResponse{}, err
	}
	return decodeResourceResponse(path.Resource, result.Body)
}
