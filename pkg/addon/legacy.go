package addon

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/env"
)

// legacyTransport speaks the pre-manifest JSON-RPC dialect: the
// envelope is gzip-compressed, base64-encoded, and carried as the `b`
// query parameter of a POST to "{base}/q.json".
type legacyTransport struct {
	env     env.Fetcher
	baseURL string
}

// jsonRPCEnvelope is the legacy request wrapper.
type jsonRPCEnvelope struct {
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      int    `json:"id"`
	JSONRPC string `json:"jsonrpc"`
}

// jsonRPCResponse is the legacy response wrapper: `result` is always
// present on success, `manifest`/`methods` are only populated by a
// manifest call.
type jsonRPCResponse struct {
	Result   json.RawMessage  `json:"result"`
	Manifest *legacyManifest  `json:"manifest"`
	Methods  []string         `json:"methods"`
	Error    *jsonRPCError    `json:"error"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (l *legacyTransport) call(ctx context.Context, method string, params any) (jsonRPCResponse, error) {
	envelope := jsonRPCEnvelope{Method: method, Params: params, ID: 1, JSONRPC: "2.0"}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return jsonRPCResponse{}, env.NewSerdeError(err)
	}

	var gzipped bytes.Buffer
	gz := gzip.NewWriter(&gzipped)
	if _, err := gz.Write(payload); err != nil {
		return jsonRPCResponse{}, env.NewAddonTransportError(fmt.Sprintf("legacy envelope compress: %v", err))
	}
	if err := gz.Close(); err != nil {
		return jsonRPCResponse{}, env.NewAddonTransportError(fmt.Sprintf("legacy envelope compress: %v", err))
	}
	encoded := base64.StdEncoding.EncodeToString(gzipped.Bytes())

	reqURL := strings.TrimSuffix(l.baseURL, "/") + "/q.json?b=" + url.QueryEscape(encoded)
	result, err := l.env.Fetch(ctx, env.HTTPRequest[any]{Method: "POST", URL: reqURL})
	if err != nil {
		return jsonRPCResponse{}, err
	}

	var resp jsonRPCResponse
	if err := json.Unmarshal(result.Body, &resp); err != nil {
		return jsonRPCResponse{}, env.NewSerdeError(err)
	}
	if resp.Error != nil {
		// An error object in the envelope surfaces as an
		// AddonTransportError with its code and message; an error field of
		// any other JSON shape already failed the decode above as a
		// SerdeError.
		return jsonRPCResponse{}, env.NewAddonTransportError(
			fmt.Sprintf("legacy addon error %d: %s", resp.Error.Code, resp.Error.Message))
	}
	return resp, nil
}

func (l *legacyTransport) Manifest(ctx context.Context) (catalogtypes.Manifest, error) {
	resp, err := l.call(ctx, "manifest.get", map[string]any{})
	if err != nil {
		return catalogtypes.Manifest{}, err
	}
	if resp.Manifest == nil {
		return catalogtypes.Manifest{}, env.NewAddonTransportError("legacy manifest response missing manifest field")
	}
	return resp.Manifest.toManifest(), nil
}

func (l *legacyTransport) Resource(ctx context.Context, path catalogtypes.ResourcePath) (ResourceResponse, error) {
	switch path.Resource {
	case "meta":
		return l.resourceMeta(ctx, path)
	case "stream":
		return l.resourceStream(ctx, path)
	default:
		return ResourceResponse{}, env.NewAddonTransportError(
			fmt.Sprintf("legacy transport only supports meta/stream, got %q", path.Resource))
	}
}

func (l *legacyTransport) resourceMeta(ctx context.Context, path catalogtypes.ResourcePath) (ResourceResponse, error) {
	if isCatalogID(path) {
		resp, err := l.call(ctx, "meta.find", map[string]any{"type": path.Type, "id": path.ID})
		if err != nil {
			return ResourceResponse{}, err
		}
		var metas []MetaPreview
		if err := json.Unmarshal(resp.Result, &metas); err != nil {
			return ResourceResponse{}, env.NewSerdeError(err)
		}
		return ResourceResponse{Kind: RespMetas, Metas: metas}, nil
	}
	resp, err := l.call(ctx, "meta.get", map[string]any{"type": path.Type, "id": path.ID})
	if err != nil {
		return ResourceResponse{}, err
	}
	var meta Meta
	if err := json.Unmarshal(resp.Result, &meta); err != nil {
		return ResourceResponse{}, env.NewSerdeError(err)
	}
	return ResourceResponse{Kind: RespMeta, Meta: &meta}, nil
}

func (l *legacyTransport) resourceStream(ctx context.Context, path catalogtypes.ResourcePath) (ResourceResponse, error) {
	resp, err := l.call(ctx, "stream.find", map[string]any{"type": path.Type, "id": path.ID})
	if err != nil {
		return ResourceResponse{}, err
	}
	var streams []catalogtypes.Stream
	if err := json.Unmarshal(resp.Result, &streams); err != nil {
		return ResourceResponse{}, env.NewSerdeError(err)
	}
	return ResourceResponse{Kind: RespStreams, Streams: streams}, nil
}

// isCatalogID is a coarse heuristic: the legacy protocol doesn't
// distinguish a catalog listing from a single-item lookup by resource
// name the way the modern dialect does, so we treat the well-known
// catalog id "top" (and ids prefixed "top:") as a find, everything else
// as a get. Real legacy addons only ever exposed
// "top" as a catalog id.
func isCatalogID(path catalogtypes.ResourcePath) bool {
	return path.ID == "top" || strings.HasPrefix(path.ID, "top:")
}
