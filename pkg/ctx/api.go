package ctx

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/env"
)

// apiClient speaks the platform API: POST {apiURL}/api/{method} with a
// JSON body whose "type" field names the request; responses are
// {result:...} or {error:{code,message}}.
type apiClient struct {
	fetcher env.Fetcher
	apiURL  string
}

func newAPIClient(fetcher env.Fetcher, apiURL string) *apiClient {
	return &apiClient{fetcher: fetcher, apiURL: apiURL}
}

type apiEnvelope struct {
	Result json.RawMessage `json:"result"`
	Error  *APIError       `json:"error"`
}

func (c *apiClient) call(ctxt context.Context, method string, body map[string]any, out any) error {
	payload := map[string]any{"type": method}
	for k, v := range body {
		payload[k] = v
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return env.NewSerdeError(err)
	}

	result, err := c.fetcher.Fetch(ctxt, env.HTTPRequest[any]{
		Method:  "POST",
		URL:     fmt.Sprintf("%s/api/%s", c.apiURL, method),
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    string(encoded),
	})
	if err != nil {
		return err
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(result.Body, &envelope); err != nil {
		return env.NewSerdeError(err)
	}
	if envelope.Error != nil {
		return *envelope.Error
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return env.NewSerdeError(err)
	}
	return nil
}

func (c *apiClient) login(ctxt context.Context, email, password string) (catalogtypes.Auth, error) {
	var auth catalogtypes.Auth
	err := c.call(ctxt, "login", map[string]any{"email": email, "password": password}, &auth)
	return auth, err
}

func (c *apiClient) register(ctxt context.Context, email, password string) (catalogtypes.Auth, error) {
	var auth catalogtypes.Auth
	err := c.call(ctxt, "register", map[string]any{"email": email, "password": password}, &auth)
	return auth, err
}

func (c *apiClient) logout(ctxt context.Context, authKey string) error {
	return c.call(ctxt, "logout", map[string]any{"authKey": authKey}, nil)
}

func (c *apiClient) addonCollectionGet(ctxt context.Context, authKey string, update bool) ([]catalogtypes.Descriptor, error) {
	var addons []catalogtypes.Descriptor
	err := c.call(ctxt, "addonCollectionGet", map[string]any{"authKey": authKey, "update": update}, &addons)
	return addons, err
}

func (c *apiClient) addonCollectionSet(ctxt context.Context, authKey string, addons []catalogtypes.Descriptor) error {
	return c.call(ctxt, "addonCollectionSet", map[string]any{"authKey": authKey, "addons": addons}, nil)
}

// datastoreMetaEntry is one (id, mtime) pair the remote datastore reports
// for the library sync planning step.
type datastoreMetaEntry struct {
	ID    string `json:"id"`
	Mtime int64  `json:"mtime"`
}

func (c *apiClient) datastoreMeta(ctxt context.Context, authKey string) ([]datastoreMetaEntry, error) {
	var entries []datastoreMetaEntry
	err := c.call(ctxt, "datastoreMeta", map[string]any{"authKey": authKey, "collection": "libraryItem"}, &entries)
	return entries, err
}

func (c *apiClient) datastoreGet(ctxt context.Context, authKey string, ids []string, all bool) ([]catalogtypes.LibraryItem, error) {
	var items []catalogtypes.LibraryItem
	err := c.call(ctxt, "datastoreGet", map[string]any{"authKey": authKey, "collection": "libraryItem", "ids": ids, "all": all}, &items)
	return items, err
}

func (c *apiClient) datastorePut(ctxt context.Context, authKey string, items []catalogtypes.LibraryItem) error {
	return c.call(ctxt, "datastorePut", map[string]any{"authKey": authKey, "collection": "libraryItem", "changes": items}, nil)
}

func (c *apiClient) events(ctxt context.Context, authKey string, events []map[string]any) error {
	return c.call(ctxt, "events", map[string]any{"authKey": authKey, "events": events}, nil)
}

func (c *apiClient) getModal(ctxt context.Context, date int64) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.call(ctxt, "getModal", map[string]any{"date": date}, &raw)
	return raw, err
}

func (c *apiClient) getNotification(ctxt context.Context, date int64) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.call(ctxt, "getNotification", map[string]any{"date": date}, &raw)
	return raw, err
}

func (c *apiClient) dataExport(ctxt context.Context, authKey string) (string, error) {
	var url string
	err := c.call(ctxt, "dataExport", map[string]any{"authKey": authKey}, &url)
	return url, err
}
