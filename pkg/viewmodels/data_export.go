package viewmodels

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/catalogcore/pkg/effects"
	"github.com/tomtom215/catalogcore/pkg/env"
	"github.com/tomtom215/catalogcore/pkg/loadable"
)

const DataExportReceivedMsg = "DataExportURLReceived"

// dataExportEnvelope mirrors the platform API's {result}|{error} response
// shape (pkg/ctx/api.go's apiEnvelope), kept local to this file since
// pkg/viewmodels has no dependency on pkg/ctx.
type dataExportEnvelope struct {
	Result string          `json:"result"`
	Error  *dataExportAPIError `json:"error"`
}

type dataExportAPIError struct {
	Code    uint64 `json:"code"`
	Message string `json:"message"`
}

func (e dataExportAPIError) Error() string { return fmt.Sprintf("api error %d: %s", e.Code, e.Message) }

// DataExport requests a one-time export URL for the authenticated user's
// account data, a link the host UI hands off to the platform/browser
// rather than anything this module fetches further.
type DataExport struct {
	URL *loadable.Loadable[string, loadable.ResourceError]
}

// NewDataExport builds an empty, unrequested view model.
func NewDataExport() *DataExport { return &DataExport{} }

// Request POSTs {apiURL}/api/dataExport with the authenticated user's key
// and stores the resulting export URL.
func (m *DataExport) Request(environ env.Environment, apiURL, authKey string) effects.Effects {
	loading := loadable.Loading[string, loadable.ResourceError]()
	m.URL = &loading

	return effects.FromFutureChanged(func(ctx context.Context) effects.Msg {
		payload, err := json.Marshal(map[string]any{"type": "dataExport", "authKey": authKey})
		if err != nil {
			return effects.NewInternal(DataExportReceivedMsg, loadable.Errored[string, loadable.ResourceError](loadable.ResourceError{Kind: loadable.Other, Message: err.Error()}))
		}
		result, err := environ.Fetch(ctx, env.HTTPRequest[any]{
			Method:  "POST",
			URL:     apiURL + "/api/dataExport",
			Headers: map[string]string{"Content-Type": "application/json"},
			Body:    string(payload),
		})
		if err != nil {
			return effects.NewInternal(DataExportReceivedMsg, loadable.Errored[string, loadable.ResourceError](loadable.ResourceError{Kind: loadable.Other, Message: err.Error()}))
		}
		var envelope dataExportEnvelope
		if err := json.Unmarshal(result.Body, &envelope); err != nil {
			return effects.NewInternal(DataExportReceivedMsg, loadable.Errored[string, loadable.ResourceError](loadable.ResourceError{Kind: loadable.UnexpectedResp}))
		}
		if envelope.Error != nil {
			return effects.NewInternal(DataExportReceivedMsg, loadable.Errored[string, loadable.ResourceError](loadable.ResourceError{Kind: loadable.Other, Message: envelope.Error.Error()}))
		}
		return effects.NewInternal(DataExportReceivedMsg, loadable.Ready[string, loadable.ResourceError](envelope.Result))
	})
}

// HandleReceived applies a resolved data-export request.
func (m *DataExport) HandleReceived(result loadable.Loadable[string, loadable.ResourceError]) effects.Effects {
	m.URL = &result
	return effects.Changed()
}
