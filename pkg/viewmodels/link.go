package viewmodels

import (
	"context"
	"time"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/catalogcore/internal/linkcodes"
	"github.com/tomtom215/catalogcore/pkg/effects"
	"github.com/tomtom215/catalogcore/pkg/env"
	"github.com/tomtom215/catalogcore/pkg/loadable"
)

const (
	LinkCodeReceivedMsg = "LinkCodeReceived"
	LinkDataReceivedMsg = "LinkDataReceived"
)

// DefaultLinkCodePollInterval is the poll cadence ReadData uses absent an
// explicit interval, matching the pairing endpoint's expected request
// rate.
const DefaultLinkCodePollInterval = 2 * time.Second

// LinkCodeResponse is the platform API's response to requesting a pairing
// code: the short code shown to the user plus the signed token ReadData
// verifies locally before every poll attempt.
type LinkCodeResponse struct {
	Code  string `json:"code"`
	token string
}

// linkCodeEnvelope is the wire shape of the /api/link/code response.
type linkCodeEnvelope struct {
	Result struct {
		Code string `json:"code"`
	} `json:"result"`
}

// linkPollEnvelope is the wire shape of one /api/link/{code} poll: Result
// is nil (still pending, keep polling), an error, or the paired payload.
type linkPollEnvelope[T any] struct {
	Result *T `json:"result"`
	Error  *struct {
		Code    uint64 `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Link is the generic "request a code and poll for data" flow used for
// device-login and other out-of-band pairing. T is the payload the
// pairing endpoint eventually hands back once another device confirms the
// code (e.g. an auth key).
type Link[T any] struct {
	Code *loadable.Loadable[LinkCodeResponse, loadable.ResourceError]
	Data *loadable.Loadable[T, loadable.ResourceError]
}

// NewLink builds an empty, un-requested pairing flow.
func NewLink[T any]() *Link[T] { return &Link[T]{} }

// CreateCode mints a fresh pairing code: a random code value signed into a
// short-lived token via internal/linkcodes, then registered with the
// platform API so another device can confirm it.
func (m *Link[T]) CreateCode(environ env.Environment, signer *linkcodes.Signer, apiURL string, ttl time.Duration) effects.Effects {
	loading := loadable.Loading[LinkCodeResponse, loadable.ResourceError]()
	m.Code = &loading
	m.Data = nil

	now := environ.Now()
	raw := environ.RandomU64()

	return effects.FromFutureChanged(func(ctx context.Context) effects.Msg {
		code := formatLinkCode(raw)
		token, err := signer.CreateCode(code, now, ttl)
		if err != nil {
			return effects.NewInternal(LinkCodeReceivedMsg, loadable.Errored[LinkCodeResponse, loadable.ResourceError](loadable.ResourceError{Kind: loadable.Other, Message: err.Error()}))
		}

		payload, err := json.Marshal(map[string]string{"code": code})
		if err != nil {
			return effects.NewInternal(LinkCodeReceivedMsg, loadable.Errored[LinkCodeResponse, loadable.ResourceError](loadable.ResourceError{Kind: loadable.Other, Message: err.Error()}))
		}
		resp, err := environ.Fetch(ctx, env.HTTPRequest[any]{
			Method:  "POST",
			URL:     apiURL + "/api/link/code",
			Headers: map[string]string{"Content-Type": "application/json"},
			Body:    string(payload),
		})
		if err != nil {
			return effects.NewInternal(LinkCodeReceivedMsg, loadable.Errored[LinkCodeResponse, loadable.ResourceError](loadable.ResourceError{Kind: loadable.Other, Message: err.Error()}))
		}
		var envelope linkCodeEnvelope
		if err := json.Unmarshal(resp.Body, &envelope); err != nil {
			return effects.NewInternal(LinkCodeReceivedMsg, loadable.Errored[LinkCodeResponse, loadable.ResourceError](loadable.ResourceError{Kind: loadable.UnexpectedResp}))
		}
		return effects.NewInternal(LinkCodeReceivedMsg, loadable.Ready[LinkCodeResponse, loadable.ResourceError](LinkCodeResponse{Code: envelope.Result.Code, token: token}))
	})
}

// HandleCodeReceived applies a resolved CreateCode request.
func (m *Link[T]) HandleCodeReceived(result loadable.Loadable[LinkCodeResponse, loadable.ResourceError]) effects.Effects {
	m.Code = &result
	return effects.Changed()
}

// ReadData starts polling the pairing endpoint for the code currently held
// in Code, stopping as soon as the result is Ready, an API error arrives,
// or the code's signed token expires locally (the "timer cancels after N
// seconds" behavior) — whichever comes first. It is a no-op if Code is not
// yet Ready. pollInterval of zero uses DefaultLinkCodePollInterval.
func (m *Link[T]) ReadData(environ env.Environment, signer *linkcodes.Signer, apiURL string, pollInterval time.Duration) effects.Effects {
	if pollInterval <= 0 {
		pollInterval = DefaultLinkCodePollInterval
	}
	if m.Code == nil || !m.Code.IsReady() {
		return effects.None()
	}
	loading := loadable.Loading[T, loadable.ResourceError]()
	m.Data = &loading

	code := m.Code.Value.Code
	token := m.Code.Value.token

	return effects.FromFutureChanged(func(ctx context.Context) effects.Msg {
		for {
			if _, err := signer.ReadData(token, environ.Now()); err != nil {
				return effects.NewInternal(LinkDataReceivedMsg, loadable.Errored[T, loadable.ResourceError](loadable.ResourceError{Kind: loadable.Other, Message: err.Error()}))
			}

			resp, err := environ.Fetch(ctx, env.HTTPRequest[any]{Method: "GET", URL: apiURL + "/api/link/" + code})
			if err != nil {
				return effects.NewInternal(LinkDataReceivedMsg, loadable.Errored[T, loadable.ResourceError](loadable.ResourceError{Kind: loadable.Other, Message: err.Error()}))
			}
			var envelope linkPollEnvelope[T]
			if err := json.Unmarshal(resp.Body, &envelope); err != nil {
				return effects.NewInternal(LinkDataReceivedMsg, loadable.Errored[T, loadable.ResourceError](loadable.ResourceError{Kind: loadable.UnexpectedResp}))
			}
			if envelope.Error != nil {
				return effects.NewInternal(LinkDataReceivedMsg, loadable.Errored[T, loadable.ResourceError](loadable.ResourceError{Kind: loadable.Other, Message: envelope.Error.Message}))
			}
			if envelope.Result != nil {
				return effects.NewInternal(LinkDataReceivedMsg, loadable.Ready[T, loadable.ResourceError](*envelope.Result))
			}

			select {
			case <-ctx.Done():
				return effects.NewInternal(LinkDataReceivedMsg, loadable.Errored[T, loadable.ResourceError](loadable.ResourceError{Kind: loadable.Other, Message: ctx.Err().Error()}))
			case <-time.After(pollInterval):
			}
		}
	})
}

// HandleDataReceived applies a resolved ReadData poll.
func (m *Link[T]) HandleDataReceived(result loadable.Loadable[T, loadable.ResourceError]) effects.Effects {
	m.Data = &result
	return effects.Changed()
}

func formatLinkCode(raw uint64) string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	buf := make([]byte, 6)
	for i := range buf {
		buf[i] = alphabet[raw%uint64(len(alphabet))]
		raw /= uint64(len(alphabet))
	}
	return string(buf)
}
