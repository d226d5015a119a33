package ctx

import (
	"context"
	"time"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/catalogcore/pkg/addon"
	"github.com/tomtom215/catalogcore/pkg/env"
)

// fakeEnv is a minimal env.Environment for ctx tests: Fetch is driven by a
// handler keyed on the request URL, everything else returns deterministic
// stub values.
type fakeEnv struct {
	now     time.Time
	handler func(env.HTTPRequest[any]) (env.FetchResult, error)
}

func newFakeEnv(handler func(env.HTTPRequest[any]) (env.FetchResult, error)) *fakeEnv {
	return &fakeEnv{now: time.UnixMilli(1_700_000_000_000), handler: handler}
}

func (f *fakeEnv) Now() time.Time { return f.now }

func (f *fakeEnv) Exec(ctx context.Context, task func(context.Context)) { task(ctx) }

func (f *fakeEnv) RandomU64() uint64 { return 42 }

func (f *fakeEnv) AnalyticsContext() map[string]any { return map[string]any{} }

func (f *fakeEnv) AddonTransport(baseURL string) env.AddonTransportFactory {
	return addon.NewFactory(f, baseURL)
}

func (f *fakeEnv) GetStorage(ctx context.Context, key string, out any) (bool, error) { return false, nil }

func (f *fakeEnv) SetStorage(ctx context.Context, key string, value any) error { return nil }

func (f *fakeEnv) Fetch(ctx context.Context, req env.HTTPRequest[any]) (env.FetchResult, error) {
	return f.handler(req)
}

// jsonResult builds a 200 FetchResult with v marshaled as the body.
func jsonResult(v any) (env.FetchResult, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return env.FetchResult{}, err
	}
	return env.FetchResult{StatusCode: 200, Body: body}, nil
}
