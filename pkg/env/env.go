// Package env defines the single capability interface the runtime is built
// against. Every side effect the core ever performs (HTTP fetch, storage,
// wall-clock, task spawning, addon transport selection, analytics context)
// flows through this interface, so the core never imports net/http or an
// embedded database directly.
package env

import (
	"context"
	"time"
)

// HTTPRequest is a generic, serializable HTTP request description. Body is
// marshaled by the concrete Environment implementation (typically with
// goccy/go-json); the response comes back as raw bytes in FetchResult.
type HTTPRequest[Req any] struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    Req
}

// Environment is the capability trait injected once at process start. All
// methods must be safe for concurrent use; the runtime calls them from
// effect goroutines, never from inside Model.Update.
type Environment interface {
	// Now returns the current time. Implementations must guarantee it is
	// monotonic within a process (never observed to go backwards).
	Now() time.Time

	// Exec submits a fire-and-forget task. The runtime only ever submits
	// futures that are safe to lose on shutdown; Exec must not block the
	// caller waiting for the task to finish.
	Exec(ctx context.Context, task func(context.Context))

	// RandomU64 returns a cryptographically-irrelevant random value used
	// for things like analytics batch jitter and pairing code salts.
	RandomU64() uint64

	// AnalyticsContext returns the ambient fields attached to every emitted
	// analytics event (platform, app version, install id, ...).
	AnalyticsContext() map[string]any

	// AddonTransport selects a transport dialect for the given base URL.
	// Implementations live in pkg/addon; Environment only needs to expose
	// the factory so Ctx/aggr never hard-code a concrete transport type.
	AddonTransport(baseURL string) AddonTransportFactory

	Storage
	Fetcher
}

// AddonTransportFactory is satisfied by addon.Factory; declared here (not
// imported from pkg/addon) to avoid an import cycle between env and addon.
type AddonTransportFactory interface {
	// TransportURL returns the canonical URL this factory was built for.
	TransportURL() string
}

// Storage is the persistence half of Environment. Storing a nil value for
// a key deletes it ("Null means delete").
type Storage interface {
	GetStorage(ctx context.Context, key string, out any) (bool, error)
	SetStorage(ctx context.Context, key string, value any) error
}

// Fetcher performs a single HTTP round trip. Req/Resp are encoded/decoded
// by value; callers never see a raw *http.Response.
type Fetcher interface {
	Fetch(ctx context.Context, req HTTPRequest[any]) (FetchResult, error)
}

// FetchResult carries the raw undecoded response body plus status,
// so callers can re-decode into a concrete type without a second request.
type FetchResult struct {
	StatusCode int
	Body       []byte
}
