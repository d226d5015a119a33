//go:build !nats

package bus

import (
	"fmt"

	"github.com/tomtom215/catalogcore/pkg/runtime"
)

// NATSConfig mirrors the nats-build config shape so callers can compile
// either way without an #ifdef at the call site.
type NATSConfig struct {
	URL           string
	MaxReconnects int
}

// NewNATS is a stub for non-nats builds: it always fails, directing the
// operator to rebuild with -tags nats rather than silently falling back
// to the in-memory bus (which a distributed deployment would not notice
// is a no-op).
func NewNATS(_ *runtime.Runtime, _ NATSConfig) (*Forwarder, error) {
	return nil, fmt.Errorf("bus: built without -tags nats; use bus.NewInMemory or rebuild with the nats tag")
}
