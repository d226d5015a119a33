//go:build !nats

package bus

import "fmt"

// EmbeddedConfig mirrors the nats-build config shape for build-tag-free
// call sites.
type EmbeddedConfig struct {
	Host            string
	Port            int
	StoreDir        string
	JetStreamMaxMem int64
}

// EmbeddedServer is a stub for non-nats builds.
type EmbeddedServer struct{}

// NewEmbeddedServer always fails outside a -tags nats build.
func NewEmbeddedServer(EmbeddedConfig) (*EmbeddedServer, error) {
	return nil, fmt.Errorf("bus: built without -tags nats; rebuild with the nats tag to use an embedded broker")
}

func (s *EmbeddedServer) ClientURL() string { return "" }
func (s *EmbeddedServer) Shutdown()         {}
