//go:build nats

package bus

import (
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// EmbeddedServer wraps an in-process JetStream-enabled NATS server, for
// single-binary corectl deployments that want the NATS transport without
// standing up an external broker. Options are sized for a
// RuntimeEvent-forwarding JetStream store rather than a general-purpose
// broker.
type EmbeddedServer struct {
	server    *server.Server
	clientURL string
}

// EmbeddedConfig sizes the embedded server's JetStream store. Zero
// values fall back to small, corectl-appropriate defaults.
type EmbeddedConfig struct {
	Host            string
	Port            int
	StoreDir        string
	JetStreamMaxMem int64
}

// NewEmbeddedServer starts an embedded NATS server and blocks until it is
// ready to accept connections or 30s elapses.
func NewEmbeddedServer(cfg EmbeddedConfig) (*EmbeddedServer, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.JetStreamMaxMem == 0 {
		cfg.JetStreamMaxMem = 64 * 1024 * 1024
	}

	opts := &server.Options{
		ServerName:         "catalogcore-bus",
		Host:               cfg.Host,
		Port:               cfg.Port,
		JetStream:          true,
		StoreDir:           cfg.StoreDir,
		JetStreamMaxMemory: cfg.JetStreamMaxMem,
		DontListen:         false,
		MaxPayload:         1024 * 1024,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("bus: create embedded nats server: %w", err)
	}
	ns.ConfigureLogger()
	go ns.Start()

	if !ns.ReadyForConnections(30 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("bus: embedded nats server not ready within timeout")
	}
	return &EmbeddedServer{server: ns, clientURL: ns.ClientURL()}, nil
}

// ClientURL is the URL bus.NewNATS should dial to reach this server.
func (s *EmbeddedServer) ClientURL() string { return s.clientURL }

// Shutdown stops the embedded server.
func (s *EmbeddedServer) Shutdown() { s.server.Shutdown() }
