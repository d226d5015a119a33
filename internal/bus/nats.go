//go:build nats

package bus

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/catalogcore/pkg/runtime"
)

// NATSConfig configures the JetStream-backed publisher built by NewNATS.
type NATSConfig struct {
	URL           string
	MaxReconnects int
}

// NewNATS builds a Forwarder backed by a JetStream publisher, so a
// separate process can subscribe to RuntimeEventsTopic over the network
// instead of the in-process gochannel NewInMemory returns. Requires
// building with -tags nats.
func NewNATS(r *runtime.Runtime, cfg NATSConfig) (*Forwarder, error) {
	logger := watermill.NopLogger{}

	wmConfig := wmNats.PublisherConfig{
		URL: cfg.URL,
		NatsOptions: []natsgo.Option{
			natsgo.RetryOnFailedConnect(true),
			natsgo.MaxReconnects(cfg.MaxReconnects),
		},
		Marshaler: &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: true,
		},
	}

	pub, err := wmNats.NewPublisher(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("bus: new nats publisher: %w", err)
	}
	return newForwarder(r, pub, logger), nil
}
