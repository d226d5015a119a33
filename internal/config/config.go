// Package config loads the catalogcore host process's configuration:
// the platform API/pairing URLs, local storage location, default
// streaming-server URL, and the ambient logging/circuit-breaker/bus
// knobs internal/httpenv, internal/corelog, and internal/bus need. It
// layers defaults, an optional YAML file, and environment variables
// with koanf v2's usual defaults/file/env precedence chain.
package config

import "time"

// Config is the fully resolved configuration for cmd/corectl.
type Config struct {
	API     APIConfig     `koanf:"api" validate:"required"`
	Storage StorageConfig `koanf:"storage" validate:"required"`
	Server  ServerConfig  `koanf:"server" validate:"required"`
	Logging LoggingConfig `koanf:"logging" validate:"required"`
	Breaker BreakerConfig `koanf:"breaker" validate:"required"`
	Bus     BusConfig     `koanf:"bus" validate:"required"`
	Schema  SchemaConfig    `koanf:"schema" validate:"required"`
	Pairing PairingConfig   `koanf:"pairing"`
	WS      WSGatewayConfig `koanf:"ws_gateway"`
}

// APIConfig addresses the platform API and its pairing helper.
type APIConfig struct {
	URL     string `koanf:"url" validate:"required,url"`
	LinkURL string `koanf:"link_url" validate:"required,url"`
}

// StorageConfig controls the local persistence backend.
type StorageConfig struct {
	// Dir is the BadgerDB directory internal/kvstorage opens.
	Dir string `koanf:"dir" validate:"required"`
	// EncryptionSecret, when set, is expanded via HKDF-SHA256 into the
	// AES key BadgerDB encrypts every value with at rest (internal/
	// kvstorage's deriveEncryptionKey). Left empty, storage is
	// unencrypted — unlike PairingConfig.SigningSecret this must stay
	// stable across restarts, or previously written buckets become
	// undecryptable.
	EncryptionSecret string `koanf:"encryption_secret"`
}

// ServerConfig carries the default streaming-server URL seeded into a
// fresh ServerUrlsBucket's slot 1, plus the manifest URLs of the addons a
// fresh profile (no auth yet) ships with.
type ServerConfig struct {
	DefaultURL           string   `koanf:"default_url" validate:"required,url"`
	OfficialAddonManifestURLs []string `koanf:"official_addon_manifest_urls"`
}

// WSGatewayConfig optionally exposes the RuntimeEvent stream to external
// UI-binding clients over a websocket.
type WSGatewayConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
	// CORSAllowedOrigins is passed straight through to go-chi/cors; left
	// empty, no cross-origin request is allowed (a UI shell served from
	// the same origin as the gateway needs no entry here).
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
	// RateLimitPerMinute caps requests per client IP to /events; 0
	// disables the limiter.
	RateLimitPerMinute int `koanf:"rate_limit_per_minute"`
}

// PairingConfig configures internal/linkcodes's HS256 signer.
type PairingConfig struct {
	// SigningSecret is the HMAC key backing pairing-code tokens. Must be
	// at least 32 bytes when set; left empty, cmd/corectl generates an
	// ephemeral secret at startup (codes won't survive a restart, but
	// nothing at rest depends on them outliving the process either).
	SigningSecret string `koanf:"signing_secret"`
}

// LoggingConfig configures internal/corelog.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"required,oneof=trace debug info warn error fatal panic"`
	Format string `koanf:"format" validate:"required,oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// BreakerConfig configures internal/httpenv's per-host circuit breakers
// and rate limiters.
type BreakerConfig struct {
	RequestTimeout   time.Duration `koanf:"request_timeout" validate:"required,min=1"`
	MaxRequests      uint32        `koanf:"max_requests"`
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold uint32        `koanf:"failure_threshold" validate:"min=1"`
	// RateLimitPerSecond caps outbound fetches per remote host; 0
	// disables rate limiting.
	RateLimitPerSecond float64 `koanf:"rate_limit_per_second"`
	RateLimitBurst     int     `koanf:"rate_limit_burst"`
}

// BusConfig selects and configures the RuntimeEvent forwarder.
type BusConfig struct {
	// Transport is "memory" (default) or "nats" (requires -tags nats).
	Transport     string `koanf:"transport" validate:"required,oneof=memory nats"`
	NATSURL       string `koanf:"nats_url"`
	MaxReconnects int    `koanf:"max_reconnects"`
	// Embedded, when Transport is "nats", starts an in-process
	// JetStream server instead of dialing NATSURL, for a single-binary
	// deployment with no external broker.
	Embedded         bool   `koanf:"embedded"`
	EmbeddedHost     string `koanf:"embedded_host"`
	EmbeddedPort     int    `koanf:"embedded_port"`
	EmbeddedStoreDir string `koanf:"embedded_store_dir"`
}

// SchemaConfig guards storage compatibility.
type SchemaConfig struct {
	Version int `koanf:"version" validate:"min=1"`
}

// CurrentSchemaVersion is the compiled-in storage schema version. A
// stored schema_version greater than this means the on-disk data was
// written by a newer build than the one running now; init must refuse
// to start rather than silently misinterpret it (spec.md §6).
const CurrentSchemaVersion = 1

// defaultConfig returns catalogcore's built-in defaults, applied before
// any config file or environment override.
func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			URL:     "https://api.strem.io",
			LinkURL: "https://link.strem.io",
		},
		Storage: StorageConfig{Dir: "./catalogcore-data"},
		Server:  ServerConfig{DefaultURL: "http://127.0.0.1:11470"},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Breaker: BreakerConfig{
			RequestTimeout:     15 * time.Second,
			MaxRequests:        3,
			Interval:           30 * time.Second,
			Timeout:            10 * time.Second,
			FailureThreshold:   5,
			RateLimitPerSecond: 5,
			RateLimitBurst:     10,
		},
		Bus:    BusConfig{Transport: "memory", MaxReconnects: 10},
		Schema: SchemaConfig{Version: CurrentSchemaVersion},
		WS:     WSGatewayConfig{RateLimitPerMinute: 120},
	}
}
