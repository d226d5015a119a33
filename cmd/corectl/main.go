// Package main is the entry point for corectl, the catalogcore host
// process: it wires the portable pkg/ state engine to real I/O (BadgerDB
// storage, circuit-breaker-guarded HTTP, a casbin addon policy), runs the
// dispatch loop under a suture supervision tree alongside the periodic
// library-sync and analytics-flush jobs, republishes RuntimeEvents onto
// the cross-process bus, and, when the websocket gateway is enabled in
// config, serves internal/wsgateway so UI clients can dispatch Actions
// into the same Runtime — all config-driven, no REST surface of its own.
package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/catalogcore/internal/authzrules"
	"github.com/tomtom215/catalogcore/internal/bus"
	"github.com/tomtom215/catalogcore/internal/config"
	"github.com/tomtom215/catalogcore/internal/corelog"
	"github.com/tomtom215/catalogcore/internal/httpenv"
	"github.com/tomtom215/catalogcore/internal/kvstorage"
	"github.com/tomtom215/catalogcore/internal/linkcodes"
	"github.com/tomtom215/catalogcore/internal/supervisor"
	"github.com/tomtom215/catalogcore/internal/wsgateway"
	"github.com/tomtom215/catalogcore/pkg/addon"
	"github.com/tomtom215/catalogcore/pkg/analytics"
	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/ctx"
	"github.com/tomtom215/catalogcore/pkg/env"
	"github.com/tomtom215/catalogcore/pkg/runtime"
)

// rootCtxStorageKey is where the whole *ctx.Ctx tree is snapshotted
// between restarts. The core itself never calls SetStorage for this —
// persistence cadence is a host decision, not a core one — so corectl
// owns loading it at startup and flushing it at shutdown.
const rootCtxStorageKey = "root_ctx"

const schemaVersionKey = "schema_version"

func main() {
	if err := run(); err != nil {
		corelog.L().Fatal().Err(err).Msg("corectl: fatal")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	corelog.Init(corelog.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
		Output: os.Stderr,
	})
	log := corelog.L()
	log.Info().Str("storage_dir", cfg.Storage.Dir).Msg("starting corectl")

	store, err := kvstorage.Open(cfg.Storage.Dir, cfg.Storage.EncryptionSecret)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("close storage")
		}
	}()

	if err := checkSchemaVersion(store); err != nil {
		return err
	}

	environment := httpenv.New(httpenv.Config{
		RequestTimeout: cfg.Breaker.RequestTimeout,
		Breaker: httpenv.CircuitBreakerConfig{
			MaxRequests:      cfg.Breaker.MaxRequests,
			Interval:         cfg.Breaker.Interval,
			Timeout:          cfg.Breaker.Timeout,
			FailureThreshold: cfg.Breaker.FailureThreshold,
		},
		UserAgent:          "catalogcore-corectl/1",
		Analytics:          map[string]any{"platform": "corectl"},
		RateLimitPerSecond: cfg.Breaker.RateLimitPerSecond,
		RateLimitBurst:     cfg.Breaker.RateLimitBurst,
	}, store)
	defer environment.Close()

	policy := ctx.AddonPolicy(ctx.DefaultAddonPolicy{})
	if enforcer, err := authzrules.New("", ""); err != nil {
		// A malformed embedded policy is a build-time bug, not an
		// operator-fixable runtime condition, but the host should still
		// come up with the conservative built-in rules rather than die.
		log.Error().Err(err).Msg("authzrules: falling back to ctx.DefaultAddonPolicy")
	} else {
		policy = enforcer
	}

	signer, err := pairingSigner(cfg.Pairing.SigningSecret)
	if err != nil {
		return fmt.Errorf("pairing signer: %w", err)
	}

	root, err := restoreOrCreateCtx(context.Background(), environment, cfg)
	if err != nil {
		return fmt.Errorf("restore ctx: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := runtime.NewModel(root)
	rt := runtime.New(runCtx, model, environment, runtime.Config{
		APIURL: cfg.API.URL,
		Policy: policy,
		Signer: signer,
	})
	defer rt.Close()

	tree := supervisor.New(slog.Default(), supervisor.DefaultTreeConfig())
	tree.AddBackground(&supervisor.TickerService{
		Name:     "library-sync",
		Interval: 10 * time.Minute,
		Fn: func(tickCtx context.Context) {
			tickCtx = corelog.WithCorrelationID(tickCtx, uuid.NewString())
			if err := rt.Dispatch(runtime.Action{Field: runtime.FieldCtx, Verb: runtime.VerbSyncLibraryWithAPI}); err != nil {
				corelog.Ctx(tickCtx).Error().Err(err).Msg("library sync dispatch")
			}
		},
	})

	poster := &apiPoster{fetcher: environment, apiURL: cfg.API.URL}
	queue := analytics.New()
	tree.AddBackground(&supervisor.TickerService{
		Name:     "analytics-flush",
		Interval: time.Minute,
		Fn: func(ctx context.Context) {
			flushAnalytics(ctx, queue, poster)
		},
	})

	forwarder, err := wireBus(rt, cfg)
	if err != nil {
		return fmt.Errorf("wire bus: %w", err)
	}
	tree.AddBus(forwarder)

	if cfg.WS.Enabled {
		gateway := wsgateway.New(rt, log)
		tree.AddBus(gateway)
		tree.AddBus(&wsgateway.Server{
			Addr:    cfg.WS.Addr,
			Gateway: gateway,
			Config: wsgateway.ServerConfig{
				AllowedOrigins:     cfg.WS.CORSAllowedOrigins,
				RateLimitPerMinute: cfg.WS.RateLimitPerMinute,
			},
			Logger: log,
		})
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("corectl running")
	if err := tree.Serve(sigCtx); err != nil && sigCtx.Err() == nil {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	log.Info().Msg("corectl shutting down")
	return environment.SetStorage(context.Background(), rootCtxStorageKey, root)
}

func checkSchemaVersion(store *kvstorage.Store) error {
	var stored config.SchemaConfig
	found, err := store.GetStorage(context.Background(), schemaVersionKey, &stored)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if found && stored.Version > config.CurrentSchemaVersion {
		return fmt.Errorf("storage schema version %d is newer than this build supports (%d)",
			stored.Version, config.CurrentSchemaVersion)
	}
	if !found || stored.Version != config.CurrentSchemaVersion {
		return store.SetStorage(context.Background(), schemaVersionKey,
			config.SchemaConfig{Version: config.CurrentSchemaVersion})
	}
	return nil
}

// pairingSigner builds the Link view model's code signer from the
// configured secret, or a fresh per-process one when none is set —
// pairing codes are short-lived enough that losing them across a
// restart costs the user one retry, not data.
func pairingSigner(secret string) (*linkcodes.Signer, error) {
	if secret != "" {
		return linkcodes.NewSigner([]byte(secret))
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generate ephemeral pairing secret: %w", err)
	}
	return linkcodes.NewSigner(b)
}

// restoreOrCreateCtx loads a previously persisted Ctx tree, or builds a
// fresh anonymous one seeded with the configured official addon set.
func restoreOrCreateCtx(parent context.Context, environment *httpenv.Environment, cfg *config.Config) (*ctx.Ctx, error) {
	var root ctx.Ctx
	found, err := environment.GetStorage(parent, rootCtxStorageKey, &root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rootCtxStorageKey, err)
	}
	if found {
		if root.ServerURLs != nil {
			root.ServerURLs.Reindex()
		}
		return &root, nil
	}

	official := fetchOfficialAddons(parent, environment, cfg.Server.OfficialAddonManifestURLs)
	return ctx.New(official, cfg.Server.DefaultURL, time.Now().UnixMilli()), nil
}

// fetchOfficialAddons resolves each configured manifest URL into an
// official, protected Descriptor. A single addon failing to resolve
// just shrinks the default set; it never blocks startup.
func fetchOfficialAddons(parent context.Context, fetcher env.Fetcher, urls []string) []catalogtypes.Descriptor {
	var out []catalogtypes.Descriptor
	for _, u := range urls {
		transport := addon.NewFactory(fetcher, u).Build()
		manifest, err := transport.Manifest(parent)
		if err != nil {
			corelog.L().Warn().Err(err).Str("url", u).Msg("official addon manifest fetch failed, skipping")
			continue
		}
		out = append(out, catalogtypes.Descriptor{
			Manifest:     manifest,
			TransportURL: u,
			Flags:        catalogtypes.DescriptorFlags{Official: true, Protected: true},
		})
	}
	return out
}

func flushAnalytics(parent context.Context, queue *analytics.Queue, poster analytics.Poster) {
	for _, run := range queue.FlushAll(poster) {
		authKey, result := run(parent)
		queue.ApplyFlushResult(result)
		if result.Err != nil {
			corelog.L().Error().Err(result.Err).Str("auth_key", authKey).Msg("analytics flush failed")
		}
	}
}

// apiPoster implements analytics.Poster over env.Fetcher, POSTing a
// batch to the platform API's events endpoint.
type apiPoster struct {
	fetcher env.Fetcher
	apiURL  string
}

func (p *apiPoster) PostEvents(ctx context.Context, authKey string, events []analytics.Event) (uint64, error) {
	result, err := p.fetcher.Fetch(ctx, env.HTTPRequest[any]{
		Method: "POST",
		URL:    p.apiURL + "/api/events",
		Body:   map[string]any{"authKey": authKey, "events": events},
	})
	if err != nil {
		return 0, err
	}
	var resp struct {
		Code uint64 `json:"code"`
	}
	if len(result.Body) > 0 {
		if err := json.Unmarshal(result.Body, &resp); err != nil {
			return 0, fmt.Errorf("apiPoster: decode response: %w", err)
		}
	}
	return resp.Code, nil
}

// busService is the suture.Service shape both bus.NewInMemory's and
// bus.NewNATS's Forwarder satisfy.
type busService interface {
	Serve(ctx context.Context) error
	String() string
}

func wireBus(rt *runtime.Runtime, cfg *config.Config) (busService, error) {
	if cfg.Bus.Transport == "nats" {
		natsURL := cfg.Bus.NATSURL
		var embedded *bus.EmbeddedServer
		if cfg.Bus.Embedded {
			srv, err := bus.NewEmbeddedServer(bus.EmbeddedConfig{
				Host:     cfg.Bus.EmbeddedHost,
				Port:     cfg.Bus.EmbeddedPort,
				StoreDir: cfg.Bus.EmbeddedStoreDir,
			})
			if err != nil {
				return nil, fmt.Errorf("start embedded nats: %w", err)
			}
			embedded = srv
			natsURL = srv.ClientURL()
		}
		forwarder, err := bus.NewNATS(rt, bus.NATSConfig{URL: natsURL, MaxReconnects: cfg.Bus.MaxReconnects})
		if err != nil {
			if embedded != nil {
				embedded.Shutdown()
			}
			return nil, err
		}
		if embedded != nil {
			return &embeddedNATSService{Forwarder: forwarder, embedded: embedded}, nil
		}
		return forwarder, nil
	}
	forwarder, _ := bus.NewInMemory(rt)
	return forwarder, nil
}

// embeddedNATSService wraps a bus.Forwarder so the in-process JetStream
// server it dials is shut down alongside it when the supervisor tree
// stops the service.
type embeddedNATSService struct {
	*bus.Forwarder
	embedded *bus.EmbeddedServer
}

func (s *embeddedNATSService) Serve(ctx context.Context) error {
	err := s.Forwarder.Serve(ctx)
	s.embedded.Shutdown()
	return err
}
