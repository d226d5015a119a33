package wsgateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
)

// ServerConfig carries the CORS/rate-limit knobs Server applies to the
// gateway's HTTP surface, scoped down to what a single websocket-upgrade
// route needs.
type ServerConfig struct {
	// AllowedOrigins is passed straight through to go-chi/cors; empty
	// means no cross-origin request is allowed.
	AllowedOrigins []string
	// RateLimitPerMinute caps requests per client IP; 0 disables it.
	RateLimitPerMinute int
}

// Server runs Gateway.Handler behind a chi.Router, as a suture.Service so
// corectl's supervisor tree owns its lifecycle alongside the ticker and
// bus services: chi.Router for routing/panic-recovery, go-chi/cors for
// preflight handling, and go-chi/httprate for per-IP rate limiting,
// instead of a bare net/http.ServeMux.
type Server struct {
	Addr    string
	Gateway *Gateway
	Config  ServerConfig
	Logger  zerolog.Logger
}

func (s *Server) Serve(ctx context.Context) error {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.Config.AllowedOrigins,
		AllowedMethods: []string{"GET"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))
	if s.Config.RateLimitPerMinute > 0 {
		r.Use(httprate.LimitByIP(s.Config.RateLimitPerMinute, time.Minute))
	}
	r.Handle("/events", s.Gateway.Handler())

	srv := &http.Server{Addr: s.Addr, Handler: r}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) String() string { return "wsgateway.Server(" + s.Addr + ")" }
