package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/vango-dev/reactor/internal/config"
	"github.com/vango-dev/reactor/internal/demo"
	rerrors "github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/metrics"
	"github.com/vango-dev/reactor/pkg/reactive"
	"github.com/vango-dev/reactor/pkg/tracing"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demos over HTTP with metrics",
		Long: `Start an HTTP server that runs demos on request and exports the
engine's activity as Prometheus metrics.

Routes:
  GET  /healthz        liveness probe
  GET  /demos          list the demos as JSON
  POST /demos/{name}   run a demo and return its output
  GET  /metrics        Prometheus metrics (path configurable)

The configuration is read from --config, or from reactor.json,
reactor.yaml or reactor.yml in the working directory.

Examples:
  reactor serve
  reactor serve --addr=127.0.0.1:8080
  reactor serve --config=deploy/reactor.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file (default: search the working directory)")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")

	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load(".")
}

func runServe(cfg *config.Config) error {
	logger := cfg.Logger(os.Stderr)

	var tp *sdktrace.TracerProvider
	if cfg.Tracing.Enabled {
		var err error
		if tp, err = stderrTracerProvider(os.Stderr); err != nil {
			return err
		}
		defer func() { _ = tp.Shutdown(context.Background()) }()
	}

	s := newServer(cfg, logger, prometheus.NewRegistry(), tp)
	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: s.routes(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	success("Listening on %s", cfg.Server.Addr)
	if cfg.Metrics.Enabled {
		info("metrics at %s", cfg.Metrics.Path)
	}
	if p := cfg.Path(); p != "" {
		info("config from %s", p)
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return rerrors.FromError(err, "X003")
		}
		return nil
	case <-ctx.Done():
	}

	fmt.Println()
	info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return rerrors.FromError(err, "X003")
	}
	return nil
}

// server runs demos on one shared Runtime, so metrics accumulate across
// requests. The Runtime is not safe for concurrent use; mu serializes runs.
type server struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	tracer   *tracing.Tracer

	mu sync.Mutex
	rt *reactive.Runtime
}

func newServer(cfg *config.Config, logger *slog.Logger, registry *prometheus.Registry, tp *sdktrace.TracerProvider) *server {
	s := &server{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
	}

	var observers reactive.MultiObserver
	if cfg.Metrics.Enabled {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		observers = append(observers, metrics.New(
			metrics.WithRegistry(registry),
			metrics.WithNamespace(cfg.Metrics.Namespace),
		))
	}
	if tp != nil {
		s.tracer = tracing.New(
			tracing.WithTracerProvider(tp),
			tracing.WithTrackEvents(cfg.Tracing.TrackEvents),
		)
		observers = append(observers, s.tracer)
	}

	opts := []reactive.Option{
		reactive.WithLogger(logger),
		reactive.WithRecover(),
		reactive.WithDebug(reactive.DebugConfig{
			LogTrack:      cfg.Debug.LogTrack,
			LogTrigger:    cfg.Debug.LogTrigger,
			LogEffectRuns: cfg.Debug.LogEffectRuns,
		}),
	}
	if len(observers) > 0 {
		opts = append(opts, reactive.WithObserver(observers))
	}
	s.rt = reactive.NewRuntime(opts...)
	return s
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Get("/demos", s.listDemos)
	r.Post("/demos/{name}", s.runDemo)

	if s.cfg.Metrics.Enabled {
		r.Method(http.MethodGet, s.cfg.Metrics.Path, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *server) exec(ctx context.Context, d demo.Scenario, out io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tracer != nil {
		s.tracer.SetContext(ctx)
		defer s.tracer.SetContext(context.Background())
	}
	d.Exec(s.rt, out)
}

type errorBody struct {
	Code   string `json:"code"`
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeError(w http.ResponseWriter, status int, err *rerrors.ReactorError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{
		Code:   err.Code,
		Error:  err.FormatCompact(),
		Detail: err.Detail,
	})
}

type demoInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *server) listDemos(w http.ResponseWriter, r *http.Request) {
	all := demo.All()
	out := make([]demoInfo, 0, len(all))
	for _, d := range all {
		out = append(out, demoInfo{Name: d.Name, Description: d.Description})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (s *server) runDemo(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	d, ok := demo.Lookup(name)
	if !ok {
		writeError(w, http.StatusNotFound, rerrors.New("X001").WithDetailf("no demo named %q", name))
		return
	}

	var out strings.Builder
	s.exec(r.Context(), d, &out)

	s.logger.Info("demo run",
		"demo", name,
		"request_id", middleware.GetReqID(r.Context()),
		"bytes", out.Len(),
	)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(out.String()))
}
