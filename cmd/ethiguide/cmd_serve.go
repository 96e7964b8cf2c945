package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/joelkehle/ethiguide/internal/config"
	"github.com/joelkehle/ethiguide/internal/export"
	"github.com/joelkehle/ethiguide/internal/logging"
	"github.com/joelkehle/ethiguide/internal/session"
	"github.com/joelkehle/ethiguide/internal/telemetry"
	"github.com/joelkehle/ethiguide/internal/web"
)

type serveFlags struct {
	configPath   string
	addr         string
	store        string
	dbPath       string
	sessionTTL   time.Duration
	seed         uint64
	logLevel     string
	logFormat    string
	otlpEndpoint string
	chromePath   string
}

func newServeCmd() *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the wizard web server",
		Long: `Serves the wizard over HTTP. Settings come from defaults, then the
--config YAML file, then environment (PORT, STORE_BACKEND, DB_PATH,
ETHIGUIDE_SESSION_TTL, ETHIGUIDE_SEED, ETHIGUIDE_LOG_LEVEL,
OTEL_EXPORTER_OTLP_ENDPOINT), then flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadServeConfig(cmd.Flags(), f, os.Getenv)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "YAML config file")
	fl.StringVar(&f.addr, "addr", ":8080", "listen address")
	fl.StringVar(&f.store, "store", config.StoreMemory, "session store: memory or sqlite")
	fl.StringVar(&f.dbPath, "db", "./data/ethiguide.db", "SQLite database path for --store sqlite")
	fl.DurationVar(&f.sessionTTL, "session-ttl", session.DefaultTTL, "idle time before a session expires")
	fl.Uint64Var(&f.seed, "seed", 0, "fixed seed for cosmetic randomness (0 picks one per session)")
	fl.StringVar(&f.logLevel, "log-level", "info", "debug, info, warn or error")
	fl.StringVar(&f.logFormat, "log-format", logging.FormatText, "text or json")
	fl.StringVar(&f.otlpEndpoint, "otlp-endpoint", "", "OTLP/HTTP collector host:port; tracing is off when empty")
	fl.StringVar(&f.chromePath, "chrome-path", "", "Chromium binary for PDF export")
	return cmd
}

// loadServeConfig layers defaults, file, environment and explicitly set flags.
func loadServeConfig(fl *pflag.FlagSet, f serveFlags, getenv func(string) string) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return config.Config{}, err
	}
	if fl.Changed("addr") {
		cfg.Addr = f.addr
	}
	if fl.Changed("store") {
		cfg.Store = f.store
	}
	if fl.Changed("db") {
		cfg.DBPath = f.dbPath
	}
	if fl.Changed("session-ttl") {
		cfg.SessionTTL = f.sessionTTL
	}
	if fl.Changed("seed") {
		cfg.Seed = f.seed
	}
	if fl.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if fl.Changed("log-format") {
		cfg.Log.Format = f.logFormat
	}
	if fl.Changed("otlp-endpoint") {
		cfg.Telemetry.OTLPEndpoint = f.otlpEndpoint
	}
	if fl.Changed("chrome-path") {
		cfg.ChromePath = f.chromePath
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func openStore(cfg config.Config) (session.Store, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		return session.NewSQLiteStore(cfg.DBPath)
	default:
		return session.NewMemoryStore(), nil
	}
}

func runServe(ctx context.Context, cfg config.Config) error {
	level, _ := logging.ParseLevel(cfg.Log.Level)
	logging.Init(level, cfg.Log.Format)
	log := logging.New("serve")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		Insecure:    cfg.Telemetry.Insecure,
		ServiceName: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("tracer shutdown", "error", err)
		}
	}()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	manager := session.NewManager(store, session.Options{
		TTL:    cfg.SessionTTL,
		Logger: logging.New("session"),
		Seed:   cfg.Seed,
	})

	var pdf export.PDFRenderer
	if r := export.NewChromiumPDFRenderer(cfg.ChromePath); r.Available() {
		pdf = r
	} else {
		log.Warn("no chromium found, pdf export disabled")
	}

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: web.NewServer(manager, web.Options{
			PDF:          pdf,
			Logger:       logging.New("web"),
			CookieName:   cfg.CookieName,
			CookieSecure: cfg.CookieSecure,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", "addr", cfg.Addr, "store", cfg.Store, "session_ttl", cfg.SessionTTL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return manager.SweepLoop(gctx, cfg.SweepInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	err = g.Wait()
	log.Info("stopped")
	return err
}
