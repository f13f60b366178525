package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"inferd/internal/backend"
	"inferd/internal/catalog"
	"inferd/internal/common/fsutil"
	"inferd/internal/config"
	"inferd/internal/httpapi"
	"inferd/internal/stream"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	var (
		addr         string
		configPath   string
		modelPath    string
		modelName    string
		chatEnabled  bool
		catalogPath  string
		logLevel     string
		authRequired bool
	)

	root := &cobra.Command{
		Use:           "inferd",
		Short:         "HTTP front end for a local code/text generation model",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg config.Config
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			// Flags win over the config file.
			if addr != "" {
				cfg.Addr = addr
			}
			if modelPath != "" {
				cfg.ModelPath = modelPath
			}
			if modelName != "" {
				cfg.ModelName = modelName
			}
			if chatEnabled {
				cfg.ChatEnabled = true
			}
			if catalogPath != "" {
				cfg.CatalogPath = catalogPath
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if authRequired {
				cfg.AuthRequired = true
			}
			if cfg.Addr == "" {
				cfg.Addr = ":8008"
			}
			return run(cfg)
		},
	}

	root.Flags().StringVar(&addr, "addr", envOr("INFERD_ADDR", ""), "HTTP listen address, e.g. :8008")
	root.Flags().StringVar(&configPath, "config", envOr("INFERD_CONFIG", ""), "Path to config file (.yaml/.json/.toml)")
	root.Flags().StringVar(&modelPath, "model", envOr("INFERD_MODEL", ""), "Path to the model file to load")
	root.Flags().StringVar(&modelName, "model-name", envOr("INFERD_MODEL_NAME", ""), "Advertised model name (defaults to the model file name)")
	root.Flags().BoolVar(&chatEnabled, "chat", false, "Advertise chat capability for the loaded model")
	root.Flags().StringVar(&catalogPath, "catalog", envOr("INFERD_CATALOG", ""), "Capability records file (.yaml/.json); built-ins when empty")
	root.Flags().StringVar(&logLevel, "log-level", envOr("INFERD_LOG_LEVEL", ""), "Log level: debug|info|warn|error")
	root.Flags().BoolVar(&authRequired, "auth-required", false, "Reject requests without a bearer token")

	if err := root.Execute(); err != nil {
		fatalLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		fatalLogger.Fatal().Err(err).Msg("inferd failed")
	}
}

func run(cfg config.Config) error {
	logger := newLogger(cfg.LogLevel)
	httpapi.SetLogger(logger)
	stream.SetLogger(logger)
	backend.SetLogger(logger)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetAuthRequired(cfg.AuthRequired)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSAllowedOrigins, cfg.CORSAllowedMethods, cfg.CORSAllowedHeaders)

	modelPath, err := fsutil.ExpandHome(cfg.ModelPath)
	if err != nil {
		return err
	}
	if modelPath != "" && !fsutil.PathExists(modelPath) {
		logger.Warn().Str("path", modelPath).Msg("model file not found; serving in loading state")
	}

	records, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}

	engine := backend.New(backend.Config{
		ModelPath:     modelPath,
		ModelName:     cfg.ModelName,
		ChatEnabled:   cfg.ChatEnabled,
		MaxQueueDepth: cfg.MaxQueueDepth,
		MaxWait:       time.Duration(cfg.MaxWaitSeconds) * time.Second,
		CtxSize:       cfg.CtxSize,
		Threads:       cfg.Threads,
	})
	defer engine.Close()

	// Base context cancels in-flight streams on shutdown.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	// Load in the background; requests arriving before it finishes get the
	// not-ready rejection with the last recorded error.
	go func() {
		if err := engine.Load(baseCtx); err != nil {
			logger.Error().Err(err).Str("model", modelPath).Msg("model load failed")
			return
		}
		logger.Info().Str("model", engine.ModelName()).Msg("model loaded")
	}()

	mux := httpapi.NewMux(engine, records)
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("inferd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
		return err
	}
	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(level); err == nil && level != "" {
		lvl = parsed
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
