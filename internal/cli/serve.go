package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/caption-digest/internal/analysis"
	"github.com/nguyentantai21042004/caption-digest/internal/bridge"
	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/credential"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/mcp"
	"github.com/nguyentantai21042004/caption-digest/internal/server"
	"github.com/nguyentantai21042004/caption-digest/internal/summarizer"
	"github.com/nguyentantai21042004/caption-digest/internal/version"
	"github.com/nguyentantai21042004/caption-digest/internal/watcher"
)

func NewServeCmd(deps *Dependencies) *cobra.Command {
	var withMCP bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the daemon the browser extension connects to",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), deps, withMCP)
		},
	}
	cmd.Flags().BoolVar(&withMCP, "mcp", false, "also serve MCP tools on stdio")
	return cmd
}

func serve(ctx context.Context, deps *Dependencies, withMCP bool) error {
	cfg := deps.Config
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// stdout belongs to the MCP transport when it is enabled.
	log := logger.New(cfg.Logging.Level)
	if withMCP {
		log = logger.NewWithWriter(os.Stderr, cfg.Logging.Level)
	}

	log.Info(ctx, "========================================")
	log.Info(ctx, "Caption Digest %s", version.Version)
	log.Info(ctx, "========================================")

	store, err := credential.Open(cfg.Credential)
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}
	defer store.Close()

	client := analysis.New(cfg.Analysis, &http.Client{Timeout: cfg.Analysis.Timeout})
	var abstractor summarizer.Abstractor
	if a := summarizer.NewGemini(cfg.Gemini.APIKeys, cfg.Gemini.Model, log); a != nil {
		abstractor = a
		log.Info(ctx, "Gemini abstract enabled (%d keys, model %s)", len(cfg.Gemini.APIKeys), cfg.Gemini.Model)
	}
	sum := summarizer.New(client, store, abstractor, cfg.Performance.MaxConcurrent, log)

	table := bridge.New(log)
	registry := server.NewRegistry()
	srv := server.New(cfg, sum, table, registry, log)

	if w, err := watcher.New(deps.ConfigPath, reloadLogLevel(log), log); err != nil {
		log.Warn(ctx, "Config hot reload disabled: %v", err)
	} else {
		defer w.Stop()
		go func() {
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn(ctx, "Config watcher: %v", err)
			}
		}()
	}

	if withMCP {
		go func() {
			if err := mcp.Run(table, registry, version.Version); err != nil {
				log.Error(ctx, "MCP server: %v", err)
			}
			stop()
		}()
	}

	log.Info(ctx, "Capture duration: %s, max concurrent summaries: %d", cfg.Capture.Duration, cfg.Performance.MaxConcurrent)
	log.Info(ctx, "Credential backend: %s (%s)", cfg.Credential.Backend, cfg.Credential.Path)
	log.Info(ctx, "Press Ctrl+C to stop")

	if err := srv.Run(ctx); err != nil {
		return err
	}
	log.Info(context.Background(), "Caption Digest stopped")
	return nil
}

// reloadLogLevel re-reads the config file and applies its log level. Other settings
// take effect on restart.
func reloadLogLevel(log logger.Logger) watcher.ReloadHandler {
	return func(ctx context.Context, path string) error {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		log.SetLevel(cfg.Logging.Level)
		log.Info(ctx, "Log level set to %s", cfg.Logging.Level)
		return nil
	}
}
