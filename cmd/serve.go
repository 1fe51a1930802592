package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pagehydrate/internal/server"
	"github.com/ziadkadry99/pagehydrate/internal/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site, hydrating pages on every request",
	Long: `Starts a development server for the site directory. HTML pages are
hydrated per request against a freshly loaded content document; other
files are served as is. With --watch, open pages reload when the site
changes.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides server.port)")
	serveCmd.Flags().Bool("watch", false, "reload open pages when site files change")
	serveCmd.Flags().String("content", "", "content document path or URL (overrides content_source)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}
	watch := cfg.Server.LiveReload
	if cmd.Flags().Changed("watch") {
		watch, _ = cmd.Flags().GetBool("watch")
	}
	location, _ := cmd.Flags().GetString("content")
	h, src := newHydrator(cfg, location, logger)

	pages := site.NewPageHandler(cfg.SiteDir, h, src, logger)
	pages.Include = cfg.Include
	pages.Exclude = cfg.Exclude
	pages.LiveReload = watch

	srv := server.New(server.Config{Port: cfg.Server.Port, AllowAll: cfg.Server.AllowAll}, logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var hub *site.ReloadHub
	if watch {
		hub = site.NewReloadHub(logger)
		defer hub.Close()
		srv.Router().Get(site.LiveReloadPath, hub.ServeHTTP)

		watcher := &site.Watcher{
			Dir:     cfg.SiteDir,
			SkipDir: cfg.OutputDir,
			Logger:  logger,
			OnChange: func(path string) {
				n := hub.Broadcast()
				logger.Info("site changed, reloading pages", "path", path, "clients", n)
			},
		}
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Error("file watcher stopped", "error", err)
			}
		}()
	}
	srv.Router().Handle("/*", pages)

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s at http://localhost:%d\n", cfg.SiteDir, cfg.Server.Port)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop.")

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if hub != nil {
		hub.Close()
	}
	return srv.Shutdown(shutdownCtx)
}
