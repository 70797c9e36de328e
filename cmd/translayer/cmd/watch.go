package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/ironsheep/translayer/internal/feed"
	"github.com/ironsheep/translayer/internal/region"
	"github.com/ironsheep/translayer/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Read a region each time a global hotkey is pressed",
	Long: `Wait for the hotkey, then read the configured region of the target window.
The text is copied to the clipboard and pushed to every page connected to the
feed.

While watching, listen_addr serves:
  GET /         overlay page showing the latest text
  GET /ws       WebSocket feed of recognized text
  GET /metrics  Prometheus metrics

Examples:
  translayer watch
  translayer watch --hotkey alt+f9 --region main_menu_duel
  translayer watch --listen "" --no-clipboard`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		logger := slog.Default()

		hotkey, err := watch.ParseHotkey(cfg.Hotkey)
		if err != nil {
			return err
		}
		reader, _, err := newReader(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		hub := feed.NewHub(logger)
		defer hub.Close()

		if cfg.ListenAddr != "" {
			srv := &http.Server{
				Addr:              cfg.ListenAddr,
				Handler:           newWatchMux(hub),
				ReadHeaderTimeout: 10 * time.Second,
			}
			go func() {
				logger.Info("feed listening", "addr", cfg.ListenAddr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("feed server failed", "error", err)
				}
			}()
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
		}

		opts := watch.Options{
			ProcessName: cfg.ProcessName,
			Region:      region.Name(cfg.Region),
			Hotkey:      hotkey,
			Reader:      reader,
			Publisher:   hub,
			Logger:      logger,
		}
		noClipboard, _ := cmd.Flags().GetBool("no-clipboard")
		if cfg.Clipboard && !noClipboard {
			opts.Clipboard = &watch.SystemClipboard{}
		}
		w, err := watch.New(opts)
		if err != nil {
			return err
		}
		return w.Run(ctx)
	},
}

func newWatchMux(hub *feed.Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/", feed.PageHandler())
	mux.Handle("/ws", hub)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func init() {
	watchCmd.Flags().String("hotkey", "", "key combination, e.g. ctrl+shift+r")
	watchCmd.Flags().String("region", "", "catalogue region to read")
	watchCmd.Flags().String("listen", "", "address for the feed and metrics, empty to disable")
	watchCmd.Flags().Bool("no-clipboard", false, "do not copy text to the clipboard")

	bindFlag(watchCmd, "hotkey", "hotkey")
	bindFlag(watchCmd, "region", "region")
	bindFlag(watchCmd, "listen_addr", "listen")

	rootCmd.AddCommand(watchCmd)
}
