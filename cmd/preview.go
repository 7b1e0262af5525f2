package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/embedchat/widget-runtime/internal/preview"
	"github.com/embedchat/widget-runtime/internal/widget"
)

var (
	previewPort     int
	previewAllowAll bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Start the local preview server",
	Long: `Serves a host page that embeds the widget, the per-widget config
endpoint, and the websocket channel the embedding protocol runs over.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadWidgetConfig()
		if err != nil {
			return err
		}
		store, database, err := openStorage()
		if err != nil {
			return err
		}
		if database != nil {
			defer database.Close()
		}

		srv := preview.New(preview.Config{
			Port:     previewPort,
			AllowAll: previewAllowAll,
		}, cfg, widget.Options{Storage: store})

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down preview server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "widgetd preview v%s on http://localhost:%d\n", Version, previewPort)
		fmt.Fprintf(os.Stderr, "  Widget: %s (%s)\n", cfg.Branding.Title, cfg.Connection.WidgetID)
		fmt.Fprintf(os.Stderr, "  Webhook: %s\n", cfg.Connection.WebhookURL)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	previewCmd.Flags().IntVar(&previewPort, "port", 4280, "Port to listen on")
	previewCmd.Flags().BoolVar(&previewAllowAll, "allow-all", false, "Allow all CORS origins")
	previewCmd.Flags().StringVar(&fetchFrom, "from", "", "Fetch the widget config from a running host instead of the local file")
	previewCmd.Flags().StringVar(&storePath, "store", "", "SQLite file for session persistence (default in-memory)")
	rootCmd.AddCommand(previewCmd)
}
