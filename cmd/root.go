package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "widgetd",
	Short: "Embeddable chat widget runtime and preview server",
	Long: `Widgetd runs the embedchat widget engine outside the browser: it
computes design tokens from a widget configuration, renders the UI
components, relays messages to the configured webhook, and serves a
local preview page that speaks the host-page embedding protocol.`,
}

func Execute() error {
	// Load relay credentials and overrides from .env when present.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".embedchat.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
