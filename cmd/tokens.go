package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/embedchat/widget-runtime/internal/theme"
)

var tokensSelector string

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Print the design tokens derived from the widget configuration",
	Long:  `Computes the CSS custom property block the theme engine derives from the configured style and prints it, ready to paste into a host page.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadWidgetConfig()
		if err != nil {
			return err
		}
		fmt.Print(theme.ComputeTokens(cfg).CSS(tokensSelector))
		return nil
	},
}

func init() {
	tokensCmd.Flags().StringVar(&tokensSelector, "selector", ":root", "CSS selector to scope the token block to")
	tokensCmd.Flags().StringVar(&fetchFrom, "from", "", "Fetch the widget config from a running host instead of the local file")
	rootCmd.AddCommand(tokensCmd)
}
