package cmd

import (
	"github.com/spf13/cobra"

	"github.com/embedchat/widget-runtime/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the widget configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the widget and generates a .embedchat.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
