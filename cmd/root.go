// Package cmd holds the portfolio command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hashjamm/portfolio/internal/config"
)

var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio site server",
	Long: `portfolio serves the project portfolio: featured work, the project
mosaic, the searchable archive and per-project case studies.

Settings are read from the environment (and a .env file when present).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		appConfig = cfg
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
}
