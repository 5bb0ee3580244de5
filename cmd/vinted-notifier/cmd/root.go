// Package cmd implements the CLI commands for vinted-notifier.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "vinted-notifier",
	Short: "Notify a Discord webhook about new Vinted listings",
	Long: "Polls one or more Vinted seller profiles for newly listed items and " +
		"forwards each new listing to a Discord webhook as embeds. Designed to run " +
		"as a scheduler-invoked batch job; a watch mode re-runs the same cycle on " +
		"an interval.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
