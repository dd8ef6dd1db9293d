// Package cmd implements the richapi-go CLI surface: a single `compile`
// subcommand, structured the way sast-engine/cmd/root.go wires its own
// persistent flags, logging, and analytics.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ManiMozaffar/richapi-go/internal/analytics"
)

// Version is overridden at build time via -ldflags.
var Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "richapi-go",
	Short: "Statically discovers HTTP exceptions a FastAPI endpoint can raise and merges them into its OpenAPI schema",
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		disableMetrics, _ := cmd.Flags().GetBool("disable-metrics")
		analytics.LoadEnvFile()
		analytics.Init(disableMetrics)
		analytics.SetVersion(Version)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("disable-metrics", false, "Disable anonymous usage metrics")
	rootCmd.PersistentFlags().Bool("verbose", false, "Verbose output")
	rootCmd.PersistentFlags().Bool("debug", false, "Debug output, including per-site resolution tracing")
}
