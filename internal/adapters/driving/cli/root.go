package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/inkdash/internal/logger"
)

var (
	// version is set by Execute from the build.
	version = "dev"

	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "inkdash",
	Short: "E-ink dashboard controller",
	Long: `inkdash drives a small e-paper panel as a dashboard.

Each screen (artwork, quotes, weather, sky, system) refreshes on its own interval
while it is live. Buttons switch the live screen; only one screen ever
updates the panel at a time.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log lifecycle details to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "Configuration directory (default ~/.inkdash)")
}

// Execute runs the command tree.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}
