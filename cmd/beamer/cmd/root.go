package cmd

import (
	"github.com/spf13/cobra"

	"github.com/panpilkarz/beamer/internal/zerolog"
	"github.com/panpilkarz/beamer/pkg/config"
	"github.com/panpilkarz/beamer/pkg/version"
)

var (
	cfgFile   string
	debugMode bool
)

var rootCmd = &cobra.Command{
	Use:   "beamer",
	Short: "Beamer bridge deployment state tooling",
	Long: `Tooling for the checksum-verified state file of a Beamer bridge
deployment. The state file is the single source of truth for the bridge's
protocol parameters: fee rates, per-chain finality assumptions, token
limits and fill whitelists. Every command verifies the embedded checksum
before trusting a file and re-embeds a fresh checksum when writing one.`,
	Version: version.Short(),
}

// Execute runs the CLI. The error is returned to main so the process can
// exit non-zero after cobra has printed it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default is built-in defaults plus BEAMER_* environment overrides)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false,
		"enable debug logging")

	rootCmd.SetVersionTemplate("beamer {{.Version}}\n")
}

func initLogging() {
	zerolog.InitLogger(debugMode, true)
}

// loadConfig loads the tool configuration honoring the --config flag.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}
