package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	cfgpkg "github.com/cohortlab/rfmctl/internal/config"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "rfmctl",
	Short: "rfmctl: RFM customer segmentation over e-commerce transactions",
	Long: `rfmctl ingests raw transaction exports, cleans them, derives per-customer
Recency/Frequency/Monetary metrics, scores and segments customers into
business cohorts, and renders a summary report.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.rfmctl/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log every pipeline event instead of showing progress")
}

func loadConfig() {
	// Local .env files may carry RFMCTL_* overrides and MySQL credentials.
	_ = godotenv.Load()

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults.
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}

func effectiveConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return &cfgpkg.Global{Bins: 5, Method: "quantile", OutputDir: "reports"}
}
