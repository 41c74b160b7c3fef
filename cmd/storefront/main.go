package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/example/litebay/internal/logger"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "LiteBay storefront: catalog, cart, wishlist, checkout and accounts",
	Long: `storefront serves the LiteBay shop API and maintains its persisted state.

Every collection (cart, wishlist, orders, contacts, users, products, visit count)
lives under a single key in the configured key-value backend.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			return os.Setenv("LITEBAY_CONFIG", configPath)
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the storefront HTTP API",
	RunE:  runServe,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Copy the fixture products into the product repository",
	Long: `Reads products.json from the fixtures directory and replaces the stored
product collection with it. Other collections are left untouched.`,
	RunE: runSeed,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print visit, order, contact and account counts",
	RunE:  runStats,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (or set LITEBAY_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Logger.Error().Err(err).Msg("storefront failed")
		os.Exit(1)
	}
}
