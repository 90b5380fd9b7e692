package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nimbler/registry-index/internal/config"
	"github.com/nimbler/registry-index/internal/index"
	"github.com/nimbler/registry-index/internal/logging"
)

var version = "1.0.0"

var (
	cfgFile      string
	outputFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "regidx",
	Short: "Private package registry index",
	Long: `regidx manages the local index of a private package registry: the list of
privately hosted package names, the token-signing secret, and the storage
location of each package's file artifacts.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"Path to configuration file (optional, can also use REGIDX_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "plain",
		"Output format: plain, json, or yaml")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(secretCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(searchCmd)

	rootCmd.SetVersionTemplate(`{{.Version}}
`)
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// openStore loads the configuration and opens the index store
func openStore() (*index.Store, *slog.Logger, error) {
	file := cfgFile
	if file == "" {
		file = os.Getenv("REGIDX_CONFIG_FILE")
	}

	cfg, err := config.Load(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	store := index.Open(cfg, logger)
	if store.Locked() {
		logger.Warn("Index store is locked; reads work but mutations will fail",
			"index_path", store.IndexPath())
	}

	return store, logger, nil
}
