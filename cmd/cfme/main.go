package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/v2v-test/integration-tests/internal/appliance"
	"github.com/v2v-test/integration-tests/internal/config"
	"github.com/v2v-test/integration-tests/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string
	timeout    time.Duration

	cfg    *config.Config
	logger *zap.Logger

	// bootAppliance is replaced in tests to run without Chrome.
	bootAppliance = appliance.Boot
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cfme",
	Short: "Drive an appliance web console and REST API",
	Long: `cfme drives the web console of an infrastructure management appliance
through named navigation steps, and its REST API through thin collection
bindings. Records created through the API are kept in a local ledger so
"cfme cleanup" can remove them after an aborted run.

The appliance is configured by --config (default cfme.yaml) and the
CFME_URL, CFME_USERNAME and CFME_PASSWORD environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		logger, err = logging.New(cfg.Logging)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "cfme.yaml", "Config file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute, "Operation timeout")

	rootCmd.AddCommand(navCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(godefCmd)
	rootCmd.AddCommand(v2vCmd)
	rootCmd.AddCommand(dialogCmd)
	rootCmd.AddCommand(cleanupCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withAppliance boots the appliance, runs fn under the operation timeout and
// shuts everything down. SIGINT and SIGTERM cancel the run.
func withAppliance(fn func(ctx context.Context, a *appliance.Appliance) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootAppliance(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		// Shutdown gets its own deadline: ctx may already be cancelled.
		closeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			logger.Warn("shutdown failed", zap.Error(err))
		}
	}()
	return fn(ctx, a)
}
