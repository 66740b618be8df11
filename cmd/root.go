package cmd

import (
	"fmt"
	"os"

	"stocktake-manager/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "stocktake-manager",
	Short: "Stocktake Manager Service",
	Long: `Stocktake Manager runs physical inventory counts against a movement
ledger and reconciles the results with external system snapshots.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with "debug" level for ISO8601 timestamps; this is
		// a CLI tool, not a service, when a subcommand fails here.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
