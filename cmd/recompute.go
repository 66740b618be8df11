package cmd

import (
	"fmt"

	"stocktake-manager/core/config"
	"stocktake-manager/core/database"
	"stocktake-manager/core/logger"
	"stocktake-manager/feature/counting"
	"stocktake-manager/feature/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var recomputeSheetID uint

// recomputeCmd re-aggregates physical quantities for a sheet from the CLI,
// for operators who want to refresh variances without touching the API.
var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute physical quantities and variances for a sheet",
	Long: `Re-aggregates all finalized count sessions into the sheet's physical
column, with finalized recount sessions taking precedence for their scoped
products, and refreshes the variance columns.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("database connection required: %w", err)
		}

		sessions := counting.NewService(logg, db)
		svc := reconcile.NewService(logg, db, sessions)

		result, err := svc.RecomputePhysical(cmd.Context(), recomputeSheetID)
		if err != nil {
			return fmt.Errorf("recompute failed: %w", err)
		}

		logg.Info("Recompute finished",
			zap.Uint("sheet_id", recomputeSheetID),
			zap.Int("products", result.Products),
			zap.Int("finalized_sessions", result.FinalizedSessions),
			zap.Int("recount_sessions", result.RecountSessions),
			zap.Int("recount_products", result.RecountProducts),
		)
		return nil
	},
}

func init() {
	recomputeCmd.Flags().UintVar(&recomputeSheetID, "sheet", 0, "Sheet ID to recompute")
	_ = recomputeCmd.MarkFlagRequired("sheet")
	RootCmd.AddCommand(recomputeCmd)
}
