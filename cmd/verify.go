package cmd

import (
	"fmt"

	"stocktake-manager/core/config"
	"stocktake-manager/core/database"
	"stocktake-manager/core/logger"
	"stocktake-manager/feature/counting"
	countingmodels "stocktake-manager/feature/counting/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verifySessionID uint

// verifyCmd checks the database schema and replays session ledgers against
// their cached quantities.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify schema and ledger consistency",
	Long: `Checks that every engine table exists, then replays the movement
ledger of each session (or one session with --session) and compares the
result against the cached count items.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

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

		missing, err := database.CheckSchema(db)
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		if len(missing) > 0 {
			logg.Warn("Missing tables detected", zap.Strings("missing", missing))
			logg.Info("Run the start command to migrate the schema.")
			return nil
		}
		logg.Info("Schema is intact.")

		svc := counting.NewService(logg, db)

		var sessionIDs []uint
		if verifySessionID != 0 {
			sessionIDs = []uint{verifySessionID}
		} else {
			err := db.WithContext(ctx).
				Model(&countingmodels.CountSession{}).
				Order("id").
				Pluck("id", &sessionIDs).Error
			if err != nil {
				return fmt.Errorf("session listing failed: %w", err)
			}
		}

		inconsistent := 0
		for _, id := range sessionIDs {
			report, err := svc.VerifyLedger(ctx, id)
			if err != nil {
				return fmt.Errorf("ledger verification failed for session %d: %w", id, err)
			}
			if report.Consistent() {
				logg.Info("Ledger consistent",
					zap.Uint("session_id", id),
					zap.Int("products", report.Products),
				)
				continue
			}
			inconsistent++
			logg.Warn("Ledger mismatches found",
				zap.Uint("session_id", id),
				zap.Int("mismatches", len(report.Mismatches)),
			)
			for _, m := range report.Mismatches {
				logg.Warn("Mismatch",
					zap.Uint("product_id", m.ProductID),
					zap.Int("item_quantity", m.ItemQuantity),
					zap.Bool("item_present", m.ItemPresent),
					zap.Int("replay_quantity", m.ReplayQuantity),
					zap.Bool("replay_present", m.ReplayPresent),
				)
			}
		}

		if inconsistent > 0 {
			return fmt.Errorf("%d of %d sessions have ledger mismatches", inconsistent, len(sessionIDs))
		}
		logg.Info("All ledgers consistent", zap.Int("sessions", len(sessionIDs)))
		return nil
	},
}

func init() {
	verifyCmd.Flags().UintVar(&verifySessionID, "session", 0, "Verify a single session")
	RootCmd.AddCommand(verifyCmd)
}
