package database

import (
	catalogmodels "stocktake-manager/feature/catalog/models"
	countingmodels "stocktake-manager/feature/counting/models"
	reconcilemodels "stocktake-manager/feature/reconcile/models"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for every engine-owned table.
// The catalog table is included so a fresh database is usable end to end,
// even though the engine itself only reads it.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&catalogmodels.Product{},
		&countingmodels.CountSession{},
		&countingmodels.SessionScope{},
		&countingmodels.CountItem{},
		&countingmodels.Movement{},
		&reconcilemodels.ReconciliationSheet{},
		&reconcilemodels.SystemSnapshot{},
		&reconcilemodels.ReconciliationLine{},
	)
}

// Tables lists the table names AutoMigrate manages, in creation order.
// The verify command uses it for schema presence checks.
func Tables() []string {
	return []string{
		"products",
		"count_sessions",
		"session_scopes",
		"count_items",
		"movements",
		"reconciliation_sheets",
		"system_snapshots",
		"reconciliation_lines",
	}
}
