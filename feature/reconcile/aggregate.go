package reconcile

import (
	"context"
	"sync"

	catalogmodels "stocktake-manager/feature/catalog/models"
	countingmodels "stocktake-manager/feature/counting/models"
	"stocktake-manager/feature/reconcile/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// sheetLocks serializes recomputes per sheet. Two concurrent recomputes of
// the same sheet would produce the same rows anyway, but interleaved writes
// must never be observable.
type sheetLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newSheetLocks() *sheetLocks {
	return &sheetLocks{locks: make(map[uint]*sync.Mutex)}
}

func (s *sheetLocks) Lock(sheetID uint) *sync.Mutex {
	s.mu.Lock()
	m, ok := s.locks[sheetID]
	if !ok {
		m = &sync.Mutex{}
		s.locks[sheetID] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m
}

// RecomputeResult summarizes one physical aggregation run.
type RecomputeResult struct {
	Products          int `json:"products"`
	FinalizedSessions int `json:"finalized_sessions"`
	RecountSessions   int `json:"recount_sessions"`
	RecountProducts   int `json:"recount_products"`
}

// productTotal is a scan target for the grouped quantity queries.
type productTotal struct {
	ProductID uint
	Total     int
}

// RecomputePhysical recomputes the physical quantity and variance of every
// catalog product on a sheet. Finalized recount sessions spawned from this
// sheet take precedence for the products in their scope: their totals
// replace, rather than augment, the normal aggregate there. Every other
// product sums across all finalized sessions. The whole run is one
// transaction and is idempotent: rerunning it without intervening session
// changes yields identical lines.
func (s *Service) RecomputePhysical(ctx context.Context, sheetID uint) (*RecomputeResult, error) {
	defer s.locks.Lock(sheetID).Unlock()

	result := &RecomputeResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.getSheet(tx, sheetID); err != nil {
			return err
		}

		// Step 1: finalized recount sessions belonging to this sheet.
		var recountIDs []uint
		err := tx.Model(&countingmodels.CountSession{}).
			Where("origin_sheet_id = ? AND state = ?", sheetID, countingmodels.SessionFinalized).
			Pluck("id", &recountIDs).Error
		if err != nil {
			return err
		}
		result.RecountSessions = len(recountIDs)

		// Step 2: the union of their scopes.
		physical := make(map[uint]int)
		if len(recountIDs) > 0 {
			var scopeIDs []uint
			err := tx.Model(&countingmodels.SessionScope{}).
				Distinct("product_id").
				Where("session_id IN ?", recountIDs).
				Pluck("product_id", &scopeIDs).Error
			if err != nil {
				return err
			}
			result.RecountProducts = len(scopeIDs)

			// Step 3: recount totals override for scoped products. A scoped
			// product with no counted item is an explicit zero, not a
			// fallthrough to the normal aggregate.
			for _, id := range scopeIDs {
				physical[id] = 0
			}

			var totals []productTotal
			err = tx.Model(&countingmodels.CountItem{}).
				Select("count_items.product_id AS product_id, SUM(count_items.quantity) AS total").
				Joins("JOIN session_scopes ON session_scopes.session_id = count_items.session_id AND session_scopes.product_id = count_items.product_id").
				Where("count_items.session_id IN ?", recountIDs).
				Group("count_items.product_id").
				Scan(&totals).Error
			if err != nil {
				return err
			}
			for _, t := range totals {
				physical[t.ProductID] = t.Total
			}
		}

		// Step 4: every other product sums across all finalized sessions,
		// recount sessions of other sheets included.
		var finalizedIDs []uint
		err = tx.Model(&countingmodels.CountSession{}).
			Where("state = ?", countingmodels.SessionFinalized).
			Pluck("id", &finalizedIDs).Error
		if err != nil {
			return err
		}
		result.FinalizedSessions = len(finalizedIDs)

		if len(finalizedIDs) > 0 {
			var totals []productTotal
			err = tx.Model(&countingmodels.CountItem{}).
				Select("product_id, SUM(quantity) AS total").
				Where("session_id IN ?", finalizedIDs).
				Group("product_id").
				Scan(&totals).Error
			if err != nil {
				return err
			}
			for _, t := range totals {
				if _, overridden := physical[t.ProductID]; !overridden {
					physical[t.ProductID] = t.Total
				}
			}
		}

		// Step 5: one line per catalog product, preserving system
		// quantities, rewriting physical and the derived diffs.
		var productIDs []uint
		if err := tx.Model(&catalogmodels.Product{}).Order("id").Pluck("id", &productIDs).Error; err != nil {
			return err
		}
		result.Products = len(productIDs)

		var lines []models.ReconciliationLine
		if err := tx.Where("sheet_id = ?", sheetID).Find(&lines).Error; err != nil {
			return err
		}
		lineByProduct := make(map[uint]models.ReconciliationLine, len(lines))
		for _, l := range lines {
			lineByProduct[l.ProductID] = l
		}

		for _, productID := range productIDs {
			qty := physical[productID]
			line, exists := lineByProduct[productID]
			if !exists {
				line = models.ReconciliationLine{SheetID: sheetID, ProductID: productID}
			}
			line.PhysicalQty = qty
			line.RecalcDiffs()

			if exists {
				err = tx.Model(&models.ReconciliationLine{}).
					Where("id = ?", line.ID).
					Updates(map[string]any{
						"physical_qty": line.PhysicalQty,
						"diff1":        line.Diff1,
						"diff2":        line.Diff2,
					}).Error
			} else {
				err = tx.Create(&line).Error
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Physical quantities recomputed",
		zap.Uint("sheet_id", sheetID),
		zap.Int("products", result.Products),
		zap.Int("finalized_sessions", result.FinalizedSessions),
		zap.Int("recount_sessions", result.RecountSessions),
	)
	return result, nil
}
