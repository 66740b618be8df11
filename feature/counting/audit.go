package counting

import (
	"context"

	"stocktake-manager/feature/counting/models"

	"go.uber.org/zap"
)

// ListMovements returns a session's movements, oldest first, optionally
// filtered by kind. The log is append-only; this is pure read access for
// the audit screens.
func (s *Service) ListMovements(ctx context.Context, sessionID uint, kind string, limit, offset int) ([]models.Movement, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 1000 {
		limit = 200
	}

	db := s.db.WithContext(ctx).Where("session_id = ?", sessionID)
	if kind != "" {
		db = db.Where("kind = ?", kind)
	}

	var movements []models.Movement
	err := db.Order("recorded_at, id").Limit(limit).Offset(offset).Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// MovementSummary aggregates a session's ledger activity.
type MovementSummary struct {
	Total      int64            `json:"total"`
	ByKind     map[string]int64 `json:"by_kind"`
	ByEditor   map[string]int64 `json:"by_editor"`
	TotalDelta int64            `json:"total_delta"`
}

// SummarizeMovements returns per-kind and per-editor counts plus the net
// quantity change for a session's ledger.
func (s *Service) SummarizeMovements(ctx context.Context, sessionID uint) (*MovementSummary, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	summary := &MovementSummary{
		ByKind:   make(map[string]int64),
		ByEditor: make(map[string]int64),
	}

	type bucket struct {
		Key   string
		Count int64
		Delta int64
	}

	var kinds []bucket
	err := s.db.WithContext(ctx).Model(&models.Movement{}).
		Where("session_id = ?", sessionID).
		Select("kind AS key, COUNT(*) AS count, SUM(delta) AS delta").
		Group("kind").
		Scan(&kinds).Error
	if err != nil {
		return nil, err
	}
	for _, b := range kinds {
		summary.ByKind[b.Key] = b.Count
		summary.Total += b.Count
		summary.TotalDelta += b.Delta
	}

	var editors []bucket
	err = s.db.WithContext(ctx).Model(&models.Movement{}).
		Where("session_id = ?", sessionID).
		Select("editor AS key, COUNT(*) AS count").
		Group("editor").
		Scan(&editors).Error
	if err != nil {
		return nil, err
	}
	for _, b := range editors {
		summary.ByEditor[b.Key] = b.Count
	}

	return summary, nil
}

// LedgerMismatch reports one (session, product) whose projection disagrees
// with its movement replay.
type LedgerMismatch struct {
	ProductID      uint `json:"product_id"`
	ReplayQuantity int  `json:"replay_quantity"`
	ReplayPresent  bool `json:"replay_present"`
	ItemQuantity   int  `json:"item_quantity"`
	ItemPresent    bool `json:"item_present"`
}

// LedgerReport is the result of verifying one session's ledger.
type LedgerReport struct {
	SessionID  uint             `json:"session_id"`
	Products   int              `json:"products"`
	Mismatches []LedgerMismatch `json:"mismatches,omitempty"`
}

// Consistent reports whether the projection matched the replay everywhere.
func (r *LedgerReport) Consistent() bool {
	return len(r.Mismatches) == 0
}

// VerifyLedger folds every product's movements and compares the result to
// the CountItem rows. A mismatch means the replay invariant was broken:
// a correctness bug, not a user error.
func (s *Service) VerifyLedger(ctx context.Context, sessionID uint) (*LedgerReport, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	var movements []models.Movement
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("recorded_at, id").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}

	byProduct := make(map[uint][]models.Movement)
	for _, m := range movements {
		byProduct[m.ProductID] = append(byProduct[m.ProductID], m)
	}

	var items []models.CountItem
	if err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).Find(&items).Error; err != nil {
		return nil, err
	}
	itemByProduct := make(map[uint]models.CountItem, len(items))
	for _, it := range items {
		itemByProduct[it.ProductID] = it
	}

	report := &LedgerReport{SessionID: sessionID, Products: len(byProduct)}
	for productID, log := range byProduct {
		replay := models.Replay(log)
		item, present := itemByProduct[productID]
		if replay.Present != present || (present && replay.Quantity != item.Quantity) {
			report.Mismatches = append(report.Mismatches, LedgerMismatch{
				ProductID:      productID,
				ReplayQuantity: replay.Quantity,
				ReplayPresent:  replay.Present,
				ItemQuantity:   item.Quantity,
				ItemPresent:    present,
			})
		}
	}

	// An item without any movement is also a broken invariant: rows only
	// ever come into existence through the ledger.
	for productID, item := range itemByProduct {
		if _, ok := byProduct[productID]; !ok {
			report.Mismatches = append(report.Mismatches, LedgerMismatch{
				ProductID:    productID,
				ItemQuantity: item.Quantity,
				ItemPresent:  true,
			})
		}
	}

	if !report.Consistent() {
		s.logger.Warn("Ledger verification found mismatches",
			zap.Uint("session_id", sessionID),
			zap.Int("mismatches", len(report.Mismatches)),
		)
	}
	return report, nil
}
