package counting

import (
	"context"
	"errors"
	"time"

	"stocktake-manager/feature/counting/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The three ledger mutations below share one shape: read the current
// CountItem, compute the new state, append a Movement, and write the item,
// all inside a single transaction per (session, product) key. An in-process
// keyed mutex serializes same-key callers; on MySQL the item row is
// additionally locked FOR UPDATE so that multiple server instances cannot
// interleave either. Different keys never block each other.

// forUpdate applies a row lock on dialects that support it. SQLite
// serializes writers at the database level, so the clause is omitted there.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// openSession loads the session and checks it still accepts mutations.
func openSession(tx *gorm.DB, sessionID uint) (*models.CountSession, error) {
	var session models.CountSession
	if err := tx.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if !session.IsOpen() {
		return nil, ErrSessionNotOpen
	}
	return &session, nil
}

// Increment adds amount to the counted quantity of (session, product),
// creating the item at quantity=amount if it was never counted. This is
// the barcode-scan operation: repeated increments accumulate, they do not
// overwrite. Amount zero is valid and records a movement.
func (s *Service) Increment(ctx context.Context, sessionID, productID uint, amount int, editor string) (*models.CountItem, error) {
	if amount < 0 {
		return nil, ErrInvalidQuantity
	}

	defer s.locks.Lock(itemKey(sessionID, productID)).Unlock()

	var item models.CountItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := openSession(tx, sessionID); err != nil {
			return err
		}

		now := time.Now()
		err := forUpdate(tx).
			Where("session_id = ? AND product_id = ?", sessionID, productID).
			First(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CountItem{
				SessionID: sessionID,
				ProductID: productID,
				Quantity:  amount,
				CountedBy: editor,
				CountedAt: now,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			return appendMovement(tx, &item, models.MovementAdd, 0, amount, editor, now)
		case err != nil:
			return err
		}

		before := item.Quantity
		item.Quantity = before + amount
		item.CountedBy = editor
		item.CountedAt = now
		if err := tx.Model(&models.CountItem{}).Where("id = ?", item.ID).Updates(map[string]any{
			"quantity":   item.Quantity,
			"counted_by": editor,
			"counted_at": now,
		}).Error; err != nil {
			return err
		}
		return appendMovement(tx, &item, models.MovementModify, before, item.Quantity, editor, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Ledger increment",
		zap.Uint("session_id", sessionID),
		zap.Uint("product_id", productID),
		zap.Int("amount", amount),
		zap.Int("quantity", item.Quantity),
	)
	return &item, nil
}

// SetAbsolute overwrites the counted quantity of an existing item. This is
// the administrative correction: unlike Increment it does not accumulate,
// and it requires the item to exist. Setting zero keeps the row: a counted
// zero is a valid state, distinct from never counted.
func (s *Service) SetAbsolute(ctx context.Context, sessionID, productID uint, quantity int, editor string) (*models.CountItem, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	defer s.locks.Lock(itemKey(sessionID, productID)).Unlock()

	var item models.CountItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := openSession(tx, sessionID); err != nil {
			return err
		}

		err := forUpdate(tx).
			Where("session_id = ? AND product_id = ?", sessionID, productID).
			First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		if err != nil {
			return err
		}

		now := time.Now()
		before := item.Quantity
		item.Quantity = quantity
		item.CountedBy = editor
		item.CountedAt = now
		if err := tx.Model(&models.CountItem{}).Where("id = ?", item.ID).Updates(map[string]any{
			"quantity":   quantity,
			"counted_by": editor,
			"counted_at": now,
		}).Error; err != nil {
			return err
		}
		return appendMovement(tx, &item, models.MovementModify, before, quantity, editor, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Ledger absolute correction",
		zap.Uint("session_id", sessionID),
		zap.Uint("product_id", productID),
		zap.Int("quantity", item.Quantity),
		zap.String("editor", editor),
	)
	return &item, nil
}

// Remove deletes the item row for (session, product) after appending the
// delete movement. The movement outlives the row: the ledger keeps the
// full history even though the projection forgets the product.
func (s *Service) Remove(ctx context.Context, sessionID, productID uint, editor string) error {
	defer s.locks.Lock(itemKey(sessionID, productID)).Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := openSession(tx, sessionID); err != nil {
			return err
		}

		var item models.CountItem
		err := forUpdate(tx).
			Where("session_id = ? AND product_id = ?", sessionID, productID).
			First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		if err != nil {
			return err
		}

		now := time.Now()
		if err := appendMovement(tx, &item, models.MovementDelete, item.Quantity, 0, editor, now); err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		return err
	}

	s.logger.Info("Ledger item removed",
		zap.Uint("session_id", sessionID),
		zap.Uint("product_id", productID),
		zap.String("editor", editor),
	)
	return nil
}

func appendMovement(tx *gorm.DB, item *models.CountItem, kind string, before, after int, editor string, at time.Time) error {
	return tx.Create(&models.Movement{
		SessionID:  item.SessionID,
		ProductID:  item.ProductID,
		Editor:     editor,
		Kind:       kind,
		Before:     before,
		After:      after,
		Delta:      after - before,
		RecordedAt: at,
	}).Error
}
