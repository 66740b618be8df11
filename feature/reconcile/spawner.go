package reconcile

import (
	"context"
	"errors"
	"fmt"

	"stocktake-manager/feature/counting"
	countingmodels "stocktake-manager/feature/counting/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecountInput selects the products to recount and, optionally, an existing
// open recount session to extend instead of creating a new one. When a new
// session is spawned, SessionNumber labels it within the 1..3 count tags
// and defaults to 1.
type RecountInput struct {
	ProductIDs    []uint
	SessionID     uint
	Name          string
	SessionNumber int
	CreatedBy     string
}

// RecountResult reports the target session and how many products were newly
// added to its scope.
type RecountResult struct {
	SessionID uint `json:"session_id"`
	Added     int  `json:"added"`
	Created   bool `json:"created"`
}

// SpawnRecount creates a scoped recount session for the selected products,
// or extends an existing one when SessionID is set. The extension target
// must be an open recount session belonging to this sheet; products already
// in its scope are skipped, not errors. The scoped items start uncounted,
// never pre-filled from earlier sessions.
func (s *Service) SpawnRecount(ctx context.Context, sheetID uint, in RecountInput) (*RecountResult, error) {
	ids := dedupIDs(in.ProductIDs)
	if len(ids) == 0 {
		return nil, ErrNoProducts
	}

	sheet, err := s.getSheet(s.db.WithContext(ctx), sheetID)
	if err != nil {
		return nil, err
	}

	if in.SessionID != 0 {
		added, err := s.extendRecount(ctx, sheetID, in.SessionID, ids)
		if err != nil {
			return nil, err
		}
		s.logger.Info("Recount session extended",
			zap.Uint("sheet_id", sheetID),
			zap.Uint("session_id", in.SessionID),
			zap.Int("added", added),
		)
		return &RecountResult{SessionID: in.SessionID, Added: added}, nil
	}

	name := in.Name
	if name == "" {
		name = "Recount " + sheet.Name
		if sheet.Name == "" {
			name = fmt.Sprintf("Recount sheet %d", sheetID)
		}
	}
	number := in.SessionNumber
	if number == 0 {
		number = 1
	}
	session, err := s.sessions.CreateSession(ctx, counting.CreateSessionInput{
		Name:          name,
		Number:        number,
		Scope:         ids,
		OriginSheetID: &sheetID,
		CreatedBy:     in.CreatedBy,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Recount session spawned",
		zap.Uint("sheet_id", sheetID),
		zap.Uint("session_id", session.ID),
		zap.Int("products", len(ids)),
	)
	return &RecountResult{SessionID: session.ID, Added: len(ids), Created: true}, nil
}

func (s *Service) extendRecount(ctx context.Context, sheetID, sessionID uint, ids []uint) (int, error) {
	var added int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session countingmodels.CountSession
		if err := tx.First(&session, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidTarget
			}
			return err
		}
		if !session.IsOpen() || session.OriginSheetID == nil || *session.OriginSheetID != sheetID {
			return ErrInvalidTarget
		}

		entries := make([]countingmodels.SessionScope, 0, len(ids))
		for _, id := range ids {
			entries = append(entries, countingmodels.SessionScope{SessionID: sessionID, ProductID: id})
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entries)
		if res.Error != nil {
			return res.Error
		}
		added = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(added), nil
}

func dedupIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
