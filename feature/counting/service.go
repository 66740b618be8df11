package counting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	catalogmodels "stocktake-manager/feature/catalog/models"
	"stocktake-manager/feature/counting/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service owns count sessions and the movement ledger.
type Service struct {
	logger *zap.Logger
	db     *gorm.DB
	locks  *keyedMutex
}

// NewService creates a new counting service.
func NewService(logger *zap.Logger, db *gorm.DB) *Service {
	return &Service{
		logger: logger,
		db:     db,
		locks:  newKeyedMutex(),
	}
}

// CreateSessionInput carries the fields for a new count session.
type CreateSessionInput struct {
	Name          string
	Number        int
	Scope         []uint
	OriginSheetID *uint
	Notes         string
	CreatedBy     string
}

// CreateSession creates a new open session. The (name, number) pair must be
// unique; on collision a " (n)" suffix is appended, trying n=1,2,... until
// the pair is free. Scope product ids are deduplicated.
func (s *Service) CreateSession(ctx context.Context, in CreateSessionInput) (*models.CountSession, error) {
	if in.Number < 1 || in.Number > 3 {
		return nil, ErrInvalidNumber
	}
	base := strings.TrimSpace(in.Name)
	if base == "" {
		return nil, fmt.Errorf("session name is required")
	}

	session := &models.CountSession{
		Number:        in.Number,
		State:         models.SessionOpen,
		Notes:         in.Notes,
		OriginSheetID: in.OriginSheetID,
		CreatedBy:     in.CreatedBy,
		UpdatedBy:     in.CreatedBy,
		Scope:         scopeEntries(in.Scope),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		name, err := resolveUniqueName(tx, base, in.Number)
		if err != nil {
			return err
		}
		session.Name = name
		return tx.Create(session).Error
	})
	if err != nil {
		return nil, err
	}

	if session.Name != base {
		s.logger.Info("Session name adjusted to avoid collision",
			zap.String("requested", base),
			zap.String("assigned", session.Name),
		)
	}
	return session, nil
}

// resolveUniqueName finds the first free name for the (name, number) pair.
func resolveUniqueName(tx *gorm.DB, base string, number int) (string, error) {
	name := base
	for n := 1; ; n++ {
		var count int64
		err := tx.Model(&models.CountSession{}).
			Where("name = ? AND number = ?", name, number).
			Count(&count).Error
		if err != nil {
			return "", err
		}
		if count == 0 {
			return name, nil
		}
		name = fmt.Sprintf("%s (%d)", base, n)
	}
}

func scopeEntries(ids []uint) []models.SessionScope {
	seen := make(map[uint]struct{}, len(ids))
	entries := make([]models.SessionScope, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		entries = append(entries, models.SessionScope{ProductID: id})
	}
	return entries
}

// GetSession returns a session with its scope preloaded.
func (s *Service) GetSession(ctx context.Context, id uint) (*models.CountSession, error) {
	var session models.CountSession
	err := s.db.WithContext(ctx).Preload("Scope").First(&session, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// ListSessions returns all sessions, grouped by number, newest first.
func (s *Service) ListSessions(ctx context.Context) ([]models.CountSession, error) {
	var sessions []models.CountSession
	err := s.db.WithContext(ctx).
		Preload("Scope").
		Order("number, created_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListItems returns the counted items of a session, most recent first.
func (s *Service) ListItems(ctx context.Context, sessionID uint) ([]models.CountItem, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	var items []models.CountItem
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("counted_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FinalizeSession moves an open session to finalized and stamps the
// finalization time. The transition is a single guarded UPDATE, so two
// concurrent finalize calls cannot both succeed.
func (s *Service) FinalizeSession(ctx context.Context, id uint, editor string) error {
	return s.transition(ctx, id, editor, models.SessionFinalized, true)
}

// CancelSession moves an open session to cancelled. Cancelled sessions are
// excluded from all aggregation; their movements remain for audit.
func (s *Service) CancelSession(ctx context.Context, id uint, editor string) error {
	return s.transition(ctx, id, editor, models.SessionCancelled, false)
}

func (s *Service) transition(ctx context.Context, id uint, editor, state string, stampFinalized bool) error {
	updates := map[string]any{
		"state":      state,
		"updated_by": editor,
	}
	if stampFinalized {
		updates["finalized_at"] = time.Now()
	}

	res := s.db.WithContext(ctx).
		Model(&models.CountSession{}).
		Where("id = ? AND state = ?", id, models.SessionOpen).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Either the session does not exist or it already left the open
		// state; look once more to report the right condition.
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.CountSession{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrSessionNotFound
		}
		return ErrSessionNotOpen
	}

	s.logger.Info("Session state changed",
		zap.Uint("session_id", id),
		zap.String("state", state),
		zap.String("editor", editor),
	)
	return nil
}

// ExtendScope merges product ids into the scope of an open recount session.
// Ordinary sessions never change scope after creation, so a session without
// a sheet origin is rejected outright. Returns the number of ids that were
// actually new.
func (s *Service) ExtendScope(ctx context.Context, sessionID uint, productIDs []uint) (int, error) {
	entries := scopeEntries(productIDs)
	for i := range entries {
		entries[i].SessionID = sessionID
	}
	if len(entries) == 0 {
		return 0, nil
	}

	var added int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.CountSession
		if err := tx.First(&session, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		if !session.IsOpen() {
			return ErrSessionNotOpen
		}
		if !session.IsRecount() {
			return ErrNotRecount
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

// SessionStats summarizes counting progress for one session.
type SessionStats struct {
	ItemsCounted   int64   `json:"items_counted"`
	TotalQuantity  int64   `json:"total_quantity"`
	CatalogSize    int64   `json:"catalog_size"`
	PercentCounted float64 `json:"percent_counted"`
}

// Stats returns progress figures for a session: distinct products counted,
// total units, and coverage against the full catalog.
func (s *Service) Stats(ctx context.Context, sessionID uint) (*SessionStats, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var stats SessionStats

	if err := db.Model(&models.CountItem{}).Where("session_id = ?", sessionID).Count(&stats.ItemsCounted).Error; err != nil {
		return nil, err
	}

	var total *int64
	err := db.Model(&models.CountItem{}).
		Where("session_id = ?", sessionID).
		Select("SUM(quantity)").
		Scan(&total).Error
	if err != nil {
		return nil, err
	}
	if total != nil {
		stats.TotalQuantity = *total
	}

	if err := db.Model(&catalogmodels.Product{}).Count(&stats.CatalogSize).Error; err != nil {
		return nil, err
	}
	if stats.CatalogSize > 0 {
		stats.PercentCounted = float64(stats.ItemsCounted) / float64(stats.CatalogSize) * 100
	}
	return &stats, nil
}

// CurrentStock returns the counted quantity of a product in the most
// recently finalized session that contains it, or zero if it was never
// counted.
func (s *Service) CurrentStock(ctx context.Context, productID uint) (int, error) {
	var item models.CountItem
	err := s.db.WithContext(ctx).
		Joins("JOIN count_sessions ON count_sessions.id = count_items.session_id").
		Where("count_sessions.state = ? AND count_items.product_id = ?", models.SessionFinalized, productID).
		Order("count_sessions.finalized_at DESC").
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return item.Quantity, nil
}
