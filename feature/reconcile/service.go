package reconcile

import (
	"context"
	"errors"
	"time"

	catalogmodels "stocktake-manager/feature/catalog/models"
	"stocktake-manager/feature/counting"
	"stocktake-manager/feature/reconcile/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service owns reconciliation sheets: snapshot ingestion, the physical
// aggregator, the variance calculator, and the recount spawner.
type Service struct {
	logger   *zap.Logger
	db       *gorm.DB
	sessions *counting.Service
	locks    *sheetLocks
}

// NewService creates a new reconciliation service. The counting service is
// used by the recount spawner to create scoped sessions.
func NewService(logger *zap.Logger, db *gorm.DB, sessions *counting.Service) *Service {
	return &Service{
		logger:   logger,
		db:       db,
		sessions: sessions,
		locks:    newSheetLocks(),
	}
}

// CreateSheetInput carries the fields for a new reconciliation sheet.
type CreateSheetInput struct {
	Name         string
	System1Label string
	System2Label string
	Owner        string
	Notes        string
}

// CreateSheet creates an empty reconciliation sheet. The engine supports
// any number of sheets.
func (s *Service) CreateSheet(ctx context.Context, in CreateSheetInput) (*models.ReconciliationSheet, error) {
	sheet := &models.ReconciliationSheet{
		Name:         in.Name,
		System1Label: in.System1Label,
		System2Label: in.System2Label,
		Owner:        in.Owner,
		Notes:        in.Notes,
	}
	if sheet.System1Label == "" {
		sheet.System1Label = "System 1"
	}
	if sheet.System2Label == "" {
		sheet.System2Label = "System 2"
	}
	if err := s.db.WithContext(ctx).Create(sheet).Error; err != nil {
		return nil, err
	}
	return sheet, nil
}

// ListSheets returns all sheets, newest first.
func (s *Service) ListSheets(ctx context.Context) ([]models.ReconciliationSheet, error) {
	var sheets []models.ReconciliationSheet
	err := s.db.WithContext(ctx).
		Preload("Snapshots").
		Order("created_at DESC").
		Find(&sheets).Error
	if err != nil {
		return nil, err
	}
	return sheets, nil
}

func (s *Service) getSheet(tx *gorm.DB, id uint) (*models.ReconciliationSheet, error) {
	var sheet models.ReconciliationSheet
	if err := tx.First(&sheet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSheetNotFound
		}
		return nil, err
	}
	return &sheet, nil
}

// LineDetail joins a variance line with its product and the value variance
// (price × quantity diff) per system.
type LineDetail struct {
	models.ReconciliationLine
	Barcode     string          `json:"barcode"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	ValueDiff1  decimal.Decimal `json:"value_diff1"`
	ValueDiff2  decimal.Decimal `json:"value_diff2"`
}

// SheetDetail is the full read model of a sheet.
type SheetDetail struct {
	Sheet     models.ReconciliationSheet `json:"sheet"`
	Snapshots []models.SystemSnapshot    `json:"snapshots"`
	Lines     []LineDetail               `json:"lines"`
}

// GetSheet returns a sheet with its snapshots and variance lines, each
// line enriched with product identity and value variance.
func (s *Service) GetSheet(ctx context.Context, id uint) (*SheetDetail, error) {
	db := s.db.WithContext(ctx)

	sheet, err := s.getSheet(db, id)
	if err != nil {
		return nil, err
	}

	var snapshots []models.SystemSnapshot
	if err := db.Where("sheet_id = ?", id).Order("slot").Find(&snapshots).Error; err != nil {
		return nil, err
	}

	var lines []models.ReconciliationLine
	if err := db.Where("sheet_id = ?", id).Order("product_id").Find(&lines).Error; err != nil {
		return nil, err
	}

	var products []catalogmodels.Product
	if err := db.Find(&products).Error; err != nil {
		return nil, err
	}
	productByID := make(map[uint]catalogmodels.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}

	detail := &SheetDetail{Sheet: *sheet, Snapshots: snapshots, Lines: make([]LineDetail, 0, len(lines))}
	for _, line := range lines {
		d := LineDetail{ReconciliationLine: line}
		if p, ok := productByID[line.ProductID]; ok {
			d.Barcode = p.Barcode
			d.ProductName = p.Name
			d.Price = p.Price
			d.ValueDiff1 = p.Price.Mul(decimal.NewFromInt(int64(line.Diff1)))
			d.ValueDiff2 = p.Price.Mul(decimal.NewFromInt(int64(line.Diff2)))
		}
		detail.Lines = append(detail.Lines, d)
	}
	return detail, nil
}

// IngestSnapshot replaces the quantities of one external-system slot on a
// sheet. The map keys are catalog product ids; identifier resolution from
// uploaded files happens upstream. Lines are created for previously unseen
// products (other system zero, physical kept); physical and diff columns
// are owned by RecomputePhysical and never touched here.
func (s *Service) IngestSnapshot(ctx context.Context, sheetID uint, slot, source string, quantities map[uint]int) (*models.SystemSnapshot, error) {
	if !models.ValidSlot(slot) {
		return nil, ErrInvalidSlot
	}

	column := "system1_qty"
	if slot == models.SlotSystem2 {
		column = "system2_qty"
	}

	var snapshot models.SystemSnapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.getSheet(tx, sheetID); err != nil {
			return err
		}

		// At most one snapshot per (sheet, slot); reloading replaces it.
		err := tx.Where("sheet_id = ? AND slot = ?", sheetID, slot).First(&snapshot).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			snapshot = models.SystemSnapshot{SheetID: sheetID, Slot: slot}
		} else if err != nil {
			return err
		}
		snapshot.Source = source
		snapshot.Entries = len(quantities)
		snapshot.LoadedAt = time.Now()
		if err := tx.Save(&snapshot).Error; err != nil {
			return err
		}

		for productID, qty := range quantities {
			var line models.ReconciliationLine
			err := tx.Where("sheet_id = ? AND product_id = ?", sheetID, productID).First(&line).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				line = models.ReconciliationLine{SheetID: sheetID, ProductID: productID}
				if slot == models.SlotSystem1 {
					line.System1Qty = qty
				} else {
					line.System2Qty = qty
				}
				if err := tx.Create(&line).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			default:
				if err := tx.Model(&line).UpdateColumn(column, qty).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Snapshot ingested",
		zap.Uint("sheet_id", sheetID),
		zap.String("slot", slot),
		zap.Int("entries", snapshot.Entries),
	)
	return &snapshot, nil
}
