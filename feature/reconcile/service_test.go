package reconcile

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"stocktake-manager/core/database"
	catalogmodels "stocktake-manager/feature/catalog/models"
	"stocktake-manager/feature/counting"
	countingmodels "stocktake-manager/feature/counting/models"
	"stocktake-manager/feature/reconcile/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *counting.Service) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	logger := zap.NewNop()
	sessions := counting.NewService(logger, db)
	return NewService(logger, db, sessions), sessions
}

func seedCatalog(t *testing.T, svc *Service, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		require.NoError(t, svc.db.Create(&catalogmodels.Product{
			Name: fmt.Sprintf("Product %d", i),
		}).Error)
	}
}

func newSheet(t *testing.T, svc *Service) *models.ReconciliationSheet {
	t.Helper()
	sheet, err := svc.CreateSheet(context.Background(), CreateSheetInput{Name: "Monthly close"})
	require.NoError(t, err)
	return sheet
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func countAndFinalize(t *testing.T, sessions *counting.Service, name string, quantities map[uint]int) *countingmodels.CountSession {
	t.Helper()
	ctx := context.Background()
	session, err := sessions.CreateSession(ctx, counting.CreateSessionInput{Name: name, Number: 1})
	require.NoError(t, err)
	for productID, qty := range quantities {
		_, err := sessions.Increment(ctx, session.ID, productID, qty, "ana")
		require.NoError(t, err)
	}
	require.NoError(t, sessions.FinalizeSession(ctx, session.ID, "ana"))
	return session
}

func TestCreateSheet_DefaultLabels(t *testing.T) {
	svc, _ := newTestService(t)

	sheet := newSheet(t, svc)
	assert.Equal(t, "System 1", sheet.System1Label)
	assert.Equal(t, "System 2", sheet.System2Label)
}

func TestIngestSnapshot_InvalidSlot(t *testing.T) {
	svc, _ := newTestService(t)
	sheet := newSheet(t, svc)

	_, err := svc.IngestSnapshot(context.Background(), sheet.ID, "system3", "erp.csv", map[uint]int{1: 5})
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestIngestSnapshot_UnknownSheet(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.IngestSnapshot(context.Background(), 42, models.SlotSystem1, "erp.csv", map[uint]int{1: 5})
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestIngestSnapshot_WritesOnlyItsColumn(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	sheet := newSheet(t, svc)

	_, err := svc.IngestSnapshot(ctx, sheet.ID, models.SlotSystem1, "erp.csv", map[uint]int{1: 5, 2: 7})
	require.NoError(t, err)
	_, err = svc.IngestSnapshot(ctx, sheet.ID, models.SlotSystem2, "pos.csv", map[uint]int{1: 6})
	require.NoError(t, err)

	var line models.ReconciliationLine
	require.NoError(t, svc.db.Where("sheet_id = ? AND product_id = ?", sheet.ID, 1).First(&line).Error)
	assert.Equal(t, 5, line.System1Qty)
	assert.Equal(t, 6, line.System2Qty)
	assert.Equal(t, 0, line.PhysicalQty)

	// Reloading a slot replaces its quantities and its snapshot record.
	_, err = svc.IngestSnapshot(ctx, sheet.ID, models.SlotSystem1, "erp-v2.csv", map[uint]int{1: 9})
	require.NoError(t, err)

	require.NoError(t, svc.db.Where("sheet_id = ? AND product_id = ?", sheet.ID, 1).First(&line).Error)
	assert.Equal(t, 9, line.System1Qty)
	assert.Equal(t, 6, line.System2Qty)

	var snapshots []models.SystemSnapshot
	require.NoError(t, svc.db.Where("sheet_id = ?", sheet.ID).Find(&snapshots).Error)
	assert.Len(t, snapshots, 2)
}

func TestRecomputePhysical_SumsFinalizedSessions(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()
	seedCatalog(t, svc, 2)
	sheet := newSheet(t, svc)

	countAndFinalize(t, sessions, "First pass", map[uint]int{1: 10, 2: 4})
	countAndFinalize(t, sessions, "Second pass", map[uint]int{1: 5})

	// Open and cancelled sessions never contribute.
	open, err := sessions.CreateSession(ctx, counting.CreateSessionInput{Name: "Open", Number: 1})
	require.NoError(t, err)
	_, err = sessions.Increment(ctx, open.ID, 1, 100, "ana")
	require.NoError(t, err)

	result, err := svc.RecomputePhysical(ctx, sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Products)
	assert.Equal(t, 2, result.FinalizedSessions)
	assert.Equal(t, 0, result.RecountSessions)

	detail, err := svc.GetSheet(ctx, sheet.ID)
	require.NoError(t, err)
	require.Len(t, detail.Lines, 2)
	assert.Equal(t, 15, detail.Lines[0].PhysicalQty)
	assert.Equal(t, 4, detail.Lines[1].PhysicalQty)
}

func TestRecomputePhysical_RecountOverrides(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()
	seedCatalog(t, svc, 2)
	sheet := newSheet(t, svc)

	// Normal sessions say product 1 = 30 in total.
	countAndFinalize(t, sessions, "First pass", map[uint]int{1: 20, 2: 8})
	countAndFinalize(t, sessions, "Second pass", map[uint]int{1: 10})

	// A finalized recount of product 1 says 25. The recount replaces the
	// aggregate for product 1; it does not add to it.
	spawn, err := svc.SpawnRecount(ctx, sheet.ID, RecountInput{ProductIDs: []uint{1}})
	require.NoError(t, err)
	_, err = sessions.Increment(ctx, spawn.SessionID, 1, 25, "ana")
	require.NoError(t, err)
	require.NoError(t, sessions.FinalizeSession(ctx, spawn.SessionID, "ana"))

	result, err := svc.RecomputePhysical(ctx, sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.RecountSessions)
	assert.Equal(t, 1, result.RecountProducts)

	detail, err := svc.GetSheet(ctx, sheet.ID)
	require.NoError(t, err)
	require.Len(t, detail.Lines, 2)
	assert.Equal(t, 25, detail.Lines[0].PhysicalQty)
	// Product 2 is outside the recount scope and keeps the normal sum,
	// which still excludes nothing: finalized sessions only.
	assert.Equal(t, 8, detail.Lines[1].PhysicalQty)
}

func TestRecomputePhysical_ScopedButUncountedIsZero(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()
	seedCatalog(t, svc, 1)
	sheet := newSheet(t, svc)

	countAndFinalize(t, sessions, "First pass", map[uint]int{1: 12})

	// Recount scoped to product 1 but finalized without counting it: the
	// shelf was checked and found empty. That is an authoritative zero.
	spawn, err := svc.SpawnRecount(ctx, sheet.ID, RecountInput{ProductIDs: []uint{1}})
	require.NoError(t, err)
	require.NoError(t, sessions.FinalizeSession(ctx, spawn.SessionID, "ana"))

	_, err = svc.RecomputePhysical(ctx, sheet.ID)
	require.NoError(t, err)

	detail, err := svc.GetSheet(ctx, sheet.ID)
	require.NoError(t, err)
	require.Len(t, detail.Lines, 1)
	assert.Equal(t, 0, detail.Lines[0].PhysicalQty)
}

func TestRecomputePhysical_Idempotent(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()
	seedCatalog(t, svc, 2)
	sheet := newSheet(t, svc)

	countAndFinalize(t, sessions, "First pass", map[uint]int{1: 10, 2: 4})
	_, err := svc.IngestSnapshot(ctx, sheet.ID, models.SlotSystem1, "erp.csv", map[uint]int{1: 12})
	require.NoError(t, err)

	first, err := svc.RecomputePhysical(ctx, sheet.ID)
	require.NoError(t, err)
	second, err := svc.RecomputePhysical(ctx, sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var lines []models.ReconciliationLine
	require.NoError(t, svc.db.Where("sheet_id = ?", sheet.ID).Order("product_id").Find(&lines).Error)
	require.Len(t, lines, 2)
	assert.Equal(t, 10, lines[0].PhysicalQty)
	assert.Equal(t, -2, lines[0].Diff1)
	assert.Equal(t, 10, lines[0].Diff2)
}

func TestRecomputePhysical_DiffInvariant(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()
	seedCatalog(t, svc, 3)
	sheet := newSheet(t, svc)

	countAndFinalize(t, sessions, "First pass", map[uint]int{1: 10, 2: 4, 3: 0})
	_, err := svc.IngestSnapshot(ctx, sheet.ID, models.SlotSystem1, "erp.csv", map[uint]int{1: 12, 2: 4})
	require.NoError(t, err)
	_, err = svc.IngestSnapshot(ctx, sheet.ID, models.SlotSystem2, "pos.csv", map[uint]int{1: 8, 3: 1})
	require.NoError(t, err)

	_, err = svc.RecomputePhysical(ctx, sheet.ID)
	require.NoError(t, err)

	var lines []models.ReconciliationLine
	require.NoError(t, svc.db.Where("sheet_id = ?", sheet.ID).Find(&lines).Error)
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.Equal(t, line.PhysicalQty-line.System1Qty, line.Diff1, "product %d", line.ProductID)
		assert.Equal(t, line.PhysicalQty-line.System2Qty, line.Diff2, "product %d", line.ProductID)
	}
}

func TestGetSheet_ValueVariance(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.db.Create(&catalogmodels.Product{
		Name:  "Yerba Mate 1kg",
		Price: decimalFromString(t, "150.50"),
	}).Error)
	sheet := newSheet(t, svc)

	countAndFinalize(t, sessions, "First pass", map[uint]int{1: 10})
	_, err := svc.IngestSnapshot(ctx, sheet.ID, models.SlotSystem1, "erp.csv", map[uint]int{1: 12})
	require.NoError(t, err)
	_, err = svc.RecomputePhysical(ctx, sheet.ID)
	require.NoError(t, err)

	detail, err := svc.GetSheet(ctx, sheet.ID)
	require.NoError(t, err)
	require.Len(t, detail.Lines, 1)

	line := detail.Lines[0]
	assert.Equal(t, -2, line.Diff1)
	// -2 units at 150.50 each.
	assert.Equal(t, "-301", line.ValueDiff1.String())
	assert.Equal(t, "Yerba Mate 1kg", line.ProductName)
}
