package counting

import (
	"context"
	"testing"

	catalogmodels "stocktake-manager/feature/catalog/models"
	"stocktake-manager/feature/counting/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession_InvalidNumber(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateSession(context.Background(), CreateSessionInput{Name: "Warehouse", Number: 0})
	assert.ErrorIs(t, err, ErrInvalidNumber)

	_, err = svc.CreateSession(context.Background(), CreateSessionInput{Name: "Warehouse", Number: 4})
	assert.ErrorIs(t, err, ErrInvalidNumber)
}

func TestCreateSession_NameCollision(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateSession(ctx, CreateSessionInput{Name: "Warehouse", Number: 1})
	require.NoError(t, err)
	assert.Equal(t, "Warehouse", first.Name)

	second, err := svc.CreateSession(ctx, CreateSessionInput{Name: "Warehouse", Number: 1})
	require.NoError(t, err)
	assert.Equal(t, "Warehouse (1)", second.Name)

	third, err := svc.CreateSession(ctx, CreateSessionInput{Name: "Warehouse", Number: 1})
	require.NoError(t, err)
	assert.Equal(t, "Warehouse (2)", third.Name)

	// Same name under a different number is no collision.
	recount, err := svc.CreateSession(ctx, CreateSessionInput{Name: "Warehouse", Number: 2})
	require.NoError(t, err)
	assert.Equal(t, "Warehouse", recount.Name)
}

func TestCreateSession_ScopeDeduplicated(t *testing.T) {
	svc := newTestService(t)

	session, err := svc.CreateSession(context.Background(), CreateSessionInput{
		Name:   "Aisle 3",
		Number: 1,
		Scope:  []uint{5, 7, 5, 9, 7},
	})
	require.NoError(t, err)

	loaded, err := svc.GetSession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{5, 7, 9}, loaded.ScopeIDs())
}

func TestFinalizeSession_OnlyOnce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, CreateSessionInput{Name: "Main", Number: 1})
	require.NoError(t, err)

	require.NoError(t, svc.FinalizeSession(ctx, session.ID, "ana"))

	err = svc.FinalizeSession(ctx, session.ID, "ana")
	assert.ErrorIs(t, err, ErrSessionNotOpen)

	loaded, err := svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionFinalized, loaded.State)
	assert.NotNil(t, loaded.FinalizedAt)
	assert.Equal(t, "ana", loaded.UpdatedBy)
}

func TestCancelSession_LocksLedger(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, CreateSessionInput{Name: "Main", Number: 1})
	require.NoError(t, err)
	require.NoError(t, svc.CancelSession(ctx, session.ID, "ana"))

	_, err = svc.Increment(ctx, session.ID, 1, 5, "ana")
	assert.ErrorIs(t, err, ErrSessionNotOpen)

	err = svc.FinalizeSession(ctx, session.ID, "ana")
	assert.ErrorIs(t, err, ErrSessionNotOpen)
}

func TestTransition_UnknownSession(t *testing.T) {
	svc := newTestService(t)

	err := svc.FinalizeSession(context.Background(), 999, "ana")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestExtendScope_AddsOnlyNew(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	sheetID := uint(1)
	session, err := svc.CreateSession(ctx, CreateSessionInput{
		Name:          "Recount",
		Number:        1,
		Scope:         []uint{1, 2},
		OriginSheetID: &sheetID,
	})
	require.NoError(t, err)

	added, err := svc.ExtendScope(ctx, session.ID, []uint{2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	loaded, err := svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{1, 2, 3, 4}, loaded.ScopeIDs())
}

func TestExtendScope_OrdinarySessionRejected(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, CreateSessionInput{
		Name:   "Plain",
		Number: 1,
		Scope:  []uint{1},
	})
	require.NoError(t, err)

	// No sheet origin: the scope was fixed at creation and stays fixed.
	_, err = svc.ExtendScope(ctx, session.ID, []uint{2})
	assert.ErrorIs(t, err, ErrNotRecount)

	loaded, err := svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{1}, loaded.ScopeIDs())
}

func TestExtendScope_ClosedSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, CreateSessionInput{Name: "Recount", Number: 1})
	require.NoError(t, err)
	require.NoError(t, svc.FinalizeSession(ctx, session.ID, "ana"))

	_, err = svc.ExtendScope(ctx, session.ID, []uint{1})
	assert.ErrorIs(t, err, ErrSessionNotOpen)
}

func TestStats_Coverage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		require.NoError(t, svc.db.Create(&catalogmodels.Product{Name: "Product"}).Error)
	}

	session, err := svc.CreateSession(ctx, CreateSessionInput{Name: "Main", Number: 1})
	require.NoError(t, err)

	_, err = svc.Increment(ctx, session.ID, 1, 10, "ana")
	require.NoError(t, err)
	_, err = svc.Increment(ctx, session.ID, 2, 5, "ana")
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.ItemsCounted)
	assert.Equal(t, int64(15), stats.TotalQuantity)
	assert.Equal(t, int64(4), stats.CatalogSize)
	assert.InDelta(t, 50.0, stats.PercentCounted, 0.001)
}

func TestCurrentStock_LatestFinalizedWins(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateSession(ctx, CreateSessionInput{Name: "January", Number: 1})
	require.NoError(t, err)
	_, err = svc.Increment(ctx, first.ID, 7, 10, "ana")
	require.NoError(t, err)
	require.NoError(t, svc.FinalizeSession(ctx, first.ID, "ana"))

	second, err := svc.CreateSession(ctx, CreateSessionInput{Name: "February", Number: 1})
	require.NoError(t, err)
	_, err = svc.Increment(ctx, second.ID, 7, 13, "ana")
	require.NoError(t, err)

	// Still open: the January figure stands.
	qty, err := svc.CurrentStock(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 10, qty)

	require.NoError(t, svc.FinalizeSession(ctx, second.ID, "ana"))

	qty, err = svc.CurrentStock(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 13, qty)

	// Never counted anywhere.
	qty, err = svc.CurrentStock(ctx, 999)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)
}
