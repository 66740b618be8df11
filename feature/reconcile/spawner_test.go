package reconcile

import (
	"context"
	"testing"

	"stocktake-manager/feature/counting"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnRecount_CreatesScopedSession(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()
	sheet := newSheet(t, svc)

	result, err := svc.SpawnRecount(ctx, sheet.ID, RecountInput{
		ProductIDs: []uint{3, 1, 3, 0},
		Name:       "Disputed lines",
		CreatedBy:  "ana",
	})
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, 2, result.Added)

	session, err := sessions.GetSession(ctx, result.SessionID)
	require.NoError(t, err)
	assert.True(t, session.IsRecount())
	assert.Equal(t, sheet.ID, *session.OriginSheetID)
	assert.ElementsMatch(t, []uint{1, 3}, session.ScopeIDs())
	assert.Equal(t, "Disputed lines", session.Name)
}

func TestSpawnRecount_SessionNumber(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()
	sheet := newSheet(t, svc)

	// The caller labels the recount within the 1..3 count tags.
	result, err := svc.SpawnRecount(ctx, sheet.ID, RecountInput{
		ProductIDs:    []uint{1},
		SessionNumber: 2,
	})
	require.NoError(t, err)

	session, err := sessions.GetSession(ctx, result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, session.Number)

	// Unset defaults to the first count.
	result, err = svc.SpawnRecount(ctx, sheet.ID, RecountInput{ProductIDs: []uint{2}})
	require.NoError(t, err)
	session, err = sessions.GetSession(ctx, result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, session.Number)

	// Out-of-range numbers are rejected before anything is created.
	_, err = svc.SpawnRecount(ctx, sheet.ID, RecountInput{
		ProductIDs:    []uint{3},
		SessionNumber: 4,
	})
	assert.ErrorIs(t, err, counting.ErrInvalidNumber)
}

func TestSpawnRecount_NameDerivedFromSheet(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()
	sheet := newSheet(t, svc)

	result, err := svc.SpawnRecount(ctx, sheet.ID, RecountInput{ProductIDs: []uint{1}})
	require.NoError(t, err)

	session, err := sessions.GetSession(ctx, result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "Recount Monthly close", session.Name)
}

func TestSpawnRecount_EmptySelection(t *testing.T) {
	svc, _ := newTestService(t)
	sheet := newSheet(t, svc)

	_, err := svc.SpawnRecount(context.Background(), sheet.ID, RecountInput{})
	assert.ErrorIs(t, err, ErrNoProducts)

	_, err = svc.SpawnRecount(context.Background(), sheet.ID, RecountInput{ProductIDs: []uint{0}})
	assert.ErrorIs(t, err, ErrNoProducts)
}

func TestSpawnRecount_UnknownSheet(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SpawnRecount(context.Background(), 42, RecountInput{ProductIDs: []uint{1}})
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestSpawnRecount_ExtendsExisting(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()
	sheet := newSheet(t, svc)

	first, err := svc.SpawnRecount(ctx, sheet.ID, RecountInput{ProductIDs: []uint{1, 2}})
	require.NoError(t, err)

	second, err := svc.SpawnRecount(ctx, sheet.ID, RecountInput{
		ProductIDs: []uint{2, 3},
		SessionID:  first.SessionID,
	})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, 1, second.Added)

	session, err := sessions.GetSession(ctx, first.SessionID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{1, 2, 3}, session.ScopeIDs())
}

func TestSpawnRecount_RejectsForeignTarget(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()
	sheet := newSheet(t, svc)
	other := newSheet(t, svc)

	// A recount of another sheet is not a valid extension target.
	foreign, err := svc.SpawnRecount(ctx, other.ID, RecountInput{ProductIDs: []uint{1}})
	require.NoError(t, err)

	_, err = svc.SpawnRecount(ctx, sheet.ID, RecountInput{
		ProductIDs: []uint{2},
		SessionID:  foreign.SessionID,
	})
	assert.ErrorIs(t, err, ErrInvalidTarget)

	// Neither is an ordinary session with no sheet origin.
	plain, err := sessions.CreateSession(ctx, counting.CreateSessionInput{Name: "Plain", Number: 1})
	require.NoError(t, err)
	_, err = svc.SpawnRecount(ctx, sheet.ID, RecountInput{
		ProductIDs: []uint{2},
		SessionID:  plain.ID,
	})
	assert.ErrorIs(t, err, ErrInvalidTarget)

	// Nor a recount that was already finalized.
	mine, err := svc.SpawnRecount(ctx, sheet.ID, RecountInput{ProductIDs: []uint{1}})
	require.NoError(t, err)
	require.NoError(t, sessions.FinalizeSession(ctx, mine.SessionID, "ana"))
	_, err = svc.SpawnRecount(ctx, sheet.ID, RecountInput{
		ProductIDs: []uint{2},
		SessionID:  mine.SessionID,
	})
	assert.ErrorIs(t, err, ErrInvalidTarget)
}
