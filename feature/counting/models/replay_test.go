package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplay_Empty(t *testing.T) {
	state := Replay(nil)
	assert.False(t, state.Present)
	assert.Equal(t, 0, state.Quantity)
}

func TestReplay_AccumulatesDeltas(t *testing.T) {
	state := Replay([]Movement{
		{Kind: MovementAdd, Delta: 3},
		{Kind: MovementModify, Delta: 2},
		{Kind: MovementModify, Delta: -4},
	})
	assert.True(t, state.Present)
	assert.Equal(t, 1, state.Quantity)
}

func TestReplay_DeleteResets(t *testing.T) {
	state := Replay([]Movement{
		{Kind: MovementAdd, Delta: 5},
		{Kind: MovementDelete, Delta: -5},
	})
	assert.False(t, state.Present)
	assert.Equal(t, 0, state.Quantity)
}

func TestReplay_CountAfterDelete(t *testing.T) {
	state := Replay([]Movement{
		{Kind: MovementAdd, Delta: 5},
		{Kind: MovementDelete, Delta: -5},
		{Kind: MovementAdd, Delta: 2},
	})
	assert.True(t, state.Present)
	assert.Equal(t, 2, state.Quantity)
}
