package models

// ReplayState is the result of folding one (session, product) movement log
// from an implicit zero state.
type ReplayState struct {
	// Quantity is the folded quantity.
	Quantity int
	// Present reports whether a CountItem row should exist. It is false
	// before the first movement and after a delete movement.
	Present bool
}

// Replay folds movements in recorded order. Add and modify movements
// accumulate their delta; a delete movement resets the accumulator and
// marks the item absent. The fold is the source of truth the CountItem
// projection must agree with, and is shared by the ledger engine and the
// verification job.
func Replay(movements []Movement) ReplayState {
	var st ReplayState
	for _, m := range movements {
		if m.Kind == MovementDelete {
			st = ReplayState{}
			continue
		}
		st.Quantity += m.Delta
		st.Present = true
	}
	return st
}
