package models

import "time"

// Snapshot slots. A sheet compares the physical count against at most two
// external systems of record.
const (
	SlotSystem1 = "system1"
	SlotSystem2 = "system2"
)

// ValidSlot reports whether the given slot name is recognized.
func ValidSlot(slot string) bool {
	return slot == SlotSystem1 || slot == SlotSystem2
}

// ReconciliationSheet joins two external system snapshots against the
// aggregated physical count. The engine supports any number of sheets;
// a "single active sheet" rule, if wanted, belongs to the application
// layer on top.
type ReconciliationSheet struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:200" json:"name"`
	System1Label string    `gorm:"size:100;default:System 1" json:"system1_label"`
	System2Label string    `gorm:"size:100;default:System 2" json:"system2_label"`
	Owner        string    `gorm:"size:150" json:"owner,omitempty"`
	Notes        string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Snapshots []SystemSnapshot     `gorm:"foreignKey:SheetID" json:"snapshots,omitempty"`
	Lines     []ReconciliationLine `gorm:"foreignKey:SheetID" json:"lines,omitempty"`
}

// SystemSnapshot records one external system load into a sheet slot.
// At most one snapshot exists per (sheet, slot); reloading a slot
// replaces the previous record.
type SystemSnapshot struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	SheetID  uint      `gorm:"uniqueIndex:idx_snapshots_sheet_slot" json:"sheet_id"`
	Slot     string    `gorm:"size:20;uniqueIndex:idx_snapshots_sheet_slot" json:"slot"`
	Source   string    `gorm:"size:200" json:"source,omitempty"`
	Entries  int       `json:"entries"`
	LoadedAt time.Time `json:"loaded_at"`
}

// ReconciliationLine is the per-product variance row of a sheet. Diff1 and
// Diff2 are derived, never authored: they must equal physical minus the
// corresponding system quantity after every recompute.
type ReconciliationLine struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	SheetID     uint `gorm:"uniqueIndex:idx_lines_sheet_product" json:"sheet_id"`
	ProductID   uint `gorm:"uniqueIndex:idx_lines_sheet_product" json:"product_id"`
	System1Qty  int  `json:"system1_qty"`
	System2Qty  int  `json:"system2_qty"`
	PhysicalQty int  `json:"physical_qty"`
	Diff1       int  `json:"diff1"`
	Diff2       int  `json:"diff2"`
}

// RecalcDiffs rederives the variance columns from the quantity columns.
func (l *ReconciliationLine) RecalcDiffs() {
	l.Diff1 = l.PhysicalQty - l.System1Qty
	l.Diff2 = l.PhysicalQty - l.System2Qty
}
