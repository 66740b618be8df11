package models

import "time"

// Count session lifecycle states.
const (
	SessionOpen      = "open"
	SessionFinalized = "finalized"
	SessionCancelled = "cancelled"
)

// Movement kinds. Add creates an item, Modify changes its quantity
// (accumulation or absolute correction), Delete removes the item row.
const (
	MovementAdd    = "add"
	MovementModify = "modify"
	MovementDelete = "delete"
)

// CountSession is one counting campaign. A session with scope entries is
// restricted to those products; an empty scope means the whole catalog is
// in play. OriginSheetID is set only on recount sessions spawned from a
// reconciliation sheet; their finalized totals override (rather than add
// to) the normal aggregate for the products they cover.
type CountSession struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Name          string     `gorm:"size:200;uniqueIndex:idx_sessions_name_number" json:"name"`
	Number        int        `gorm:"uniqueIndex:idx_sessions_name_number" json:"number"`
	State         string     `gorm:"size:20;default:open;index" json:"state"`
	Notes         string     `gorm:"type:text" json:"notes,omitempty"`
	OriginSheetID *uint      `gorm:"index" json:"origin_sheet_id,omitempty"`
	CreatedBy     string     `gorm:"size:150" json:"created_by,omitempty"`
	UpdatedBy     string     `gorm:"size:150" json:"updated_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	FinalizedAt   *time.Time `json:"finalized_at,omitempty"`

	Scope []SessionScope `gorm:"foreignKey:SessionID" json:"scope,omitempty"`
	Items []CountItem    `gorm:"foreignKey:SessionID" json:"items,omitempty"`
}

// IsOpen reports whether the session still accepts ledger mutations.
func (s *CountSession) IsOpen() bool {
	return s.State == SessionOpen
}

// IsRecount reports whether the session was spawned from a reconciliation
// sheet. Only recount sessions may have their scope extended after creation.
func (s *CountSession) IsRecount() bool {
	return s.OriginSheetID != nil
}

// ScopeIDs returns the product ids in the session scope.
func (s *CountSession) ScopeIDs() []uint {
	ids := make([]uint, 0, len(s.Scope))
	for _, e := range s.Scope {
		ids = append(ids, e.ProductID)
	}
	return ids
}

// SessionScope pins one product into a session's explicit scope.
type SessionScope struct {
	ID        uint `gorm:"primaryKey" json:"-"`
	SessionID uint `gorm:"uniqueIndex:idx_scope_session_product" json:"session_id"`
	ProductID uint `gorm:"uniqueIndex:idx_scope_session_product" json:"product_id"`
}

// CountItem caches the current counted quantity for one (session, product)
// pair. It is a projection over the movement log: its quantity must always
// equal the replay of that pair's movements, and its absence means "never
// counted or removed", which is distinct from a counted quantity of zero.
type CountItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"uniqueIndex:idx_items_session_product" json:"session_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_items_session_product" json:"product_id"`
	Quantity  int       `json:"quantity"`
	CountedBy string    `gorm:"size:150" json:"counted_by,omitempty"`
	CountedAt time.Time `json:"counted_at"`
}

// Movement is one append-only ledger event against a (session, product)
// pair. Movements are never updated or deleted; they reference the session
// and product directly so they survive removal of the CountItem row.
type Movement struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SessionID  uint      `gorm:"index:idx_movements_session_product" json:"session_id"`
	ProductID  uint      `gorm:"index:idx_movements_session_product" json:"product_id"`
	Editor     string    `gorm:"size:150;index" json:"editor"`
	Kind       string    `gorm:"size:20;index" json:"kind"`
	Before     int       `gorm:"column:quantity_before" json:"quantity_before"`
	After      int       `gorm:"column:quantity_after" json:"quantity_after"`
	Delta      int       `json:"delta"`
	RecordedAt time.Time `gorm:"index" json:"recorded_at"`
	Note       string    `gorm:"type:text" json:"note,omitempty"`
}
