package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. The counting engine treats the catalog as
// read-only reference data: it enumerates products for reconciliation and
// resolves search terms for the counting screen, but never filters on the
// Active flag: inactive products still participate in counts and variance.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Barcode     string          `gorm:"size:100;uniqueIndex" json:"barcode"`
	Code        string          `gorm:"size:100;index" json:"code,omitempty"`
	ExternalRef string          `gorm:"size:100" json:"external_ref,omitempty"`
	Name        string          `gorm:"size:200;index" json:"name"`
	Brand       string          `gorm:"size:100" json:"brand,omitempty"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Category    string          `gorm:"size:100" json:"category,omitempty"`
	Attribute   string          `gorm:"size:200" json:"attribute,omitempty"`
	Unit        string          `gorm:"size:50;default:UN" json:"unit"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	Active      bool            `gorm:"default:true" json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
