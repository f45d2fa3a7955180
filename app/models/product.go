package models

import "gorm.io/gorm"

// DefaultLowStockThreshold is applied when a product is created without an
// explicit threshold.
const DefaultLowStockThreshold = 10

// Product represents a product in the catalogue. Stock is a materialized
// view over the product's transaction ledger: after creation it is mutated
// only by the inventory service, never edited directly.
type Product struct {
	gorm.Model
	Name              string    `gorm:"size:255;not null;index" json:"name"`
	Description       string    `gorm:"type:text"               json:"description"`
	Price             float64   `gorm:"not null;default:0"      json:"price"`
	Stock             int       `gorm:"not null;default:0"      json:"stock"`
	LowStockThreshold int       `gorm:"not null;default:10"     json:"lowStockThreshold"`
	Category          string    `gorm:"size:100;index"          json:"category"`
	SupplierID        *uint     `gorm:"index"                   json:"supplierId,omitempty"`
	Supplier          *Supplier `gorm:"constraint:OnDelete:SET NULL" json:"supplier,omitempty"`
}

// IsLowStock reports whether stock has reached the reorder threshold.
// Derived on read, never persisted.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

// CategoryOrDefault returns the category with "General" as the fallback.
func (p *Product) CategoryOrDefault() string {
	if p.Category == "" {
		return "General"
	}
	return p.Category
}
