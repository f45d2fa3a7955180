package models

import "gorm.io/gorm"

// Supplier is a product vendor. Referenced by products, surfaced in
// low-stock alerts so a buyer knows who to reorder from.
type Supplier struct {
	gorm.Model
	Name    string `gorm:"size:255;not null;index" json:"name"`
	Email   string `gorm:"size:255"                json:"email"`
	Phone   string `gorm:"size:50"                 json:"phone"`
	Address string `gorm:"type:text"               json:"address"`
	Notes   string `gorm:"type:text"               json:"notes"`
}
