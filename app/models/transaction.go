package models

import "gorm.io/gorm"

// Transaction types. A purchase adds stock, a sale removes it.
const (
	TransactionPurchase = "purchase"
	TransactionSale     = "sale"
)

// Transaction is one entry in a product's ledger. Entries are immutable:
// they are created and deleted through the inventory service, never edited.
// CreatedAt (from gorm.Model) orders the ledger; ID breaks timestamp ties
// in insertion order.
type Transaction struct {
	gorm.Model
	ProductID uint     `gorm:"not null;index"     json:"productId"`
	Product   *Product `json:"product,omitempty"`
	Type      string   `gorm:"size:20;not null"   json:"type"`
	Quantity  int      `gorm:"not null"           json:"quantity"`
	Price     float64  `gorm:"not null;default:0" json:"price"`
	Notes     string   `gorm:"type:text"          json:"notes"`
	Reference string   `gorm:"size:36;index"      json:"reference"`
}

// TotalValue is the monetary value of the entry at the recorded unit price.
// Derived on read, never persisted.
func (t *Transaction) TotalValue() float64 {
	return float64(t.Quantity) * t.Price
}

// Delta is the signed stock change this entry applied: positive for a
// purchase, negative for a sale.
func (t *Transaction) Delta() int {
	if t.Type == TransactionSale {
		return -t.Quantity
	}
	return t.Quantity
}
