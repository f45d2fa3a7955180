package seeders

import (
	"github.com/google/uuid"
	"github.com/shashiranjanraj/stockledger/app/models"
	"gorm.io/gorm"
)

func init() {
	Register("demo", SeedDemo)
}

// SeedDemo populates a small but workable dataset: two suppliers, a handful
// of products across categories, and enough ledger history that the
// dashboard and reorder endpoints return something interesting. Idempotent:
// it no-ops when products already exist.
func SeedDemo(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	acme := models.Supplier{
		Name:  "Acme Wholesale",
		Email: "orders@acme-wholesale.example",
		Phone: "+1-555-0101",
	}
	north := models.Supplier{
		Name:  "Northside Distribution",
		Email: "sales@northside.example",
		Phone: "+1-555-0102",
	}
	if err := db.Create(&acme).Error; err != nil {
		return err
	}
	if err := db.Create(&north).Error; err != nil {
		return err
	}

	products := []models.Product{
		{Name: "Wireless Mouse", Description: "2.4GHz optical mouse", Price: 24.99, Category: "Electronics", LowStockThreshold: 15, SupplierID: &acme.ID},
		{Name: "USB-C Cable 2m", Description: "Braided charging cable", Price: 9.50, Category: "Electronics", LowStockThreshold: 30, SupplierID: &acme.ID},
		{Name: "Desk Lamp", Description: "Adjustable LED lamp", Price: 39.00, Category: "Office", LowStockThreshold: 10, SupplierID: &north.ID},
		{Name: "Notebook A5", Description: "Dotted, 120 pages", Price: 6.25, Category: "Stationery", LowStockThreshold: 50, SupplierID: &north.ID},
	}
	if err := db.Create(&products).Error; err != nil {
		return err
	}

	// Seed each product with an opening purchase, then a few sales so the
	// reorder math has a history to chew on.
	for i := range products {
		p := &products[i]
		entries := []models.Transaction{
			{ProductID: p.ID, Type: models.TransactionPurchase, Quantity: 60, Price: p.Price * 0.6, Notes: "opening stock", Reference: uuid.NewString()},
			{ProductID: p.ID, Type: models.TransactionSale, Quantity: 12, Price: p.Price, Reference: uuid.NewString()},
			{ProductID: p.ID, Type: models.TransactionSale, Quantity: 8, Price: p.Price, Reference: uuid.NewString()},
		}
		for _, e := range entries {
			if err := db.Create(&e).Error; err != nil {
				return err
			}
		}
		delta := 60 - 12 - 8
		if err := db.Model(p).Update("stock", gorm.Expr("stock + ?", delta)).Error; err != nil {
			return err
		}
	}

	return nil
}
