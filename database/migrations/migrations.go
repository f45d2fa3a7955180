// Package migrations contains all database migration files.
// Each migration registers itself through init(), so importing this
// package (the CLI does it with a blank import) is enough to make the
// full set available to the runner.
package migrations

import (
	"github.com/shashiranjanraj/stockledger/app/models"
	"github.com/shashiranjanraj/stockledger/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20250101000000_create_users_table", &CreateUsersTable{})
	migration.Register("20250101000001_create_suppliers_table", &CreateSuppliersTable{})
	migration.Register("20250101000002_create_products_table", &CreateProductsTable{})
	migration.Register("20250101000003_create_transactions_table", &CreateTransactionsTable{})
}

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

type CreateSuppliersTable struct{}

func (m *CreateSuppliersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Supplier{})
}

func (m *CreateSuppliersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("suppliers")
}

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

type CreateTransactionsTable struct{}

func (m *CreateTransactionsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Transaction{})
}

func (m *CreateTransactionsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("transactions")
}
