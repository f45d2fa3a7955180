package repositories

import (
	"context"

	"github.com/shashiranjanraj/stockledger/app/models"
	"gorm.io/gorm"
)

// SupplierRepository handles database operations for Supplier.
type SupplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

// FindByID looks up a supplier by primary key.
func (r *SupplierRepository) FindByID(ctx context.Context, id uint) (models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).First(&supplier, id).Error
	return supplier, err
}

// All returns every supplier, newest first.
func (r *SupplierRepository) All(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := r.db.WithContext(ctx).Order("id DESC").Find(&suppliers).Error
	return suppliers, err
}

// Create persists a new supplier record.
func (r *SupplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

// Update persists changes to an existing supplier.
func (r *SupplierRepository) Update(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

// Delete removes a supplier by primary key.
func (r *SupplierRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Supplier{}, id).Error
}

// Count returns the total number of suppliers.
func (r *SupplierRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Supplier{}).Count(&n).Error
	return n, err
}
