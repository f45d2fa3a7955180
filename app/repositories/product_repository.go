package repositories

import (
	"context"

	"github.com/shashiranjanraj/stockledger/app/models"
	"gorm.io/gorm"
)

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindByID looks up a product by primary key.
func (r *ProductRepository) FindByID(ctx context.Context, id uint) (models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	return product, err
}

// FindByIDWithSupplier looks up a product and eagerly loads its supplier.
func (r *ProductRepository) FindByIDWithSupplier(ctx context.Context, id uint) (models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Preload("Supplier").First(&product, id).Error
	return product, err
}

// All returns every product, newest first.
func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Order("id DESC").Find(&products).Error
	return products, err
}

// Create persists a new product record.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Update persists changes to an existing product.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes a product by primary key.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, id).Error
}

// Count returns the total number of products.
func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error
	return n, err
}

// CountLowStock returns how many products sit at or below their threshold.
func (r *ProductRepository) CountLowStock(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("stock <= low_stock_threshold").
		Count(&n).Error
	return n, err
}

// ListLowStock returns all products at or below their threshold with their
// supplier loaded. Iteration order follows the store and is not part of
// the contract.
func (r *ProductRepository) ListLowStock(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Where("stock <= low_stock_threshold").
		Find(&products).Error
	return products, err
}

// InventoryValue computes SUM(stock * price) across all products. Always
// run fresh: stock and price mutate independently of any cache hook.
func (r *ProductRepository) InventoryValue(ctx context.Context) (float64, error) {
	var value float64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("COALESCE(SUM(stock * price), 0)").
		Scan(&value).Error
	return value, err
}
