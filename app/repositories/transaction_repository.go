package repositories

import (
	"context"

	"github.com/shashiranjanraj/stockledger/app/models"
	"gorm.io/gorm"
)

// SaleOutcome reports what happened to the guarded stock decrement of a
// sale entry.
type SaleOutcome int

const (
	// SaleApplied means the stock decrement and the ledger insert both landed.
	SaleApplied SaleOutcome = iota
	// SaleInsufficientStock means the product had fewer units than requested;
	// nothing was written.
	SaleInsufficientStock
	// SaleProductMissing means the product disappeared before the decrement;
	// nothing was written.
	SaleProductMissing
)

// TransactionRepository owns the product ledger and the compound writes
// that keep product stock consistent with it. Every mutation here pairs
// the stock update and the ledger write inside one database transaction,
// so concurrent operations on the same product serialize at the store and
// no caller can observe a half-applied entry.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// FindByID looks up a ledger entry with its product loaded.
func (r *TransactionRepository) FindByID(ctx context.Context, id uint) (models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).Preload("Product").First(&txn, id).Error
	return txn, err
}

// ListRecent returns the newest entries with their products, ordered by
// creation time descending; equal timestamps resolve by insertion order,
// newest first.
func (r *TransactionRepository) ListRecent(ctx context.Context, limit int) ([]models.Transaction, error) {
	var txns []models.Transaction
	q := r.db.WithContext(ctx).Preload("Product").Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&txns).Error
	return txns, err
}

// ListRecentForProduct returns the newest entries for one product.
func (r *TransactionRepository) ListRecentForProduct(ctx context.Context, productID uint, limit int) ([]models.Transaction, error) {
	var txns []models.Transaction
	q := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&txns).Error
	return txns, err
}

// CreatePurchase appends a purchase entry and increments the product's
// stock as one unit of work. Returns gorm.ErrRecordNotFound if the product
// vanished before the increment.
func (r *TransactionRepository) CreatePurchase(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{}).
			Where("id = ?", txn.ProductID).
			Update("stock", gorm.Expr("stock + ?", txn.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(txn).Error
	})
}

// CreateSale appends a sale entry and decrements the product's stock as
// one unit of work. The check and the decrement are a single conditional
// UPDATE ("decrement by N only if N units remain"), so two concurrent
// sales can never jointly oversell: whichever statement runs second sees
// the already-decremented row and fails the guard.
func (r *TransactionRepository) CreateSale(ctx context.Context, txn *models.Transaction) (SaleOutcome, error) {
	outcome := SaleApplied
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", txn.ProductID, txn.Quantity).
			Update("stock", gorm.Expr("stock - ?", txn.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Guard failed: distinguish a short stock from a product that
			// was deleted mid-flight, inside the same transaction.
			var n int64
			if err := tx.Model(&models.Product{}).Where("id = ?", txn.ProductID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				outcome = SaleProductMissing
			} else {
				outcome = SaleInsufficientStock
			}
			return nil
		}
		return tx.Create(txn).Error
	})
	if err != nil {
		return SaleApplied, err
	}
	return outcome, nil
}

// DeleteWithReversal removes a ledger entry and applies the inverse of its
// original delta to the product, as one unit of work. The ledger row is
// deleted first: its RowsAffected gates the reversal, so two racing
// deletes of the same entry reverse the delta exactly once and the loser
// reports gorm.ErrRecordNotFound. If the product no longer exists the
// reversal is skipped and the entry is still removed. The reversal
// deliberately carries no non-negativity guard: deleting a purchase whose
// units were since sold drives stock negative, and that is the historical
// contract of this operation.
func (r *TransactionRepository) DeleteWithReversal(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Unscoped().Delete(&models.Transaction{}, txn.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Another delete won the race; its reversal already applied.
			return gorm.ErrRecordNotFound
		}

		// RowsAffected == 0 here means the product is gone, nothing to
		// reverse.
		return tx.Model(&models.Product{}).
			Where("id = ?", txn.ProductID).
			Update("stock", gorm.Expr("stock - ?", txn.Delta())).Error
	})
}
