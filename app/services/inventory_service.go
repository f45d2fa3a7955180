package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shashiranjanraj/stockledger/app/models"
	"github.com/shashiranjanraj/stockledger/app/repositories"
	"github.com/shashiranjanraj/stockledger/pkg/cache"
	"github.com/shashiranjanraj/stockledger/pkg/logger"
	"github.com/shashiranjanraj/stockledger/pkg/metrics"
	"gorm.io/gorm"
)

// Cache keys invalidated whenever stock or catalogue data changes.
const (
	CacheKeyProducts  = "products:all"
	CacheKeySuppliers = "suppliers:all"
)

// CreateTransactionInput is the request to append one ledger entry.
type CreateTransactionInput struct {
	ProductID uint    `json:"productId" validate:"required"`
	Type      string  `json:"type"      validate:"required,oneof=purchase sale"`
	Quantity  int     `json:"quantity"  validate:"required,gte=1"`
	Price     float64 `json:"price"     validate:"gte=0"`
	Notes     string  `json:"notes"`
}

// InventoryService coordinates the product ledger: every stock mutation in
// the system flows through CreateTransaction or DeleteTransaction, and
// each pairs the stock delta with the ledger write atomically.
type InventoryService struct {
	products     *repositories.ProductRepository
	transactions *repositories.TransactionRepository
}

func NewInventoryService(products *repositories.ProductRepository, transactions *repositories.TransactionRepository) *InventoryService {
	return &InventoryService{products: products, transactions: transactions}
}

// CreateTransaction validates input, applies the stock delta, and appends
// the ledger entry. A sale that exceeds available stock is rejected with
// ErrInsufficientStock and leaves all state unchanged.
func (s *InventoryService) CreateTransaction(ctx context.Context, in CreateTransactionInput) (models.Transaction, error) {
	if errs := validateTransactionInput(in); len(errs) > 0 {
		return models.Transaction{}, NewValidationError(errs)
	}

	if _, err := s.products.FindByID(ctx, in.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Transaction{}, ErrProductNotFound
		}
		return models.Transaction{}, fmt.Errorf("inventory: load product %d: %w", in.ProductID, err)
	}

	txn := models.Transaction{
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Price:     in.Price,
		Notes:     in.Notes,
		Reference: uuid.NewString(),
	}

	switch in.Type {
	case models.TransactionPurchase:
		if err := s.transactions.CreatePurchase(ctx, &txn); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Transaction{}, ErrProductNotFound
			}
			return models.Transaction{}, fmt.Errorf("inventory: create purchase: %w", err)
		}

	case models.TransactionSale:
		outcome, err := s.transactions.CreateSale(ctx, &txn)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("inventory: create sale: %w", err)
		}
		switch outcome {
		case repositories.SaleInsufficientStock:
			metrics.StockRejectionsTotal.Inc()
			return models.Transaction{}, ErrInsufficientStock
		case repositories.SaleProductMissing:
			return models.Transaction{}, ErrProductNotFound
		}
	}

	metrics.TransactionsTotal.WithLabelValues(txn.Type).Inc()
	cache.Del(CacheKeyProducts)

	logger.WithCtx(ctx).Info("ledger entry created",
		"transaction_id", txn.ID,
		"product_id", txn.ProductID,
		"type", txn.Type,
		"quantity", txn.Quantity,
	)

	// Reload with the product attached so callers can render the entry
	// without a second round trip.
	created, err := s.transactions.FindByID(ctx, txn.ID)
	if err != nil {
		return txn, nil
	}
	return created, nil
}

// DeleteTransaction removes a ledger entry and reverses exactly the delta
// its creation applied. If the product no longer exists the reversal is
// skipped. The reversal never re-checks non-negativity: deleting a
// purchase after intervening sales can drive stock below zero, which is
// preserved deliberately rather than clamped.
func (s *InventoryService) DeleteTransaction(ctx context.Context, id uint) error {
	txn, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("inventory: load transaction %d: %w", id, err)
	}

	if err := s.transactions.DeleteWithReversal(ctx, &txn); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The entry vanished between the lookup and the delete; the
			// winning delete already reversed the delta.
			return ErrTransactionNotFound
		}
		return fmt.Errorf("inventory: delete transaction %d: %w", id, err)
	}

	cache.Del(CacheKeyProducts)

	logger.WithCtx(ctx).Info("ledger entry deleted",
		"transaction_id", txn.ID,
		"product_id", txn.ProductID,
		"type", txn.Type,
		"quantity", txn.Quantity,
	)
	return nil
}

// ListTransactions returns the ledger, newest entries first.
func (s *InventoryService) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	return s.transactions.ListRecent(ctx, 0)
}

// GetTransaction returns one ledger entry with its product.
func (s *InventoryService) GetTransaction(ctx context.Context, id uint) (models.Transaction, error) {
	txn, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Transaction{}, ErrTransactionNotFound
		}
		return models.Transaction{}, err
	}
	return txn, nil
}

func validateTransactionInput(in CreateTransactionInput) map[string]string {
	errs := map[string]string{}
	if in.ProductID == 0 {
		errs["productId"] = "productId is required"
	}
	if in.Type != models.TransactionPurchase && in.Type != models.TransactionSale {
		errs["type"] = "type must be purchase or sale"
	}
	if in.Quantity < 1 {
		errs["quantity"] = "quantity must be a positive integer"
	}
	if in.Price < 0 {
		errs["price"] = "price must not be negative"
	}
	return errs
}
