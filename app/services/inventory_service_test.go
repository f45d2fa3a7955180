package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shashiranjanraj/stockledger/app/models"
	"github.com/shashiranjanraj/stockledger/app/repositories"
	"github.com/shashiranjanraj/stockledger/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newInventoryEnv(t *testing.T) (*gorm.DB, *services.InventoryService) {
	t.Helper()
	db := newTestDB(t)
	svc := services.NewInventoryService(
		repositories.NewProductRepository(db),
		repositories.NewTransactionRepository(db),
	)
	return db, svc
}

func TestCreatePurchaseIncrementsStock(t *testing.T) {
	db, svc := newInventoryEnv(t)
	product := models.Product{Name: "Widget", Price: 5, Stock: 10}
	mustCreate(t, db, &product)

	txn, err := svc.CreateTransaction(context.Background(), services.CreateTransactionInput{
		ProductID: product.ID,
		Type:      models.TransactionPurchase,
		Quantity:  15,
		Price:     3.5,
	})
	require.NoError(t, err)

	assert.Equal(t, 25, productStock(t, db, product.ID))
	assert.Equal(t, models.TransactionPurchase, txn.Type)
	assert.Equal(t, 15, txn.Quantity)
	assert.NotEmpty(t, txn.Reference)
	require.NotNil(t, txn.Product)
	assert.Equal(t, "Widget", txn.Product.Name)
}

func TestCreateSaleDecrementsStock(t *testing.T) {
	db, svc := newInventoryEnv(t)
	product := models.Product{Name: "Widget", Price: 5, Stock: 10}
	mustCreate(t, db, &product)

	_, err := svc.CreateTransaction(context.Background(), services.CreateTransactionInput{
		ProductID: product.ID,
		Type:      models.TransactionSale,
		Quantity:  4,
		Price:     5,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, productStock(t, db, product.ID))
}

func TestSaleOfExactStockSucceeds(t *testing.T) {
	db, svc := newInventoryEnv(t)
	product := models.Product{Name: "Widget", Stock: 7}
	mustCreate(t, db, &product)

	_, err := svc.CreateTransaction(context.Background(), services.CreateTransactionInput{
		ProductID: product.ID,
		Type:      models.TransactionSale,
		Quantity:  7,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, productStock(t, db, product.ID))
}

func TestSaleExceedingStockRejected(t *testing.T) {
	db, svc := newInventoryEnv(t)
	product := models.Product{Name: "Widget", Stock: 3}
	mustCreate(t, db, &product)

	_, err := svc.CreateTransaction(context.Background(), services.CreateTransactionInput{
		ProductID: product.ID,
		Type:      models.TransactionSale,
		Quantity:  4,
	})
	require.ErrorIs(t, err, services.ErrInsufficientStock)

	// Nothing may change on a rejected sale: no stock movement, no entry.
	assert.Equal(t, 3, productStock(t, db, product.ID))
	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateTransactionValidation(t *testing.T) {
	_, svc := newInventoryEnv(t)

	_, err := svc.CreateTransaction(context.Background(), services.CreateTransactionInput{
		Type:     "transfer",
		Quantity: 0,
		Price:    -1,
	})
	require.Error(t, err)

	verr, ok := services.AsValidationError(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	assert.Contains(t, verr.Fields, "productId")
	assert.Contains(t, verr.Fields, "type")
	assert.Contains(t, verr.Fields, "quantity")
	assert.Contains(t, verr.Fields, "price")
}

func TestCreateTransactionUnknownProduct(t *testing.T) {
	_, svc := newInventoryEnv(t)

	_, err := svc.CreateTransaction(context.Background(), services.CreateTransactionInput{
		ProductID: 999,
		Type:      models.TransactionPurchase,
		Quantity:  1,
	})
	require.ErrorIs(t, err, services.ErrProductNotFound)
}

func TestDeleteSaleRestoresStock(t *testing.T) {
	db, svc := newInventoryEnv(t)
	product := models.Product{Name: "Widget", Stock: 10}
	mustCreate(t, db, &product)

	txn, err := svc.CreateTransaction(context.Background(), services.CreateTransactionInput{
		ProductID: product.ID,
		Type:      models.TransactionSale,
		Quantity:  6,
	})
	require.NoError(t, err)
	require.Equal(t, 4, productStock(t, db, product.ID))

	require.NoError(t, svc.DeleteTransaction(context.Background(), txn.ID))
	assert.Equal(t, 10, productStock(t, db, product.ID))

	_, err = svc.GetTransaction(context.Background(), txn.ID)
	assert.ErrorIs(t, err, services.ErrTransactionNotFound)
}

func TestDeletePurchaseCanGoNegative(t *testing.T) {
	db, svc := newInventoryEnv(t)
	product := models.Product{Name: "Widget", Stock: 0}
	mustCreate(t, db, &product)

	purchase, err := svc.CreateTransaction(context.Background(), services.CreateTransactionInput{
		ProductID: product.ID,
		Type:      models.TransactionPurchase,
		Quantity:  10,
	})
	require.NoError(t, err)

	_, err = svc.CreateTransaction(context.Background(), services.CreateTransactionInput{
		ProductID: product.ID,
		Type:      models.TransactionSale,
		Quantity:  8,
	})
	require.NoError(t, err)
	require.Equal(t, 2, productStock(t, db, product.ID))

	// Reversal of the purchase subtracts its full quantity with no floor.
	require.NoError(t, svc.DeleteTransaction(context.Background(), purchase.ID))
	assert.Equal(t, -8, productStock(t, db, product.ID))
}

func TestDeleteSkipsReversalWhenProductGone(t *testing.T) {
	db, svc := newInventoryEnv(t)
	product := models.Product{Name: "Widget", Stock: 5}
	mustCreate(t, db, &product)

	txn, err := svc.CreateTransaction(context.Background(), services.CreateTransactionInput{
		ProductID: product.ID,
		Type:      models.TransactionSale,
		Quantity:  2,
	})
	require.NoError(t, err)

	require.NoError(t, db.Unscoped().Delete(&models.Product{}, product.ID).Error)

	require.NoError(t, svc.DeleteTransaction(context.Background(), txn.ID))
	_, err = svc.GetTransaction(context.Background(), txn.ID)
	assert.ErrorIs(t, err, services.ErrTransactionNotFound)
}

func TestDeleteUnknownTransaction(t *testing.T) {
	_, svc := newInventoryEnv(t)
	err := svc.DeleteTransaction(context.Background(), 12345)
	require.ErrorIs(t, err, services.ErrTransactionNotFound)
}

func TestListTransactionsNewestFirst(t *testing.T) {
	db, svc := newInventoryEnv(t)
	product := models.Product{Name: "Widget", Stock: 100}
	mustCreate(t, db, &product)

	for i := 1; i <= 3; i++ {
		_, err := svc.CreateTransaction(context.Background(), services.CreateTransactionInput{
			ProductID: product.ID,
			Type:      models.TransactionSale,
			Quantity:  i,
		})
		require.NoError(t, err)
	}

	txns, err := svc.ListTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, txns, 3)
	assert.Equal(t, 3, txns[0].Quantity)
	assert.Equal(t, 2, txns[1].Quantity)
	assert.Equal(t, 1, txns[2].Quantity)
	require.NotNil(t, txns[0].Product)
}

// TestConcurrentSalesNeverOversell races more sale attempts than there is
// stock; the guarded decrement must admit exactly as many units as exist
// and reject the rest, never driving stock negative.
func TestConcurrentSalesNeverOversell(t *testing.T) {
	db, svc := newInventoryEnv(t)
	product := models.Product{Name: "Widget", Stock: 10}
	mustCreate(t, db, &product)

	const attempts = 25
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		applied  int
		rejected int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateTransaction(context.Background(), services.CreateTransactionInput{
				ProductID: product.ID,
				Type:      models.TransactionSale,
				Quantity:  1,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				applied++
			case errors.Is(err, services.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, applied)
	assert.Equal(t, attempts-10, rejected)
	assert.Equal(t, 0, productStock(t, db, product.ID))

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.EqualValues(t, 10, count)
}

// TestConcurrentDeletesReverseOnce races two deletes of the same ledger
// entry; the delta must be reversed exactly once, with the loser reported
// as not found.
func TestConcurrentDeletesReverseOnce(t *testing.T) {
	db, svc := newInventoryEnv(t)
	product := models.Product{Name: "Widget", Stock: 10}
	mustCreate(t, db, &product)

	sale, err := svc.CreateTransaction(context.Background(), services.CreateTransactionInput{
		ProductID: product.ID,
		Type:      models.TransactionSale,
		Quantity:  4,
	})
	require.NoError(t, err)
	require.Equal(t, 6, productStock(t, db, product.ID))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		deleted  int
		notFound int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := svc.DeleteTransaction(context.Background(), sale.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				deleted++
			case errors.Is(err, services.ErrTransactionNotFound):
				notFound++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, deleted)
	assert.Equal(t, 1, notFound)
	assert.Equal(t, 10, productStock(t, db, product.ID))

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

// TestConcurrentCreateAndDelete races new sales against the deletion of
// an earlier purchase on the same product. Whatever interleaving wins,
// the final stock must equal the sum of deltas over the entries still in
// the ledger.
func TestConcurrentCreateAndDelete(t *testing.T) {
	db, svc := newInventoryEnv(t)
	product := models.Product{Name: "Widget", Stock: 0}
	mustCreate(t, db, &product)

	purchase, err := svc.CreateTransaction(context.Background(), services.CreateTransactionInput{
		ProductID: product.ID,
		Type:      models.TransactionPurchase,
		Quantity:  50,
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		require.NoError(t, svc.DeleteTransaction(context.Background(), purchase.ID))
	}()
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateTransaction(context.Background(), services.CreateTransactionInput{
				ProductID: product.ID,
				Type:      models.TransactionSale,
				Quantity:  3,
			})
			// Sales may be rejected once the purchase reversal lands.
			if err != nil && !errors.Is(err, services.ErrInsufficientStock) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	var remaining []models.Transaction
	require.NoError(t, db.Find(&remaining).Error)
	want := 0
	for i := range remaining {
		want += remaining[i].Delta()
	}
	assert.Equal(t, want, productStock(t, db, product.ID))
}
