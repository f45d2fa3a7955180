package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/stockledger/app/models"
	"github.com/shashiranjanraj/stockledger/app/repositories"
	"github.com/shashiranjanraj/stockledger/pkg/workerpool"
)

// recentTransactionLimit is how many ledger entries the dashboard shows.
const recentTransactionLimit = 5

// StatsSnapshot is the dashboard aggregate. InventoryValue is recomputed
// on every call; stock and price mutate independently of any cache hook,
// so a cached value would go stale silently.
type StatsSnapshot struct {
	TotalProducts      int64                `json:"totalProducts"`
	LowStockProducts   int64                `json:"lowStockProducts"`
	TotalSuppliers     int64                `json:"totalSuppliers"`
	RecentTransactions []models.Transaction `json:"recentTransactions"`
	InventoryValue     float64              `json:"inventoryValue"`
}

// DashboardService aggregates live inventory state for informational
// dashboards. Reads here are not linearizable with concurrent ledger
// writes; read-committed is the contract.
type DashboardService struct {
	products     *repositories.ProductRepository
	suppliers    *repositories.SupplierRepository
	transactions *repositories.TransactionRepository
	pool         *workerpool.Pool
}

func NewDashboardService(
	products *repositories.ProductRepository,
	suppliers *repositories.SupplierRepository,
	transactions *repositories.TransactionRepository,
	pool *workerpool.Pool,
) *DashboardService {
	return &DashboardService{
		products:     products,
		suppliers:    suppliers,
		transactions: transactions,
		pool:         pool,
	}
}

// Stats computes the dashboard snapshot. The five queries are independent,
// so they fan out across the worker pool and join before returning.
func (s *DashboardService) Stats(ctx context.Context) (StatsSnapshot, error) {
	var (
		snapshot StatsSnapshot
		errsMu   sync.Mutex
		errs     []error
	)

	collect := func(fn func() error) func() {
		return func() {
			if err := fn(); err != nil {
				errsMu.Lock()
				errs = append(errs, err)
				errsMu.Unlock()
			}
		}
	}

	tasks := []func(){
		collect(func() (err error) {
			snapshot.TotalProducts, err = s.products.Count(ctx)
			return err
		}),
		collect(func() (err error) {
			snapshot.LowStockProducts, err = s.products.CountLowStock(ctx)
			return err
		}),
		collect(func() (err error) {
			snapshot.TotalSuppliers, err = s.suppliers.Count(ctx)
			return err
		}),
		collect(func() (err error) {
			snapshot.RecentTransactions, err = s.transactions.ListRecent(ctx, recentTransactionLimit)
			return err
		}),
		collect(func() (err error) {
			snapshot.InventoryValue, err = s.products.InventoryValue(ctx)
			return err
		}),
	}

	var wg sync.WaitGroup
	for _, task := range tasks {
		task := task
		wg.Add(1)
		wrapped := func() {
			defer wg.Done()
			task()
		}
		if s.pool == nil || s.pool.Submit(wrapped) != nil {
			// No pool (tests) or pool shutting down: run inline.
			wrapped()
		}
	}
	wg.Wait()

	if len(errs) > 0 {
		return StatsSnapshot{}, fmt.Errorf("dashboard: stats: %w", errors.Join(errs...))
	}
	if snapshot.RecentTransactions == nil {
		snapshot.RecentTransactions = []models.Transaction{}
	}
	return snapshot, nil
}

// Alerts returns every low-stock product with its supplier attached so the
// caller knows who to reorder from. Ordering follows store iteration and
// is not part of the contract.
func (s *DashboardService) Alerts(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.ListLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: alerts: %w", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}
