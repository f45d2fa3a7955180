package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shashiranjanraj/stockledger/app/models"
	"github.com/shashiranjanraj/stockledger/app/repositories"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shashiranjanraj/stockledger/app/services"
	"github.com/shashiranjanraj/stockledger/pkg/advisory"
	"github.com/shashiranjanraj/stockledger/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubAdvisor replays a canned reply (or error) and records the prompt.
type stubAdvisor struct {
	reply  string
	err    error
	prompt string
}

func (s *stubAdvisor) Generate(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

func newReorderEnv(t *testing.T, advisor advisory.Client) (*gorm.DB, *services.ReorderService) {
	t.Helper()
	db := newTestDB(t)
	svc := services.NewReorderService(
		repositories.NewProductRepository(db),
		repositories.NewTransactionRepository(db),
		advisor,
	)
	return db, svc
}

func seedSales(t *testing.T, db *gorm.DB, productID uint, quantities ...int) {
	t.Helper()
	for _, q := range quantities {
		mustCreate(t, db, &models.Transaction{
			ProductID: productID,
			Type:      models.TransactionSale,
			Quantity:  q,
		})
	}
}

func TestSuggestFallbackWithoutAdvisor(t *testing.T) {
	db, svc := newReorderEnv(t, nil)
	product := models.Product{Name: "Widget", Stock: 50, LowStockThreshold: 10}
	mustCreate(t, db, &product)
	seedSales(t, db, product.ID, 5, 7) // avg = ceil(12/2) = 6

	result, err := svc.Suggest(context.Background(), product.ID)
	require.NoError(t, err)

	assert.Equal(t, "Widget", result.Product.Name)
	assert.Equal(t, 50, result.Product.CurrentStock)
	assert.Equal(t, 10, result.Product.Threshold)
	assert.Equal(t, 2, result.SalesData.RecentSales)
	assert.Equal(t, 6, result.SalesData.AvgMonthlySales)

	// max(threshold*2, avg*2) = max(20, 12) = 20; not low stock.
	assert.Equal(t, 20, result.Suggestion.RecommendedQuantity)
	assert.Equal(t, services.UrgencyLow, result.Suggestion.Urgency)
	assert.NotEmpty(t, result.Suggestion.Reasoning)
}

func TestSuggestFallbackHighUrgencyWhenLow(t *testing.T) {
	db, svc := newReorderEnv(t, nil)
	product := models.Product{Name: "Widget", Stock: 3, LowStockThreshold: 10}
	mustCreate(t, db, &product)
	seedSales(t, db, product.ID, 20, 25) // avg = ceil(45/2) = 23, 23*2 > 20

	result, err := svc.Suggest(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 46, result.Suggestion.RecommendedQuantity)
	assert.Equal(t, services.UrgencyHigh, result.Suggestion.Urgency)
}

func TestSuggestNoSalesHistory(t *testing.T) {
	db, svc := newReorderEnv(t, nil)
	product := models.Product{Name: "Widget", Stock: 50, LowStockThreshold: 8}
	mustCreate(t, db, &product)

	// Purchases alone contribute nothing to the velocity estimate.
	mustCreate(t, db, &models.Transaction{
		ProductID: product.ID,
		Type:      models.TransactionPurchase,
		Quantity:  100,
	})

	result, err := svc.Suggest(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.SalesData.RecentSales)
	assert.Equal(t, 1, result.SalesData.AvgMonthlySales)
	assert.Equal(t, 16, result.Suggestion.RecommendedQuantity)
}

func TestSuggestWindowLimitsHistory(t *testing.T) {
	db, svc := newReorderEnv(t, nil)
	product := models.Product{Name: "Widget", Stock: 50, LowStockThreshold: 1}
	mustCreate(t, db, &product)

	// Twelve sales; only the newest ten are in the window. The two oldest
	// (quantity 100) must not skew the average: the remaining ten sold 2
	// each, avg = 2.
	seedSales(t, db, product.ID, 100, 100)
	seedSales(t, db, product.ID, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2)

	result, err := svc.Suggest(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, result.SalesData.RecentSales)
	assert.Equal(t, 2, result.SalesData.AvgMonthlySales)
}

func TestSuggestUsesAdvisorReply(t *testing.T) {
	advisor := &stubAdvisor{reply: "Here is my analysis:\n" +
		"```json\n{\"recommendedQuantity\": 42, \"reasoning\": \"sales are steady\", \"urgency\": \"medium\"}\n```"}
	db, svc := newReorderEnv(t, advisor)
	product := models.Product{Name: "Widget", Stock: 50, LowStockThreshold: 10, Category: "Hardware"}
	mustCreate(t, db, &product)
	seedSales(t, db, product.ID, 4)

	result, err := svc.Suggest(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, result.Suggestion.RecommendedQuantity)
	assert.Equal(t, "sales are steady", result.Suggestion.Reasoning)
	assert.Equal(t, services.UrgencyMedium, result.Suggestion.Urgency)

	assert.Contains(t, advisor.prompt, "Widget")
	assert.Contains(t, advisor.prompt, "Hardware")
}

func TestSuggestFallsBackOnAdvisorError(t *testing.T) {
	advisor := &stubAdvisor{err: errors.New("upstream timeout")}
	db, svc := newReorderEnv(t, advisor)
	product := models.Product{Name: "Widget", Stock: 50, LowStockThreshold: 10}
	mustCreate(t, db, &product)

	result, err := svc.Suggest(context.Background(), product.ID)
	require.NoError(t, err, "advisory failure must not surface")
	assert.Equal(t, 20, result.Suggestion.RecommendedQuantity)
}

func TestSuggestFallsBackOnGarbageReply(t *testing.T) {
	cases := map[string]string{
		"no json":         "I think you should order more stock soon.",
		"truncated":       `{"recommendedQuantity": 42, "reasoning": "cut off`,
		"invalid urgency": `{"recommendedQuantity": 42, "reasoning": "ok", "urgency": "critical"}`,
		"negative qty":    `{"recommendedQuantity": -5, "reasoning": "ok", "urgency": "low"}`,
	}
	for name, reply := range cases {
		t.Run(name, func(t *testing.T) {
			db, svc := newReorderEnv(t, &stubAdvisor{reply: reply})
			product := models.Product{Name: "Widget", Stock: 50, LowStockThreshold: 10}
			mustCreate(t, db, &product)

			result, err := svc.Suggest(context.Background(), product.ID)
			require.NoError(t, err)
			assert.Equal(t, 20, result.Suggestion.RecommendedQuantity)
			assert.Equal(t, services.UrgencyLow, result.Suggestion.Urgency)
		})
	}
}

// Every fallback path counts, the unconfigured-advisor one included.
func TestSuggestWithoutAdvisorCountsFallback(t *testing.T) {
	db, svc := newReorderEnv(t, nil)
	product := models.Product{Name: "Widget", Stock: 50, LowStockThreshold: 10}
	mustCreate(t, db, &product)

	before := testutil.ToFloat64(metrics.AdvisoryFallbacksTotal)
	_, err := svc.Suggest(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.AdvisoryFallbacksTotal))
}

func TestSuggestUnknownProduct(t *testing.T) {
	_, svc := newReorderEnv(t, nil)
	_, err := svc.Suggest(context.Background(), 999)
	require.ErrorIs(t, err, services.ErrProductNotFound)
}
