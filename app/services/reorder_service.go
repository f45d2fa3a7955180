package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shashiranjanraj/stockledger/app/models"
	"github.com/shashiranjanraj/stockledger/app/repositories"
	"github.com/shashiranjanraj/stockledger/pkg/advisory"
	"github.com/shashiranjanraj/stockledger/pkg/logger"
	"github.com/shashiranjanraj/stockledger/pkg/metrics"
	"gorm.io/gorm"
)

// salesWindow is how many of the product's newest ledger entries feed the
// velocity estimate.
const salesWindow = 10

const fallbackReasoning = "Estimated from the low-stock threshold and recent sales history"

// Urgency levels for a reorder suggestion.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// Suggestion is a reorder recommendation, either parsed from the advisory
// service or computed by the deterministic fallback.
type Suggestion struct {
	RecommendedQuantity int    `json:"recommendedQuantity"`
	Reasoning           string `json:"reasoning"`
	Urgency             string `json:"urgency"`
}

// SuggestionResult bundles the suggestion with a snapshot of the inputs it
// was computed from, so callers can display provenance without re-querying.
type SuggestionResult struct {
	Product struct {
		Name         string `json:"name"`
		CurrentStock int    `json:"currentStock"`
		Threshold    int    `json:"threshold"`
	} `json:"product"`
	Suggestion Suggestion `json:"suggestion"`
	SalesData  struct {
		RecentSales     int `json:"recentTransactions"`
		AvgMonthlySales int `json:"avgMonthlySales"`
	} `json:"salesData"`
}

// ReorderService produces reorder suggestions by consulting the advisory
// service and falling back to a threshold/velocity formula whenever the
// advisory path fails in any way. Only product lookup can error; an
// advisory failure never reaches the caller.
type ReorderService struct {
	products     *repositories.ProductRepository
	transactions *repositories.TransactionRepository
	advisor      advisory.Client
}

func NewReorderService(
	products *repositories.ProductRepository,
	transactions *repositories.TransactionRepository,
	advisor advisory.Client,
) *ReorderService {
	return &ReorderService{products: products, transactions: transactions, advisor: advisor}
}

// Suggest computes a reorder suggestion for the product.
//
// The velocity figure is named avgMonthlySales for historical reasons: the
// window is the most recent (at most) ten sale events, not a calendar
// month.
func (s *ReorderService) Suggest(ctx context.Context, productID uint) (SuggestionResult, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SuggestionResult{}, ErrProductNotFound
		}
		return SuggestionResult{}, fmt.Errorf("reorder: load product %d: %w", productID, err)
	}

	recent, err := s.transactions.ListRecentForProduct(ctx, productID, salesWindow)
	if err != nil {
		return SuggestionResult{}, fmt.Errorf("reorder: load ledger for product %d: %w", productID, err)
	}

	salesCount, totalSold := 0, 0
	for _, t := range recent {
		if t.Type == models.TransactionSale {
			salesCount++
			totalSold += t.Quantity
		}
	}

	avgMonthlySales := 1
	if salesCount > 0 {
		avgMonthlySales = int(math.Ceil(float64(totalSold) / float64(max(1, salesCount))))
	}

	suggestion, fromAdvisor := s.consult(ctx, product, salesCount, avgMonthlySales)
	if !fromAdvisor {
		suggestion = fallbackSuggestion(product, avgMonthlySales)
	}

	var result SuggestionResult
	result.Product.Name = product.Name
	result.Product.CurrentStock = product.Stock
	result.Product.Threshold = product.LowStockThreshold
	result.Suggestion = suggestion
	result.SalesData.RecentSales = salesCount
	result.SalesData.AvgMonthlySales = avgMonthlySales
	return result, nil
}

// consult asks the advisory service and tries to extract a usable
// suggestion from its free-form reply. Any failure along the way reports
// false so the caller falls back; nothing here ever errors outward.
func (s *ReorderService) consult(ctx context.Context, product models.Product, salesCount, avgMonthlySales int) (Suggestion, bool) {
	if s.advisor == nil {
		metrics.AdvisoryFallbacksTotal.Inc()
		return Suggestion{}, false
	}

	start := time.Now()
	text, err := s.advisor.Generate(ctx, buildPrompt(product, salesCount, avgMonthlySales))
	metrics.AdvisoryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AdvisoryFallbacksTotal.Inc()
		logger.WithCtx(ctx).Warn("advisory unavailable, using fallback",
			"product_id", product.ID, "error", err)
		return Suggestion{}, false
	}

	raw, ok := extractFirstJSONObject(text)
	if !ok {
		metrics.AdvisoryFallbacksTotal.Inc()
		logger.WithCtx(ctx).Warn("advisory response had no parsable JSON, using fallback",
			"product_id", product.ID)
		return Suggestion{}, false
	}

	var parsed struct {
		RecommendedQuantity float64 `json:"recommendedQuantity"`
		Reasoning           string  `json:"reasoning"`
		Urgency             string  `json:"urgency"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		metrics.AdvisoryFallbacksTotal.Inc()
		return Suggestion{}, false
	}

	suggestion := Suggestion{
		RecommendedQuantity: int(math.Round(parsed.RecommendedQuantity)),
		Reasoning:           parsed.Reasoning,
		Urgency:             parsed.Urgency,
	}
	if suggestion.RecommendedQuantity < 0 || !validUrgency(suggestion.Urgency) {
		metrics.AdvisoryFallbacksTotal.Inc()
		return Suggestion{}, false
	}
	return suggestion, true
}

func fallbackSuggestion(product models.Product, avgMonthlySales int) Suggestion {
	urgency := UrgencyLow
	if product.IsLowStock() {
		urgency = UrgencyHigh
	}
	return Suggestion{
		RecommendedQuantity: max(product.LowStockThreshold*2, avgMonthlySales*2),
		Reasoning:           fallbackReasoning,
		Urgency:             urgency,
	}
}

func buildPrompt(product models.Product, salesCount, avgMonthlySales int) string {
	return fmt.Sprintf(`Based on the following inventory data, suggest an optimal reorder quantity:

Product: %s
Current Stock: %d
Low Stock Threshold: %d
Recent Sales Transactions: %d
Average Monthly Sales: %d
Category: %s

Consider factors like:
- Current stock level vs threshold
- Sales velocity
- Lead time buffer
- Economic order quantity principles

Provide a brief analysis and recommended reorder quantity in JSON format:
{
  "recommendedQuantity": number,
  "reasoning": "brief explanation",
  "urgency": "low/medium/high"
}`,
		product.Name,
		product.Stock,
		product.LowStockThreshold,
		salesCount,
		avgMonthlySales,
		product.CategoryOrDefault(),
	)
}

func validUrgency(u string) bool {
	return u == UrgencyLow || u == UrgencyMedium || u == UrgencyHigh
}

// extractFirstJSONObject scans text for the substring starting at the
// first '{' and ending at its matching '}'. The substring must itself be
// syntactically valid JSON; otherwise extraction fails and the caller
// falls back. Braces inside string literals are skipped while matching.
func extractFirstJSONObject(text string) ([]byte, bool) {
	start := -1
	for i := 0; i < len(text); i++ {
		if text[i] == '{' {
			start = i
			break
		}
	}
	if start == -1 {
		return nil, false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// ignore structural characters inside strings
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				candidate := []byte(text[start : i+1])
				if json.Valid(candidate) {
					return candidate, true
				}
				return nil, false
			}
		}
	}
	return nil, false
}
