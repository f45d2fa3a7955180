package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/shashiranjanraj/stockledger/app/repositories"
	"github.com/shashiranjanraj/stockledger/pkg/logger"
	"github.com/shashiranjanraj/stockledger/pkg/storage"
)

// ReportService writes point-in-time inventory valuation reports to the
// configured storage disk (local or S3).
type ReportService struct {
	products *repositories.ProductRepository
}

func NewReportService(products *repositories.ProductRepository) *ReportService {
	return &ReportService{products: products}
}

// ExportInventory writes a CSV snapshot of every product (stock, price,
// line value, low-stock flag) and returns the stored path and public URL.
func (s *ReportService) ExportInventory(ctx context.Context) (path, url string, err error) {
	products, err := s.products.All(ctx)
	if err != nil {
		return "", "", fmt.Errorf("report: load products: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "name", "category", "stock", "price", "value", "low_stock"})
	for _, p := range products {
		_ = w.Write([]string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Name,
			p.CategoryOrDefault(),
			strconv.Itoa(p.Stock),
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			strconv.FormatFloat(float64(p.Stock)*p.Price, 'f', 2, 64),
			strconv.FormatBool(p.IsLowStock()),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", "", fmt.Errorf("report: write csv: %w", err)
	}

	path = fmt.Sprintf("reports/inventory-%s.csv", time.Now().UTC().Format("20060102-150405"))
	if err := storage.Put(path, buf.Bytes()); err != nil {
		return "", "", fmt.Errorf("report: store %s: %w", path, err)
	}

	logger.WithCtx(ctx).Info("inventory report exported", "path", path, "products", len(products))
	return path, storage.URL(path), nil
}
