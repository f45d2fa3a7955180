package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shashiranjanraj/stockledger/app/models"
	"github.com/shashiranjanraj/stockledger/app/routes"
	"github.com/shashiranjanraj/stockledger/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

type env struct {
	db      *gorm.DB
	handler http.Handler
	token   string
}

func newEnv(t *testing.T) *env {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Supplier{}, &models.Product{}, &models.Transaction{},
	))

	r := router.New()
	routes.RegisterAPI(r, db, nil, nil)

	e := &env{db: db, handler: r.Handler()}
	e.register(t)
	return e
}

func (e *env) register(t *testing.T) {
	t.Helper()
	res := e.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Tester", "email": "tester@example.com", "password": "secret-pass-1",
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	res = e.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "tester@example.com", "password": "secret-pass-1",
	})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.Token)
	e.token = body.Data.Token
}

func (e *env) do(t *testing.T, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	var body struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NoError(t, json.Unmarshal(body.Data, dest))
}

func TestHealthOpen(t *testing.T) {
	e := newEnv(t)
	e.token = ""
	res := e.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	e := newEnv(t)
	e.token = ""
	res := e.do(t, http.MethodGet, "/api/transactions", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestTransactionLifecycle(t *testing.T) {
	e := newEnv(t)

	product := models.Product{Name: "Widget", Price: 9.99, Stock: 5, LowStockThreshold: 3}
	require.NoError(t, e.db.Create(&product).Error)

	// Purchase 10, stock 5 -> 15.
	res := e.do(t, http.MethodPost, "/api/transactions", map[string]interface{}{
		"productId": product.ID, "type": "purchase", "quantity": 10, "price": 4.5,
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	var created struct {
		ID         uint    `json:"ID"`
		Quantity   int     `json:"quantity"`
		TotalValue float64 `json:"totalValue"`
	}
	decodeData(t, res, &created)
	assert.Equal(t, 10, created.Quantity)
	assert.InDelta(t, 45.0, created.TotalValue, 1e-9)

	// Oversell: 16 > 15 available.
	res = e.do(t, http.MethodPost, "/api/transactions", map[string]interface{}{
		"productId": product.ID, "type": "sale", "quantity": 16, "price": 9.99,
	})
	assert.Equal(t, http.StatusConflict, res.Code, res.Body.String())

	// The ledger shows the single purchase.
	res = e.do(t, http.MethodGet, "/api/transactions", nil)
	require.Equal(t, http.StatusOK, res.Code)
	var listed []json.RawMessage
	decodeData(t, res, &listed)
	assert.Len(t, listed, 1)

	// Delete the purchase: stock returns to 5.
	res = e.do(t, http.MethodDelete, fmt.Sprintf("/api/transactions/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var p models.Product
	require.NoError(t, e.db.First(&p, product.ID).Error)
	assert.Equal(t, 5, p.Stock)
}

func TestTransactionValidationAndErrors(t *testing.T) {
	e := newEnv(t)

	// Malformed body.
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Invalid fields.
	res := e.do(t, http.MethodPost, "/api/transactions", map[string]interface{}{
		"type": "transfer", "quantity": 0,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)

	// Unknown product.
	res = e.do(t, http.MethodPost, "/api/transactions", map[string]interface{}{
		"productId": 999, "type": "purchase", "quantity": 1,
	})
	assert.Equal(t, http.StatusNotFound, res.Code)

	// Non-numeric id parameter.
	res = e.do(t, http.MethodGet, "/api/transactions/abc", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)

	// Missing transaction.
	res = e.do(t, http.MethodDelete, "/api/transactions/424242", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestDashboardEndpoints(t *testing.T) {
	e := newEnv(t)

	supplier := models.Supplier{Name: "Acme"}
	require.NoError(t, e.db.Create(&supplier).Error)
	require.NoError(t, e.db.Create(&models.Product{
		Name: "Scarce", Price: 2, Stock: 1, LowStockThreshold: 5, SupplierID: &supplier.ID,
	}).Error)

	res := e.do(t, http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var stats struct {
		TotalProducts    int64   `json:"totalProducts"`
		LowStockProducts int64   `json:"lowStockProducts"`
		TotalSuppliers   int64   `json:"totalSuppliers"`
		InventoryValue   float64 `json:"inventoryValue"`
	}
	decodeData(t, res, &stats)
	assert.EqualValues(t, 1, stats.TotalProducts)
	assert.EqualValues(t, 1, stats.LowStockProducts)
	assert.EqualValues(t, 1, stats.TotalSuppliers)
	assert.InDelta(t, 2.0, stats.InventoryValue, 1e-9)

	res = e.do(t, http.MethodGet, "/api/dashboard/alerts", nil)
	require.Equal(t, http.StatusOK, res.Code)
	var alerts []struct {
		Name       string `json:"name"`
		IsLowStock bool   `json:"isLowStock"`
		Supplier   *struct {
			Name string `json:"name"`
		} `json:"supplier"`
	}
	decodeData(t, res, &alerts)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Scarce", alerts[0].Name)
	assert.True(t, alerts[0].IsLowStock)
	require.NotNil(t, alerts[0].Supplier)
	assert.Equal(t, "Acme", alerts[0].Supplier.Name)
}

func TestReorderSuggestionFallback(t *testing.T) {
	e := newEnv(t)

	product := models.Product{Name: "Widget", Stock: 2, LowStockThreshold: 10}
	require.NoError(t, e.db.Create(&product).Error)

	res := e.do(t, http.MethodPost, "/api/ai/reorder-suggestions", map[string]interface{}{
		"productId": product.ID,
	})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var result struct {
		Suggestion struct {
			RecommendedQuantity int    `json:"recommendedQuantity"`
			Urgency             string `json:"urgency"`
		} `json:"suggestion"`
	}
	decodeData(t, res, &result)
	assert.Equal(t, 20, result.Suggestion.RecommendedQuantity)
	assert.Equal(t, "high", result.Suggestion.Urgency)
}

func TestProductCRUDAndStockImmutability(t *testing.T) {
	e := newEnv(t)

	res := e.do(t, http.MethodPost, "/api/products", map[string]interface{}{
		"name": "Widget", "price": 3.5, "stock": 7, "lowStockThreshold": 2, "category": "Hardware",
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	var created struct {
		ID uint `json:"ID"`
	}
	decodeData(t, res, &created)

	// Update must not touch stock even when the payload carries one.
	res = e.do(t, http.MethodPut, fmt.Sprintf("/api/products/%d", created.ID), map[string]interface{}{
		"name": "Widget v2", "price": 4.0, "stock": 999,
	})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var p models.Product
	require.NoError(t, e.db.First(&p, created.ID).Error)
	assert.Equal(t, "Widget v2", p.Name)
	assert.Equal(t, 7, p.Stock)

	res = e.do(t, http.MethodDelete, fmt.Sprintf("/api/products/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestGraphQLQuery(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.db.Create(&models.Product{Name: "Widget", Price: 3, Stock: 4}).Error)

	res := e.do(t, http.MethodPost, "/api/graphql", map[string]interface{}{
		"query": `{ products { name stock } }`,
	})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var body struct {
		Data struct {
			Products []struct {
				Name  string `json:"name"`
				Stock int    `json:"stock"`
			} `json:"products"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.Len(t, body.Data.Products, 1)
	assert.Equal(t, "Widget", body.Data.Products[0].Name)
	assert.Equal(t, 4, body.Data.Products[0].Stock)
}
