package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/stockledger/app/services"
	"github.com/shashiranjanraj/stockledger/pkg/response"
)

// DashboardController serves the aggregate views.
type DashboardController struct {
	dashboard *services.DashboardService
}

func NewDashboardController(dashboard *services.DashboardService) *DashboardController {
	return &DashboardController{dashboard: dashboard}
}

// Stats returns the live dashboard snapshot.
func (c *DashboardController) Stats(w http.ResponseWriter, r *http.Request) {
	snapshot, err := c.dashboard.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, snapshot)
}

// Alerts returns all low-stock products with their suppliers.
func (c *DashboardController) Alerts(w http.ResponseWriter, r *http.Request) {
	products, err := c.dashboard.Alerts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, products)
}
