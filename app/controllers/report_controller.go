package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/stockledger/app/services"
	"github.com/shashiranjanraj/stockledger/pkg/response"
)

// ReportController triggers inventory report exports.
type ReportController struct {
	reports *services.ReportService
}

func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{reports: reports}
}

// ExportInventory writes a CSV valuation snapshot to the storage disk and
// returns its location.
func (c *ReportController) ExportInventory(w http.ResponseWriter, r *http.Request) {
	path, url, err := c.reports.ExportInventory(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Created(w, map[string]string{"path": path, "url": url})
}
