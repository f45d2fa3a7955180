// Package controllers maps the HTTP surface onto the service layer.
// Controllers stay thin: decode, delegate, translate errors into the
// response envelope.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/stockledger/app/services"
	"github.com/shashiranjanraj/stockledger/pkg/logger"
	"github.com/shashiranjanraj/stockledger/pkg/response"
)

// urlID parses the {id} route parameter. Reports false after writing a
// 422 when the parameter is not a positive integer.
func urlID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.ValidationError(w, map[string]string{"id": "must be a positive integer"})
		return 0, false
	}
	return uint(id), true
}

// writeServiceError translates the service error taxonomy into HTTP.
// Unrecognised errors are persistence failures: logged with the request
// context, surfaced as a generic 500 with no storage detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrTransactionNotFound),
		errors.Is(err, services.ErrSupplierNotFound):
		response.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInsufficientStock):
		response.Error(w, http.StatusConflict, "Insufficient stock")
	default:
		if v, ok := services.AsValidationError(err); ok {
			response.ValidationError(w, v.Fields)
			return
		}
		logger.WithCtx(r.Context()).Error("request failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
