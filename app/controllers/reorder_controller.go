package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/stockledger/app/services"
	"github.com/shashiranjanraj/stockledger/pkg/bind"
	"github.com/shashiranjanraj/stockledger/pkg/response"
)

// ReorderController exposes the advisory-backed reorder suggestion.
type ReorderController struct {
	reorder *services.ReorderService
}

func NewReorderController(reorder *services.ReorderService) *ReorderController {
	return &ReorderController{reorder: reorder}
}

// Suggest returns a reorder recommendation for one product. The advisory
// service failing in any way is not an error here; the deterministic
// fallback always yields a suggestion.
func (c *ReorderController) Suggest(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ProductID uint `json:"productId" validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := c.reorder.Suggest(r.Context(), in.ProductID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, result)
}
