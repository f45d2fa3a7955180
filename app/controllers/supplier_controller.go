package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/shashiranjanraj/stockledger/app/models"
	"github.com/shashiranjanraj/stockledger/app/repositories"
	"github.com/shashiranjanraj/stockledger/app/services"
	"github.com/shashiranjanraj/stockledger/pkg/bind"
	"github.com/shashiranjanraj/stockledger/pkg/cache"
	"github.com/shashiranjanraj/stockledger/pkg/response"
	"gorm.io/gorm"
)

const supplierListTTL = time.Minute

type supplierInput struct {
	Name    string `json:"name"    validate:"required,max=255"`
	Email   string `json:"email"   validate:"omitempty,email"`
	Phone   string `json:"phone"   validate:"max=50"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// SupplierController is plain CRUD; suppliers sit outside the consistency
// core and are only joined into alerts for display.
type SupplierController struct {
	suppliers *repositories.SupplierRepository
}

func NewSupplierController(suppliers *repositories.SupplierRepository) *SupplierController {
	return &SupplierController{suppliers: suppliers}
}

func (c *SupplierController) Index(w http.ResponseWriter, r *http.Request) {
	var suppliers []models.Supplier
	if cache.Get(services.CacheKeySuppliers, &suppliers) {
		response.Success(w, suppliers)
		return
	}

	suppliers, err := c.suppliers.All(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	cache.Set(services.CacheKeySuppliers, suppliers, supplierListTTL)
	response.Success(w, suppliers)
}

func (c *SupplierController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	supplier, err := c.suppliers.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeServiceError(w, r, services.ErrSupplierNotFound)
			return
		}
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, supplier)
}

func (c *SupplierController) Create(w http.ResponseWriter, r *http.Request) {
	var in supplierInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	supplier := models.Supplier{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
		Notes:   in.Notes,
	}
	if err := c.suppliers.Create(r.Context(), &supplier); err != nil {
		writeServiceError(w, r, err)
		return
	}

	cache.Del(services.CacheKeySuppliers)
	response.Created(w, supplier)
}

func (c *SupplierController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var in supplierInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	supplier, err := c.suppliers.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeServiceError(w, r, services.ErrSupplierNotFound)
			return
		}
		writeServiceError(w, r, err)
		return
	}

	supplier.Name = in.Name
	supplier.Email = in.Email
	supplier.Phone = in.Phone
	supplier.Address = in.Address
	supplier.Notes = in.Notes

	if err := c.suppliers.Update(r.Context(), &supplier); err != nil {
		writeServiceError(w, r, err)
		return
	}

	cache.Del(services.CacheKeySuppliers)
	response.Success(w, supplier)
}

func (c *SupplierController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	if _, err := c.suppliers.FindByID(r.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeServiceError(w, r, services.ErrSupplierNotFound)
			return
		}
		writeServiceError(w, r, err)
		return
	}

	if err := c.suppliers.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	cache.Del(services.CacheKeySuppliers)
	response.Success(w, map[string]string{"message": "Supplier deleted successfully"})
}
