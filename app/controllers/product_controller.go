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

const productListTTL = 30 * time.Second

// productInput is the create/update payload. Stock is only accepted at
// creation: after that the ledger is the sole way to move it.
type productInput struct {
	Name              string  `json:"name"              validate:"required,max=255"`
	Description       string  `json:"description"`
	Price             float64 `json:"price"             validate:"gte=0"`
	Stock             int     `json:"stock"             validate:"gte=0"`
	LowStockThreshold *int    `json:"lowStockThreshold" validate:"omitempty,gte=0"`
	Category          string  `json:"category"          validate:"max=100"`
	SupplierID        *uint   `json:"supplierId"`
}

// ProductController is the catalogue CRUD wrapper around the core. It
// never touches stock after creation.
type ProductController struct {
	products *repositories.ProductRepository
}

func NewProductController(products *repositories.ProductRepository) *ProductController {
	return &ProductController{products: products}
}

// Index lists all products, served from cache when fresh.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	var products []models.Product
	if cache.Get(services.CacheKeyProducts, &products) {
		response.Success(w, products)
		return
	}

	products, err := c.products.All(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	cache.Set(services.CacheKeyProducts, products, productListTTL)
	response.Success(w, products)
}

// Show returns one product with its supplier.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	product, err := c.products.FindByIDWithSupplier(r.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeServiceError(w, r, services.ErrProductNotFound)
			return
		}
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, product)
}

// Create adds a product to the catalogue. The initial stock recorded here
// is the ledger's starting point.
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var in productInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	threshold := models.DefaultLowStockThreshold
	if in.LowStockThreshold != nil {
		threshold = *in.LowStockThreshold
	}

	product := models.Product{
		Name:              in.Name,
		Description:       in.Description,
		Price:             in.Price,
		Stock:             in.Stock,
		LowStockThreshold: threshold,
		Category:          in.Category,
		SupplierID:        in.SupplierID,
	}
	if err := c.products.Create(r.Context(), &product); err != nil {
		writeServiceError(w, r, err)
		return
	}

	cache.Del(services.CacheKeyProducts)
	response.Created(w, product)
}

// Update edits the catalogue fields of a product. Stock is deliberately
// not writable here.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var in productInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.products.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeServiceError(w, r, services.ErrProductNotFound)
			return
		}
		writeServiceError(w, r, err)
		return
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.Category = in.Category
	product.SupplierID = in.SupplierID
	if in.LowStockThreshold != nil {
		product.LowStockThreshold = *in.LowStockThreshold
	}

	if err := c.products.Update(r.Context(), &product); err != nil {
		writeServiceError(w, r, err)
		return
	}

	cache.Del(services.CacheKeyProducts)
	response.Success(w, product)
}

// Delete removes a product. Its ledger entries survive; deleting them
// later simply skips the stock reversal.
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	if _, err := c.products.FindByID(r.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeServiceError(w, r, services.ErrProductNotFound)
			return
		}
		writeServiceError(w, r, err)
		return
	}

	if err := c.products.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	cache.Del(services.CacheKeyProducts)
	response.Success(w, map[string]string{"message": "Product deleted successfully"})
}
