package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/stockledger/app/services"
	"github.com/shashiranjanraj/stockledger/pkg/bind"
	"github.com/shashiranjanraj/stockledger/pkg/response"
)

// TransactionController exposes the ledger operations. All stock mutation
// in the API goes through here.
type TransactionController struct {
	inventory *services.InventoryService
}

func NewTransactionController(inventory *services.InventoryService) *TransactionController {
	return &TransactionController{inventory: inventory}
}

// Create appends a purchase or sale to a product's ledger.
func (c *TransactionController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateTransactionInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	txn, err := c.inventory.CreateTransaction(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Created(w, txn)
}

// Index lists the ledger, newest first.
func (c *TransactionController) Index(w http.ResponseWriter, r *http.Request) {
	txns, err := c.inventory.ListTransactions(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, txns)
}

// Show returns a single ledger entry.
func (c *TransactionController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	txn, err := c.inventory.GetTransaction(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, txn)
}

// Delete removes a ledger entry, reversing its stock effect.
func (c *TransactionController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	if err := c.inventory.DeleteTransaction(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "Transaction deleted successfully"})
}
