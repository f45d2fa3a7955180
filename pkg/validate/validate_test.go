package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/stockledger/pkg/validate"
)

type createTransactionInput struct {
	ProductID uint    `json:"productId" validate:"required"`
	Type      string  `json:"type"      validate:"required,oneof=purchase sale"`
	Quantity  int     `json:"quantity"  validate:"required,gte=1"`
	Price     float64 `json:"price"     validate:"gte=0"`
	Notes     string  `json:"notes"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(createTransactionInput{
		ProductID: 1,
		Type:      "purchase",
		Quantity:  5,
		Price:     12.50,
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(createTransactionInput{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected required errors")
	}
	if _, ok := errs["productId"]; !ok {
		t.Error("expected productId to be required")
	}
	if _, ok := errs["type"]; !ok {
		t.Error("expected type to be required")
	}
	if _, ok := errs["quantity"]; !ok {
		t.Error("expected quantity to be required")
	}
}

func TestJSONNamesUsedInErrors(t *testing.T) {
	errs := validate.Struct(createTransactionInput{Type: "purchase", Quantity: 1})
	if _, ok := errs["ProductID"]; ok {
		t.Error("errors must be keyed by json name, not Go field name")
	}
	if _, ok := errs["productId"]; !ok {
		t.Errorf("expected productId key, got: %v", errs)
	}
}

func TestOneofRule(t *testing.T) {
	errs := validate.Struct(createTransactionInput{ProductID: 1, Type: "transfer", Quantity: 1})
	if _, ok := errs["type"]; !ok {
		t.Errorf("expected type error for unknown value, got: %v", errs)
	}
	errs = validate.Struct(createTransactionInput{ProductID: 1, Type: "sale", Quantity: 1})
	if validate.HasErrors(errs) {
		t.Errorf("expected sale to pass, got: %v", errs)
	}
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Quantity int `json:"quantity" validate:"required,gte=1"`
	}
	if errs := validate.Struct(in{Quantity: -2}); !validate.HasErrors(errs) {
		t.Error("expected negative quantity to fail")
	}
	if errs := validate.Struct(in{Quantity: 3}); validate.HasErrors(errs) {
		t.Errorf("expected quantity 3 to pass, got: %v", errs)
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	if errs := validate.Struct(in{Email: "not-an-email"}); !validate.HasErrors(errs) {
		t.Error("expected email validation error")
	}
	if errs := validate.Struct(in{Email: "valid@example.com"}); validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}
