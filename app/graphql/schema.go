// Package graphql exposes a read-only query surface for dashboard
// consumers that prefer one round trip over several REST calls. It only
// reads; every mutation stays on the REST ledger endpoints.
package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/shashiranjanraj/stockledger/app/models"
	"github.com/shashiranjanraj/stockledger/app/repositories"
	"github.com/shashiranjanraj/stockledger/app/services"
	gqlschema "github.com/shashiranjanraj/stockledger/pkg/graphql"
	"github.com/shashiranjanraj/stockledger/pkg/response"
)

var supplierType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Supplier",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if supplier, ok := p.Source.(*models.Supplier); ok && supplier != nil {
					return int(supplier.ID), nil
				}
				return nil, nil
			},
		},
		"name":  &graphql.Field{Type: graphql.String},
		"email": &graphql.Field{Type: graphql.String},
		"phone": &graphql.Field{Type: graphql.String},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if product, ok := p.Source.(models.Product); ok {
					return int(product.ID), nil
				}
				return nil, nil
			},
		},
		"name":              &graphql.Field{Type: graphql.String},
		"description":       &graphql.Field{Type: graphql.String},
		"price":             &graphql.Field{Type: graphql.Float},
		"stock":             &graphql.Field{Type: graphql.Int},
		"lowStockThreshold": &graphql.Field{Type: graphql.Int},
		"category":          &graphql.Field{Type: graphql.String},
		"supplier":          &graphql.Field{Type: supplierType},
		"isLowStock": &graphql.Field{
			Type: graphql.Boolean,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if product, ok := p.Source.(models.Product); ok {
					return product.IsLowStock(), nil
				}
				return nil, nil
			},
		},
	},
})

var statsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Stats",
	Fields: graphql.Fields{
		"totalProducts":    &graphql.Field{Type: graphql.Int},
		"lowStockProducts": &graphql.Field{Type: graphql.Int},
		"totalSuppliers":   &graphql.Field{Type: graphql.Int},
		"inventoryValue":   &graphql.Field{Type: graphql.Float},
	},
})

// NewHandler builds the /api/graphql POST handler.
func NewHandler(products *repositories.ProductRepository, dashboard *services.DashboardService) (http.HandlerFunc, error) {
	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQuery",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return products.All(p.Context)
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					return products.FindByIDWithSupplier(p.Context, uint(id))
				},
			},
			"alerts": &graphql.Field{
				Type: graphql.NewList(productType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return dashboard.Alerts(p.Context)
				},
			},
			"stats": &graphql.Field{
				Type: statsType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return dashboard.Stats(p.Context)
				},
			},
		},
	})

	schema, err := gqlschema.NewSchema(rootQuery)
	if err != nil {
		return nil, err
	}

	handler := func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "invalid GraphQL request body")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  body.Query,
			VariableValues: body.Variables,
			Context:        r.Context(),
		})

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
	return handler, nil
}
