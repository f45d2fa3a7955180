package routes

import (
	"net/http"

	"github.com/shashiranjanraj/stockledger/app/controllers"
	appgraphql "github.com/shashiranjanraj/stockledger/app/graphql"
	"github.com/shashiranjanraj/stockledger/app/repositories"
	"github.com/shashiranjanraj/stockledger/app/services"
	"github.com/shashiranjanraj/stockledger/pkg/advisory"
	"github.com/shashiranjanraj/stockledger/pkg/logger"
	"github.com/shashiranjanraj/stockledger/pkg/middleware"
	"github.com/shashiranjanraj/stockledger/pkg/response"
	"github.com/shashiranjanraj/stockledger/pkg/router"
	"github.com/shashiranjanraj/stockledger/pkg/workerpool"
	"gorm.io/gorm"
)

// RegisterAPI wires repositories, services, and controllers onto the
// router. The database handle and worker pool come from the process entry
// point; nothing here owns a global.
func RegisterAPI(r *router.Router, db *gorm.DB, pool *workerpool.Pool, advisor advisory.Client) {
	products := repositories.NewProductRepository(db)
	transactions := repositories.NewTransactionRepository(db)
	suppliers := repositories.NewSupplierRepository(db)
	users := repositories.NewUserRepository(db)

	inventory := services.NewInventoryService(products, transactions)
	dashboard := services.NewDashboardService(products, suppliers, transactions, pool)
	reorder := services.NewReorderService(products, transactions, advisor)
	reports := services.NewReportService(products)
	auth := services.NewAuthService(users)

	transactionCtl := controllers.NewTransactionController(inventory)
	dashboardCtl := controllers.NewDashboardController(dashboard)
	reorderCtl := controllers.NewReorderController(reorder)
	productCtl := controllers.NewProductController(products)
	supplierCtl := controllers.NewSupplierController(suppliers)
	reportCtl := controllers.NewReportController(reports)
	authCtl := controllers.NewAuthController(auth)

	api := r.Group("/api")
	api.Post("/auth/register", "auth.register", authCtl.Register)
	api.Post("/auth/login", "auth.login", authCtl.Login)

	protected := api.Group("", middleware.AuthMiddleware)

	protected.Get("/transactions", "transactions.index", transactionCtl.Index)
	protected.Post("/transactions", "transactions.create", transactionCtl.Create)
	protected.Get("/transactions/{id}", "transactions.show", transactionCtl.Show)
	protected.Delete("/transactions/{id}", "transactions.delete", transactionCtl.Delete)

	protected.Get("/dashboard/stats", "dashboard.stats", dashboardCtl.Stats)
	protected.Get("/dashboard/alerts", "dashboard.alerts", dashboardCtl.Alerts)

	protected.Post("/ai/reorder-suggestions", "ai.reorder", reorderCtl.Suggest)

	protected.Get("/products", "products.index", productCtl.Index)
	protected.Post("/products", "products.create", productCtl.Create)
	protected.Get("/products/{id}", "products.show", productCtl.Show)
	protected.Put("/products/{id}", "products.update", productCtl.Update)
	protected.Delete("/products/{id}", "products.delete", productCtl.Delete)

	protected.Get("/suppliers", "suppliers.index", supplierCtl.Index)
	protected.Post("/suppliers", "suppliers.create", supplierCtl.Create)
	protected.Get("/suppliers/{id}", "suppliers.show", supplierCtl.Show)
	protected.Put("/suppliers/{id}", "suppliers.update", supplierCtl.Update)
	protected.Delete("/suppliers/{id}", "suppliers.delete", supplierCtl.Delete)

	protected.Post("/reports/inventory", "reports.inventory", reportCtl.ExportInventory)

	if gqlHandler, err := appgraphql.NewHandler(products, dashboard); err != nil {
		logger.Error("graphql schema build failed, endpoint disabled", "error", err)
	} else {
		protected.Post("/graphql", "graphql", gqlHandler)
	}

	r.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
}
