package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zsmartex/vaultex/controllers"
	"github.com/zsmartex/vaultex/controllers/admin_controllers"
	"github.com/zsmartex/vaultex/controllers/market_controllers"
	"github.com/zsmartex/vaultex/controllers/wallet_controllers"
	"github.com/zsmartex/vaultex/routes/middlewares"
)

func SetupRouter() *fiber.App {
	app := fiber.New()

	app.Get("/api/v2/public/timestamp", controllers.GetTimestamp)
	app.Get("/api/v2/public/assets", controllers.GetAssets)
	app.Get("/api/v2/public/assets/:id", controllers.GetAsset)

	account := app.Group("/api/v2/account", middlewares.Authenticate)
	account.Get("/balances", controllers.GetBalances)
	account.Get("/ledger", controllers.GetLedgerEntries)

	market := app.Group("/api/v2/market", middlewares.Authenticate)
	market.Post("/orders", market_controllers.CreateOrder)
	market.Get("/orders", market_controllers.GetOrders)
	market.Get("/orders/:uuid", market_controllers.GetOrderByUUID)
	market.Post("/orders/:uuid/cancel", market_controllers.CancelOrderByUUID)
	market.Get("/fills", market_controllers.GetFills)

	wallet := app.Group("/api/v2/wallet", middlewares.Authenticate)
	wallet.Post("/deposits", wallet_controllers.CreateDeposit)
	wallet.Post("/withdrawals", wallet_controllers.CreateWithdrawal)
	wallet.Get("/transactions", wallet_controllers.GetTransactions)
	wallet.Post("/transactions/:tid/cancel", wallet_controllers.CancelTransaction)

	admin := app.Group("/api/v2/admin", middlewares.Authenticate, middlewares.AdminVaildator)
	admin.Get("/transactions/pending", admin_controllers.GetPendingTransactions)
	admin.Post("/transactions/:tid/approve", admin_controllers.ApproveTransaction)
	admin.Put("/assets/:id/price", admin_controllers.UpdateAssetPrice)
	admin.Post("/fills", admin_controllers.CreateFill)

	return app
}
