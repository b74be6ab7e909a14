package transport

import (
	cache "github.com/SporkHubr/echo-http-cache"
	"github.com/deqrypt/deqrypt.go/controllers"
	"github.com/deqrypt/deqrypt.go/lib/service"
	"github.com/labstack/echo/v4"
)

func RegisterV2Endpoints(svc *service.DeqryptService, e *echo.Echo, strictRateLimitMiddleware echo.MiddlewareFunc, logMw echo.MiddlewareFunc, cacheClient *cache.Client) {
	invoiceCtrl := controllers.NewInvoiceController(svc)
	payCtrl := controllers.NewPayInvoiceController(svc)
	checkCtrl := controllers.NewCheckPaymentController(svc)
	qrCtrl := controllers.NewQrController(svc)
	lendingCtrl := controllers.NewLendingController(svc)
	profileCtrl := controllers.NewProfileController(svc)

	e.GET("/healthz", controllers.NewHealthController(svc).HealthCheck)

	e.POST("/v2/invoices", invoiceCtrl.AddInvoice, logMw)
	e.GET("/v2/invoices/:id", invoiceCtrl.GetInvoice, logMw)
	e.GET("/v2/invoices/:id/status", checkCtrl.CheckPayment, logMw)
	e.GET("/v2/invoices/:id/wait", checkCtrl.WaitPayment, logMw)
	e.GET("/v2/invoices/:id/qr", qrCtrl.InvoiceQr, logMw)
	e.POST("/v2/invoices/:id/cancel", invoiceCtrl.CancelInvoice, strictRateLimitMiddleware, logMw)
	e.POST("/v2/invoices/:id/pay", payCtrl.PayInvoice, strictRateLimitMiddleware, logMw)
	e.POST("/v2/invoices/:id/pay/router", payCtrl.PayViaRouter, strictRateLimitMiddleware, logMw)
	e.POST("/v2/payments/router", payCtrl.RouterPay, strictRateLimitMiddleware, logMw)
	e.GET("/v2/payments/:address", payCtrl.ListRouterPayments, logMw)

	e.GET("/v2/balances/:address", controllers.NewBalanceController(svc).Balances, logMw)
	// rates change once a minute at most, serve them from the cache
	e.GET("/v2/rates", controllers.NewRatesController(svc).GetRates, cacheClient.Middleware(), logMw)

	e.POST("/v2/lending/recommend", lendingCtrl.Recommend, logMw)
	e.GET("/v2/lending/projects", lendingCtrl.Projects, logMw)
	e.POST("/v2/lending/deposit", lendingCtrl.Deposit, strictRateLimitMiddleware, logMw)
	e.POST("/v2/lending/withdraw", lendingCtrl.Withdraw, strictRateLimitMiddleware, logMw)
	e.GET("/v2/lending/:address", lendingCtrl.Info, logMw)
	e.POST("/v2/lending/:address/sync", lendingCtrl.Sync, logMw)

	e.GET("/v2/profile/:address", profileCtrl.GetProfile, logMw)
	e.POST("/v2/profile/username", profileCtrl.UpdateUsername, logMw)
	e.POST("/v2/profile/verify", profileCtrl.VerifyWallet, strictRateLimitMiddleware, logMw)

	e.GET("/v2/history/:address", controllers.NewHistoryController(svc).GetTransactions, logMw)
}
