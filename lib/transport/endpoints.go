package transport

import (
	"github.com/assethub/assethub.go/controllers"
	"github.com/assethub/assethub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// RegisterEndpoints wires the full HTTP surface. The secured group
// requires a valid access token, the admin group additionally requires
// the admin role.
func RegisterEndpoints(svc *service.AssethubService, e *echo.Echo, secured *echo.Group, admin *echo.Group, strictRateLimitMiddleware echo.MiddlewareFunc, logMw echo.MiddlewareFunc) {
	// Public endpoints for account creation and authentication
	e.POST("/auth", controllers.NewAuthController(svc).Auth, logMw)
	createUserCtrl := controllers.NewCreateUserController(svc)
	e.POST("/register", createUserCtrl.CreateUser, strictRateLimitMiddleware, logMw)
	// open only until the first admin exists
	e.POST("/admin/register", createUserCtrl.CreateAdmin, strictRateLimitMiddleware, logMw)

	// Secured endpoints which require an Authorization token (JWT)
	secured.GET("/balances/:symbol", controllers.NewBalanceController(svc).Balance)
	secured.POST("/transfer", controllers.NewTransferController(svc).Transfer)

	// Admin endpoints
	assetsCtrl := controllers.NewAssetsController(svc)
	admin.POST("/admin/assets", assetsCtrl.Create)
	admin.GET("/admin/assets", assetsCtrl.List)
	admin.PUT("/admin/assets/:symbol", assetsCtrl.Update)
	admin.DELETE("/admin/assets/:symbol", assetsCtrl.Delete)

	adjustmentCtrl := controllers.NewAdjustmentController(svc)
	admin.POST("/admin/balances/increase", adjustmentCtrl.Increase)
	admin.POST("/admin/balances/decrease", adjustmentCtrl.Decrease)

	ratesCtrl := controllers.NewRatesController(svc)
	admin.POST("/admin/exchange/rates", ratesCtrl.SetRate)
	admin.GET("/admin/exchange/rates", ratesCtrl.ListRates)
}
