package controllers

import (
	"net/http"
	"strings"

	"github.com/assethub/assethub.go/lib/money"
	"github.com/assethub/assethub.go/lib/responses"
	"github.com/assethub/assethub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// BalanceController : BalanceController struct
type BalanceController struct {
	svc *service.AssethubService
}

func NewBalanceController(svc *service.AssethubService) *BalanceController {
	return &BalanceController{svc: svc}
}

type BalanceResponseBody struct {
	AssetSymbol string       `json:"asset_symbol"`
	Amount      money.Amount `json:"amount"`
}

// Balance : Return the caller's holding of one asset. A symbol the caller
// never held, registered or not, reads as zero; this endpoint never fails
// on absence.
func (controller *BalanceController) Balance(c echo.Context) error {
	login, ok := c.Get("UserLogin").(string)
	if !ok || login == "" {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}
	symbol := strings.ToLower(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	amount, err := controller.svc.Ledger.Balance(c.Request().Context(), login, symbol)
	if err != nil {
		c.Logger().Errorf("Failed to read balance for user %s asset %s: %v", login, symbol, err)
		resp := responses.FromError(err)
		return c.JSON(resp.HttpStatusCode, resp)
	}

	return c.JSON(http.StatusOK, &BalanceResponseBody{
		AssetSymbol: symbol,
		Amount:      amount,
	})
}
