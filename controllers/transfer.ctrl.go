package controllers

import (
	"net/http"

	"github.com/assethub/assethub.go/lib/money"
	"github.com/assethub/assethub.go/lib/responses"
	"github.com/assethub/assethub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// TransferController : TransferController struct
type TransferController struct {
	svc *service.AssethubService
}

func NewTransferController(svc *service.AssethubService) *TransferController {
	return &TransferController{svc: svc}
}

type TransferRequestBody struct {
	To          string `json:"to" validate:"required"`
	AssetSymbol string `json:"asset_symbol" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
}

type TransferResponseBody struct {
	Message string `json:"message"`
}

// Transfer : Move an amount of one asset from the caller to another
// account.
func (controller *TransferController) Transfer(c echo.Context) error {
	login, ok := c.Get("UserLogin").(string)
	if !ok || login == "" {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}

	var body TransferRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load transfer request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	amount, err := money.Parse(body.Amount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.InvalidAmountError)
	}

	txn, err := controller.svc.Ledger.Transfer(c.Request().Context(), login, body.To, body.AssetSymbol, amount)
	if err != nil {
		c.Logger().Errorf("Transfer from %s to %s failed: %v", login, body.To, err)
		resp := responses.FromError(err)
		return c.JSON(resp.HttpStatusCode, resp)
	}

	controller.svc.PublishTransaction(c.Request().Context(), txn)

	return c.JSON(http.StatusOK, &TransferResponseBody{Message: "ok"})
}
