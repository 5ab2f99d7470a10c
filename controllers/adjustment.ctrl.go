package controllers

import (
	"net/http"

	"github.com/assethub/assethub.go/common"
	"github.com/assethub/assethub.go/lib/money"
	"github.com/assethub/assethub.go/lib/responses"
	"github.com/assethub/assethub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// AdjustmentController : Admin mint and burn endpoints
type AdjustmentController struct {
	svc *service.AssethubService
}

func NewAdjustmentController(svc *service.AssethubService) *AdjustmentController {
	return &AdjustmentController{svc: svc}
}

type AdjustmentRequestBody struct {
	Username    string `json:"username" validate:"required"`
	AssetSymbol string `json:"asset_symbol" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
}

type AdjustmentResponseBody struct {
	Message string `json:"message"`
}

// Increase : Mint funds onto a user's balance
func (controller *AdjustmentController) Increase(c echo.Context) error {
	return controller.adjust(c, common.AdjustmentCredit)
}

// Decrease : Burn funds from a user's balance
func (controller *AdjustmentController) Decrease(c echo.Context) error {
	return controller.adjust(c, common.AdjustmentDebit)
}

func (controller *AdjustmentController) adjust(c echo.Context, direction string) error {
	var body AdjustmentRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load adjustment request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	delta, err := money.Parse(body.Amount)
	if err != nil || !delta.IsPositive() {
		return c.JSON(http.StatusBadRequest, responses.InvalidAmountError)
	}

	err = controller.svc.AdjustBalance(c.Request().Context(), body.Username, body.AssetSymbol, delta, direction)
	if err != nil {
		c.Logger().Errorf("Failed to %s balance of %s: %v", direction, body.Username, err)
		resp := responses.FromError(err)
		return c.JSON(resp.HttpStatusCode, resp)
	}

	return c.JSON(http.StatusOK, &AdjustmentResponseBody{Message: "ok"})
}
