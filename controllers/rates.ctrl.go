package controllers

import (
	"net/http"

	"github.com/assethub/assethub.go/db/models"
	"github.com/assethub/assethub.go/lib/money"
	"github.com/assethub/assethub.go/lib/responses"
	"github.com/assethub/assethub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// RatesController : Admin exchange rate endpoints. Rates are purely
// informational, nothing in the ledger applies them to balances.
type RatesController struct {
	svc *service.AssethubService
}

func NewRatesController(svc *service.AssethubService) *RatesController {
	return &RatesController{svc: svc}
}

type SetRateRequestBody struct {
	HomeSymbol    string `json:"home_symbol" validate:"required"`
	ForeignSymbol string `json:"foreign_symbol" validate:"required"`
	Rate          string `json:"rate" validate:"required"`
}

type ListRatesResponseBody struct {
	Rates []models.ExchangeRate `json:"rates"`
}

// SetRate : Insert or overwrite the rate for an ordered asset pair
func (controller *RatesController) SetRate(c echo.Context) error {
	var body SetRateRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load rate request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	rate, err := money.Parse(body.Rate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.InvalidAmountError)
	}

	exchangeRate, err := controller.svc.Ledger.SetRate(c.Request().Context(), body.HomeSymbol, body.ForeignSymbol, rate)
	if err != nil {
		c.Logger().Errorf("Failed to set rate %s/%s: %v", body.HomeSymbol, body.ForeignSymbol, err)
		resp := responses.FromError(err)
		return c.JSON(resp.HttpStatusCode, resp)
	}
	return c.JSON(http.StatusOK, exchangeRate)
}

// ListRates : All stored exchange rates
func (controller *RatesController) ListRates(c echo.Context) error {
	rates, err := controller.svc.Ledger.ListRates(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("Failed to list rates: %v", err)
		resp := responses.FromError(err)
		return c.JSON(resp.HttpStatusCode, resp)
	}
	return c.JSON(http.StatusOK, &ListRatesResponseBody{Rates: rates})
}
