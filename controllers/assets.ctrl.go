package controllers

import (
	"net/http"

	"github.com/assethub/assethub.go/lib/ledger"
	"github.com/assethub/assethub.go/lib/responses"
	"github.com/assethub/assethub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// AssetsController : Admin asset registry endpoints
type AssetsController struct {
	svc *service.AssethubService
}

func NewAssetsController(svc *service.AssethubService) *AssetsController {
	return &AssetsController{svc: svc}
}

type AssetRequestBody struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Decimals    int    `json:"decimals" validate:"gte=0"`
}

type ListAssetsResponseBody struct {
	Assets []ledger.AssetTotal `json:"assets"`
}

type DeleteAssetResponseBody struct {
	Message string `json:"message"`
}

// Create : Register a new asset
func (controller *AssetsController) Create(c echo.Context) error {
	var body AssetRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load asset request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	asset, err := controller.svc.Ledger.CreateAsset(c.Request().Context(), body.Symbol, body.Name, body.Description, body.Decimals)
	if err != nil {
		c.Logger().Errorf("Failed to create asset %s: %v", body.Symbol, err)
		resp := responses.FromError(err)
		return c.JSON(resp.HttpStatusCode, resp)
	}
	return c.JSON(http.StatusOK, asset)
}

// Update : Change the name, description or decimals of an asset. The
// symbol is the immutable identity and comes from the path.
func (controller *AssetsController) Update(c echo.Context) error {
	var body AssetRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load asset request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	asset, err := controller.svc.Ledger.UpdateAsset(c.Request().Context(), c.Param("symbol"), body.Name, body.Description, body.Decimals)
	if err != nil {
		c.Logger().Errorf("Failed to update asset %s: %v", c.Param("symbol"), err)
		resp := responses.FromError(err)
		return c.JSON(resp.HttpStatusCode, resp)
	}
	return c.JSON(http.StatusOK, asset)
}

// Delete : Remove an asset from the registry. Existing balances in the
// asset are not touched.
func (controller *AssetsController) Delete(c echo.Context) error {
	err := controller.svc.Ledger.DeleteAsset(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		c.Logger().Errorf("Failed to delete asset %s: %v", c.Param("symbol"), err)
		resp := responses.FromError(err)
		return c.JSON(resp.HttpStatusCode, resp)
	}
	return c.JSON(http.StatusOK, &DeleteAssetResponseBody{Message: "ok"})
}

// List : All registered assets with the total amount held per asset
func (controller *AssetsController) List(c echo.Context) error {
	totals, err := controller.svc.Ledger.AssetTotals(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("Failed to list assets: %v", err)
		resp := responses.FromError(err)
		return c.JSON(resp.HttpStatusCode, resp)
	}
	return c.JSON(http.StatusOK, &ListAssetsResponseBody{Assets: totals})
}
