package responses

import (
	"errors"
	"net/http"

	"github.com/assethub/assethub.go/lib/ledger"
	"github.com/assethub/assethub.go/lib/money"
	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error          bool   `json:"error"`
	Code           int    `json:"code"`
	Message        string `json:"message"`
	HttpStatusCode int    `json:"-"`
}

var GeneralServerError = ErrorResponse{
	Error:          true,
	Code:           6,
	Message:        "Something went wrong. Please try again later",
	HttpStatusCode: 500,
}

var BadArgumentsError = ErrorResponse{
	Error:          true,
	Code:           8,
	Message:        "Bad arguments",
	HttpStatusCode: 400,
}

var BadAuthError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "bad auth",
	HttpStatusCode: 401,
}

var ForbiddenError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "forbidden",
	HttpStatusCode: 403,
}

var InvalidAmountError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "invalid amount, expected an unsigned integer in the asset's smallest unit",
	HttpStatusCode: 400,
}

var AssetNotFoundError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "asset not found",
	HttpStatusCode: 400,
}

var AccountNotFoundError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "account not found",
	HttpStatusCode: 400,
}

var DuplicateAssetError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "asset already exists",
	HttpStatusCode: 400,
}

var NotEnoughBalanceError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "not enough balance",
	HttpStatusCode: 400,
}

var LoginTakenError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "username already exists",
	HttpStatusCode: 400,
}

// FromError maps a ledger error to its stable wire response. Storage
// failures deliberately collapse into the generic server error so no
// internal detail leaks.
func FromError(err error) ErrorResponse {
	switch {
	case errors.Is(err, money.ErrInvalidAmount), errors.Is(err, money.ErrUnderflow):
		return InvalidAmountError
	case errors.Is(err, ledger.ErrInvalidInput):
		return BadArgumentsError
	case errors.Is(err, ledger.ErrAssetNotFound):
		return AssetNotFoundError
	case errors.Is(err, ledger.ErrAccountNotFound):
		return AccountNotFoundError
	case errors.Is(err, ledger.ErrDuplicateAsset):
		return DuplicateAssetError
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return NotEnoughBalanceError
	default:
		return GeneralServerError
	}
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("UserID", c.Get("UserID"))
			hub.CaptureException(err)
		})
	}
	if he, ok := err.(*echo.HTTPError); ok {
		c.JSON(he.Code, he.Message)
	} else {
		c.JSON(http.StatusInternalServerError, GeneralServerError)
	}
}
