package tokens

import (
	"net/http"

	"github.com/assethub/assethub.go/common"
	"github.com/assethub/assethub.go/lib/responses"
	"github.com/labstack/echo/v4"
)

// AdminOnly rejects authenticated callers that do not carry the admin
// role. It must run after Middleware.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("UserRole").(string)
			if !ok || role != common.RoleAdmin {
				return c.JSON(http.StatusForbidden, responses.ForbiddenError)
			}
			return next(c)
		}
	}
}
