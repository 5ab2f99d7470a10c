package controllers

import (
	"errors"
	"net/http"

	"github.com/assethub/assethub.go/common"
	"github.com/assethub/assethub.go/lib/responses"
	"github.com/assethub/assethub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// CreateUserController : Create user controller struct
type CreateUserController struct {
	svc *service.AssethubService
}

func NewCreateUserController(svc *service.AssethubService) *CreateUserController {
	return &CreateUserController{svc: svc}
}

type CreateUserRequestBody struct {
	Login     string `json:"login" validate:"required"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"omitempty,email"`
}

type CreateUserResponseBody struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Role  string `json:"role"`
}

// CreateUser : Register a regular account holder
func (controller *CreateUserController) CreateUser(c echo.Context) error {
	if !controller.svc.Config.AllowAccountCreation {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}
	return controller.create(c, common.RoleUser)
}

// CreateAdmin : Bootstrap the admin account. Only available while the
// user table is still empty, afterwards it always answers 403.
func (controller *CreateUserController) CreateAdmin(c echo.Context) error {
	hasUsers, err := controller.svc.HasUsers(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("Failed to count users: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	if hasUsers {
		return c.JSON(http.StatusForbidden, responses.ForbiddenError)
	}
	return controller.create(c, common.RoleAdmin)
}

func (controller *CreateUserController) create(c echo.Context, role string) error {
	var body CreateUserRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create user request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	user, err := controller.svc.CreateUser(c.Request().Context(), service.CreateUserParams{
		Login:     body.Login,
		Password:  body.Password,
		Role:      role,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     body.Email,
	})
	if err != nil {
		if errors.Is(err, service.ErrLoginTaken) {
			return c.JSON(http.StatusBadRequest, responses.LoginTakenError)
		}
		c.Logger().Errorf("Failed to create user: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	return c.JSON(http.StatusOK, &CreateUserResponseBody{
		ID:    user.ID,
		Login: user.Login,
		Role:  user.Role,
	})
}
