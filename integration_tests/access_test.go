package integration_tests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/assethub/assethub.go/common"
	"github.com/assethub/assethub.go/db/models"
	"github.com/assethub/assethub.go/lib/service"
	"github.com/assethub/assethub.go/lib/tokens"
	"github.com/assethub/assethub.go/lib/transport"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// AccessTestSuite drives requests through the full router so the token
// and role middlewares are part of the picture.
type AccessTestSuite struct {
	suite.Suite
	svc        *service.AssethubService
	echo       *echo.Echo
	userToken  string
	adminToken string
}

func (suite *AccessTestSuite) SetupTest() {
	suite.svc, _ = assethubTestServiceInit()
	suite.echo = newTestEcho()

	c := suite.svc.Config
	logMw := transport.CreateLoggingMiddleware(suite.svc.Logger)
	secured := suite.echo.Group("", tokens.Middleware(c.JWTSecret), logMw)
	admin := suite.echo.Group("", tokens.Middleware(c.JWTSecret), tokens.AdminOnly(), logMw)
	transport.RegisterEndpoints(suite.svc, suite.echo, secured, admin, transport.CreateRateLimitMiddleware(10, 1), logMw)

	_, err := suite.svc.Ledger.CreateAsset(context.Background(), "gold", "Gold", "", 0)
	assert.NoError(suite.T(), err)

	suite.userToken, err = tokens.GenerateAccessToken(c.JWTSecret, c.JWTAccessTokenExpiry, &models.User{ID: 1, Login: "alice", Role: common.RoleUser})
	assert.NoError(suite.T(), err)
	suite.adminToken, err = tokens.GenerateAccessToken(c.JWTSecret, c.JWTAccessTokenExpiry, &models.User{ID: 2, Login: "root", Role: common.RoleAdmin})
	assert.NoError(suite.T(), err)
}

func (suite *AccessTestSuite) request(method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	suite.echo.ServeHTTP(rec, req)
	return rec
}

func (suite *AccessTestSuite) TestSecuredEndpointRequiresToken() {
	rec := suite.request(http.MethodGet, "/balances/gold", "")
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)

	rec = suite.request(http.MethodGet, "/balances/gold", suite.userToken)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *AccessTestSuite) TestAdminEndpointRejectsUserRole() {
	rec := suite.request(http.MethodGet, "/admin/assets", suite.userToken)
	assert.Equal(suite.T(), http.StatusForbidden, rec.Code)

	rec = suite.request(http.MethodGet, "/admin/assets", suite.adminToken)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *AccessTestSuite) TestAdminEndpointRejectsMissingToken() {
	rec := suite.request(http.MethodGet, "/admin/exchange/rates", "")
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
}

func TestAccessTestSuite(t *testing.T) {
	suite.Run(t, new(AccessTestSuite))
}
