package integration_tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/assethub/assethub.go/lib"
	"github.com/assethub/assethub.go/lib/ledger"
	"github.com/assethub/assethub.go/lib/responses"
	"github.com/assethub/assethub.go/lib/service"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// assethubTestServiceInit builds a service backed by the in-memory store
// so the HTTP layer can be exercised without Postgres.
func assethubTestServiceInit() (*service.AssethubService, *ledger.MemoryStore) {
	store := ledger.NewMemoryStore()
	svc := &service.AssethubService{
		Config: &service.Config{
			JWTSecret:             []byte("SECRET"),
			JWTAccessTokenExpiry:  3600,
			JWTRefreshTokenExpiry: 3600,
			AllowAccountCreation:  true,
		},
		Ledger: ledger.NewEngine(store),
		Logger: lib.Logger(""),
	}
	return svc, store
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = responses.HTTPErrorHandler
	e.Validator = &lib.CustomValidator{Validator: validator.New()}
	return e
}

// newJSONContext builds an echo context carrying a JSON body, ready to be
// handed to a controller method.
func newJSONContext(e *echo.Echo, method, target string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newGetContext(e *echo.Echo, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
