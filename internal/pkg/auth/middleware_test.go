package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/airenas/scribe/internal/pkg/roles"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initMdlwTest(t *testing.T, allowed ...roles.Role) (*echo.Echo, *TokenMaker) {
	t.Helper()
	tm := newTestMaker(t)
	e := echo.New()
	mdlw := []echo.MiddlewareFunc{Authenticate(tm)}
	if len(allowed) > 0 {
		mdlw = append(mdlw, RequireRole(allowed...))
	}
	e.GET("/olia", func(c echo.Context) error {
		id, err := IdentityFor(c)
		require.Nil(t, err)
		return c.String(http.StatusOK, id.ID)
	}, mdlw...)
	return e, tm
}

func testMdlwCode(t *testing.T, e *echo.Echo, header string, code int) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/olia", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	resp := httptest.NewRecorder()
	e.ServeHTTP(resp, req)
	require.Equal(t, code, resp.Code)
	return resp
}

func TestAuthenticate(t *testing.T) {
	e, tm := initMdlwTest(t)
	token, err := tm.Mint("u1", roles.Admin)
	require.Nil(t, err)

	resp := testMdlwCode(t, e, "Bearer "+token, http.StatusOK)
	assert.Equal(t, "u1", resp.Body.String())
}

func TestAuthenticate_FailNoHeader(t *testing.T) {
	e, _ := initMdlwTest(t)
	testMdlwCode(t, e, "", http.StatusUnauthorized)
}

func TestAuthenticate_FailNoBearer(t *testing.T) {
	e, tm := initMdlwTest(t)
	token, err := tm.Mint("u1", roles.Admin)
	require.Nil(t, err)
	testMdlwCode(t, e, token, http.StatusUnauthorized)
}

func TestAuthenticate_FailWrongToken(t *testing.T) {
	e, _ := initMdlwTest(t)
	testMdlwCode(t, e, "Bearer olia", http.StatusUnauthorized)
}

func TestRequireRole(t *testing.T) {
	e, tm := initMdlwTest(t, roles.Admin, roles.Controller)
	token, err := tm.Mint("u1", roles.Controller)
	require.Nil(t, err)
	testMdlwCode(t, e, "Bearer "+token, http.StatusOK)
}

func TestRequireRole_Fail(t *testing.T) {
	e, tm := initMdlwTest(t, roles.Admin)
	token, err := tm.Mint("u1", roles.Transcriber)
	require.Nil(t, err)
	testMdlwCode(t, e, "Bearer "+token, http.StatusForbidden)
}
