package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/zibilo/table-top-orders/internal/models"
)

func newAuthHandler(env *testEnv) *AuthHandler {
	return &AuthHandler{
		DB:            env.DB,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthHandler(env)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", map[string]string{
		"username": "waiter1", "password": "s3cret",
	})
	require.NoError(t, auth.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	require.NoError(t, env.DB.Where("username = ?", "waiter1").First(&user).Error)
	require.Equal(t, "user", user.Role)
	require.NotEqual(t, "s3cret", user.PasswordHash)

	rec, c = env.doJSONRequest(http.MethodPost, "/api/v1/login", map[string]string{
		"username": "waiter1", "password": "s3cret",
	})
	require.NoError(t, auth.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		IsAdmin      bool   `json:"is_admin"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.AccessToken)
	require.NotEmpty(t, body.RefreshToken)
	require.False(t, body.IsAdmin)

	var stored models.RefreshToken
	require.NoError(t, env.DB.Where("user_id = ?", user.ID).First(&stored).Error)
	require.Equal(t, body.RefreshToken, stored.Token)
	require.False(t, stored.Revoked)

	cookies := rec.Result().Cookies()
	names := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		names = append(names, ck.Name)
		require.True(t, ck.HttpOnly)
	}
	require.Contains(t, names, "accessToken")
	require.Contains(t, names, "refreshToken")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthHandler(env)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", map[string]string{
		"username": "waiter1", "password": "s3cret",
	})
	require.NoError(t, auth.Register(c))

	_, c = env.doJSONRequest(http.MethodPost, "/api/v1/register", map[string]string{
		"username": "waiter1", "password": "other",
	})
	err := auth.Register(c)
	require.Equal(t, http.StatusConflict, httpCode(t, err))
}

func TestRegisterRequiresCredentials(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthHandler(env)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", map[string]string{"username": "waiter1"})
	err := auth.Register(c)
	require.Equal(t, http.StatusBadRequest, httpCode(t, err))
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthHandler(env)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", map[string]string{
		"username": "waiter1", "password": "s3cret",
	})
	require.NoError(t, auth.Register(c))

	_, c = env.doJSONRequest(http.MethodPost, "/api/v1/login", map[string]string{
		"username": "waiter1", "password": "wrong",
	})
	err := auth.Login(c)
	require.Equal(t, http.StatusUnauthorized, httpCode(t, err))
}

func TestLoginUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthHandler(env)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/login", map[string]string{
		"username": "ghost", "password": "whatever",
	})
	err := auth.Login(c)
	require.Equal(t, http.StatusUnauthorized, httpCode(t, err))
}

func TestLogOutRevokesRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthHandler(env)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/register", map[string]string{
		"username": "waiter1", "password": "s3cret",
	})
	require.NoError(t, auth.Register(c))

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/login", map[string]string{
		"username": "waiter1", "password": "s3cret",
	})
	require.NoError(t, auth.Login(c))

	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	rec2, c2 := env.doJSONRequest(http.MethodPost, "/api/v1/logout", nil)
	c2.Request().AddCookie(&http.Cookie{Name: "refreshToken", Value: body.RefreshToken})
	require.NoError(t, auth.LogOut(c2))
	require.Equal(t, http.StatusOK, rec2.Code)

	var stored models.RefreshToken
	require.NoError(t, env.DB.Where("token = ?", body.RefreshToken).First(&stored).Error)
	require.True(t, stored.Revoked)
}
