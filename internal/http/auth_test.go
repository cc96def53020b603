package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelhub/internal/config"
	"travelhub/internal/notify"
)

func TestLoginSuccessFailAndThrottle(t *testing.T) {
	app := newTestApp(t, func(c *config.Config) { c.LoginRateLimit = 2 })

	var fail map[string]string
	resp := app.call(t, "POST", "/auth/login", "", map[string]string{"username": "alice", "password": "wrongpass!"}, &fail)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.NotEmpty(t, fail["detail"])

	var tok map[string]any
	resp = app.call(t, "POST", "/auth/login", "", map[string]string{"username": "alice", "password": "Passw0rd!"}, &tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Bearer", tok["token_type"])
	assert.Equal(t, float64(3600), tok["expires_in"])

	resp = app.call(t, "POST", "/auth/login", "", map[string]string{"username": "alice", "password": "Passw0rd!"}, nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestRegisterThenMe(t *testing.T) {
	app := newTestApp(t)

	var created map[string]any
	resp := app.call(t, "POST", "/auth/register", "", map[string]string{
		"username": "carol", "email": "carol@travelhub.test", "password": "Sup3r$ecret", "first_name": "Carol",
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "carol", created["username"])
	assert.Equal(t, "USER", created["role"])
	assert.NotContains(t, created, "password_hash")
	require.Len(t, app.sink.Events(), 1)
	assert.Equal(t, notify.UserRegistered, app.sink.Events()[0].Kind)

	tok := app.loginWith(t, "carol", "Sup3r$ecret")
	var me map[string]any
	resp = app.call(t, "GET", "/auth/me", tok, nil, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created["id"], me["id"])
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t)

	var errs map[string][]string
	resp := app.call(t, "POST", "/auth/register", "", map[string]string{
		"username": "alice", "email": "not-an-email", "password": "short",
	}, &errs)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")

	resp = app.call(t, "POST", "/auth/register", "", map[string]string{
		"username": "ALICE", "email": "new@travelhub.test", "password": "Sup3r$ecret",
	}, &errs)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, errs, "username")
}

func TestBearerTokenRequired(t *testing.T) {
	app := newTestApp(t)

	resp := app.call(t, "GET", "/auth/me", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = app.call(t, "GET", "/bookings", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = app.call(t, "GET", "/listings", "forged.token.value", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "a bad token is rejected even on open routes")

	resp = app.call(t, "GET", "/listings", "", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
