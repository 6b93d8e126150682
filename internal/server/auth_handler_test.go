package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/mock-interview/internal/types"
)

func TestAuthHandler_Register(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Ada", "email": "Ada@Example.com", "password": "password123",
		"image_url": "https://example.com/ada.png",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decodeBody[types.LoginResponse](t, w)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, "https://example.com/ada.png", resp.User.ImageURL)
	assert.True(t, resp.User.PasswordSet)
	assert.NotContains(t, w.Body.String(), "password_hash")
	assert.NotContains(t, w.Body.String(), "$2a$")
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "dup@example.com")

	w := env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Again", "email": "dup@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, decodeBody[map[string]string](t, w)["error"], "already registered")
}

func TestAuthHandler_Register_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/auth/register", "", "invalid json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody[map[string]string](t, w)["error"], "invalid JSON")
}

func TestAuthHandler_Register_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		reqBody map[string]string
		field   string
	}{
		{"missing name", map[string]string{"email": "a@example.com", "password": "password123"}, "Name"},
		{"invalid email", map[string]string{"name": "A", "email": "not-an-email", "password": "password123"}, "Email"},
		{"short password", map[string]string{"name": "A", "email": "a@example.com", "password": "short"}, "Password"},
		{"bad image url", map[string]string{"name": "A", "email": "a@example.com", "password": "password123", "image_url": "nope"}, "ImageURL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			w := env.do(t, http.MethodPost, "/auth/register", "", tt.reqBody)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decodeBody[map[string]string](t, w)["error"], tt.field)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := env.registerUser(t, "login@example.com")

	w := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "LOGIN@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[types.LoginResponse](t, w)
	assert.Equal(t, userID, resp.User.ID)
	assert.NotEmpty(t, resp.Token)
}

func TestAuthHandler_Login_GenericErrors(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "known@example.com")

	wrongPassword := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "known@example.com", "password": "wrong-password",
	})
	unknownEmail := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "unknown@example.com", "password": "password123",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestAuthHandler_UpdatePassword(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, "pw@example.com")

	w := env.do(t, http.MethodPut, "/auth/password", token, map[string]string{
		"current_password": "password123", "new_password": "newpassword456",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "pw@example.com", "password": "newpassword456",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_UpdatePassword_WrongCurrent(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, "pw2@example.com")

	w := env.do(t, http.MethodPut, "/auth/password", token, map[string]string{
		"current_password": "not-my-password", "new_password": "newpassword456",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_UpdatePassword_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPut, "/auth/password", "", map[string]string{
		"current_password": "password123", "new_password": "newpassword456",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	w = env.do(t, http.MethodPut, "/auth/password", "invalid.token.here", map[string]string{
		"current_password": "password123", "new_password": "newpassword456",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_UpdatePassword_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, "pw3@example.com")

	w := env.do(t, http.MethodPut, "/auth/password", token, map[string]string{
		"current_password": "password123", "new_password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
