package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionEnvelope struct {
	Data SessionResponse `json:"data"`
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleRegister_Created(t *testing.T) {
	t.Parallel()

	h := NewHandlers(newTestService(newMemoryRepository()))
	rec := postJSON(t, h.HandleRegister(), "/api/v1/auth/register", RegisterRequest{
		Email:       "reg@example.com",
		Password:    "longenough",
		DisplayName: strPtr("Reg"),
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var envelope sessionEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Equal(t, "reg@example.com", envelope.Data.User.Email)
	assert.NotEmpty(t, envelope.Data.User.ID)
	assert.NotEmpty(t, envelope.Data.Token)
	assert.NotNil(t, envelope.Data.User.CreatedAt)
}

func TestHandleRegister_InvalidBody(t *testing.T) {
	t.Parallel()

	h := NewHandlers(newTestService(newMemoryRepository()))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.HandleRegister().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", decodeErrorBody(t, rec).Error)
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	h := NewHandlers(newTestService(newMemoryRepository()))
	first := postJSON(t, h.HandleRegister(), "/api/v1/auth/register", RegisterRequest{Email: "dup2@example.com", Password: "longenough"})
	require.Equal(t, http.StatusCreated, first.Code)

	second := postJSON(t, h.HandleRegister(), "/api/v1/auth/register", RegisterRequest{Email: "dup2@example.com", Password: "longenough"})
	assert.Equal(t, http.StatusBadRequest, second.Code)
	assert.Equal(t, "Email already registered", decodeErrorBody(t, second).Error)
}

func TestHandleRegister_StoreNotConfigured(t *testing.T) {
	t.Parallel()

	h := NewHandlers(newTestService(nil))
	rec := postJSON(t, h.HandleRegister(), "/api/v1/auth/register", RegisterRequest{Email: "a@b.co", Password: "longenough"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Service unavailable", decodeErrorBody(t, rec).Error)
}

func TestHandleLogin_OK(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMemoryRepository())
	h := NewHandlers(svc)
	reg := postJSON(t, h.HandleRegister(), "/api/v1/auth/register", RegisterRequest{Email: "li@example.com", Password: "longenough"})
	require.Equal(t, http.StatusCreated, reg.Code)

	rec := postJSON(t, h.HandleLogin(), "/api/v1/auth/login", LoginRequest{Email: "li@example.com", Password: "longenough"})
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope sessionEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Equal(t, "li@example.com", envelope.Data.User.Email)
	assert.NotEmpty(t, envelope.Data.Token)
	// Login responses carry no creation timestamp.
	assert.Nil(t, envelope.Data.User.CreatedAt)
}

func TestHandleLogin_BadCredentials(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMemoryRepository())
	h := NewHandlers(svc)
	reg := postJSON(t, h.HandleRegister(), "/api/v1/auth/register", RegisterRequest{Email: "bad@example.com", Password: "longenough"})
	require.Equal(t, http.StatusCreated, reg.Code)

	for name, req := range map[string]LoginRequest{
		"wrong password": {Email: "bad@example.com", Password: "wrongpass"},
		"unknown email":  {Email: "ghost@example.com", Password: "longenough"},
	} {
		t.Run(name, func(t *testing.T) {
			rec := postJSON(t, h.HandleLogin(), "/api/v1/auth/login", req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Invalid email or password", decodeErrorBody(t, rec).Error)
		})
	}
}

func TestHandleLogin_MissingFields(t *testing.T) {
	t.Parallel()

	h := NewHandlers(newTestService(newMemoryRepository()))
	rec := postJSON(t, h.HandleLogin(), "/api/v1/auth/login", LoginRequest{Email: "a@b.co"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email and password required", decodeErrorBody(t, rec).Error)
}

func TestWriteError_OpaqueInternal(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	WriteError(rec, req, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	raw := rec.Body.String()
	assert.NotContains(t, raw, assert.AnError.Error())

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &body))
	assert.Equal(t, "Internal server error", body.Error)
}
