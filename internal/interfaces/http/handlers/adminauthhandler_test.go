package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/filegate-io/filegate/internal/application/token/testutil"
	"github.com/filegate-io/filegate/internal/infrastructure/auth"
	"github.com/filegate-io/filegate/internal/shared/config"
)

func newLoginFixture(t *testing.T, passwordHash string) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService("test-secret", 60)
	handler := NewAdminAuthHandler(config.AdminConfig{
		JWTSecret:     "test-secret",
		JWTExpMinutes: 60,
		Username:      "admin",
		PasswordHash:  passwordHash,
	}, jwtService, testutil.NewMockLogger())

	engine := gin.New()
	engine.POST("/login", handler.Login)
	return engine, jwtService
}

func postLogin(t *testing.T, engine *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, "/login", &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAdminLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	engine, jwtService := newLoginFixture(t, string(hash))

	w := postLogin(t, engine, gin.H{"username": "admin", "password": "s3cret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	assert.Equal(t, 3600, resp.Data.ExpiresIn)

	claims, err := jwtService.Verify(resp.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
}

func TestAdminLogin_Failures(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name string
		hash string
		body gin.H
		want int
	}{
		{"wrong password", string(hash), gin.H{"username": "admin", "password": "nope"}, http.StatusUnauthorized},
		{"wrong username", string(hash), gin.H{"username": "root", "password": "s3cret"}, http.StatusUnauthorized},
		{"missing fields", string(hash), gin.H{"username": "admin"}, http.StatusBadRequest},
		{"no hash configured", "", gin.H{"username": "admin", "password": "s3cret"}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _ := newLoginFixture(t, tt.hash)
			w := postLogin(t, engine, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}
