package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filegate-io/filegate/internal/application/token/testutil"
	"github.com/filegate-io/filegate/internal/application/token/usecases"
	"github.com/filegate-io/filegate/internal/domain/resource"
	"github.com/filegate-io/filegate/internal/shared/biztime"
)

type tokenHandlerFixture struct {
	engine    *gin.Engine
	tokenRepo *testutil.MockTokenRepository
	issueUC   *usecases.IssueTokenUseCase
}

func newTokenHandlerFixture(t *testing.T) *tokenHandlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokenRepo := testutil.NewMockTokenRepository()
	resourceRepo := testutil.NewMockResourceRepository()
	settings := testutil.NewMockSettingProvider(nil)
	log := testutil.NewMockLogger()

	capUses := uint(3)
	res, err := resource.ReconstructResource(
		1, "2026/08/report.pdf", true, nil, resource.BotPolicyInherit,
		nil, nil, nil, nil, nil, &capUses,
		biztime.NowUTC(), biztime.NowUTC(),
	)
	require.NoError(t, err)
	resourceRepo.Add(res)

	issueUC := usecases.NewIssueTokenUseCase(tokenRepo, resourceRepo, settings, "https://files.example.com", log)
	handler := NewTokenHandler(
		issueUC,
		usecases.NewListTokensUseCase(tokenRepo, log),
		usecases.NewRevokeTokenUseCase(tokenRepo, log),
		usecases.NewReinstateTokenUseCase(tokenRepo, resourceRepo, settings, log),
		usecases.NewUpdateMaxUsesUseCase(tokenRepo, resourceRepo, log),
		usecases.NewDeleteTokenUseCase(tokenRepo, log),
		usecases.NewCleanupTokensUseCase(tokenRepo, settings, log),
		log,
	)

	engine := gin.New()
	engine.POST("/tokens", handler.IssueToken)
	engine.GET("/resources/:id/tokens", handler.ListTokens)
	engine.POST("/tokens/:value/revoke", handler.RevokeToken)
	engine.POST("/tokens/:value/reinstate", handler.ReinstateToken)
	engine.PUT("/tokens/:value/max-uses", handler.UpdateMaxUses)
	engine.DELETE("/tokens/:value", handler.DeleteToken)
	engine.POST("/cleanup", handler.RunCleanup)

	return &tokenHandlerFixture{engine: engine, tokenRepo: tokenRepo, issueUC: issueUC}
}

func (f *tokenHandlerFixture) request(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *tokenHandlerFixture) issue(t *testing.T) string {
	t.Helper()
	result, err := f.issueUC.Execute(t.Context(), usecases.IssueTokenCommand{ResourceID: 1})
	require.NoError(t, err)
	return result.Token.Value
}

func TestIssueTokenEndpoint(t *testing.T) {
	f := newTokenHandlerFixture(t)

	w := f.request(t, http.MethodPost, "/tokens", gin.H{"resource_id": 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Token     *usecases.AccessTokenDTO `json:"token"`
			AccessURL string                   `json:"access_url"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.Token.Value)
	assert.Equal(t, "active", resp.Data.Token.Status)
	assert.Contains(t, resp.Data.AccessURL, "https://files.example.com/2026/08/report.pdf?access_token=")
}

func TestIssueTokenEndpoint_Validation(t *testing.T) {
	f := newTokenHandlerFixture(t)

	t.Run("missing resource id", func(t *testing.T) {
		w := f.request(t, http.MethodPost, "/tokens", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown resource", func(t *testing.T) {
		w := f.request(t, http.MethodPost, "/tokens", gin.H{"resource_id": 99})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("max uses over resource cap", func(t *testing.T) {
		w := f.request(t, http.MethodPost, "/tokens", gin.H{"resource_id": 1, "max_uses": 10})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRevokeTokenEndpoint(t *testing.T) {
	f := newTokenHandlerFixture(t)
	value := f.issue(t)

	w := f.request(t, http.MethodPost, fmt.Sprintf("/tokens/%s/revoke", value), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Second revoke conflicts with the current status.
	w = f.request(t, http.MethodPost, fmt.Sprintf("/tokens/%s/revoke", value), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.request(t, http.MethodPost, "/tokens/no-such-token/revoke", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReinstateTokenEndpoint(t *testing.T) {
	f := newTokenHandlerFixture(t)
	value := f.issue(t)
	f.request(t, http.MethodPost, fmt.Sprintf("/tokens/%s/revoke", value), nil)

	t.Run("empty body uses default expiry", func(t *testing.T) {
		w := f.request(t, http.MethodPost, fmt.Sprintf("/tokens/%s/reinstate", value), nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Data usecases.AccessTokenDTO `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "active", resp.Data.Status)
	})

	t.Run("past absolute expiry rejected", func(t *testing.T) {
		other := f.issue(t)
		f.request(t, http.MethodPost, fmt.Sprintf("/tokens/%s/revoke", other), nil)

		past := time.Now().Add(-time.Hour).Format(time.RFC3339)
		w := f.request(t, http.MethodPost, fmt.Sprintf("/tokens/%s/reinstate", other),
			gin.H{"expires_at": past})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateMaxUsesEndpoint(t *testing.T) {
	f := newTokenHandlerFixture(t)
	value := f.issue(t)

	w := f.request(t, http.MethodPut, fmt.Sprintf("/tokens/%s/max-uses", value), gin.H{"max_uses": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	t.Run("over resource cap", func(t *testing.T) {
		w := f.request(t, http.MethodPut, fmt.Sprintf("/tokens/%s/max-uses", value), gin.H{"max_uses": 10})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing field", func(t *testing.T) {
		w := f.request(t, http.MethodPut, fmt.Sprintf("/tokens/%s/max-uses", value), gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListAndDeleteTokenEndpoints(t *testing.T) {
	f := newTokenHandlerFixture(t)
	first := f.issue(t)
	f.issue(t)

	w := f.request(t, http.MethodGet, "/resources/1/tokens", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listResp struct {
		Data []usecases.AccessTokenDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Len(t, listResp.Data, 2)

	w = f.request(t, http.MethodDelete, "/tokens/"+first, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.request(t, http.MethodDelete, "/tokens/"+first, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	t.Run("bad resource id", func(t *testing.T) {
		w := f.request(t, http.MethodGet, "/resources/abc/tokens", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRunCleanupEndpoint(t *testing.T) {
	f := newTokenHandlerFixture(t)

	w := f.request(t, http.MethodPost, "/cleanup", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data usecases.CleanupTokensResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Data.Expired)
}
