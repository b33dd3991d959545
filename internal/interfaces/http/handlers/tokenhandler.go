package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/filegate-io/filegate/internal/application/token/usecases"
	"github.com/filegate-io/filegate/internal/shared/errors"
	"github.com/filegate-io/filegate/internal/shared/logger"
	"github.com/filegate-io/filegate/internal/shared/utils"
)

type TokenHandler struct {
	issueTokenUC    *usecases.IssueTokenUseCase
	listTokensUC    *usecases.ListTokensUseCase
	revokeTokenUC   *usecases.RevokeTokenUseCase
	reinstateUC     *usecases.ReinstateTokenUseCase
	updateMaxUsesUC *usecases.UpdateMaxUsesUseCase
	deleteTokenUC   *usecases.DeleteTokenUseCase
	cleanupUC       *usecases.CleanupTokensUseCase
	logger          logger.Interface
}

func NewTokenHandler(
	issueTokenUC *usecases.IssueTokenUseCase,
	listTokensUC *usecases.ListTokensUseCase,
	revokeTokenUC *usecases.RevokeTokenUseCase,
	reinstateUC *usecases.ReinstateTokenUseCase,
	updateMaxUsesUC *usecases.UpdateMaxUsesUseCase,
	deleteTokenUC *usecases.DeleteTokenUseCase,
	cleanupUC *usecases.CleanupTokensUseCase,
	logger logger.Interface,
) *TokenHandler {
	return &TokenHandler{
		issueTokenUC:    issueTokenUC,
		listTokensUC:    listTokensUC,
		revokeTokenUC:   revokeTokenUC,
		reinstateUC:     reinstateUC,
		updateMaxUsesUC: updateMaxUsesUC,
		deleteTokenUC:   deleteTokenUC,
		cleanupUC:       cleanupUC,
		logger:          logger,
	}
}

type IssueTokenRequest struct {
	ResourceID       uint       `json:"resource_id" validate:"required,gt=0"`
	ExpiresAt        *time.Time `json:"expires_at"`
	ExpiresInSeconds *int64     `json:"expires_in_seconds" validate:"omitempty,gt=0"`
	MaxUses          *uint      `json:"max_uses"`
	OwnerEmail       *string    `json:"owner_email" validate:"omitempty,email"`
	OwnerIP          *string    `json:"owner_ip" validate:"omitempty,ip"`
}

type ReinstateTokenRequest struct {
	ExpiresAt        *time.Time `json:"expires_at"`
	ExpiresInSeconds *int64     `json:"expires_in_seconds" validate:"omitempty,gt=0"`
}

type UpdateMaxUsesRequest struct {
	MaxUses *uint `json:"max_uses" validate:"required"`
}

func (h *TokenHandler) IssueToken(c *gin.Context) {
	var req IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, errors.NewBadRequestError("invalid request body", err.Error()))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.HandleError(c, err)
		return
	}

	cmd := usecases.IssueTokenCommand{
		ResourceID: req.ResourceID,
		Expiry:     expiryPolicy(req.ExpiresAt, req.ExpiresInSeconds),
		MaxUses:    req.MaxUses,
		OwnerEmail: req.OwnerEmail,
		OwnerIP:    req.OwnerIP,
	}

	result, err := h.issueTokenUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

func (h *TokenHandler) ListTokens(c *gin.Context) {
	resourceID, err := parseResourceID(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	result, err := h.listTokensUC.Execute(c.Request.Context(), usecases.ListTokensQuery{ResourceID: resourceID})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

func (h *TokenHandler) RevokeToken(c *gin.Context) {
	value, err := parseTokenValue(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	result, err := h.revokeTokenUC.Execute(c.Request.Context(), usecases.RevokeTokenCommand{Value: value})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

func (h *TokenHandler) ReinstateToken(c *gin.Context) {
	value, err := parseTokenValue(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	// An empty body means "use the default expiry".
	var req ReinstateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		utils.HandleError(c, errors.NewBadRequestError("invalid request body", err.Error()))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.HandleError(c, err)
		return
	}

	cmd := usecases.ReinstateTokenCommand{
		Value:  value,
		Expiry: expiryPolicy(req.ExpiresAt, req.ExpiresInSeconds),
	}

	result, err := h.reinstateUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

func (h *TokenHandler) UpdateMaxUses(c *gin.Context) {
	value, err := parseTokenValue(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var req UpdateMaxUsesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, errors.NewBadRequestError("invalid request body", err.Error()))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.HandleError(c, err)
		return
	}

	cmd := usecases.UpdateMaxUsesCommand{
		Value:   value,
		MaxUses: *req.MaxUses,
	}

	result, err := h.updateMaxUsesUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

func (h *TokenHandler) DeleteToken(c *gin.Context) {
	value, err := parseTokenValue(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	if err := h.deleteTokenUC.Execute(c.Request.Context(), usecases.DeleteTokenCommand{Value: value}); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "token deleted", nil)
}

// RunCleanup triggers the sweep the scheduler normally runs on its own.
func (h *TokenHandler) RunCleanup(c *gin.Context) {
	result, err := h.cleanupUC.Execute(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

func expiryPolicy(absolute *time.Time, relative *int64) usecases.ExpiryPolicy {
	policy := usecases.ExpiryPolicy{ExpiresInSeconds: relative}
	if absolute != nil {
		utc := absolute.UTC()
		policy.ExpiresAt = &utc
	}
	return policy
}

func parseResourceID(c *gin.Context) (uint, error) {
	idStr := c.Param("id")
	if idStr == "" {
		return 0, errors.NewValidationError("resource ID is required")
	}

	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, errors.NewValidationError("invalid resource ID format")
	}
	if id == 0 {
		return 0, errors.NewValidationError("resource ID cannot be zero")
	}

	return uint(id), nil
}

func parseTokenValue(c *gin.Context) (string, error) {
	value := c.Param("value")
	if value == "" {
		return "", errors.NewValidationError("token value is required")
	}
	return value, nil
}
