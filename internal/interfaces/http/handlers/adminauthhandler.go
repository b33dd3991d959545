package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/filegate-io/filegate/internal/infrastructure/auth"
	"github.com/filegate-io/filegate/internal/shared/config"
	"github.com/filegate-io/filegate/internal/shared/errors"
	"github.com/filegate-io/filegate/internal/shared/logger"
	"github.com/filegate-io/filegate/internal/shared/utils"
)

// AdminAuthHandler authenticates the seeded operator account and issues the
// bearer token for the administrative API.
type AdminAuthHandler struct {
	cfg        config.AdminConfig
	jwtService *auth.JWTService
	logger     logger.Interface
}

func NewAdminAuthHandler(cfg config.AdminConfig, jwtService *auth.JWTService, logger logger.Interface) *AdminAuthHandler {
	return &AdminAuthHandler{
		cfg:        cfg,
		jwtService: jwtService,
		logger:     logger,
	}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, errors.NewBadRequestError("invalid request body", err.Error()))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.HandleError(c, err)
		return
	}

	if h.cfg.PasswordHash == "" {
		h.logger.Warnw("admin login attempted with no password hash configured")
		utils.ErrorResponse(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.cfg.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(h.cfg.PasswordHash), []byte(req.Password))
	if !userOK || passErr != nil {
		h.logger.Warnw("admin login failed",
			"username", req.Username,
			"client_ip", c.ClientIP(),
		)
		utils.ErrorResponse(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.jwtService.Generate(req.Username)
	if err != nil {
		h.logger.Errorw("failed to generate admin token", "error", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to generate token")
		return
	}

	utils.OKResponse(c, LoginResponse{
		Token:     token,
		ExpiresIn: h.cfg.JWTExpMinutes * 60,
	})
}
