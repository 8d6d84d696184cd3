package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-hq/inkwell/internal/apperrors"
	"github.com/inkwell-hq/inkwell/internal/service"
	"github.com/inkwell-hq/inkwell/internal/utils"
	"github.com/inkwell-hq/inkwell/pkg/logger"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Registration request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		utils.Fail(c, apperrors.Validation("username and password are required"))
		return
	}

	user, err := h.authService.Register(req.Username, req.Password)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Respond(c, http.StatusCreated, "user registered successfully", gin.H{
		"user": user,
	})
}

// Login handles POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Login request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		utils.Fail(c, apperrors.Validation("username and password are required"))
		return
	}

	user, token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Respond(c, http.StatusOK, "login successful", gin.H{
		"token": token,
		"user":  user,
	})
}
