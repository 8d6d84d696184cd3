package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/inkwell-hq/inkwell/internal/apperrors"
	"github.com/inkwell-hq/inkwell/internal/middleware"
	"github.com/inkwell-hq/inkwell/internal/service"
	"github.com/inkwell-hq/inkwell/internal/utils"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetProfile handles GET /api/users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	user, err := h.userService.GetByID(caller.ID)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Respond(c, http.StatusOK, "profile retrieved successfully", gin.H{
		"user": user,
	})
}

type UpdateProfileRequest struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
}

// UpdateProfile handles PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, apperrors.Validation("invalid request body"))
		return
	}

	user, err := h.userService.UpdateProfile(caller.ID, service.ProfilePatch{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Respond(c, http.StatusOK, "profile updated successfully", gin.H{
		"user": user,
	})
}

// List handles GET /api/users (admin only)
func (h *UserHandler) List(c *gin.Context) {
	params := service.UserListParams{
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 10),
		Role:   c.Query("role"),
		Search: c.Query("search"),
	}
	if valStr := c.Query("isActive"); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			params.IsActive = &val
		}
	}

	page, err := h.userService.List(params)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Respond(c, http.StatusOK, "users retrieved successfully", page)
}

// Get handles GET /api/users/:id (admin only)
func (h *UserHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, apperrors.Validation("invalid user id"))
		return
	}

	user, err := h.userService.GetByID(id)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Respond(c, http.StatusOK, "user retrieved successfully", gin.H{
		"user": user,
	})
}

type SetStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// SetStatus handles PUT /api/users/:id/status (admin only)
func (h *UserHandler) SetStatus(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Fail(c, apperrors.Validation("invalid user id"))
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, apperrors.Validation("isActive is required"))
		return
	}

	user, err := h.userService.SetActive(caller, id, *req.IsActive)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Respond(c, http.StatusOK, "user status updated successfully", gin.H{
		"user": user,
	})
}

// Stats handles GET /api/users/stats (admin only)
func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.userService.Stats()
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Respond(c, http.StatusOK, "user stats retrieved successfully", stats)
}
