package handler

import (
	"net/http"
	"strconv"

	"github.com/devhub-platform/portal/internal/constants"
	"github.com/devhub-platform/portal/internal/dto"
	apperrors "github.com/devhub-platform/portal/internal/errors"
	"github.com/devhub-platform/portal/internal/service"
	ctxutil "github.com/devhub-platform/portal/pkg/context"
	"github.com/devhub-platform/portal/pkg/logger"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func parseIDParam(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid ID", nil))
		return 0, false
	}
	return uint(id), true
}

// List handles GET /api/users (admin only)
func (h *UserHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ListUsers")

	pagination := constants.ParsePaginationParams(c)

	filter := dto.UserFilter{
		Role:   c.Query("role"),
		Search: c.DefaultQuery(constants.QueryParamSearch, constants.DefaultSearch),
	}
	if raw := c.Query("isActive"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.IsActive = &active
		}
	}

	users, total, err := h.userService.List(ctx, filter, pagination)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.ErrorWithContext(ctx, "Failed to list users").
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	pageTotal := int((total + int64(pagination.Limit) - 1) / int64(pagination.Limit))
	c.JSON(http.StatusOK, constants.BuildListResponse("Users fetched successfully", total, pagination.Page, pageTotal, users))
}

// Get handles GET /api/users/:id (admin only)
func (h *UserHandler) Get(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetUser")

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(ctx, id)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("User fetched successfully", user))
}

// UpdateRole handles PATCH /api/users/:id/role (admin only)
func (h *UserHandler) UpdateRole(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateUserRole")

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
		return
	}

	user, err := h.userService.UpdateRole(ctx, id, req.Role)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.WarnWithContext(ctx, "Role update failed").
			Uint("target_user_id", id).
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Role updated successfully", user))
}

// UpdateStatus handles PATCH /api/users/:id/status (admin only)
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateUserStatus")

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
		return
	}

	user, err := h.userService.UpdateStatus(ctx, id, *req.IsActive)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.WarnWithContext(ctx, "Status update failed").
			Uint("target_user_id", id).
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Status updated successfully", user))
}

// Delete handles DELETE /api/users/:id (admin only)
func (h *UserHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "DeleteUser")

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	actorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	if err := h.userService.Delete(ctx, actorID, id); err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.WarnWithContext(ctx, "User deletion failed").
			Uint("target_user_id", id).
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("User deleted successfully", nil))
}
