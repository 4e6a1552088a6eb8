package handler

import (
	"net/http"

	"github.com/devhub-platform/portal/internal/constants"
	"github.com/devhub-platform/portal/internal/dto"
	apperrors "github.com/devhub-platform/portal/internal/errors"
	"github.com/devhub-platform/portal/internal/service"
	ctxutil "github.com/devhub-platform/portal/pkg/context"
	"github.com/devhub-platform/portal/pkg/logger"
	"github.com/gin-gonic/gin"
)

type ToolHandler struct {
	tools *service.ToolService
}

func NewToolHandler(tools *service.ToolService) *ToolHandler {
	return &ToolHandler{tools: tools}
}

// List handles GET /api/tools
func (h *ToolHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ListTools")

	pagination := constants.ParsePaginationParams(c)

	filter := dto.ToolFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Tag:      c.Query("tag"),
		Search:   c.DefaultQuery(constants.QueryParamSearch, constants.DefaultSearch),
	}

	tools, total, err := h.tools.List(ctx, filter, pagination)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.ErrorWithContext(ctx, "Failed to list tools").
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	pageTotal := int((total + int64(pagination.Limit) - 1) / int64(pagination.Limit))
	c.JSON(http.StatusOK, constants.BuildListResponse("Tools fetched successfully", total, pagination.Page, pageTotal, tools))
}

// Get handles GET /api/tools/:id
func (h *ToolHandler) Get(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetTool")

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	tool, err := h.tools.Get(ctx, id)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Tool fetched successfully", tool))
}

// Create handles POST /api/tools (admin only)
func (h *ToolHandler) Create(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "CreateTool")

	var req dto.CreateToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid tool payload").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
		return
	}

	tool, err := h.tools.Create(ctx, &req)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.WarnWithContext(ctx, "Tool creation failed").
			String("name", req.Name).
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusCreated, constants.BuildSuccessResponse("Tool created successfully", tool))
}

// Update handles PUT /api/tools/:id (admin only)
func (h *ToolHandler) Update(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateTool")

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
		return
	}

	tool, err := h.tools.Update(ctx, id, &req)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.WarnWithContext(ctx, "Tool update failed").
			Uint("tool_id", id).
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Tool updated successfully", tool))
}

// Delete handles DELETE /api/tools/:id (admin only)
func (h *ToolHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "DeleteTool")

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.tools.Delete(ctx, id); err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.WarnWithContext(ctx, "Tool deletion failed").
			Uint("tool_id", id).
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Tool deleted successfully", nil))
}
