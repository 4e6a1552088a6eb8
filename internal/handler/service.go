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

type ServiceHandler struct {
	catalog *service.CatalogService
}

func NewServiceHandler(catalog *service.CatalogService) *ServiceHandler {
	return &ServiceHandler{catalog: catalog}
}

// List handles GET /api/services
func (h *ServiceHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ListServices")

	pagination := constants.ParsePaginationParams(c)

	filter := dto.ServiceFilter{
		Type:   c.Query("type"),
		Status: c.Query("status"),
		Tag:    c.Query("tag"),
		Search: c.DefaultQuery(constants.QueryParamSearch, constants.DefaultSearch),
	}
	if raw := c.Query("owner"); raw != "" {
		if ownerID, err := strconv.ParseUint(raw, 10, 32); err == nil {
			filter.OwnerID = uint(ownerID)
		}
	}

	services, total, err := h.catalog.List(ctx, filter, pagination)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.ErrorWithContext(ctx, "Failed to list services").
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	pageTotal := int((total + int64(pagination.Limit) - 1) / int64(pagination.Limit))
	c.JSON(http.StatusOK, constants.BuildListResponse("Services fetched successfully", total, pagination.Page, pageTotal, services))
}

// Get handles GET /api/services/:id
func (h *ServiceHandler) Get(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetService")

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	svc, err := h.catalog.Get(ctx, id)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Service fetched successfully", svc))
}

// Create handles POST /api/services
func (h *ServiceHandler) Create(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "CreateService")

	ownerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	var req dto.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid service payload").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
		return
	}

	svc, err := h.catalog.Create(ctx, ownerID, &req)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.WarnWithContext(ctx, "Service creation failed").
			String("name", req.Name).
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusCreated, constants.BuildSuccessResponse("Service created successfully", svc))
}

// Update handles PUT /api/services/:id
func (h *ServiceHandler) Update(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateService")

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	actorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}
	actorRole := c.GetString(constants.GinKeyRole)

	var req dto.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
		return
	}

	svc, err := h.catalog.Update(ctx, actorID, actorRole, id, &req)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.WarnWithContext(ctx, "Service update failed").
			Uint("service_id", id).
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Service updated successfully", svc))
}

// Delete handles DELETE /api/services/:id
func (h *ServiceHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "DeleteService")

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	actorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}
	actorRole := c.GetString(constants.GinKeyRole)

	if err := h.catalog.Delete(ctx, actorID, actorRole, id); err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.WarnWithContext(ctx, "Service deletion failed").
			Uint("service_id", id).
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Service deleted successfully", nil))
}
