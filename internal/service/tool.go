package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devhub-platform/portal/internal/constants"
	"github.com/devhub-platform/portal/internal/dto"
	apperrors "github.com/devhub-platform/portal/internal/errors"
	"github.com/devhub-platform/portal/internal/model"
	ctxutil "github.com/devhub-platform/portal/pkg/context"
	"github.com/devhub-platform/portal/pkg/logger"
	"github.com/devhub-platform/portal/pkg/redis"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ToolStore is the developer tool registry persistence surface
type ToolStore interface {
	GetByID(ctx context.Context, id uint) (*model.DeveloperTool, error)
	GetByName(ctx context.Context, name string) (*model.DeveloperTool, error)
	Create(ctx context.Context, tool *model.DeveloperTool) error
	Update(ctx context.Context, tool *model.DeveloperTool) error
	GetAll(ctx context.Context, filter dto.ToolFilter, limit, offset int) ([]model.DeveloperTool, int64, error)
	Delete(ctx context.Context, id uint) error
}

// ToolService manages the developer tool registry with a read-through cache
type ToolService struct {
	store    ToolStore
	cache    redis.Client
	cacheTTL time.Duration
}

func NewToolService(store ToolStore, cache redis.Client, cacheTTL time.Duration) *ToolService {
	return &ToolService{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func toolCacheKey(id uint) string {
	return fmt.Sprintf("%s%d", constants.CacheKeyTool, id)
}

func toolListCacheKey(filter dto.ToolFilter, page constants.PaginationParams) string {
	return fmt.Sprintf("%s%s:%s:%s:%s:%d:%d",
		constants.CacheKeyTools,
		filter.Category, filter.Status, filter.Tag, filter.Search,
		page.Page, page.Limit,
	)
}

func (s *ToolService) invalidate(ctx context.Context, id uint) {
	if err := s.cache.Delete(ctx, toolCacheKey(id)); err != nil {
		logger.WarnWithContext(ctx, "Failed to invalidate tool cache").
			Uint("tool_id", id).
			Err(err).
			Log()
	}
	if err := s.cache.DeleteByPattern(ctx, constants.CacheKeyTools+"*"); err != nil {
		logger.WarnWithContext(ctx, "Failed to invalidate tool list cache").
			Err(err).
			Log()
	}
}

// Create registers a new developer tool (admin only, enforced at routing)
func (s *ToolService) Create(ctx context.Context, req *dto.CreateToolRequest) (*dto.ToolResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "CreateTool")

	if _, err := s.store.GetByName(ctx, req.Name); err == nil {
		return nil, apperrors.ErrNameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	tool := &model.DeveloperTool{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Provider:     req.Provider,
		URL:          req.URL,
		APIEndpoint:  req.APIEndpoint,
		Status:       req.Status,
		Icon:         req.Icon,
		Integrations: req.Integrations,
		Features:     req.Features,
		Tags:         req.Tags,
	}
	if tool.Status == "" {
		tool.Status = model.ToolStatusActive
	}
	if req.Authentication != nil {
		tool.Authentication = datatypes.NewJSONType(*req.Authentication)
	}

	if err := s.store.Create(ctx, tool); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.invalidate(ctx, tool.ID)

	resp := dto.NewToolResponse(tool)
	return &resp, nil
}

// Get returns one registry tool, cache first
func (s *ToolService) Get(ctx context.Context, id uint) (*dto.ToolResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetTool")

	key := toolCacheKey(id)
	var cached dto.ToolResponse
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		logger.DebugWithContext(ctx, "Tool cache hit").
			Uint("tool_id", id).
			Log()
		return &cached, nil
	}

	tool, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrToolNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := dto.NewToolResponse(tool)
	if err := s.cache.SetJSON(ctx, key, resp, s.cacheTTL); err != nil {
		logger.WarnWithContext(ctx, "Failed to cache tool").
			Uint("tool_id", id).
			Err(err).
			Log()
	}

	return &resp, nil
}

// List returns registry tools matching the filter, cache first
func (s *ToolService) List(ctx context.Context, filter dto.ToolFilter, page constants.PaginationParams) ([]dto.ToolResponse, int64, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ListTools")

	key := toolListCacheKey(filter, page)
	var cached struct {
		Items []dto.ToolResponse `json:"items"`
		Total int64              `json:"total"`
	}
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached.Items, cached.Total, nil
	}

	tools, total, err := s.store.GetAll(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.ToolResponse, 0, len(tools))
	for i := range tools {
		responses = append(responses, dto.NewToolResponse(&tools[i]))
	}

	cached.Items = responses
	cached.Total = total
	if err := s.cache.SetJSON(ctx, key, cached, s.cacheTTL); err != nil {
		logger.WarnWithContext(ctx, "Failed to cache tool list").
			Err(err).
			Log()
	}

	return responses, total, nil
}

// Update modifies a registry tool (admin only, enforced at routing)
func (s *ToolService) Update(ctx context.Context, id uint, req *dto.UpdateToolRequest) (*dto.ToolResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdateTool")

	tool, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrToolNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if req.Description != nil {
		tool.Description = *req.Description
	}
	if req.Category != nil {
		tool.Category = *req.Category
	}
	if req.Provider != nil {
		tool.Provider = *req.Provider
	}
	if req.URL != nil {
		tool.URL = *req.URL
	}
	if req.APIEndpoint != nil {
		tool.APIEndpoint = *req.APIEndpoint
	}
	if req.Status != nil {
		tool.Status = *req.Status
	}
	if req.Icon != nil {
		tool.Icon = *req.Icon
	}
	if req.Authentication != nil {
		tool.Authentication = datatypes.NewJSONType(*req.Authentication)
	}
	if req.Integrations != nil {
		tool.Integrations = req.Integrations
	}
	if req.Features != nil {
		tool.Features = req.Features
	}
	if req.Tags != nil {
		tool.Tags = req.Tags
	}

	if err := s.store.Update(ctx, tool); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.invalidate(ctx, id)

	resp := dto.NewToolResponse(tool)
	return &resp, nil
}

// Delete removes a registry tool (admin only, enforced at routing)
func (s *ToolService) Delete(ctx context.Context, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "service", "DeleteTool")

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrToolNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.invalidate(ctx, id)

	logger.InfoWithContext(ctx, "Registry tool deleted").
		Uint("tool_id", id).
		Log()

	return nil
}
