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

// CatalogStore is the service catalog persistence surface
type CatalogStore interface {
	GetByID(ctx context.Context, id uint) (*model.Service, error)
	GetByName(ctx context.Context, name string) (*model.Service, error)
	Create(ctx context.Context, svc *model.Service) error
	Update(ctx context.Context, svc *model.Service) error
	UpdateHealth(ctx context.Context, id uint, status string, checkedAt time.Time) error
	GetAll(ctx context.Context, filter dto.ServiceFilter, limit, offset int) ([]model.Service, int64, error)
	GetProbeTargets(ctx context.Context) ([]model.Service, error)
	Delete(ctx context.Context, id uint) error
}

// CatalogService manages the service catalog with a read-through cache
type CatalogService struct {
	store    CatalogStore
	cache    redis.Client
	cacheTTL time.Duration
}

func NewCatalogService(store CatalogStore, cache redis.Client, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func serviceCacheKey(id uint) string {
	return fmt.Sprintf("%s%d", constants.CacheKeyService, id)
}

func serviceListCacheKey(filter dto.ServiceFilter, page constants.PaginationParams) string {
	return fmt.Sprintf("%s%s:%s:%d:%s:%s:%d:%d",
		constants.CacheKeyServices,
		filter.Type, filter.Status, filter.OwnerID, filter.Tag, filter.Search,
		page.Page, page.Limit,
	)
}

// invalidate drops the single-entry key and every cached list
func (s *CatalogService) invalidate(ctx context.Context, id uint) {
	if err := s.cache.Delete(ctx, serviceCacheKey(id)); err != nil {
		logger.WarnWithContext(ctx, "Failed to invalidate service cache").
			Uint("service_id", id).
			Err(err).
			Log()
	}
	if err := s.cache.DeleteByPattern(ctx, constants.CacheKeyServices+"*"); err != nil {
		logger.WarnWithContext(ctx, "Failed to invalidate service list cache").
			Err(err).
			Log()
	}
}

// Create registers a new catalog service owned by the calling user
func (s *CatalogService) Create(ctx context.Context, ownerID uint, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "CreateService")

	if _, err := s.store.GetByName(ctx, req.Name); err == nil {
		return nil, apperrors.ErrNameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	svc := &model.Service{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Status:      req.Status,
		Version:     req.Version,
		OwnerID:     ownerID,
		Team:        req.Team,
		Endpoints:   req.Endpoints,
		Tags:        req.Tags,
	}
	if svc.Status == "" {
		svc.Status = model.ServiceStatusActive
	}
	svc.HealthStatus = model.HealthStatusUnknown
	if req.Repository != nil {
		svc.Repository = datatypes.NewJSONType(model.ServiceRepository{
			URL:    req.Repository.URL,
			Branch: req.Repository.Branch,
		})
	}
	if req.Docs != nil {
		svc.Documentation = datatypes.NewJSONType(model.ServiceDocumentation{
			URL:     req.Docs.URL,
			APISpec: req.Docs.APISpec,
		})
	}
	if req.HealthCheck != nil {
		svc.HealthCheckURL = req.HealthCheck.URL
		if req.HealthCheck.Interval > 0 {
			svc.HealthCheckInterval = req.HealthCheck.Interval
		}
	}

	if err := s.store.Create(ctx, svc); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.invalidate(ctx, svc.ID)

	return s.Get(ctx, svc.ID)
}

// Get returns one catalog service, cache first
func (s *CatalogService) Get(ctx context.Context, id uint) (*dto.ServiceResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetService")

	key := serviceCacheKey(id)
	var cached dto.ServiceResponse
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		logger.DebugWithContext(ctx, "Service cache hit").
			Uint("service_id", id).
			Log()
		return &cached, nil
	}

	svc, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrServiceNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := dto.NewServiceResponse(svc)
	if err := s.cache.SetJSON(ctx, key, resp, s.cacheTTL); err != nil {
		logger.WarnWithContext(ctx, "Failed to cache service").
			Uint("service_id", id).
			Err(err).
			Log()
	}

	return &resp, nil
}

// List returns catalog services matching the filter, cache first
func (s *CatalogService) List(ctx context.Context, filter dto.ServiceFilter, page constants.PaginationParams) ([]dto.ServiceResponse, int64, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "ListServices")

	key := serviceListCacheKey(filter, page)
	var cached struct {
		Items []dto.ServiceResponse `json:"items"`
		Total int64                 `json:"total"`
	}
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached.Items, cached.Total, nil
	}

	services, total, err := s.store.GetAll(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	responses := make([]dto.ServiceResponse, 0, len(services))
	for i := range services {
		responses = append(responses, dto.NewServiceResponse(&services[i]))
	}

	cached.Items = responses
	cached.Total = total
	if err := s.cache.SetJSON(ctx, key, cached, s.cacheTTL); err != nil {
		logger.WarnWithContext(ctx, "Failed to cache service list").
			Err(err).
			Log()
	}

	return responses, total, nil
}

// Update modifies a catalog service. Only the owner or an admin may write.
func (s *CatalogService) Update(ctx context.Context, actorID uint, actorRole string, id uint, req *dto.UpdateServiceRequest) (*dto.ServiceResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdateService")

	svc, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrServiceNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if svc.OwnerID != actorID && actorRole != constants.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Type != nil {
		svc.Type = *req.Type
	}
	if req.Status != nil {
		svc.Status = *req.Status
	}
	if req.Version != nil {
		svc.Version = *req.Version
	}
	if req.Team != nil {
		svc.Team = *req.Team
	}
	if req.Repository != nil {
		svc.Repository = datatypes.NewJSONType(model.ServiceRepository{
			URL:    req.Repository.URL,
			Branch: req.Repository.Branch,
		})
	}
	if req.Docs != nil {
		svc.Documentation = datatypes.NewJSONType(model.ServiceDocumentation{
			URL:     req.Docs.URL,
			APISpec: req.Docs.APISpec,
		})
	}
	if req.Endpoints != nil {
		svc.Endpoints = req.Endpoints
	}
	if req.Tags != nil {
		svc.Tags = req.Tags
	}
	if req.HealthCheck != nil {
		svc.HealthCheckURL = req.HealthCheck.URL
		if req.HealthCheck.Interval > 0 {
			svc.HealthCheckInterval = req.HealthCheck.Interval
		}
	}

	if err := s.store.Update(ctx, svc); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.invalidate(ctx, id)

	return s.Get(ctx, id)
}

// Delete removes a catalog service. Only the owner or an admin may delete.
func (s *CatalogService) Delete(ctx context.Context, actorID uint, actorRole string, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "service", "DeleteService")

	svc, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrServiceNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if svc.OwnerID != actorID && actorRole != constants.RoleAdmin {
		return apperrors.ErrForbidden
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.invalidate(ctx, id)

	logger.InfoWithContext(ctx, "Catalog service deleted").
		Uint("service_id", id).
		Uint("actor_user_id", actorID).
		Log()

	return nil
}

// RecordHealth stores the outcome of one probe and drops stale cache entries
func (s *CatalogService) RecordHealth(ctx context.Context, id uint, status string, checkedAt time.Time) error {
	ctx = ctxutil.WithOperation(ctx, "service", "RecordHealth")

	if err := s.store.UpdateHealth(ctx, id, status, checkedAt); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.invalidate(ctx, id)
	return nil
}

// ProbeTargets lists active services that have a health check configured
func (s *CatalogService) ProbeTargets(ctx context.Context) ([]model.Service, error) {
	return s.store.GetProbeTargets(ctx)
}
