package repository

import (
	"context"
	"time"

	"github.com/devhub-platform/portal/internal/dto"
	"github.com/devhub-platform/portal/internal/model"
	ctxutil "github.com/devhub-platform/portal/pkg/context"
	"github.com/devhub-platform/portal/pkg/logger"
	"gorm.io/gorm"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) GetByID(ctx context.Context, id uint) (*model.Service, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetServiceByID")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	var svc model.Service
	result := r.db.WithContext(ctx).Preload("Owner").Where("id = ?", id).First(&svc)

	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get service by ID").
			Uint("service_id", id).
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &svc, nil
}

func (r *ServiceRepository) GetByName(ctx context.Context, name string) (*model.Service, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetServiceByName")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var svc model.Service
	result := r.db.WithContext(ctx).Where("name = ?", name).First(&svc)
	if result.Error != nil {
		return nil, result.Error
	}

	return &svc, nil
}

// Create inserts a new catalog entry
func (r *ServiceRepository) Create(ctx context.Context, svc *model.Service) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "CreateService")

	logger.DebugWithContext(ctx, "Creating service").
		String("name", svc.Name).
		String("type", svc.Type).
		Log()

	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	result := r.db.WithContext(ctx).Create(svc)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create service").
			String("name", svc.Name).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "Service created successfully").
		String("name", svc.Name).
		Uint("service_id", svc.ID).
		Duration(duration).
		Log()

	return nil
}

// Update saves the full service record
func (r *ServiceRepository) Update(ctx context.Context, svc *model.Service) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateService")

	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	result := r.db.WithContext(ctx).Save(svc)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update service").
			Uint("service_id", svc.ID).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "Service updated successfully").
		Uint("service_id", svc.ID).
		Duration(duration).
		Log()

	return nil
}

// UpdateHealth records the outcome of one health probe
func (r *ServiceRepository) UpdateHealth(ctx context.Context, id uint, status string, checkedAt time.Time) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateServiceHealth")

	result := r.db.WithContext(ctx).Model(&model.Service{}).Where("id = ?", id).Updates(map[string]interface{}{
		"health_status":     status,
		"health_last_check": checkedAt,
	})

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to record service health").
			Uint("service_id", id).
			String("health_status", status).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}

// GetAll lists catalog services with filters and pagination
func (r *ServiceRepository) GetAll(ctx context.Context, filter dto.ServiceFilter, limit, offset int) ([]model.Service, int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetAllServices")

	logger.DebugWithContext(ctx, "Getting services").
		Int("limit", limit).
		Int("offset", offset).
		String("type", filter.Type).
		String("status", filter.Status).
		Log()

	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before query").
			Err(err).
			Log()
		return nil, 0, err
	}

	start := time.Now()
	var services []model.Service
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Service{})

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OwnerID != 0 {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.Tag != "" {
		query = query.Where("tags @> ?", `["`+filter.Tag+`"]`)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count services").
			Err(err).
			Log()
		return nil, 0, err
	}

	if err := query.Preload("Owner").Order("name ASC").Limit(limit).Offset(offset).Find(&services).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch services").
			Int("limit", limit).
			Int("offset", offset).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, 0, err
	}

	logger.InfoWithContext(ctx, "Services retrieved successfully").
		Int64("total", total).
		Int("returned_count", len(services)).
		Duration(time.Since(start)).
		Log()

	return services, total, nil
}

// GetProbeTargets returns active services that have a health check URL
func (r *ServiceRepository) GetProbeTargets(ctx context.Context) ([]model.Service, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetProbeTargets")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var services []model.Service
	result := r.db.WithContext(ctx).
		Where("health_check_url != '' AND status = ?", model.ServiceStatusActive).
		Find(&services)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch probe targets").
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return services, nil
}

// Delete removes a catalog entry permanently
func (r *ServiceRepository) Delete(ctx context.Context, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "DeleteService")

	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	result := r.db.WithContext(ctx).Unscoped().Delete(&model.Service{}, id)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete service").
			Uint("service_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "No service found to delete").
			Uint("service_id", id).
			Log()
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "Service deleted successfully").
		Uint("service_id", id).
		Duration(duration).
		Log()

	return nil
}
