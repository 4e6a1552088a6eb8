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

type ToolRepository struct {
	db *gorm.DB
}

func NewToolRepository(db *gorm.DB) *ToolRepository {
	return &ToolRepository{db: db}
}

func (r *ToolRepository) GetByID(ctx context.Context, id uint) (*model.DeveloperTool, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetToolByID")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	var tool model.DeveloperTool
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&tool)

	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get tool by ID").
			Uint("tool_id", id).
			Duration(time.Since(start)).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &tool, nil
}

func (r *ToolRepository) GetByName(ctx context.Context, name string) (*model.DeveloperTool, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetToolByName")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var tool model.DeveloperTool
	result := r.db.WithContext(ctx).Where("name = ?", name).First(&tool)
	if result.Error != nil {
		return nil, result.Error
	}

	return &tool, nil
}

// Create inserts a new registry entry
func (r *ToolRepository) Create(ctx context.Context, tool *model.DeveloperTool) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "CreateTool")

	logger.DebugWithContext(ctx, "Creating tool").
		String("name", tool.Name).
		String("category", tool.Category).
		Log()

	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	result := r.db.WithContext(ctx).Create(tool)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create tool").
			String("name", tool.Name).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "Tool created successfully").
		String("name", tool.Name).
		Uint("tool_id", tool.ID).
		Duration(duration).
		Log()

	return nil
}

// Update saves the full tool record
func (r *ToolRepository) Update(ctx context.Context, tool *model.DeveloperTool) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateTool")

	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	result := r.db.WithContext(ctx).Save(tool)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update tool").
			Uint("tool_id", tool.ID).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "Tool updated successfully").
		Uint("tool_id", tool.ID).
		Duration(duration).
		Log()

	return nil
}

// GetAll lists registry tools with filters and pagination
func (r *ToolRepository) GetAll(ctx context.Context, filter dto.ToolFilter, limit, offset int) ([]model.DeveloperTool, int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetAllTools")

	logger.DebugWithContext(ctx, "Getting tools").
		Int("limit", limit).
		Int("offset", offset).
		String("category", filter.Category).
		Log()

	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before query").
			Err(err).
			Log()
		return nil, 0, err
	}

	start := time.Now()
	var tools []model.DeveloperTool
	var total int64

	query := r.db.WithContext(ctx).Model(&model.DeveloperTool{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Tag != "" {
		query = query.Where("tags @> ?", `["`+filter.Tag+`"]`)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ? OR provider ILIKE ?", pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count tools").
			Err(err).
			Log()
		return nil, 0, err
	}

	if err := query.Order("name ASC").Limit(limit).Offset(offset).Find(&tools).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch tools").
			Int("limit", limit).
			Int("offset", offset).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return nil, 0, err
	}

	logger.InfoWithContext(ctx, "Tools retrieved successfully").
		Int64("total", total).
		Int("returned_count", len(tools)).
		Duration(time.Since(start)).
		Log()

	return tools, total, nil
}

// Delete removes a registry entry permanently
func (r *ToolRepository) Delete(ctx context.Context, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "DeleteTool")

	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	result := r.db.WithContext(ctx).Unscoped().Delete(&model.DeveloperTool{}, id)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete tool").
			Uint("tool_id", id).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "No tool found to delete").
			Uint("tool_id", id).
			Log()
		return gorm.ErrRecordNotFound
	}

	logger.InfoWithContext(ctx, "Tool deleted successfully").
		Uint("tool_id", id).
		Duration(duration).
		Log()

	return nil
}
