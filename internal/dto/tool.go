package dto

import (
	"time"

	"github.com/devhub-platform/portal/internal/model"
)

type CreateToolRequest struct {
	Name           string                   `json:"name" binding:"required,min=2,max=100"`
	Description    string                   `json:"description" binding:"required"`
	Category       string                   `json:"category" binding:"required,oneof=ci-cd monitoring logging testing security collaboration deployment other"`
	Provider       string                   `json:"provider" binding:"omitempty,max=100"`
	URL            string                   `json:"url" binding:"omitempty,url"`
	APIEndpoint    string                   `json:"apiEndpoint" binding:"omitempty,url"`
	Status         string                   `json:"status" binding:"omitempty,oneof=active inactive deprecated"`
	Icon           string                   `json:"icon" binding:"omitempty,max=500"`
	Authentication *model.ToolAuthentication `json:"authentication"`
	Integrations   []model.ToolIntegration  `json:"integrations"`
	Features       []string                 `json:"features"`
	Tags           []string                 `json:"tags"`
}

type UpdateToolRequest struct {
	Description    *string                   `json:"description"`
	Category       *string                   `json:"category" binding:"omitempty,oneof=ci-cd monitoring logging testing security collaboration deployment other"`
	Provider       *string                   `json:"provider" binding:"omitempty,max=100"`
	URL            *string                   `json:"url" binding:"omitempty,url"`
	APIEndpoint    *string                   `json:"apiEndpoint" binding:"omitempty,url"`
	Status         *string                   `json:"status" binding:"omitempty,oneof=active inactive deprecated"`
	Icon           *string                   `json:"icon" binding:"omitempty,max=500"`
	Authentication *model.ToolAuthentication `json:"authentication"`
	Integrations   []model.ToolIntegration   `json:"integrations"`
	Features       []string                  `json:"features"`
	Tags           []string                  `json:"tags"`
}

// ToolFilter holds tool registry listing filters
type ToolFilter struct {
	Category string
	Status   string
	Tag      string
	Search   string
}

type ToolResponse struct {
	ID             uint                     `json:"id"`
	Name           string                   `json:"name"`
	Description    string                   `json:"description"`
	Category       string                   `json:"category"`
	Provider       string                   `json:"provider,omitempty"`
	URL            string                   `json:"url,omitempty"`
	APIEndpoint    string                   `json:"apiEndpoint,omitempty"`
	Status         string                   `json:"status"`
	Icon           string                   `json:"icon,omitempty"`
	Authentication model.ToolAuthentication `json:"authentication"`
	Integrations   []model.ToolIntegration  `json:"integrations"`
	Features       []string                 `json:"features"`
	Tags           []string                 `json:"tags"`
	CreatedAt      time.Time                `json:"createdAt"`
	UpdatedAt      time.Time                `json:"updatedAt"`
}

// NewToolResponse maps a developer tool model to its outward representation
func NewToolResponse(tool *model.DeveloperTool) ToolResponse {
	return ToolResponse{
		ID:             tool.ID,
		Name:           tool.Name,
		Description:    tool.Description,
		Category:       tool.Category,
		Provider:       tool.Provider,
		URL:            tool.URL,
		APIEndpoint:    tool.APIEndpoint,
		Status:         tool.Status,
		Icon:           tool.Icon,
		Authentication: tool.Authentication.Data(),
		Integrations:   tool.Integrations,
		Features:       tool.Features,
		Tags:           tool.Tags,
		CreatedAt:      tool.CreatedAt,
		UpdatedAt:      tool.UpdatedAt,
	}
}
