package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Developer tool categories
const (
	ToolCategoryCICD          = "ci-cd"
	ToolCategoryMonitoring    = "monitoring"
	ToolCategoryLogging       = "logging"
	ToolCategoryTesting       = "testing"
	ToolCategorySecurity      = "security"
	ToolCategoryCollaboration = "collaboration"
	ToolCategoryDeployment    = "deployment"
	ToolCategoryOther         = "other"
)

// Developer tool statuses
const (
	ToolStatusActive     = "active"
	ToolStatusInactive   = "inactive"
	ToolStatusDeprecated = "deprecated"
)

// ToolIntegration links a tool to a catalog service
type ToolIntegration struct {
	ServiceID uint           `json:"service_id"`
	Enabled   bool           `json:"enabled"`
	Config    map[string]any `json:"config,omitempty"`
}

// ToolAuthentication describes how the tool authenticates callers
type ToolAuthentication struct {
	Type           string `json:"type"` // api-key, oauth, basic, none
	ConfigRequired bool   `json:"config_required"`
}

type DeveloperTool struct {
	gorm.Model
	Name        string `gorm:"column:name;unique;not null;index:idx_tools_name_category"`
	Description string `gorm:"column:description;not null"`
	Category    string `gorm:"column:category;not null;index:idx_tools_name_category"`
	Provider    string `gorm:"column:provider"`
	URL         string `gorm:"column:url"`
	APIEndpoint string `gorm:"column:api_endpoint"`
	Status      string `gorm:"column:status;not null;default:active;index"`
	Icon        string `gorm:"column:icon"`

	Authentication datatypes.JSONType[ToolAuthentication] `gorm:"column:authentication"`
	Integrations   datatypes.JSONSlice[ToolIntegration]   `gorm:"column:integrations"`
	Features       datatypes.JSONSlice[string]            `gorm:"column:features"`
	Tags           datatypes.JSONSlice[string]            `gorm:"column:tags"`
}
