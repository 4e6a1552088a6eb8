package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service types
const (
	ServiceTypeAPI            = "api"
	ServiceTypeWeb            = "web"
	ServiceTypeMobile         = "mobile"
	ServiceTypeLibrary        = "library"
	ServiceTypeTool           = "tool"
	ServiceTypeInfrastructure = "infrastructure"
)

// Service statuses
const (
	ServiceStatusActive      = "active"
	ServiceStatusDeprecated  = "deprecated"
	ServiceStatusMaintenance = "maintenance"
	ServiceStatusPlanned     = "planned"
)

// Health statuses recorded by the health-check prober
const (
	HealthStatusHealthy   = "healthy"
	HealthStatusUnhealthy = "unhealthy"
	HealthStatusUnknown   = "unknown"
)

// ServiceEndpoint describes one exposed endpoint of a catalog service
type ServiceEndpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
}

// ServiceRepository points at the source repository
type ServiceRepository struct {
	URL    string `json:"url,omitempty"`
	Branch string `json:"branch,omitempty"`
}

// ServiceDocumentation points at docs and API specs
type ServiceDocumentation struct {
	URL     string `json:"url,omitempty"`
	APISpec string `json:"api_spec,omitempty"`
}

type Service struct {
	gorm.Model
	Name        string `gorm:"column:name;unique;not null;index:idx_services_name_type"`
	Description string `gorm:"column:description;not null"`
	Type        string `gorm:"column:type;not null;index:idx_services_name_type"`
	Status      string `gorm:"column:status;not null;default:active;index"`
	Version     string `gorm:"column:version;not null"`
	OwnerID     uint   `gorm:"column:owner_id;not null;index"`
	Owner       User   `gorm:"foreignKey:OwnerID"`
	Team        string `gorm:"column:team"`

	Repository    datatypes.JSONType[ServiceRepository]    `gorm:"column:repository"`
	Documentation datatypes.JSONType[ServiceDocumentation] `gorm:"column:documentation"`
	Endpoints     datatypes.JSONSlice[ServiceEndpoint]     `gorm:"column:endpoints"`
	Tags          datatypes.JSONSlice[string]              `gorm:"column:tags"`

	HealthCheckURL      string    `gorm:"column:health_check_url"`
	HealthCheckInterval int       `gorm:"column:health_check_interval;default:60"` // seconds
	HealthStatus        string    `gorm:"column:health_status;default:unknown"`
	HealthLastCheck     time.Time `gorm:"column:health_last_check"`
}
