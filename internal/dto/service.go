package dto

import (
	"time"

	"github.com/devhub-platform/portal/internal/model"
)

type CreateServiceRequest struct {
	Name        string                  `json:"name" binding:"required,min=2,max=100"`
	Description string                  `json:"description" binding:"required"`
	Type        string                  `json:"type" binding:"required,oneof=api web mobile library tool infrastructure"`
	Status      string                  `json:"status" binding:"omitempty,oneof=active deprecated maintenance planned"`
	Version     string                  `json:"version" binding:"required,max=50"`
	Team        string                  `json:"team" binding:"omitempty,max=100"`
	Repository  *ServiceRepositoryDTO   `json:"repository"`
	Docs        *ServiceDocsDTO         `json:"documentation"`
	Endpoints   []model.ServiceEndpoint `json:"endpoints" binding:"omitempty,dive"`
	Tags        []string                `json:"tags"`
	HealthCheck *HealthCheckDTO         `json:"healthCheck"`
}

type UpdateServiceRequest struct {
	Description *string                 `json:"description"`
	Type        *string                 `json:"type" binding:"omitempty,oneof=api web mobile library tool infrastructure"`
	Status      *string                 `json:"status" binding:"omitempty,oneof=active deprecated maintenance planned"`
	Version     *string                 `json:"version" binding:"omitempty,max=50"`
	Team        *string                 `json:"team" binding:"omitempty,max=100"`
	Repository  *ServiceRepositoryDTO   `json:"repository"`
	Docs        *ServiceDocsDTO         `json:"documentation"`
	Endpoints   []model.ServiceEndpoint `json:"endpoints" binding:"omitempty,dive"`
	Tags        []string                `json:"tags"`
	HealthCheck *HealthCheckDTO         `json:"healthCheck"`
}

type ServiceRepositoryDTO struct {
	URL    string `json:"url" binding:"omitempty,url"`
	Branch string `json:"branch"`
}

type ServiceDocsDTO struct {
	URL     string `json:"url" binding:"omitempty,url"`
	APISpec string `json:"apiSpec"`
}

type HealthCheckDTO struct {
	URL      string `json:"url" binding:"omitempty,url"`
	Interval int    `json:"interval" binding:"omitempty,min=10"` // seconds
}

// ServiceFilter holds catalog listing filters
type ServiceFilter struct {
	Type    string
	Status  string
	OwnerID uint
	Tag     string
	Search  string
}

// OwnerResponse is the embedded owner summary on catalog records
type OwnerResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type ServiceResponse struct {
	ID            uint                        `json:"id"`
	Name          string                      `json:"name"`
	Description   string                      `json:"description"`
	Type          string                      `json:"type"`
	Status        string                      `json:"status"`
	Version       string                      `json:"version"`
	Owner         OwnerResponse               `json:"owner"`
	Team          string                      `json:"team,omitempty"`
	Repository    model.ServiceRepository     `json:"repository"`
	Documentation model.ServiceDocumentation  `json:"documentation"`
	Endpoints     []model.ServiceEndpoint     `json:"endpoints"`
	Tags          []string                    `json:"tags"`
	HealthCheck   ServiceHealthCheckResponse  `json:"healthCheck"`
	CreatedAt     time.Time                   `json:"createdAt"`
	UpdatedAt     time.Time                   `json:"updatedAt"`
}

type ServiceHealthCheckResponse struct {
	URL       string    `json:"url,omitempty"`
	Interval  int       `json:"interval"`
	Status    string    `json:"status"`
	LastCheck time.Time `json:"lastCheck"`
}

// NewServiceResponse maps a service model to its outward representation
func NewServiceResponse(svc *model.Service) ServiceResponse {
	return ServiceResponse{
		ID:          svc.ID,
		Name:        svc.Name,
		Description: svc.Description,
		Type:        svc.Type,
		Status:      svc.Status,
		Version:     svc.Version,
		Owner: OwnerResponse{
			ID:        svc.Owner.ID,
			Username:  svc.Owner.Username,
			Email:     svc.Owner.Email,
			FirstName: svc.Owner.FirstName,
			LastName:  svc.Owner.LastName,
		},
		Team:          svc.Team,
		Repository:    svc.Repository.Data(),
		Documentation: svc.Documentation.Data(),
		Endpoints:     svc.Endpoints,
		Tags:          svc.Tags,
		HealthCheck: ServiceHealthCheckResponse{
			URL:       svc.HealthCheckURL,
			Interval:  svc.HealthCheckInterval,
			Status:    svc.HealthStatus,
			LastCheck: svc.HealthLastCheck,
		},
		CreatedAt: svc.CreatedAt,
		UpdatedAt: svc.UpdatedAt,
	}
}
