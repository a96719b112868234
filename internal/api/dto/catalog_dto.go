package dto

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// ServiceUpsertRequest payload for creating or updating catalog entries.
type ServiceUpsertRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	BasePrice   float64 `json:"base_price"`
}

// ServiceResponse is the public view of a catalog entry.
type ServiceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	BasePrice   float64   `json:"base_price"`
	ImagePath   *string   `json:"image_path,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewServiceResponse maps a domain service.
func NewServiceResponse(service *domain.Service) ServiceResponse {
	return ServiceResponse{
		ID:          service.ID,
		Name:        service.Name,
		Description: service.Description,
		BasePrice:   service.BasePrice,
		ImagePath:   service.ImagePath,
		CreatedAt:   service.CreatedAt,
		UpdatedAt:   service.UpdatedAt,
	}
}

// NewServiceListResponse maps a slice of services.
func NewServiceListResponse(services []domain.Service) []ServiceResponse {
	out := make([]ServiceResponse, 0, len(services))
	for i := range services {
		out = append(out, NewServiceResponse(&services[i]))
	}
	return out
}
