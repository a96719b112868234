package dto

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// BookServiceRequest payload for opening a service request.
type BookServiceRequest struct {
	ServiceID string `json:"service_id"`
}

// ReviewRequest payload for the one-time review.
type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Remarks string `json:"remarks"`
}

// ServiceRequestResponse is the public view of a service request.
type ServiceRequestResponse struct {
	ID             string               `json:"id"`
	CustomerID     string               `json:"customer_id"`
	ServiceID      string               `json:"service_id"`
	ProfessionalID *string              `json:"professional_id,omitempty"`
	Status         domain.RequestStatus `json:"status"`
	Rating         *int                 `json:"rating,omitempty"`
	Remarks        *string              `json:"remarks,omitempty"`
	RequestedAt    time.Time            `json:"requested_at"`
	ClosedAt       *time.Time           `json:"closed_at,omitempty"`
}

// NewServiceRequestResponse maps a domain request.
func NewServiceRequestResponse(request *domain.ServiceRequest) ServiceRequestResponse {
	return ServiceRequestResponse{
		ID:             request.ID,
		CustomerID:     request.CustomerID,
		ServiceID:      request.ServiceID,
		ProfessionalID: request.ProfessionalID,
		Status:         request.Status,
		Rating:         request.Rating,
		Remarks:        request.Remarks,
		RequestedAt:    request.RequestedAt,
		ClosedAt:       request.ClosedAt,
	}
}

// NewServiceRequestListResponse maps a slice of requests.
func NewServiceRequestListResponse(requests []domain.ServiceRequest) []ServiceRequestResponse {
	out := make([]ServiceRequestResponse, 0, len(requests))
	for i := range requests {
		out = append(out, NewServiceRequestResponse(&requests[i]))
	}
	return out
}
