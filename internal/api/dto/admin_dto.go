package dto

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// UserStatusRequest payload for block/unblock.
type UserStatusRequest struct {
	Status domain.UserStatus `json:"status"`
}

// ProfessionalResponse is the admin view of a professional profile.
type ProfessionalResponse struct {
	ID              string                `json:"id"`
	UserID          string                `json:"user_id"`
	Name            string                `json:"name"`
	Description     string                `json:"description"`
	ServiceType     string                `json:"service_type"`
	ExperienceYears int                   `json:"experience_years"`
	Address         string                `json:"address"`
	PostalCode      string                `json:"postal_code"`
	Approval        domain.ApprovalStatus `json:"approval"`
	CreatedAt       time.Time             `json:"created_at"`
}

// NewProfessionalResponse maps a domain professional.
func NewProfessionalResponse(prof *domain.Professional) ProfessionalResponse {
	return ProfessionalResponse{
		ID:              prof.ID,
		UserID:          prof.UserID,
		Name:            prof.Name,
		Description:     prof.Description,
		ServiceType:     prof.ServiceType,
		ExperienceYears: prof.ExperienceYears,
		Address:         prof.Address,
		PostalCode:      prof.PostalCode,
		Approval:        prof.Approval,
		CreatedAt:       prof.CreatedAt,
	}
}

// NewProfessionalListResponse maps a slice of professionals.
func NewProfessionalListResponse(profs []domain.Professional) []ProfessionalResponse {
	out := make([]ProfessionalResponse, 0, len(profs))
	for i := range profs {
		out = append(out, NewProfessionalResponse(&profs[i]))
	}
	return out
}
