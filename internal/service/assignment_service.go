package service

import (
	"context"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// AssignmentService picks a professional for a new request. The policy is
// deliberately simple: the first approved, unblocked professional whose
// service_type matches the service name, ordered by registration time. No
// load balancing.
type AssignmentService struct {
	professionals repository.ProfessionalRepository
}

// NewAssignmentService creates the service.
func NewAssignmentService(professionals repository.ProfessionalRepository) *AssignmentService {
	return &AssignmentService{professionals: professionals}
}

// PickFor returns the professional to assign for the service, or nil when no
// eligible professional exists. An unassigned request stays REQUESTED until
// an admin intervenes or a matching professional appears.
func (s *AssignmentService) PickFor(ctx context.Context, service *domain.Service) (*domain.Professional, error) {
	approved := domain.ApprovalApproved
	active := domain.UserStatusActive
	filter := repository.ProfessionalFilter{
		ServiceType: &service.Name,
		Approval:    &approved,
		UserStatus:  &active,
		Limit:       1,
	}

	candidates, err := s.professionals.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	return &candidates[0], nil
}
