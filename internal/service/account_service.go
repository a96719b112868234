package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// AccountService covers the admin-side management of users and
// professionals: block/unblock and professional vetting.
type AccountService struct {
	users         repository.UserRepository
	professionals repository.ProfessionalRepository
	dispatcher    events.Dispatcher
}

// AccountDependencies bundles repositories.
type AccountDependencies struct {
	UserRepo         repository.UserRepository
	ProfessionalRepo repository.ProfessionalRepository
	Dispatcher       events.Dispatcher
}

// NewAccountService constructs the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	return &AccountService{
		users:         deps.UserRepo,
		professionals: deps.ProfessionalRepo,
		dispatcher:    deps.Dispatcher,
	}
}

// SetUserStatus blocks or unblocks a user. Blocked users fail authentication
// from that point forward.
func (s *AccountService) SetUserStatus(ctx context.Context, actor *domain.User, userID string, status domain.UserStatus) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if status != domain.UserStatusActive && status != domain.UserStatusBlocked {
		return nil, apperrors.NewValidationError("status must be ACTIVE or BLOCKED", nil)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if user.Role == domain.RoleAdmin {
		return nil, apperrors.NewForbidden("cannot change admin status")
	}

	oldStatus := user.Status
	if oldStatus == status {
		return user, nil
	}
	user.Status = status
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventUserStatusChanged,
		EntityID: user.ID,
		Actor:    events.Actor{Role: domain.RoleAdmin, UserID: &actor.ID},
		Payload: events.UserStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
		},
	})
	return user, nil
}

// ListUsers returns users matching the filter.
func (s *AccountService) ListUsers(ctx context.Context, actor *domain.User, filter repository.UserFilter) ([]domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// ListProfessionals returns professionals matching the filter.
func (s *AccountService) ListProfessionals(ctx context.Context, actor *domain.User, filter repository.ProfessionalFilter) ([]domain.Professional, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	profs, err := s.professionals.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return profs, nil
}

// ApproveProfessional marks a pending professional as eligible for
// assignment.
func (s *AccountService) ApproveProfessional(ctx context.Context, actor *domain.User, professionalID string) (*domain.Professional, error) {
	return s.reviewProfessional(ctx, actor, professionalID, domain.ApprovalApproved)
}

// RejectProfessional marks a professional as rejected.
func (s *AccountService) RejectProfessional(ctx context.Context, actor *domain.User, professionalID string) (*domain.Professional, error) {
	return s.reviewProfessional(ctx, actor, professionalID, domain.ApprovalRejected)
}

func (s *AccountService) reviewProfessional(ctx context.Context, actor *domain.User, professionalID string, decision domain.ApprovalStatus) (*domain.Professional, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	prof, err := s.professionals.GetByID(ctx, professionalID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if prof.Approval == decision {
		return prof, nil
	}

	prof.Approval = decision
	if err := s.professionals.Update(ctx, prof); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventProfessionalReviewed,
		EntityID: prof.ID,
		Actor:    events.Actor{Role: domain.RoleAdmin, UserID: &actor.ID},
		Payload:  events.ProfessionalReviewedPayload{Approval: decision},
	})
	return prof, nil
}

func (s *AccountService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func requireAdmin(actor *domain.User) error {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}
