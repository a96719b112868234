package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// RequestService is the lifecycle controller for service requests:
// REQUESTED -> {ACCEPTED, REJECTED}; ACCEPTED -> CLOSED. REJECTED and CLOSED
// are terminal; the only write permitted on a closed request is the one-time
// review.
type RequestService struct {
	requests   repository.RequestRepository
	services   repository.ServiceRepository
	history    repository.RequestHistoryRepository
	assignment *AssignmentService
	dispatcher events.Dispatcher
}

// RequestDependencies bundles collaborators for the lifecycle controller.
type RequestDependencies struct {
	RequestRepo repository.RequestRepository
	ServiceRepo repository.ServiceRepository
	HistoryRepo repository.RequestHistoryRepository
	Assignment  *AssignmentService
	Dispatcher  events.Dispatcher
}

// NewRequestService constructs the service.
func NewRequestService(deps RequestDependencies) *RequestService {
	return &RequestService{
		requests:   deps.RequestRepo,
		services:   deps.ServiceRepo,
		history:    deps.HistoryRepo,
		assignment: deps.Assignment,
		dispatcher: deps.Dispatcher,
	}
}

var allowedTransitions = map[domain.RequestStatus][]domain.RequestStatus{
	domain.RequestStatusRequested: {domain.RequestStatusAccepted, domain.RequestStatusRejected},
	domain.RequestStatusAccepted:  {domain.RequestStatusClosed},
	domain.RequestStatusRejected:  {},
	domain.RequestStatusClosed:    {},
}

func isValidTransition(current, next domain.RequestStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Create opens a request for the customer and attempts auto-assignment. A
// customer holding a non-terminal request for the same service is rejected.
func (s *RequestService) Create(ctx context.Context, customer *domain.User, serviceID string) (*domain.ServiceRequest, error) {
	if err := requireCustomer(customer); err != nil {
		return nil, err
	}

	service, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	open, err := s.requests.ExistsOpen(ctx, customer.ID, serviceID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if open {
		return nil, apperrors.NewDuplicateRequest(serviceID)
	}

	request := &domain.ServiceRequest{
		CustomerID:  customer.ID,
		ServiceID:   serviceID,
		Status:      domain.RequestStatusRequested,
		RequestedAt: time.Now(),
	}

	prof, err := s.assignment.PickFor(ctx, service)
	if err != nil {
		return nil, err
	}
	if prof != nil {
		request.ProfessionalID = &prof.ID
	}

	if err := s.requests.Create(ctx, request); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventRequestCreated,
		EntityID: request.ID,
		Actor:    customerActor(customer.ID),
		Payload: events.RequestCreatedPayload{
			ServiceID:      serviceID,
			ProfessionalID: request.ProfessionalID,
		},
	})
	if prof != nil {
		s.recordAssignment(ctx, customer.ID, request.ID, nil, request.ProfessionalID)
		s.publish(ctx, events.Event{
			Type:     events.EventRequestAssigned,
			EntityID: request.ID,
			Actor:    customerActor(customer.ID),
			Payload: events.RequestAssignedPayload{
				ProfessionalID: prof.ID,
				ServiceType:    prof.ServiceType,
			},
		})
	}
	return request, nil
}

// Accept moves an assigned request to ACCEPTED. Only the assigned
// professional may call it.
func (s *RequestService) Accept(ctx context.Context, prof *domain.Professional, requestID string) (*domain.ServiceRequest, error) {
	return s.professionalTransition(ctx, prof, requestID, domain.RequestStatusAccepted)
}

// Reject moves an assigned request to REJECTED, a terminal state.
func (s *RequestService) Reject(ctx context.Context, prof *domain.Professional, requestID string) (*domain.ServiceRequest, error) {
	return s.professionalTransition(ctx, prof, requestID, domain.RequestStatusRejected)
}

func (s *RequestService) professionalTransition(ctx context.Context, prof *domain.Professional, requestID string, next domain.RequestStatus) (*domain.ServiceRequest, error) {
	if prof == nil {
		return nil, apperrors.NewForbidden("professional profile required")
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if request.ProfessionalID == nil || *request.ProfessionalID != prof.ID {
		return nil, apperrors.NewNotAssigned()
	}
	if !isValidTransition(request.Status, next) {
		return nil, apperrors.NewInvalidState("request cannot be accepted or rejected in its current state",
			map[string]any{"status": request.Status})
	}

	oldStatus := request.Status
	request.Status = next
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordStatusChange(ctx, prof.UserID, domain.RoleProfessional, request.ID, oldStatus, next)
	s.publish(ctx, events.Event{
		Type:     events.EventRequestStatusChanged,
		EntityID: request.ID,
		Actor:    events.Actor{Role: domain.RoleProfessional, UserID: &prof.UserID},
		Payload: events.RequestStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: next,
		},
	})
	return request, nil
}

// Close lets the owning customer close an accepted request, stamping the
// close timestamp.
func (s *RequestService) Close(ctx context.Context, customer *domain.User, requestID string) (*domain.ServiceRequest, error) {
	if err := requireCustomer(customer); err != nil {
		return nil, err
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if request.CustomerID != customer.ID {
		return nil, apperrors.NewNotOwner()
	}
	if !isValidTransition(request.Status, domain.RequestStatusClosed) {
		return nil, apperrors.NewInvalidState("only accepted requests can be closed",
			map[string]any{"status": request.Status})
	}

	now := time.Now()
	oldStatus := request.Status
	request.Status = domain.RequestStatusClosed
	request.ClosedAt = &now
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordStatusChange(ctx, customer.ID, domain.RoleCustomer, request.ID, oldStatus, request.Status)
	s.publish(ctx, events.Event{
		Type:     events.EventRequestStatusChanged,
		EntityID: request.ID,
		Actor:    customerActor(customer.ID),
		Payload: events.RequestStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: request.Status,
		},
	})
	return request, nil
}

// SubmitReview records the one-time rating and remarks on a closed request.
func (s *RequestService) SubmitReview(ctx context.Context, customer *domain.User, requestID string, rating int, remarks string) (*domain.ServiceRequest, error) {
	if err := requireCustomer(customer); err != nil {
		return nil, err
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if request.CustomerID != customer.ID {
		return nil, apperrors.NewNotOwner()
	}
	if request.Status != domain.RequestStatusClosed {
		return nil, apperrors.NewInvalidState("only closed requests can be reviewed",
			map[string]any{"status": request.Status})
	}
	if request.Reviewed() {
		return nil, apperrors.NewInvalidState("request already reviewed", nil)
	}
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewInvalidRating(rating)
	}

	remarks = strings.TrimSpace(remarks)
	request.Rating = &rating
	if remarks != "" {
		request.Remarks = &remarks
	}
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.recordReview(ctx, customer.ID, request.ID, rating)
	s.publish(ctx, events.Event{
		Type:     events.EventReviewSubmitted,
		EntityID: request.ID,
		Actor:    customerActor(customer.ID),
		Payload: events.ReviewSubmittedPayload{
			Rating:         rating,
			RemarksPreview: preview(remarks, 120),
			ProfessionalID: request.ProfessionalID,
		},
	})
	return request, nil
}

// ListForCustomer returns the caller's own requests.
func (s *RequestService) ListForCustomer(ctx context.Context, customer *domain.User, statuses []domain.RequestStatus, limit, offset int) ([]domain.ServiceRequest, error) {
	if err := requireCustomer(customer); err != nil {
		return nil, err
	}
	filter := repository.RequestFilter{
		CustomerID: &customer.ID,
		Statuses:   statuses,
		Limit:      limit,
		Offset:     offset,
	}
	result, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// ListForProfessional returns requests assigned to the caller.
func (s *RequestService) ListForProfessional(ctx context.Context, prof *domain.Professional, statuses []domain.RequestStatus, limit, offset int) ([]domain.ServiceRequest, error) {
	if prof == nil {
		return nil, apperrors.NewForbidden("professional profile required")
	}
	filter := repository.RequestFilter{
		ProfessionalID: &prof.ID,
		Statuses:       statuses,
		Limit:          limit,
		Offset:         offset,
	}
	result, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// ListAll returns requests matching the filter. Admin only.
func (s *RequestService) ListAll(ctx context.Context, actor *domain.User, filter repository.RequestFilter) ([]domain.ServiceRequest, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	result, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// History returns the audit trail for a request. Admin only.
func (s *RequestService) History(ctx context.Context, actor *domain.User, requestID string, limit, offset int) ([]domain.RequestHistory, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.requests.GetByID(ctx, requestID); err != nil {
		return nil, apperrors.MapError(err)
	}
	entries, err := s.history.ListByRequest(ctx, requestID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (s *RequestService) recordStatusChange(ctx context.Context, actorUserID string, role domain.Role, requestID string, oldStatus, newStatus domain.RequestStatus) {
	if s.history == nil {
		return
	}
	_ = s.history.Create(ctx, &domain.RequestHistory{
		RequestID:   requestID,
		ChangedBy:   &actorUserID,
		ChangedRole: role,
		ChangeType:  domain.ChangeTypeStatus,
		OldValue:    map[string]any{"status": oldStatus},
		NewValue:    map[string]any{"status": newStatus},
	})
}

func (s *RequestService) recordAssignment(ctx context.Context, actorUserID, requestID string, oldProf, newProf *string) {
	if s.history == nil {
		return
	}
	_ = s.history.Create(ctx, &domain.RequestHistory{
		RequestID:   requestID,
		ChangedBy:   &actorUserID,
		ChangedRole: domain.RoleCustomer,
		ChangeType:  domain.ChangeTypeAssignee,
		OldValue:    map[string]any{"professional_id": oldProf},
		NewValue:    map[string]any{"professional_id": newProf},
	})
}

func (s *RequestService) recordReview(ctx context.Context, actorUserID, requestID string, rating int) {
	if s.history == nil {
		return
	}
	_ = s.history.Create(ctx, &domain.RequestHistory{
		RequestID:   requestID,
		ChangedBy:   &actorUserID,
		ChangedRole: domain.RoleCustomer,
		ChangeType:  domain.ChangeTypeReview,
		OldValue:    map[string]any{},
		NewValue:    map[string]any{"rating": rating},
	})
}

func (s *RequestService) publish(ctx context.Context, event events.Event) {
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

func customerActor(userID string) events.Actor {
	return events.Actor{Role: domain.RoleCustomer, UserID: &userID}
}

func requireCustomer(actor *domain.User) error {
	if actor == nil || actor.Role != domain.RoleCustomer {
		return apperrors.NewForbidden("customer role required")
	}
	return nil
}

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
