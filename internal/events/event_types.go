package events

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestCreated       EventType = "request_created"
	EventRequestAssigned      EventType = "request_assigned"
	EventRequestStatusChanged EventType = "request_status_changed"
	EventReviewSubmitted      EventType = "review_submitted"
	EventProfessionalReviewed EventType = "professional_reviewed"
	EventUserStatusChanged    EventType = "user_status_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role   domain.Role `json:"role"`
	UserID *string     `json:"user_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RequestCreatedPayload payload.
type RequestCreatedPayload struct {
	ServiceID      string  `json:"service_id"`
	ProfessionalID *string `json:"professional_id,omitempty"`
}

// RequestAssignedPayload payload.
type RequestAssignedPayload struct {
	ProfessionalID string `json:"professional_id"`
	ServiceType    string `json:"service_type"`
}

// RequestStatusChangedPayload payload.
type RequestStatusChangedPayload struct {
	OldStatus domain.RequestStatus `json:"old_status"`
	NewStatus domain.RequestStatus `json:"new_status"`
}

// ReviewSubmittedPayload payload.
type ReviewSubmittedPayload struct {
	Rating         int     `json:"rating"`
	RemarksPreview string  `json:"remarks_preview"`
	ProfessionalID *string `json:"professional_id,omitempty"`
}

// ProfessionalReviewedPayload payload for admin approval decisions.
type ProfessionalReviewedPayload struct {
	Approval domain.ApprovalStatus `json:"approval"`
}

// UserStatusChangedPayload payload.
type UserStatusChangedPayload struct {
	OldStatus domain.UserStatus `json:"old_status"`
	NewStatus domain.UserStatus `json:"new_status"`
}
