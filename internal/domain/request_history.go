package domain

import "time"

// RequestChangeType captures what changed in a history entry.
type RequestChangeType string

const (
	ChangeTypeStatus   RequestChangeType = "STATUS_CHANGE"
	ChangeTypeAssignee RequestChangeType = "ASSIGNEE_CHANGE"
	ChangeTypeReview   RequestChangeType = "REVIEW_SUBMITTED"
)

// RequestHistory is an immutable audit trail entry for a service request.
type RequestHistory struct {
	ID          string
	RequestID   string
	ChangedBy   *string
	ChangedRole Role
	ChangeType  RequestChangeType
	OldValue    map[string]any
	NewValue    map[string]any
	CreatedAt   time.Time
}
