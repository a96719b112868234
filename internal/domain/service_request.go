package domain

import "time"

// RequestStatus enumerates lifecycle states for service requests.
type RequestStatus string

const (
	RequestStatusRequested RequestStatus = "REQUESTED"
	RequestStatusAccepted  RequestStatus = "ACCEPTED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusClosed    RequestStatus = "CLOSED"
)

// Terminal reports whether no further transition is permitted from s.
// The one-time review write on a closed request is not a transition.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusRejected || s == RequestStatusClosed
}

// ServiceRequest is the lifecycle aggregate linking a customer, a service
// and, once assigned, a professional.
type ServiceRequest struct {
	ID             string
	CustomerID     string
	ServiceID      string
	ProfessionalID *string
	Status         RequestStatus
	Rating         *int
	Remarks        *string
	RequestedAt    time.Time
	ClosedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Reviewed reports whether the one-time review has already been written.
func (r *ServiceRequest) Reviewed() bool {
	return r.Rating != nil
}
