package domain

import "time"

// ApprovalStatus is the admin-controlled vetting state of a professional.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// Professional holds the profile attached to a PROFESSIONAL user.
// Only APPROVED professionals are eligible for new assignments.
type Professional struct {
	ID              string
	UserID          string
	Name            string
	Description     string
	ServiceType     string
	ExperienceYears int
	Address         string
	PostalCode      string
	Approval        ApprovalStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Assignable reports whether the professional may receive new requests.
func (p *Professional) Assignable() bool {
	return p != nil && p.Approval == ApprovalApproved
}
