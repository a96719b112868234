package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

// NewDuplicateHandle signals a registration attempt with a taken username.
func NewDuplicateHandle(username string) error {
	return NewDomainError("DUPLICATE_HANDLE", "username already registered",
		http.StatusConflict, map[string]any{"username": username})
}

// NewInvalidCredentials covers every failed authentication path so callers
// cannot probe which part of the triple (handle, password, role) was wrong.
func NewInvalidCredentials() error {
	return NewDomainError("INVALID_CREDENTIALS", "invalid username or password",
		http.StatusUnauthorized, nil)
}

// NewDuplicateRequest signals an open request already exists for the pair.
func NewDuplicateRequest(serviceID string) error {
	return NewDomainError("DUPLICATE_REQUEST", "an open request for this service already exists",
		http.StatusConflict, map[string]any{"service_id": serviceID})
}

// NewNotAssigned rejects accept/reject calls from a professional that is not
// the assignee of the request.
func NewNotAssigned() error {
	return NewDomainError("NOT_ASSIGNED", "request is not assigned to you",
		http.StatusForbidden, nil)
}

// NewNotOwner rejects customer actions on requests owned by someone else.
func NewNotOwner() error {
	return NewDomainError("NOT_OWNER", "request belongs to another customer",
		http.StatusForbidden, nil)
}

// NewInvalidState rejects a lifecycle transition not permitted from the
// current status.
func NewInvalidState(message string, details map[string]any) error {
	return NewDomainError("INVALID_STATE", message, http.StatusUnprocessableEntity, details)
}

// NewInvalidRating rejects review ratings outside [1,5].
func NewInvalidRating(rating int) error {
	return NewDomainError("INVALID_RATING", "rating must be between 1 and 5",
		http.StatusBadRequest, map[string]any{"rating": rating})
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
