package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Workflow errors
var (
	ErrInvalidTransition   = errors.New("status transition not allowed")
	ErrAppointmentInPast   = errors.New("appointment date must be in the future")
	ErrDonorNotReady       = errors.New("donor is not ready to donate")
	ErrAlreadyPledged      = errors.New("donor already pledged for this request")
	ErrRequestNotActive    = errors.New("blood request is no longer active")
	ErrRequestStillPending = errors.New("blood request must be closed before deletion")
	ErrBedOccupied         = errors.New("bed is already occupied by a pending request")
)
