package service

import (
	"errors"
	"fmt"

	"github.com/agentdesk/leads-api/internal/ingest"
)

// Common service errors
var (
	// ErrNotFound is returned when a resource does not exist or belongs to another owner
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnsupportedFormat is returned for uploads outside csv, xlsx and xls
	ErrUnsupportedFormat = ingest.ErrUnsupportedFormat

	// ErrMalformedFile is returned when an upload cannot be parsed at all
	ErrMalformedFile = ingest.ErrMalformedFile
)

// Domain-specific errors, each wrapping one of the common errors above
var (
	ErrAgentNotFound         = fmt.Errorf("agent %w", ErrNotFound)
	ErrLeadNotFound          = fmt.Errorf("lead %w", ErrNotFound)
	ErrAssignedAgentNotFound = fmt.Errorf("assigned agent not found: %w", ErrInvalidInput)
	ErrAgentEmailTaken       = fmt.Errorf("agent email already in use: %w", ErrConflict)
	ErrUserEmailTaken        = fmt.Errorf("user email already in use: %w", ErrConflict)
	ErrAgentHasLeads         = fmt.Errorf("agent still has assigned leads: %w", ErrConflict)
	ErrInvalidCredentials    = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	ErrNoValidLeads          = fmt.Errorf("no valid leads in file: %w", ErrInvalidInput)
	ErrNoAgents              = fmt.Errorf("no agents available: %w", ErrInvalidInput)
)
