package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/agentdesk/leads-api/internal/domain"
	"github.com/agentdesk/leads-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondWithError sends the standard failure envelope
func respondWithError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, domain.ErrorResponse{
		Success: false,
		Message: message,
	})
}

// respondValidationError sends a 400 with a summary message and per-field details
func respondValidationError(w http.ResponseWriter, message string, err error) {
	fields := make(map[string]string)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[toJSONFieldName(fe.Field())] = formatValidationError(fe)
		}
	}

	respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
		Success: false,
		Message: message,
		Errors:  fields,
	})
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", toJSONFieldName(fe.Field()))
	case "email":
		return "Must be a valid email address"
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

// toJSONFieldName converts a Go struct field name to its JSON equivalent (camelCase)
func toJSONFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes the 400 response itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}, invalidMessage string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondValidationError(w, invalidMessage, err)
		return false
	}
	return true
}

// uuidParam parses a UUID path parameter, answering 400 when it is malformed
func uuidParam(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s ID format", label))
		return uuid.Nil, false
	}
	return id, true
}

type errorMapping struct {
	err     error
	status  int
	message string
}

// serviceErrors is checked in order, so specific errors precede the generic ones they wrap
var serviceErrors = []errorMapping{
	{service.ErrInvalidCredentials, http.StatusUnauthorized, domain.MsgInvalidCredentials},
	{service.ErrUnauthorized, http.StatusUnauthorized, "Not authorized"},
	{service.ErrAgentNotFound, http.StatusNotFound, domain.MsgAgentNotFound},
	{service.ErrLeadNotFound, http.StatusNotFound, domain.MsgLeadNotFound},
	{service.ErrNotFound, http.StatusNotFound, "Not found"},
	{service.ErrAssignedAgentNotFound, http.StatusBadRequest, domain.MsgAssignedAgentNotFound},
	{service.ErrNoValidLeads, http.StatusBadRequest, domain.MsgNoValidLeads},
	{service.ErrNoAgents, http.StatusBadRequest, domain.MsgNoAgents},
	{service.ErrUnsupportedFormat, http.StatusBadRequest, domain.MsgInvalidFileFormat},
	{service.ErrMalformedFile, http.StatusBadRequest, domain.MsgUnparseableFile},
	{service.ErrInvalidInput, http.StatusBadRequest, "Invalid input"},
	{service.ErrAgentEmailTaken, http.StatusConflict, domain.MsgAgentEmailTaken},
	{service.ErrUserEmailTaken, http.StatusConflict, domain.MsgUserEmailTaken},
	{service.ErrAgentHasLeads, http.StatusConflict, domain.MsgAgentHasLeads},
	{service.ErrConflict, http.StatusConflict, "Conflict"},
}

// responder turns service errors into HTTP responses. Outside production the
// cause of a 500 is included in the body.
type responder struct {
	logger       *zap.Logger
	exposeErrors bool
}

func (rs responder) serviceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			respondWithError(w, m.status, m.message)
			return
		}
	}

	rs.logger.Error(fallback,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	body := domain.ErrorResponse{Success: false, Message: fallback}
	if rs.exposeErrors {
		body.Error = err.Error()
	}
	respondJSON(w, http.StatusInternalServerError, body)
}
