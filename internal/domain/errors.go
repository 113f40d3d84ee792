package domain

// ErrorResponse is the uniform failure envelope
type ErrorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
	// Error carries internal detail outside production only
	Error string `json:"error,omitempty"`
}

// ValidationMessages maps validator tags to user-friendly messages
var ValidationMessages = map[string]string{
	"required": "This field is required",
	"email":    "Must be a valid email address",
	"max":      "Exceeds maximum length",
	"min":      "Below minimum length",
	"uuid":     "Must be a valid UUID",
	"oneof":    "Must be one of the allowed values",
	"numeric":  "Must be a numeric value",
	"len":      "Must be exactly the specified length",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}

// User-facing messages shared by the service and HTTP layers
const (
	MsgNoFile                = "Please upload a file"
	MsgInvalidFileFormat     = "Invalid file format. Only CSV, XLSX, and XLS are allowed"
	MsgNoValidLeads          = "No valid leads found in file. Please check that your CSV has Name, Email, and Mobile columns."
	MsgNoAgents              = "No agents available. Please create agents first"
	MsgUploadServerError     = "Server error while uploading leads"
	MsgUnparseableFile       = "Unable to parse file"
	MsgFileTooLarge          = "File too large"
	MsgAssignedAgentNotFound = "Assigned agent not found"
	MsgLeadNotFound          = "Lead not found"
	MsgAgentNotFound         = "Agent not found"
	MsgAgentEmailTaken       = "Agent with this email already exists"
	MsgAgentHasLeads         = "Agent still has assigned leads. Reassign or delete them first"
	MsgUserEmailTaken        = "User already exists"
	MsgInvalidCredentials    = "Invalid credentials"
	MsgServerError           = "Server error"
)
