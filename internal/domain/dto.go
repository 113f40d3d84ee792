package domain

import (
	"github.com/google/uuid"
)

// Response DTOs

type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt string    `json:"createdAt"` // ISO 8601
}

type AgentDTO struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Mobile             string    `json:"mobile"`
	AssignedLeadsCount int       `json:"assignedLeadsCount"`
	CreatedAt          string    `json:"createdAt"`
	UpdatedAt          string    `json:"updatedAt"`
}

// AgentSummaryDTO is embedded in lead responses
type AgentSummaryDTO struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Mobile string    `json:"mobile"`
}

type LeadDTO struct {
	ID         uuid.UUID        `json:"id"`
	Name       string           `json:"name"`
	Email      string           `json:"email"`
	Mobile     string           `json:"mobile"`
	Notes      string           `json:"notes"`
	Status     LeadStatus       `json:"status"`
	Source     LeadSource       `json:"source"`
	AssignedTo *AgentSummaryDTO `json:"assignedTo"`
	CreatedAt  string           `json:"createdAt"`
	UpdatedAt  string           `json:"updatedAt"`
}

type AuthResponse struct {
	Success bool    `json:"success"`
	Token   string  `json:"token"`
	User    UserDTO `json:"user"`
}

type UserResponse struct {
	Success bool    `json:"success"`
	User    UserDTO `json:"user"`
}

type AgentResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Agent   AgentDTO `json:"agent"`
}

type AgentListResponse struct {
	Success bool       `json:"success"`
	Count   int        `json:"count"`
	Agents  []AgentDTO `json:"agents"`
}

type LeadResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	Lead    LeadDTO `json:"lead"`
}

type LeadListResponse struct {
	Success bool      `json:"success"`
	Count   int       `json:"count"`
	Leads   []LeadDTO `json:"leads"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AgentShareDTO reports how many uploaded leads one agent received
type AgentShareDTO struct {
	AgentID   uuid.UUID `json:"agentId"`
	AgentName string    `json:"agentName"`
	Count     int       `json:"count"`
}

// RejectedRowDTO describes a row the normalizer refused
type RejectedRowDTO struct {
	RowNumber int    `json:"rowNumber"`
	Reason    string `json:"reason"`
}

type UploadLeadsResponse struct {
	Success      bool             `json:"success"`
	Message      string           `json:"message"`
	TotalLeads   int              `json:"totalLeads"`
	AgentsCount  int              `json:"agentsCount"`
	SkippedRows  int              `json:"skippedRows"`
	RejectedRows []RejectedRowDTO `json:"rejectedRows,omitempty"`
	Distribution []AgentShareDTO  `json:"distribution"`
}

// Request DTOs

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateAgentRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Mobile   string `json:"mobile" validate:"required,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// UpdateAgentRequest is a partial update; nil fields are left unchanged
type UpdateAgentRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Mobile   *string `json:"mobile,omitempty" validate:"omitempty,min=1,max=50"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
}

type CreateLeadRequest struct {
	Name       string     `json:"name" validate:"required,max=200"`
	Email      string     `json:"email" validate:"required,email,max=255"`
	Mobile     string     `json:"mobile" validate:"required,max=50"`
	Notes      string     `json:"notes,omitempty"`
	Status     LeadStatus `json:"status" validate:"required,oneof=New Contacted Qualified Lost Converted"`
	AssignedTo uuid.UUID  `json:"assignedTo" validate:"required"`
}

// UpdateLeadRequest is a partial update; nil fields are left unchanged
type UpdateLeadRequest struct {
	Name       *string     `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email      *string     `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Mobile     *string     `json:"mobile,omitempty" validate:"omitempty,min=1,max=50"`
	Notes      *string     `json:"notes,omitempty"`
	Status     *LeadStatus `json:"status,omitempty" validate:"omitempty,oneof=New Contacted Qualified Lost Converted"`
	AssignedTo *uuid.UUID  `json:"assignedTo,omitempty"`
}

// LeadFilters narrows an owner's lead listing
type LeadFilters struct {
	Status *LeadStatus
	Search string
}
