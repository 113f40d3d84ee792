package handler

import (
	"net/http"

	"github.com/agentdesk/leads-api/internal/domain"
	"github.com/agentdesk/leads-api/internal/service"
	"go.uber.org/zap"
)

// AgentHandler handles HTTP requests for the caller's agents
type AgentHandler struct {
	agentService *service.AgentService
	responder
}

func NewAgentHandler(agentService *service.AgentService, logger *zap.Logger, exposeErrors bool) *AgentHandler {
	return &AgentHandler{
		agentService: agentService,
		responder:    responder{logger: logger, exposeErrors: exposeErrors},
	}
}

// Create godoc
// @Summary Create agent
// @Tags Agents
// @Accept json
// @Produce json
// @Param request body domain.CreateAgentRequest true "Agent details"
// @Success 201 {object} domain.AgentResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /agents [post]
func (h *AgentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAgentRequest
	if !decodeAndValidate(w, r, &req, "All fields are required") {
		return
	}

	agent, err := h.agentService.Create(r.Context(), &req)
	if err != nil {
		h.serviceError(w, r, err, domain.MsgServerError)
		return
	}

	respondJSON(w, http.StatusCreated, domain.AgentResponse{
		Success: true,
		Message: "Agent created successfully",
		Agent:   *agent,
	})
}

// List godoc
// @Summary List agents
// @Description Agents of the authenticated user, newest first
// @Tags Agents
// @Produce json
// @Success 200 {object} domain.AgentListResponse
// @Security BearerAuth
// @Router /agents [get]
func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	agents, err := h.agentService.List(r.Context())
	if err != nil {
		h.serviceError(w, r, err, domain.MsgServerError)
		return
	}

	respondJSON(w, http.StatusOK, domain.AgentListResponse{
		Success: true,
		Count:   len(agents),
		Agents:  agents,
	})
}

// GetByID godoc
// @Summary Get agent
// @Tags Agents
// @Produce json
// @Param id path string true "Agent ID" format(uuid)
// @Success 200 {object} domain.AgentResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /agents/{id} [get]
func (h *AgentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "agent")
	if !ok {
		return
	}

	agent, err := h.agentService.GetByID(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err, domain.MsgServerError)
		return
	}

	respondJSON(w, http.StatusOK, domain.AgentResponse{Success: true, Agent: *agent})
}

// Update godoc
// @Summary Update agent
// @Description Partial update of name, email, mobile or password
// @Tags Agents
// @Accept json
// @Produce json
// @Param id path string true "Agent ID" format(uuid)
// @Param request body domain.UpdateAgentRequest true "Fields to change"
// @Success 200 {object} domain.AgentResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /agents/{id} [put]
func (h *AgentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "agent")
	if !ok {
		return
	}

	var req domain.UpdateAgentRequest
	if !decodeAndValidate(w, r, &req, "Invalid agent fields") {
		return
	}

	agent, err := h.agentService.Update(r.Context(), id, &req)
	if err != nil {
		h.serviceError(w, r, err, domain.MsgServerError)
		return
	}

	respondJSON(w, http.StatusOK, domain.AgentResponse{
		Success: true,
		Message: "Agent updated successfully",
		Agent:   *agent,
	})
}

// Delete godoc
// @Summary Delete agent
// @Description Only agents without assigned leads can be deleted
// @Tags Agents
// @Produce json
// @Param id path string true "Agent ID" format(uuid)
// @Success 200 {object} domain.MessageResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /agents/{id} [delete]
func (h *AgentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "agent")
	if !ok {
		return
	}

	if err := h.agentService.Delete(r.Context(), id); err != nil {
		h.serviceError(w, r, err, domain.MsgServerError)
		return
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{Success: true, Message: "Agent deleted successfully"})
}
