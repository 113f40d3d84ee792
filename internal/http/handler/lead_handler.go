package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/agentdesk/leads-api/internal/domain"
	"github.com/agentdesk/leads-api/internal/service"
	"go.uber.org/zap"
)

// LeadHandler handles lead CRUD and file uploads
type LeadHandler struct {
	leadService   *service.LeadService
	importService *service.ImportService
	maxUpload     int64
	responder
}

func NewLeadHandler(
	leadService *service.LeadService,
	importService *service.ImportService,
	maxUploadBytes int64,
	logger *zap.Logger,
	exposeErrors bool,
) *LeadHandler {
	return &LeadHandler{
		leadService:   leadService,
		importService: importService,
		maxUpload:     maxUploadBytes,
		responder:     responder{logger: logger, exposeErrors: exposeErrors},
	}
}

// Create godoc
// @Summary Create lead
// @Description Manually create a lead assigned to one of the caller's agents
// @Tags Leads
// @Accept json
// @Produce json
// @Param request body domain.CreateLeadRequest true "Lead details"
// @Success 201 {object} domain.LeadResponse
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads [post]
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLeadRequest
	if !decodeAndValidate(w, r, &req, "Please provide name, email, mobile, status, and assignedTo") {
		return
	}

	lead, err := h.leadService.Create(r.Context(), &req)
	if err != nil {
		h.serviceError(w, r, err, domain.MsgServerError)
		return
	}

	respondJSON(w, http.StatusCreated, domain.LeadResponse{
		Success: true,
		Message: "Lead created successfully",
		Lead:    *lead,
	})
}

// List godoc
// @Summary List leads
// @Description Leads of the caller, newest first, with the assigned agent embedded
// @Tags Leads
// @Produce json
// @Param status query string false "Filter by status" Enums(New, Contacted, Qualified, Lost, Converted)
// @Param search query string false "Search name, email or mobile"
// @Success 200 {object} domain.LeadListResponse
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads [get]
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := domain.LeadFilters{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		s := domain.LeadStatus(status)
		if !s.IsValid() {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid status filter: %s", status))
			return
		}
		filters.Status = &s
	}

	leads, err := h.leadService.List(r.Context(), filters)
	if err != nil {
		h.serviceError(w, r, err, domain.MsgServerError)
		return
	}

	respondJSON(w, http.StatusOK, domain.LeadListResponse{
		Success: true,
		Count:   len(leads),
		Leads:   leads,
	})
}

// ListByAgent godoc
// @Summary List an agent's leads
// @Tags Leads
// @Produce json
// @Param agentId path string true "Agent ID" format(uuid)
// @Success 200 {object} domain.LeadListResponse
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads/agent/{agentId} [get]
func (h *LeadHandler) ListByAgent(w http.ResponseWriter, r *http.Request) {
	agentID, ok := uuidParam(w, r, "agentId", "agent")
	if !ok {
		return
	}

	leads, err := h.leadService.ListByAgent(r.Context(), agentID)
	if err != nil {
		h.serviceError(w, r, err, domain.MsgServerError)
		return
	}

	respondJSON(w, http.StatusOK, domain.LeadListResponse{
		Success: true,
		Count:   len(leads),
		Leads:   leads,
	})
}

// GetByID godoc
// @Summary Get lead
// @Tags Leads
// @Produce json
// @Param id path string true "Lead ID" format(uuid)
// @Success 200 {object} domain.LeadResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads/{id} [get]
func (h *LeadHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "lead")
	if !ok {
		return
	}

	lead, err := h.leadService.GetByID(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err, domain.MsgServerError)
		return
	}

	respondJSON(w, http.StatusOK, domain.LeadResponse{Success: true, Lead: *lead})
}

// Update godoc
// @Summary Update lead
// @Description Partial update. Changing assignedTo moves the lead between agents.
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID" format(uuid)
// @Param request body domain.UpdateLeadRequest true "Fields to change"
// @Success 200 {object} domain.LeadResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads/{id} [put]
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "lead")
	if !ok {
		return
	}

	var req domain.UpdateLeadRequest
	if !decodeAndValidate(w, r, &req, "Invalid lead fields") {
		return
	}

	lead, err := h.leadService.Update(r.Context(), id, &req)
	if err != nil {
		h.serviceError(w, r, err, domain.MsgServerError)
		return
	}

	respondJSON(w, http.StatusOK, domain.LeadResponse{
		Success: true,
		Message: "Lead updated successfully",
		Lead:    *lead,
	})
}

// Delete godoc
// @Summary Delete lead
// @Tags Leads
// @Produce json
// @Param id path string true "Lead ID" format(uuid)
// @Success 200 {object} domain.MessageResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads/{id} [delete]
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "lead")
	if !ok {
		return
	}

	if err := h.leadService.Delete(r.Context(), id); err != nil {
		h.serviceError(w, r, err, domain.MsgServerError)
		return
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{Success: true, Message: "Lead deleted successfully"})
}

// Upload godoc
// @Summary Upload and distribute leads
// @Description Parses a CSV, XLSX or XLS file and spreads the valid rows over the caller's agents
// @Tags Leads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Lead file (.csv, .xlsx, .xls)"
// @Success 201 {object} domain.UploadLeadsResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 413 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads/upload [post]
func (h *LeadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("%s: maximum size is %dMB", domain.MsgFileTooLarge, h.maxUpload/(1024*1024)))
			return
		}
		respondWithError(w, http.StatusBadRequest, domain.MsgNoFile)
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, domain.MsgNoFile)
		return
	}
	defer file.Close()

	resp, err := h.importService.Upload(r.Context(), header.Filename, file)
	if err != nil {
		h.serviceError(w, r, err, domain.MsgUploadServerError)
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}
