package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agentdesk/leads-api/internal/domain"
	"github.com/agentdesk/leads-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadHandler_CreateAndReassign(t *testing.T) {
	h := setupHandlers(t)
	owner := testutil.CreateTestUser(t, h.db, "owner")
	other := testutil.CreateTestUser(t, h.db, "other")
	ctx := testutil.OwnerContext(owner)

	first := testutil.CreateTestAgent(t, h.db, owner, "first")
	second := testutil.CreateTestAgent(t, h.db, owner, "second")
	foreign := testutil.CreateTestAgent(t, h.db, other, "foreign")

	var leadID uuid.UUID

	t.Run("create", func(t *testing.T) {
		body := domain.CreateLeadRequest{
			Name: "Kari", Email: "kari@example.com", Mobile: "5550101",
			Status: domain.LeadStatusNew, AssignedTo: first.ID,
		}
		rr := httptest.NewRecorder()
		h.leads.Create(rr, newRequest(t, ctx, http.MethodPost, "/leads", body, nil))

		require.Equal(t, http.StatusCreated, rr.Code)
		resp := decodeBody[domain.LeadResponse](t, rr)
		assert.Equal(t, "Lead created successfully", resp.Message)
		require.NotNil(t, resp.Lead.AssignedTo)
		assert.Equal(t, first.ID, resp.Lead.AssignedTo.ID)
		assert.Equal(t, 1, testutil.ReloadAgent(t, h.db, first.ID).AssignedLeadsCount)
		leadID = resp.Lead.ID
	})

	t.Run("create for foreign agent", func(t *testing.T) {
		body := domain.CreateLeadRequest{
			Name: "Per", Email: "per@example.com", Mobile: "5550102",
			Status: domain.LeadStatusNew, AssignedTo: foreign.ID,
		}
		rr := httptest.NewRecorder()
		h.leads.Create(rr, newRequest(t, ctx, http.MethodPost, "/leads", body, nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, domain.MsgAssignedAgentNotFound, decodeError(t, rr).Message)
		assert.Equal(t, 0, testutil.ReloadAgent(t, h.db, foreign.ID).AssignedLeadsCount)
	})

	t.Run("create with invalid status", func(t *testing.T) {
		body := map[string]string{
			"name": "Per", "email": "per@example.com", "mobile": "1",
			"status": "Pending", "assignedTo": first.ID.String(),
		}
		rr := httptest.NewRecorder()
		h.leads.Create(rr, newRequest(t, ctx, http.MethodPost, "/leads", body, nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeError(t, rr).Errors, "status")
	})

	t.Run("reassign moves counters", func(t *testing.T) {
		to := second.ID
		rr := httptest.NewRecorder()
		h.leads.Update(rr, newRequest(t, ctx, http.MethodPut, "/leads/x",
			domain.UpdateLeadRequest{AssignedTo: &to}, map[string]string{"id": leadID.String()}))

		require.Equal(t, http.StatusOK, rr.Code)
		resp := decodeBody[domain.LeadResponse](t, rr)
		require.NotNil(t, resp.Lead.AssignedTo)
		assert.Equal(t, second.ID, resp.Lead.AssignedTo.ID)
		assert.Equal(t, 0, testutil.ReloadAgent(t, h.db, first.ID).AssignedLeadsCount)
		assert.Equal(t, 1, testutil.ReloadAgent(t, h.db, second.ID).AssignedLeadsCount)
	})

	t.Run("list by agent", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.leads.ListByAgent(rr, newRequest(t, ctx, http.MethodGet, "/leads/agent/x", nil,
			map[string]string{"agentId": second.ID.String()}))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 1, decodeBody[domain.LeadListResponse](t, rr).Count)
	})

	t.Run("delete decrements", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.leads.Delete(rr, newRequest(t, ctx, http.MethodDelete, "/leads/x", nil, map[string]string{"id": leadID.String()}))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Lead deleted successfully", decodeBody[domain.MessageResponse](t, rr).Message)
		assert.Equal(t, 0, testutil.ReloadAgent(t, h.db, second.ID).AssignedLeadsCount)
	})

	t.Run("get deleted lead", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.leads.GetByID(rr, newRequest(t, ctx, http.MethodGet, "/leads/x", nil, map[string]string{"id": leadID.String()}))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, domain.MsgLeadNotFound, decodeError(t, rr).Message)
	})
}

func TestLeadHandler_List(t *testing.T) {
	h := setupHandlers(t)
	owner := testutil.CreateTestUser(t, h.db, "owner")
	ctx := testutil.OwnerContext(owner)
	agent := testutil.CreateTestAgent(t, h.db, owner, "agent")

	testutil.CreateTestLead(t, h.db, agent, "alpha")
	testutil.CreateTestLead(t, h.db, agent, "beta")

	t.Run("all", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.leads.List(rr, newRequest(t, ctx, http.MethodGet, "/leads", nil, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		resp := decodeBody[domain.LeadListResponse](t, rr)
		assert.Equal(t, 2, resp.Count)
		require.NotNil(t, resp.Leads[0].AssignedTo)
		assert.Equal(t, agent.ID, resp.Leads[0].AssignedTo.ID)
	})

	t.Run("search", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.leads.List(rr, newRequest(t, ctx, http.MethodGet, "/leads?search=alph", nil, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 1, decodeBody[domain.LeadListResponse](t, rr).Count)
	})

	t.Run("invalid status filter", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.leads.List(rr, newRequest(t, ctx, http.MethodGet, "/leads?status=Pending", nil, nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid status filter: Pending", decodeError(t, rr).Message)
	})
}

func TestLeadHandler_Upload(t *testing.T) {
	h := setupHandlers(t)
	owner := testutil.CreateTestUser(t, h.db, "owner")
	ctx := testutil.OwnerContext(owner)

	var csv strings.Builder
	csv.WriteString("Name,Mobile,Email\n")
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&csv, "Lead %d,555%04d,lead%d@example.com\n", i, i, i)
	}

	t.Run("no agents", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.leads.Upload(rr, newUploadRequest(t, ctx, "file", "leads.csv", []byte(csv.String())))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, domain.MsgNoAgents, decodeError(t, rr).Message)
	})

	a := testutil.CreateTestAgent(t, h.db, owner, "a")
	b := testutil.CreateTestAgent(t, h.db, owner, "b")

	t.Run("distributes", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.leads.Upload(rr, newUploadRequest(t, ctx, "file", "leads.csv", []byte(csv.String())))

		require.Equal(t, http.StatusCreated, rr.Code)
		resp := decodeBody[domain.UploadLeadsResponse](t, rr)
		assert.Equal(t, "5 leads uploaded and distributed successfully", resp.Message)
		assert.Equal(t, 5, resp.TotalLeads)
		assert.Equal(t, 2, resp.AgentsCount)
		require.Len(t, resp.Distribution, 2)
		assert.Equal(t, 3, resp.Distribution[0].Count)
		assert.Equal(t, 2, resp.Distribution[1].Count)
		assert.Equal(t, 3, testutil.ReloadAgent(t, h.db, a.ID).AssignedLeadsCount)
		assert.Equal(t, 2, testutil.ReloadAgent(t, h.db, b.ID).AssignedLeadsCount)
	})

	t.Run("missing file field", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.leads.Upload(rr, newUploadRequest(t, ctx, "", "", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, domain.MsgNoFile, decodeError(t, rr).Message)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.leads.Upload(rr, newUploadRequest(t, ctx, "file", "leads.pdf", []byte("%PDF")))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, domain.MsgInvalidFileFormat, decodeError(t, rr).Message)
	})

	t.Run("no valid rows", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.leads.Upload(rr, newUploadRequest(t, ctx, "file", "leads.csv", []byte("Name,Mobile\n,\n")))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, domain.MsgNoValidLeads, decodeError(t, rr).Message)
	})

	t.Run("too large", func(t *testing.T) {
		big := make([]byte, testMaxUpload+1024)
		rr := httptest.NewRecorder()
		h.leads.Upload(rr, newUploadRequest(t, ctx, "file", "leads.csv", big))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
		assert.Contains(t, decodeError(t, rr).Message, domain.MsgFileTooLarge)
	})
}
