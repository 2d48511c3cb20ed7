package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type LeadHandler struct {
	Capture     *usecase.CaptureLeadUseCase
	Create      *usecase.CreateLeadUseCase
	Get         *usecase.GetLeadUseCase
	List        *usecase.ListLeadsUseCase
	Delete      *usecase.DeleteLeadUseCase
	Lifecycle   *usecase.LeadLifecycleUseCase
	Convert     *usecase.ConvertLeadUseCase
	rateLimiter *RateLimiter
}

func NewLeadHandler(
	capture *usecase.CaptureLeadUseCase,
	create *usecase.CreateLeadUseCase,
	get *usecase.GetLeadUseCase,
	list *usecase.ListLeadsUseCase,
	del *usecase.DeleteLeadUseCase,
	lifecycle *usecase.LeadLifecycleUseCase,
	convert *usecase.ConvertLeadUseCase,
	limiter *RateLimiter,
) *LeadHandler {
	if limiter == nil {
		limiter = NewRateLimiter(10, time.Minute)
	}
	return &LeadHandler{
		Capture:     capture,
		Create:      create,
		Get:         get,
		List:        list,
		Delete:      del,
		Lifecycle:   lifecycle,
		Convert:     convert,
		rateLimiter: limiter,
	}
}

// HandleCapture is the public form endpoint.
func (h *LeadHandler) HandleCapture(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(clientIP(r)) {
		writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, please try again later")
		return
	}

	var input usecase.CaptureLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.Capture.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	status := http.StatusCreated
	if out.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, out)
}

func (h *LeadHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	lead, err := h.Create.Execute(r.Context(), input, actorID(r))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	out, err := h.List.Execute(r.Context(), leadFilterFromQuery(r))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LeadHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Get.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Delete.Execute(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type AddNoteRequest struct {
	Text string `json:"text"`
}

func (h *LeadHandler) HandleAddNote(w http.ResponseWriter, r *http.Request) {
	var req AddNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	lead, err := h.Lifecycle.AddNote(r.Context(), chi.URLParam(r, "id"), req.Text, actorID(r))
	h.respondLead(w, r, lead, err)
}

type LogEngagementRequest struct {
	Type    string `json:"type"`
	Summary string `json:"summary"`
}

func (h *LeadHandler) HandleLogEngagement(w http.ResponseWriter, r *http.Request) {
	var req LogEngagementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	lead, err := h.Lifecycle.LogEngagement(r.Context(), chi.URLParam(r, "id"), req.Type, req.Summary, actorID(r))
	h.respondLead(w, r, lead, err)
}

type DemoStatusRequest struct {
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

func (h *LeadHandler) HandleSetDemoStatus(w http.ResponseWriter, r *http.Request) {
	var req DemoStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	lead, err := h.Lifecycle.SetDemoStatus(r.Context(), chi.URLParam(r, "id"), req.Status, req.ScheduledAt, actorID(r))
	h.respondLead(w, r, lead, err)
}

type DemoApprovalRequest struct {
	Approved *bool `json:"approved"`
}

func (h *LeadHandler) HandleSetDemoApproval(w http.ResponseWriter, r *http.Request) {
	var req DemoApprovalRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Approved == nil {
		writeError(w, http.StatusBadRequest, usecase.CodeInvalidArgument, "approved is required")
		return
	}

	out, err := h.Lifecycle.SetDemoApproval(r.Context(), chi.URLParam(r, "id"), *req.Approved, actorID(r))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type QuoteStatusRequest struct {
	Status string `json:"status"`
}

func (h *LeadHandler) HandleSetQuoteStatus(w http.ResponseWriter, r *http.Request) {
	var req QuoteStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	lead, err := h.Lifecycle.SetQuoteStatus(r.Context(), chi.URLParam(r, "id"), req.Status, actorID(r))
	h.respondLead(w, r, lead, err)
}

type StatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func (h *LeadHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	lead, err := h.Lifecycle.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status, req.Reason, actorID(r))
	h.respondLead(w, r, lead, err)
}

type ComplianceTagsRequest struct {
	Tags []string `json:"tags"`
}

func (h *LeadHandler) HandleSetComplianceTags(w http.ResponseWriter, r *http.Request) {
	var req ComplianceTagsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	lead, err := h.Lifecycle.SetComplianceTags(r.Context(), chi.URLParam(r, "id"), req.Tags)
	h.respondLead(w, r, lead, err)
}

type LinkTrialRequest struct {
	TrialID string `json:"trial_id"`
}

func (h *LeadHandler) HandleLinkTrial(w http.ResponseWriter, r *http.Request) {
	var req LinkTrialRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	lead, err := h.Lifecycle.LinkTrial(r.Context(), chi.URLParam(r, "id"), req.TrialID)
	h.respondLead(w, r, lead, err)
}

func (h *LeadHandler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	var org usecase.OrganizationInput
	if !decodeJSON(w, r, &org) {
		return
	}

	out, err := h.Convert.Execute(r.Context(), usecase.ConvertLeadInput{
		LeadID:       chi.URLParam(r, "id"),
		Organization: org,
		ActorID:      actorID(r),
	})
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *LeadHandler) respondLead(w http.ResponseWriter, r *http.Request, lead *entity.Lead, err error) {
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func leadFilterFromQuery(r *http.Request) entity.LeadFilter {
	q := r.URL.Query()
	return entity.LeadFilter{
		Status:  entity.LeadStatus(q.Get("status")),
		Segment: entity.Segment(q.Get("segment")),
		Source:  entity.LeadSource(q.Get("source")),
		Search:  q.Get("search"),
		Page:    queryInt(r, "page", 1),
		Limit:   queryInt(r, "limit", 20),
	}
}
