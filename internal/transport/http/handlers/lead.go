package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AnndyBrock/real-estate-app/internal/transport/http/middleware"
	"github.com/AnndyBrock/real-estate-app/internal/usecase"
)

// LeadHandler captures public inquiries and serves them back to agents.
type LeadHandler struct {
	leads *usecase.LeadService
}

// NewLeadHandler constructs the lead handler.
func NewLeadHandler(leads *usecase.LeadService) *LeadHandler {
	return &LeadHandler{leads: leads}
}

// Capture handles POST /posts/:id/leads. No authentication: the form is
// filled by anonymous visitors.
func (h *LeadHandler) Capture(c *gin.Context) {
	var req CaptureLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid inquiry payload"))
		return
	}
	if !validPhone(req.Phone) {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid phone number"))
		return
	}

	lead, err := h.leads.Capture(c.Request.Context(), usecase.CaptureLeadInput{
		PostID:  c.Param("id"),
		Email:   req.Email,
		Name:    req.Name,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPostNotFound, Status: http.StatusNotFound, Message: "post not found"},
		}, http.StatusInternalServerError, "failed to submit inquiry")
		return
	}

	c.JSON(http.StatusCreated, newLeadPayload(*lead))
}

// List handles GET /leads for the authenticated agent.
func (h *LeadHandler) List(c *gin.Context) {
	agentID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	leads, err := h.leads.ListForAgent(c.Request.Context(), agentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list leads"))
		return
	}

	payloads := make([]LeadPayload, 0, len(leads))
	for _, lead := range leads {
		payloads = append(payloads, newLeadPayload(lead))
	}

	c.JSON(http.StatusOK, LeadListResponse{Leads: payloads, Total: len(payloads)})
}

// Get handles GET /leads/:id.
func (h *LeadHandler) Get(c *gin.Context) {
	agentID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	lead, err := h.leads.Get(c.Request.Context(), c.Param("id"), agentID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrLeadNotFound, Status: http.StatusNotFound, Message: "lead not found"},
		}, http.StatusInternalServerError, "failed to load lead")
		return
	}

	c.JSON(http.StatusOK, newLeadPayload(*lead))
}
