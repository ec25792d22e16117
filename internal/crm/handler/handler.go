package handler

import (
	"net/http"

	"roofing_crm_backend/internal/crm/service"
	"roofing_crm_backend/internal/crm/transport"
	"roofing_crm_backend/platform/httpkit"
	"roofing_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for CRM entities.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new CRM handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers CRM routes on the /api/v1 group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/accounts", h.ListAccounts)
	rg.GET("/accounts/:id", h.GetAccount)

	rg.GET("/contacts", h.ListContacts)
	rg.GET("/contacts/:id", h.GetContact)
	rg.PUT("/contacts/:id/follow-up", h.ScheduleContactFollowUp)
	rg.DELETE("/contacts/:id/follow-up", h.ClearContactFollowUp)

	rg.GET("/properties", h.ListProperties)
	rg.GET("/properties/:id", h.GetProperty)

	rg.GET("/leads", h.ListLeads)
	rg.GET("/leads/:id", h.GetLead)
	rg.PUT("/leads/:id/follow-up", h.ScheduleLeadFollowUp)
	rg.DELETE("/leads/:id/follow-up", h.ClearLeadFollowUp)
}

func (h *Handler) ListAccounts(c *gin.Context) {
	result, err := h.svc.ListAccounts(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) GetAccount(c *gin.Context) {
	result, err := h.svc.GetAccount(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) ListContacts(c *gin.Context) {
	result, err := h.svc.ListContacts(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) GetContact(c *gin.Context) {
	result, err := h.svc.GetContact(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) ListProperties(c *gin.Context) {
	result, err := h.svc.ListProperties(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) GetProperty(c *gin.Context) {
	result, err := h.svc.GetProperty(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) ListLeads(c *gin.Context) {
	result, err := h.svc.ListLeads(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) GetLead(c *gin.Context) {
	result, err := h.svc.GetLead(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) bindSchedule(c *gin.Context) (transport.ScheduleFollowUpRequest, bool) {
	var req transport.ScheduleFollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return req, false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return req, false
	}
	return req, true
}

func (h *Handler) ScheduleLeadFollowUp(c *gin.Context) {
	req, ok := h.bindSchedule(c)
	if !ok {
		return
	}
	result, err := h.svc.ScheduleLeadFollowUp(c.Request.Context(), c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) ClearLeadFollowUp(c *gin.Context) {
	if httpkit.HandleError(c, h.svc.ClearLeadFollowUp(c.Request.Context(), c.Param("id"))) {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ScheduleContactFollowUp(c *gin.Context) {
	req, ok := h.bindSchedule(c)
	if !ok {
		return
	}
	result, err := h.svc.ScheduleContactFollowUp(c.Request.Context(), c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) ClearContactFollowUp(c *gin.Context) {
	if httpkit.HandleError(c, h.svc.ClearContactFollowUp(c.Request.Context(), c.Param("id"))) {
		return
	}
	c.Status(http.StatusNoContent)
}
