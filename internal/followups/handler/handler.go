package handler

import (
	"net/http"
	"time"

	"roofing_crm_backend/internal/followups/service"
	"roofing_crm_backend/internal/followups/transport"
	"roofing_crm_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const msgInvalidRequest = "invalid request"

// Handler serves the dashboard queries.
type Handler struct {
	svc *service.Service
}

// New creates a new dashboard handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers dashboard routes on the /dashboard group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/follow-ups", h.ListFollowUps)
	rg.GET("/follow-ups/categorized", h.CategorizedFollowUps)
	rg.GET("/alerts", h.ListAlerts)
	rg.GET("/today", h.Today)
}

func (h *Handler) reference(c *gin.Context) (*time.Time, bool) {
	var q transport.ReferenceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return nil, false
	}
	ref, err := transport.ParseReference(q.At, h.svc.Location())
	if httpkit.HandleError(c, err) {
		return nil, false
	}
	return ref, true
}

func (h *Handler) ListFollowUps(c *gin.Context) {
	tasks, err := h.svc.GetFollowUpTasks(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, tasks)
}

func (h *Handler) CategorizedFollowUps(c *gin.Context) {
	ref, ok := h.reference(c)
	if !ok {
		return
	}
	result, err := h.svc.GetCategorizedTasks(c.Request.Context(), ref)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) ListAlerts(c *gin.Context) {
	ref, ok := h.reference(c)
	if !ok {
		return
	}
	alerts, err := h.svc.GetPipelineAlerts(c.Request.Context(), ref)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, alerts)
}

func (h *Handler) Today(c *gin.Context) {
	ref, ok := h.reference(c)
	if !ok {
		return
	}
	summary, err := h.svc.GetToday(c.Request.Context(), ref)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, summary)
}
