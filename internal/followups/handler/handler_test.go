package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	crm "roofing_crm_backend/internal/crm/domain"
	"roofing_crm_backend/internal/followups/domain"
	"roofing_crm_backend/internal/followups/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedReader struct{ snap crm.Snapshot }

func (r fixedReader) Snapshot(context.Context) (crm.Snapshot, error) { return r.snap, nil }

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	due := time.Date(2024, 5, 28, 0, 0, 0, 0, time.UTC)
	contactDue := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	risk := 80
	competitors := true
	snap := crm.Snapshot{
		Contacts: []crm.Contact{{ID: "C1", Name: "Dana", FollowUpDate: &contactDue}},
		Leads: []crm.Lead{
			{ID: "L1", OpportunityName: "Warehouse", ContactID: "C1", Status: crm.LeadStatusProposal, LastInteraction: due, NextFollowUpAt: &due},
			{ID: "L4", OpportunityName: "Mall", Status: crm.LeadStatusActive, LastInteraction: due, RiskScore: &risk, CompetitorsInvolved: &competitors},
			{ID: "L5", OpportunityName: "Hotel", Status: crm.LeadStatusWon, LastInteraction: due, NextFollowUpAt: &due, RiskScore: &risk},
		},
	}
	svc := service.New(fixedReader{snap: snap}, nil, time.UTC)
	engine := gin.New()
	New(svc).RegisterRoutes(engine.Group("/api/v1/dashboard"))
	return engine
}

func get(t *testing.T, engine *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestFollowUpsEndpointDeduplicates(t *testing.T) {
	w := get(t, newEngine(), "/api/v1/dashboard/follow-ups")
	require.Equal(t, http.StatusOK, w.Code)

	var tasks []domain.FollowUpTask
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "lead:L1", tasks[0].ID)
}

func TestCategorizedEndpointAcceptsDate(t *testing.T) {
	w := get(t, newEngine(), "/api/v1/dashboard/follow-ups/categorized?at=2024-06-01")
	require.Equal(t, http.StatusOK, w.Code)

	var c domain.Categorized
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))
	require.Len(t, c.Overdue, 1)
	require.NotNil(t, c.HighestPriority)
	assert.Equal(t, "lead:L1", c.HighestPriority.ID)
}

func TestAlertsEndpoint(t *testing.T) {
	w := get(t, newEngine(), "/api/v1/dashboard/alerts?at=2024-06-01T09:00:00Z")
	require.Equal(t, http.StatusOK, w.Code)

	var alerts []domain.PipelineAlert
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, "high-risk:L4", alerts[0].ID)
	assert.Equal(t, domain.AlertHighRisk, alerts[0].Type)
}

func TestRejectsMalformedReference(t *testing.T) {
	engine := newEngine()
	for _, path := range []string{
		"/api/v1/dashboard/alerts?at=yesterday",
		"/api/v1/dashboard/today?at=2024-13-01",
		"/api/v1/dashboard/follow-ups/categorized?at=06/01/2024",
	} {
		w := get(t, engine, path)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestTodayEndpoint(t *testing.T) {
	w := get(t, newEngine(), "/api/v1/dashboard/today?at=2024-05-28")
	require.Equal(t, http.StatusOK, w.Code)

	var summary domain.TodaySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.DueTodayCount)
	assert.Len(t, summary.Preview, 1)
	assert.Len(t, summary.Alerts, 1)
}
