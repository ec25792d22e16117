package domain

import (
	"fmt"
	"time"

	crm "roofing_crm_backend/internal/crm/domain"
)

const (
	AlertUntouched       = "Untouched Opportunity"
	AlertMissingFollowUp = "Missing Follow-up"
	AlertHighRisk        = "High Risk"
	AlertCompetitor      = "Competitor"
)

const (
	// UntouchedAfterDays is how many calendar days without interaction an
	// open lead may go before it is flagged.
	UntouchedAfterDays = 14
	// HighRiskThreshold is the risk score a lead must exceed to be flagged.
	HighRiskThreshold = 66
)

var alertIDTags = map[string]string{
	AlertUntouched:       "untouched",
	AlertMissingFollowUp: "missing-follow-up",
	AlertHighRisk:        "high-risk",
	AlertCompetitor:      "competitor",
}

// PipelineAlert is a risk signal on an open lead.
type PipelineAlert struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Message       string `json:"message"`
	RelatedLeadID string `json:"relatedLeadId"`
}

// AlertID returns the stable id for an alert of alertType on leadID.
func AlertID(alertType, leadID string) string {
	return alertIDTags[alertType] + ":" + leadID
}

func newAlert(alertType string, lead crm.Lead, message string) PipelineAlert {
	return PipelineAlert{
		ID:            AlertID(alertType, lead.ID),
		Type:          alertType,
		Message:       message,
		RelatedLeadID: lead.ID,
	}
}

// DetectAlerts scans open leads in collection order. A high risk score
// suppresses the competitor alert for the same lead.
func DetectAlerts(leads []crm.Lead, ref time.Time) []PipelineAlert {
	loc := ref.Location()
	staleBefore := StartOfDay(ref, loc).AddDate(0, 0, -UntouchedAfterDays)
	alerts := []PipelineAlert{}

	for _, lead := range leads {
		if !lead.IsOpen() {
			continue
		}

		if StartOfDay(lead.LastInteraction, loc).Before(staleBefore) {
			alerts = append(alerts, newAlert(AlertUntouched, lead,
				fmt.Sprintf("\"%s\" has not been updated in over %d days.", lead.OpportunityName, UntouchedAfterDays)))
		}

		if lead.Status == crm.LeadStatusProposal && lead.NextFollowUpAt == nil {
			alerts = append(alerts, newAlert(AlertMissingFollowUp, lead,
				fmt.Sprintf("Proposal sent for \"%s\" but no follow-up is scheduled.", lead.OpportunityName)))
		}

		switch {
		case lead.RiskScore != nil && *lead.RiskScore > HighRiskThreshold:
			alerts = append(alerts, newAlert(AlertHighRisk, lead,
				fmt.Sprintf("\"%s\" has a high risk score.", lead.OpportunityName)))
		case lead.CompetitorsInvolved != nil && *lead.CompetitorsInvolved:
			alerts = append(alerts, newAlert(AlertCompetitor, lead,
				fmt.Sprintf("A competitor is involved in \"%s\".", lead.OpportunityName)))
		}
	}
	return alerts
}
