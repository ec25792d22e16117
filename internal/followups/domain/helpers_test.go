package domain

import (
	"time"

	crm "roofing_crm_backend/internal/crm/domain"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }

func taskIDs(tasks []FollowUpTask) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func alertIDs(alerts []PipelineAlert) []string {
	ids := make([]string, len(alerts))
	for i, a := range alerts {
		ids[i] = a.ID
	}
	return ids
}

// fixture is a small pipeline covering every follow-up and alert path.
func fixture() crm.Snapshot {
	return crm.Snapshot{
		Accounts: []crm.Account{
			{ID: "A1", Name: "Lakeside Property Group", Stage: crm.AccountStageActive},
			{ID: "A2", Name: "Midtown Medical", Stage: crm.AccountStageProspect},
		},
		Contacts: []crm.Contact{
			{ID: "C1", Name: "Dana Ortiz", AccountID: "A1", FollowUpDate: ptr(day("2024-05-20")), FollowUpType: crm.FollowUpTypeCall},
			{ID: "C2", Name: "Sam Patel", AccountID: "A2", FollowUpDate: ptr(day("2024-06-03")), FollowUpType: crm.FollowUpTypeEmail},
			{ID: "C3", Name: "Jo Kim", AccountID: "A9"},
			{ID: "C4", Name: "Riley Chen", AccountID: "A1", FollowUpDate: ptr(day("2024-06-01")), FollowUpType: crm.FollowUpTypeMeeting},
		},
		Leads: []crm.Lead{
			{
				ID: "L1", OpportunityName: "Warehouse Reroof", AccountID: "A1", ContactID: "C1",
				Status: crm.LeadStatusProposal, LastInteraction: day("2024-05-25"),
				NextFollowUpAt: ptr(day("2024-05-28")), FollowUpType: crm.FollowUpTypeCall,
			},
			{
				ID: "L2", OpportunityName: "Clinic Coating", AccountID: "A2",
				Status: crm.LeadStatusProposal, LastInteraction: day("2024-05-30"),
			},
			{
				ID: "L3", OpportunityName: "Office Repair", AccountID: "A1",
				Status: crm.LeadStatusQualified, LastInteraction: day("2024-05-01"),
			},
			{
				ID: "L4", OpportunityName: "Mall Replacement", AccountID: "A2",
				Status: crm.LeadStatusActive, LastInteraction: day("2024-05-29"),
				RiskScore: ptr(80), CompetitorsInvolved: ptr(true),
			},
			{
				ID: "L5", OpportunityName: "Hotel Maintenance", AccountID: "A1", ContactID: "C2",
				Status: crm.LeadStatusWon, LastInteraction: day("2024-01-01"),
				NextFollowUpAt: ptr(day("2024-05-01")), RiskScore: ptr(90),
			},
		},
	}
}
