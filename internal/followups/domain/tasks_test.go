package domain

import (
	"testing"

	crm "roofing_crm_backend/internal/crm/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTasksLeadClaimsContact(t *testing.T) {
	tasks := BuildTasks(fixture())

	assert.Equal(t, []string{"lead:L1", "contact:C4", "contact:C2"}, taskIDs(tasks))

	lead := tasks[0]
	assert.Equal(t, TaskTypeLead, lead.Type)
	assert.Equal(t, day("2024-05-28"), lead.DueDate)
	assert.Equal(t, `Follow-up on "Warehouse Reroof"`, lead.Title)
	assert.Equal(t, "Call with Warehouse Reroof.", lead.Description)
	require.NotNil(t, lead.Lead)
	assert.Equal(t, "L1", lead.Lead.ID)
	assert.Nil(t, lead.Contact)
	require.NotNil(t, lead.Account)
	assert.Equal(t, "Lakeside Property Group", lead.Account.Name)
}

func TestBuildTasksTerminalLeadDoesNotClaim(t *testing.T) {
	tasks := BuildTasks(fixture())

	// L5 is Won, so its contact C2 keeps its own follow-up.
	assert.Contains(t, taskIDs(tasks), "contact:C2")
	assert.NotContains(t, taskIDs(tasks), "lead:L5")
}

func TestBuildTasksLeadWithoutFollowUpDoesNotClaim(t *testing.T) {
	snap := crm.Snapshot{
		Contacts: []crm.Contact{{ID: "C1", Name: "Dana", FollowUpDate: ptr(day("2024-06-02"))}},
		Leads:    []crm.Lead{{ID: "L1", ContactID: "C1", Status: crm.LeadStatusNew}},
	}

	assert.Equal(t, []string{"contact:C1"}, taskIDs(BuildTasks(snap)))
}

func TestBuildTasksContactDescription(t *testing.T) {
	snap := crm.Snapshot{
		Contacts: []crm.Contact{{ID: "C1", Name: "Dana Ortiz", AccountID: "missing", FollowUpDate: ptr(day("2024-06-02"))}},
	}

	tasks := BuildTasks(snap)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Follow-up with Dana Ortiz", tasks[0].Title)
	assert.Equal(t, "Follow-up with Dana Ortiz.", tasks[0].Description)
	assert.Nil(t, tasks[0].Account, "dangling account reference is not an error")
	require.NotNil(t, tasks[0].Contact)
}

func TestBuildTasksDanglingContactReferenceIsUnclaimed(t *testing.T) {
	snap := crm.Snapshot{
		Leads: []crm.Lead{{ID: "L1", ContactID: "ghost", Status: crm.LeadStatusNew, NextFollowUpAt: ptr(day("2024-06-02"))}},
	}

	assert.Equal(t, []string{"lead:L1"}, taskIDs(BuildTasks(snap)))
}

func TestBuildTasksTieOrderLeadsFirst(t *testing.T) {
	due := ptr(day("2024-06-02"))
	snap := crm.Snapshot{
		Contacts: []crm.Contact{
			{ID: "C1", FollowUpDate: due},
			{ID: "C2", FollowUpDate: due},
		},
		Leads: []crm.Lead{
			{ID: "L2", Status: crm.LeadStatusNew, NextFollowUpAt: due},
			{ID: "L1", Status: crm.LeadStatusNew, NextFollowUpAt: due},
		},
	}

	assert.Equal(t, []string{"lead:L2", "lead:L1", "contact:C1", "contact:C2"}, taskIDs(BuildTasks(snap)))
}

func TestBuildTasksProperties(t *testing.T) {
	snap := fixture()
	first := BuildTasks(snap)
	second := BuildTasks(snap)

	assert.Equal(t, taskIDs(first), taskIDs(second), "ids and order are stable across calls")

	for i := 1; i < len(first); i++ {
		assert.False(t, first[i].DueDate.Before(first[i-1].DueDate), "non-decreasing due dates")
	}

	claimed := map[string]bool{}
	for _, l := range snap.Leads {
		if l.IsOpen() && l.NextFollowUpAt != nil && l.ContactID != "" {
			claimed[l.ContactID] = true
		}
	}
	seen := map[string]int{}
	for _, task := range first {
		seen[task.ID]++
		if task.Type == TaskTypeContact {
			assert.False(t, claimed[task.Contact.ID], "claimed contact %s surfaced", task.Contact.ID)
		}
		if task.Type == TaskTypeLead {
			assert.True(t, task.Lead.IsOpen())
		}
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
}

func TestBuildTasksEmptySnapshot(t *testing.T) {
	tasks := BuildTasks(crm.Snapshot{})
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}
