// Package domain derives follow-up tasks and pipeline alerts from a CRM
// snapshot. Everything here is a pure function of its inputs.
package domain

import (
	"fmt"
	"slices"
	"time"

	crm "roofing_crm_backend/internal/crm/domain"
)

const (
	TaskTypeLead    = "Lead"
	TaskTypeContact = "Contact"
)

// FollowUpTask is an outstanding touch on either a lead or a contact.
// Exactly one of Lead and Contact is set.
type FollowUpTask struct {
	ID           string       `json:"id"`
	DueDate      time.Time    `json:"dueDate"`
	Type         string       `json:"type"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	FollowUpType string       `json:"followUpType,omitempty"`
	Lead         *crm.Lead    `json:"lead,omitempty"`
	Contact      *crm.Contact `json:"contact,omitempty"`
	Account      *crm.Account `json:"account,omitempty"`
}

// LeadTaskID returns the task id for a lead follow-up.
func LeadTaskID(leadID string) string { return "lead:" + leadID }

// ContactTaskID returns the task id for a contact follow-up.
func ContactTaskID(contactID string) string { return "contact:" + contactID }

// BuildTasks merges lead and contact follow-ups into one list ordered by due
// date. An open lead with a next follow-up claims its contact, and a claimed
// contact never gets a task of its own. Equal due dates keep lead tasks
// before contact tasks, each in collection order.
func BuildTasks(snap crm.Snapshot) []FollowUpTask {
	accounts := snap.AccountIndex()
	claimed := make(map[string]struct{})
	tasks := make([]FollowUpTask, 0, len(snap.Leads)+len(snap.Contacts))

	for i := range snap.Leads {
		lead := snap.Leads[i]
		if lead.NextFollowUpAt == nil || !lead.IsOpen() {
			continue
		}
		if lead.ContactID != "" {
			claimed[lead.ContactID] = struct{}{}
		}
		tasks = append(tasks, FollowUpTask{
			ID:           LeadTaskID(lead.ID),
			DueDate:      *lead.NextFollowUpAt,
			Type:         TaskTypeLead,
			Title:        fmt.Sprintf("Follow-up on \"%s\"", lead.OpportunityName),
			Description:  fmt.Sprintf("%s with %s.", touchLabel(lead.FollowUpType), lead.OpportunityName),
			FollowUpType: lead.FollowUpType,
			Lead:         &lead,
			Account:      lookupAccount(accounts, lead.AccountID),
		})
	}

	for i := range snap.Contacts {
		contact := snap.Contacts[i]
		if contact.FollowUpDate == nil {
			continue
		}
		if _, ok := claimed[contact.ID]; ok {
			continue
		}
		tasks = append(tasks, FollowUpTask{
			ID:           ContactTaskID(contact.ID),
			DueDate:      *contact.FollowUpDate,
			Type:         TaskTypeContact,
			Title:        "Follow-up with " + contact.Name,
			Description:  fmt.Sprintf("%s with %s.", touchLabel(contact.FollowUpType), contact.Name),
			FollowUpType: contact.FollowUpType,
			Contact:      &contact,
			Account:      lookupAccount(accounts, contact.AccountID),
		})
	}

	slices.SortStableFunc(tasks, func(a, b FollowUpTask) int {
		return a.DueDate.Compare(b.DueDate)
	})
	return tasks
}

func lookupAccount(accounts map[string]crm.Account, id string) *crm.Account {
	a, ok := accounts[id]
	if !ok {
		return nil
	}
	return &a
}

func touchLabel(followUpType string) string {
	if followUpType == "" {
		return "Follow-up"
	}
	return followUpType
}
