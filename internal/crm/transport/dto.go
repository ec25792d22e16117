package transport

import (
	"time"

	"roofing_crm_backend/internal/crm/domain"
)

// ScheduleFollowUpRequest sets the next touch on a lead or contact.
type ScheduleFollowUpRequest struct {
	DueAt        time.Time `json:"dueAt" validate:"required"`
	FollowUpType string    `json:"followUpType" validate:"required,oneof=Email Call Meeting"`
}

// AccountDetailResponse is an account with its related records.
type AccountDetailResponse struct {
	domain.Account
	Contacts          []domain.Contact  `json:"contacts"`
	Properties        []domain.Property `json:"properties"`
	OpenOpportunities []domain.Lead     `json:"openOpportunities"`
}

// ContactDetailResponse is a contact with the leads it fronts and the
// properties of its account.
type ContactDetailResponse struct {
	domain.Contact
	Account             *domain.Account   `json:"account,omitempty"`
	ConnectedLeads      []domain.Lead     `json:"connectedLeads"`
	ConnectedProperties []domain.Property `json:"connectedProperties"`
}

// PropertyDetailResponse is a property with its owner and opportunities.
type PropertyDetailResponse struct {
	domain.Property
	Account *domain.Account `json:"account,omitempty"`
	Leads   []domain.Lead   `json:"leads"`
}

// LeadDetailResponse is a lead with its resolved references. Dangling
// references are omitted.
type LeadDetailResponse struct {
	domain.Lead
	Account  *domain.Account  `json:"account,omitempty"`
	Contact  *domain.Contact  `json:"contact,omitempty"`
	Property *domain.Property `json:"property,omitempty"`
}

// ListResponse wraps a collection.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// NewListResponse builds a ListResponse, never with a nil slice.
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Total: len(items)}
}
