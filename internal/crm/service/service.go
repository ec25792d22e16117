// Package service implements the CRM read model and follow-up scheduling.
package service

import (
	"context"
	"time"

	"roofing_crm_backend/internal/crm/domain"
	"roofing_crm_backend/internal/crm/transport"
	"roofing_crm_backend/internal/events"
	"roofing_crm_backend/platform/apperr"

	"golang.org/x/sync/errgroup"
)

// Store is the persistence surface the service needs.
type Store interface {
	Snapshot(ctx context.Context) (domain.Snapshot, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	GetAccount(ctx context.Context, id string) (domain.Account, error)
	ListContacts(ctx context.Context) ([]domain.Contact, error)
	ListContactsByAccount(ctx context.Context, accountID string) ([]domain.Contact, error)
	GetContact(ctx context.Context, id string) (domain.Contact, error)
	ListProperties(ctx context.Context) ([]domain.Property, error)
	ListPropertiesByAccount(ctx context.Context, accountID string) ([]domain.Property, error)
	GetProperty(ctx context.Context, id string) (domain.Property, error)
	ListLeads(ctx context.Context) ([]domain.Lead, error)
	ListLeadsByAccount(ctx context.Context, accountID string) ([]domain.Lead, error)
	ListLeadsByContact(ctx context.Context, contactID string) ([]domain.Lead, error)
	GetLead(ctx context.Context, id string) (domain.Lead, error)
	SetLeadFollowUp(ctx context.Context, id string, dueAt *time.Time, followUpType string) error
	SetContactFollowUp(ctx context.Context, id string, dueAt *time.Time, followUpType string) error
}

// Service serves CRM entities.
type Service struct {
	store    Store
	eventBus events.Bus
}

// New creates a CRM service.
func New(store Store, eventBus events.Bus) *Service {
	return &Service{store: store, eventBus: eventBus}
}

// Snapshot returns a consistent read of every collection.
func (s *Service) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	return s.store.Snapshot(ctx)
}

func (s *Service) ListAccounts(ctx context.Context) (transport.ListResponse[domain.Account], error) {
	items, err := s.store.ListAccounts(ctx)
	if err != nil {
		return transport.ListResponse[domain.Account]{}, err
	}
	return transport.NewListResponse(items), nil
}

// GetAccount returns the account with its contacts, properties and open
// opportunities.
func (s *Service) GetAccount(ctx context.Context, id string) (transport.AccountDetailResponse, error) {
	account, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return transport.AccountDetailResponse{}, err
	}

	resp := transport.AccountDetailResponse{Account: account}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		resp.Contacts, err = s.store.ListContactsByAccount(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		resp.Properties, err = s.store.ListPropertiesByAccount(gctx, id)
		return err
	})
	g.Go(func() error {
		leads, err := s.store.ListLeadsByAccount(gctx, id)
		if err != nil {
			return err
		}
		resp.OpenOpportunities = openLeads(leads)
		return nil
	})
	if err := g.Wait(); err != nil {
		return transport.AccountDetailResponse{}, err
	}
	return resp, nil
}

func (s *Service) ListContacts(ctx context.Context) (transport.ListResponse[domain.Contact], error) {
	items, err := s.store.ListContacts(ctx)
	if err != nil {
		return transport.ListResponse[domain.Contact]{}, err
	}
	return transport.NewListResponse(items), nil
}

// GetContact returns the contact with the leads it fronts and its account's
// properties.
func (s *Service) GetContact(ctx context.Context, id string) (transport.ContactDetailResponse, error) {
	contact, err := s.store.GetContact(ctx, id)
	if err != nil {
		return transport.ContactDetailResponse{}, err
	}

	resp := transport.ContactDetailResponse{Contact: contact}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		resp.Account, err = s.optionalAccount(gctx, contact.AccountID)
		return err
	})
	g.Go(func() (err error) {
		resp.ConnectedLeads, err = s.store.ListLeadsByContact(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		resp.ConnectedProperties, err = s.store.ListPropertiesByAccount(gctx, contact.AccountID)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.ContactDetailResponse{}, err
	}
	return resp, nil
}

func (s *Service) ListProperties(ctx context.Context) (transport.ListResponse[domain.Property], error) {
	items, err := s.store.ListProperties(ctx)
	if err != nil {
		return transport.ListResponse[domain.Property]{}, err
	}
	return transport.NewListResponse(items), nil
}

func (s *Service) GetProperty(ctx context.Context, id string) (transport.PropertyDetailResponse, error) {
	property, err := s.store.GetProperty(ctx, id)
	if err != nil {
		return transport.PropertyDetailResponse{}, err
	}
	account, err := s.optionalAccount(ctx, property.AccountID)
	if err != nil {
		return transport.PropertyDetailResponse{}, err
	}
	accountLeads, err := s.store.ListLeadsByAccount(ctx, property.AccountID)
	if err != nil {
		return transport.PropertyDetailResponse{}, err
	}

	leads := []domain.Lead{}
	for _, l := range accountLeads {
		if l.PropertyID == id {
			leads = append(leads, l)
		}
	}
	return transport.PropertyDetailResponse{Property: property, Account: account, Leads: leads}, nil
}

func (s *Service) ListLeads(ctx context.Context) (transport.ListResponse[domain.Lead], error) {
	items, err := s.store.ListLeads(ctx)
	if err != nil {
		return transport.ListResponse[domain.Lead]{}, err
	}
	return transport.NewListResponse(items), nil
}

// GetLead returns the lead with its account, contact and property resolved.
func (s *Service) GetLead(ctx context.Context, id string) (transport.LeadDetailResponse, error) {
	lead, err := s.store.GetLead(ctx, id)
	if err != nil {
		return transport.LeadDetailResponse{}, err
	}

	resp := transport.LeadDetailResponse{Lead: lead}
	if resp.Account, err = s.optionalAccount(ctx, lead.AccountID); err != nil {
		return transport.LeadDetailResponse{}, err
	}
	if lead.ContactID != "" {
		contact, err := s.store.GetContact(ctx, lead.ContactID)
		switch {
		case err == nil:
			resp.Contact = &contact
		case !apperr.Is(err, apperr.KindNotFound):
			return transport.LeadDetailResponse{}, err
		}
	}
	if lead.PropertyID != "" {
		property, err := s.store.GetProperty(ctx, lead.PropertyID)
		switch {
		case err == nil:
			resp.Property = &property
		case !apperr.Is(err, apperr.KindNotFound):
			return transport.LeadDetailResponse{}, err
		}
	}
	return resp, nil
}

func (s *Service) optionalAccount(ctx context.Context, id string) (*domain.Account, error) {
	if id == "" {
		return nil, nil
	}
	account, err := s.store.GetAccount(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func openLeads(leads []domain.Lead) []domain.Lead {
	open := []domain.Lead{}
	for _, l := range leads {
		if l.IsOpen() {
			open = append(open, l)
		}
	}
	return open
}
