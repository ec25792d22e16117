// Package seed loads CRM fixtures from YAML into the database.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"roofing_crm_backend/internal/crm/domain"
	"roofing_crm_backend/platform/phone"
	"roofing_crm_backend/platform/validator"

	"gopkg.in/yaml.v3"
)

// Fixture is the on-disk layout of a seed file.
type Fixture struct {
	Accounts   []domain.Account  `yaml:"accounts"`
	Contacts   []domain.Contact  `yaml:"contacts"`
	Properties []domain.Property `yaml:"properties"`
	Leads      []domain.Lead     `yaml:"leads"`
}

// Writer persists seeded entities.
type Writer interface {
	UpsertAccount(ctx context.Context, a domain.Account) error
	UpsertContact(ctx context.Context, c domain.Contact) error
	UpsertProperty(ctx context.Context, p domain.Property) error
	UpsertLead(ctx context.Context, l domain.Lead) error
}

// Parse decodes and validates a fixture. Unknown keys and unparseable
// timestamps are errors. Phone numbers are normalized to E.164.
func Parse(r io.Reader, val *validator.Validator) (domain.Snapshot, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fx Fixture
	if err := dec.Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
		return domain.Snapshot{}, fmt.Errorf("decode fixture: %w", err)
	}

	for i := range fx.Accounts {
		fx.Accounts[i].Phone = phone.NormalizeE164(fx.Accounts[i].Phone)
	}
	for i := range fx.Contacts {
		fx.Contacts[i].Phone = phone.NormalizeE164(fx.Contacts[i].Phone)
	}

	if err := validate(fx, val); err != nil {
		return domain.Snapshot{}, err
	}

	return domain.Snapshot{
		Accounts:   fx.Accounts,
		Contacts:   fx.Contacts,
		Properties: fx.Properties,
		Leads:      fx.Leads,
	}, nil
}

func validate(fx Fixture, val *validator.Validator) error {
	var errs []error
	fail := func(kind, id, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s %q: %s", kind, id, fmt.Sprintf(format, args...)))
	}

	seen := make(map[string]struct{})
	unique := func(kind, id string) {
		if id == "" {
			fail(kind, id, "id is required")
			return
		}
		key := kind + "/" + id
		if _, dup := seen[key]; dup {
			fail(kind, id, "duplicate id")
		}
		seen[key] = struct{}{}
	}

	for _, a := range fx.Accounts {
		unique("account", a.ID)
		if a.Name == "" {
			fail("account", a.ID, "name is required")
		}
		if !domain.IsKnownAccountStage(a.Stage) {
			fail("account", a.ID, "unknown stage %q", a.Stage)
		}
		if err := val.Var(a.Website, "omitempty,url"); err != nil {
			fail("account", a.ID, "invalid website")
		}
	}
	for _, c := range fx.Contacts {
		unique("contact", c.ID)
		if c.Name == "" {
			fail("contact", c.ID, "name is required")
		}
		if !domain.IsKnownRoleType(c.RoleType) {
			fail("contact", c.ID, "unknown role type %q", c.RoleType)
		}
		if err := val.Var(c.Email, "omitempty,email"); err != nil {
			fail("contact", c.ID, "invalid email")
		}
		if c.FollowUpType != "" && !domain.IsKnownFollowUpType(c.FollowUpType) {
			fail("contact", c.ID, "unknown follow-up type %q", c.FollowUpType)
		}
	}
	for _, p := range fx.Properties {
		unique("property", p.ID)
		if p.PropertyName == "" {
			fail("property", p.ID, "property name is required")
		}
	}
	for _, l := range fx.Leads {
		unique("lead", l.ID)
		if l.OpportunityName == "" {
			fail("lead", l.ID, "opportunity name is required")
		}
		if !domain.IsKnownLeadStatus(l.Status) {
			fail("lead", l.ID, "unknown status %q", l.Status)
		}
		if l.LastInteraction.IsZero() {
			fail("lead", l.ID, "last interaction is required")
		}
		if l.FollowUpType != "" && !domain.IsKnownFollowUpType(l.FollowUpType) {
			fail("lead", l.ID, "unknown follow-up type %q", l.FollowUpType)
		}
		if err := val.Var(l.RiskScore, "omitempty,min=0,max=100"); err != nil {
			fail("lead", l.ID, "risk score must be between 0 and 100")
		}
		if err := val.Var(l.Probability, "omitempty,min=0,max=100"); err != nil {
			fail("lead", l.ID, "probability must be between 0 and 100")
		}
	}

	return errors.Join(errs...)
}

// Apply upserts every entity in collection order, accounts first.
func Apply(ctx context.Context, w Writer, snap domain.Snapshot) error {
	for _, a := range snap.Accounts {
		if err := w.UpsertAccount(ctx, a); err != nil {
			return err
		}
	}
	for _, c := range snap.Contacts {
		if err := w.UpsertContact(ctx, c); err != nil {
			return err
		}
	}
	for _, p := range snap.Properties {
		if err := w.UpsertProperty(ctx, p); err != nil {
			return err
		}
	}
	for _, l := range snap.Leads {
		if err := w.UpsertLead(ctx, l); err != nil {
			return err
		}
	}
	return nil
}
