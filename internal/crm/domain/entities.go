package domain

import "time"

// Account is a customer organisation that owns properties and contacts.
type Account struct {
	ID               string     `json:"id" yaml:"id"`
	Name             string     `json:"name" yaml:"name"`
	CompanyName      string     `json:"companyName,omitempty" yaml:"companyName"`
	OfficeAddress    string     `json:"officeAddress,omitempty" yaml:"officeAddress"`
	Phone            string     `json:"phone,omitempty" yaml:"phone"`
	Website          string     `json:"website,omitempty" yaml:"website"`
	Industry         string     `json:"industry" yaml:"industry"`
	Stage            string     `json:"stage" yaml:"stage"`
	AccountType      string     `json:"accountType,omitempty" yaml:"accountType"`
	TotalValue       float64    `json:"totalValue" yaml:"totalValue"`
	ContactIDs       []string   `json:"contactIds" yaml:"-"`
	PropertyIDs      []string   `json:"propertyIds" yaml:"-"`
	CreatedAt        *time.Time `json:"createdAt,omitempty" yaml:"createdAt"`
	LastActivityDate *time.Time `json:"lastActivityDate,omitempty" yaml:"lastActivityDate"`
}

// Contact is a person at an account.
type Contact struct {
	ID                     string     `json:"id" yaml:"id"`
	Name                   string     `json:"name" yaml:"name"`
	JobTitle               string     `json:"jobTitle" yaml:"jobTitle"`
	RoleType               string     `json:"roleType" yaml:"roleType"`
	Email                  string     `json:"email" yaml:"email"`
	Phone                  string     `json:"phone" yaml:"phone"`
	AccountID              string     `json:"accountId" yaml:"accountId"`
	RelationshipStatus     string     `json:"relationshipStatus,omitempty" yaml:"relationshipStatus"`
	PreferredContactMethod string     `json:"preferredContactMethod,omitempty" yaml:"preferredContactMethod"`
	CreatedAt              *time.Time `json:"createdAt,omitempty" yaml:"createdAt"`
	LastActivityDate       *time.Time `json:"lastActivityDate,omitempty" yaml:"lastActivityDate"`
	FollowUpDate           *time.Time `json:"followUpDate,omitempty" yaml:"followUpDate"`
	FollowUpType           string     `json:"followUpType,omitempty" yaml:"followUpType"`
}

// Address is a postal address.
type Address struct {
	Street string `json:"street" yaml:"street"`
	City   string `json:"city" yaml:"city"`
	State  string `json:"state" yaml:"state"`
	Zip    string `json:"zip" yaml:"zip"`
}

// Property is a building whose roof is serviced.
type Property struct {
	ID                 string  `json:"id" yaml:"id"`
	PropertyName       string  `json:"propertyName" yaml:"propertyName"`
	AccountID          string  `json:"accountId" yaml:"accountId"`
	Address            Address `json:"address" yaml:"address"`
	PropertyType       string  `json:"propertyType" yaml:"propertyType"`
	RoofType           string  `json:"roofType" yaml:"roofType"`
	ApproxSqft         int     `json:"approxSqft" yaml:"approxSqft"`
	Stories            int     `json:"stories" yaml:"stories"`
	YearBuilt          int     `json:"yearBuilt" yaml:"yearBuilt"`
	KnownLeaks         bool    `json:"knownLeaks" yaml:"knownLeaks"`
	MaintenanceProgram bool    `json:"maintenanceProgram" yaml:"maintenanceProgram"`
}

// Lead is a sales opportunity tied to an account, property and contact.
type Lead struct {
	ID                  string     `json:"id" yaml:"id"`
	OpportunityName     string     `json:"opportunityName" yaml:"opportunityName"`
	AccountID           string     `json:"accountId" yaml:"accountId"`
	PropertyID          string     `json:"propertyId" yaml:"propertyId"`
	ContactID           string     `json:"contactId" yaml:"contactId"`
	OpportunityType     string     `json:"opportunityType" yaml:"opportunityType"`
	Status              string     `json:"status" yaml:"status"`
	EstimatedValue      float64    `json:"estimatedValue" yaml:"estimatedValue"`
	Probability         *int       `json:"probability,omitempty" yaml:"probability"`
	ExpectedCloseDate   *time.Time `json:"expectedCloseDate,omitempty" yaml:"expectedCloseDate"`
	LastInteraction     time.Time  `json:"lastInteraction" yaml:"lastInteraction"`
	NextFollowUpAt      *time.Time `json:"nextFollowUpAt,omitempty" yaml:"nextFollowUpAt"`
	FollowUpType        string     `json:"followUpType,omitempty" yaml:"followUpType"`
	DelayReason         string     `json:"delayReason,omitempty" yaml:"delayReason"`
	RiskScore           *int       `json:"riskScore,omitempty" yaml:"riskScore"`
	CompetitorsInvolved *bool      `json:"competitorsInvolved,omitempty" yaml:"competitorsInvolved"`
}

// IsOpen reports whether the lead is still in play.
func (l Lead) IsOpen() bool {
	return !IsTerminalLeadStatus(l.Status)
}

// Snapshot is a read-only view of all four collections taken at one point in
// time. Slices keep collection order.
type Snapshot struct {
	Accounts   []Account  `json:"accounts"`
	Contacts   []Contact  `json:"contacts"`
	Properties []Property `json:"properties"`
	Leads      []Lead     `json:"leads"`
}

// AccountIndex maps account id to account.
func (s Snapshot) AccountIndex() map[string]Account {
	idx := make(map[string]Account, len(s.Accounts))
	for _, a := range s.Accounts {
		idx[a.ID] = a
	}
	return idx
}
