// Package domain holds the CRM entities and their controlled vocabularies.
package domain

const (
	AccountStageProspect = "Prospect"
	AccountStageActive   = "Active"
	AccountStageChurned  = "Churned"
)

const (
	AccountTypeOwner             = "Owner"
	AccountTypePropertyManager   = "Property Manager"
	AccountTypeGeneralContractor = "General Contractor"
	AccountTypeDeveloper         = "Developer"
)

const (
	RoleTypeDecisionMaker = "Decision Maker"
	RoleTypeInfluencer    = "Influencer"
	RoleTypeGatekeeper    = "Gatekeeper"
	RoleTypeUnknown       = "Unknown"
)

const (
	RelationshipCold    = "Cold"
	RelationshipWarming = "Warming"
	RelationshipActive  = "Active"
	RelationshipStalled = "Stalled"
)

const (
	FollowUpTypeEmail   = "Email"
	FollowUpTypeCall    = "Call"
	FollowUpTypeMeeting = "Meeting"
)

const (
	OpportunityTypeRepair      = "Repair"
	OpportunityTypeMaintenance = "Maintenance"
	OpportunityTypeReplacement = "Replacement"
	OpportunityTypeCoating     = "Coating"
	OpportunityTypeNewBuild    = "New Build"
)

const (
	LeadStatusNew       = "New"
	LeadStatusContacted = "Contacted"
	LeadStatusQualified = "Qualified"
	LeadStatusProposal  = "Proposal"
	LeadStatusActive    = "Active"
	LeadStatusDelayed   = "Delayed"
	LeadStatusWon       = "Won"
	LeadStatusLost      = "Lost"
)

var knownAccountStages = map[string]struct{}{
	AccountStageProspect: {},
	AccountStageActive:   {},
	AccountStageChurned:  {},
}

var knownRoleTypes = map[string]struct{}{
	RoleTypeDecisionMaker: {},
	RoleTypeInfluencer:    {},
	RoleTypeGatekeeper:    {},
	RoleTypeUnknown:       {},
}

var knownFollowUpTypes = map[string]struct{}{
	FollowUpTypeEmail:   {},
	FollowUpTypeCall:    {},
	FollowUpTypeMeeting: {},
}

var knownLeadStatuses = map[string]struct{}{
	LeadStatusNew:       {},
	LeadStatusContacted: {},
	LeadStatusQualified: {},
	LeadStatusProposal:  {},
	LeadStatusActive:    {},
	LeadStatusDelayed:   {},
	LeadStatusWon:       {},
	LeadStatusLost:      {},
}

// IsKnownAccountStage reports whether stage is a valid account stage.
func IsKnownAccountStage(stage string) bool {
	_, ok := knownAccountStages[stage]
	return ok
}

// IsKnownRoleType reports whether role is a valid contact role.
func IsKnownRoleType(role string) bool {
	_, ok := knownRoleTypes[role]
	return ok
}

// IsKnownFollowUpType reports whether t is Email, Call or Meeting.
func IsKnownFollowUpType(t string) bool {
	_, ok := knownFollowUpTypes[t]
	return ok
}

// IsKnownLeadStatus reports whether status is a valid lead status.
func IsKnownLeadStatus(status string) bool {
	_, ok := knownLeadStatuses[status]
	return ok
}

// IsTerminalLeadStatus reports whether status closes the opportunity.
// Terminal leads never produce follow-up tasks or pipeline alerts.
func IsTerminalLeadStatus(status string) bool {
	return status == LeadStatusWon || status == LeadStatusLost
}
