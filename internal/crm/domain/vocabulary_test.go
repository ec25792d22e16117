package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTerminalLeadStatus(t *testing.T) {
	for _, s := range []string{LeadStatusWon, LeadStatusLost} {
		assert.True(t, IsTerminalLeadStatus(s), s)
		assert.False(t, Lead{Status: s}.IsOpen(), s)
	}
	for _, s := range []string{LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusProposal, LeadStatusActive, LeadStatusDelayed} {
		assert.False(t, IsTerminalLeadStatus(s), s)
		assert.True(t, IsKnownLeadStatus(s), s)
	}
	assert.False(t, IsKnownLeadStatus("Closed"))
}

func TestVocabularies(t *testing.T) {
	assert.True(t, IsKnownFollowUpType(FollowUpTypeMeeting))
	assert.False(t, IsKnownFollowUpType("Text"))
	assert.True(t, IsKnownRoleType(RoleTypeGatekeeper))
	assert.True(t, IsKnownAccountStage(AccountStageChurned))
	assert.False(t, IsKnownAccountStage("Lead"))
}

func TestAccountIndex(t *testing.T) {
	snap := Snapshot{Accounts: []Account{{ID: "A1", Name: "Acme"}, {ID: "A2", Name: "Birch"}}}
	idx := snap.AccountIndex()
	assert.Equal(t, "Birch", idx["A2"].Name)
	_, ok := idx["A3"]
	assert.False(t, ok)
}
