package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllTopics(t *testing.T) {
	topics := AllTopics()
	assert.Len(t, topics, 26)
	assert.Contains(t, topics, TopicOther)
	assert.Contains(t, topics, TopicHVAC)
	assert.Contains(t, topics, TopicRoof)
	assert.Contains(t, topics, TopicCAM)

	seen := make(map[Topic]bool)
	for _, topic := range topics {
		assert.False(t, seen[topic], "duplicate topic %s", topic)
		seen[topic] = true
		assert.True(t, topic.IsValid())
	}

	// Returned slice is a copy.
	topics[0] = "MUTATED"
	assert.Equal(t, TopicRent, AllTopics()[0])
}

func TestParseTopic(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Topic
	}{
		{"exact", "HVAC", TopicHVAC},
		{"lower case", "hvac", TopicHVAC},
		{"padded", "  roof \n", TopicRoof},
		{"spaces to underscores", "repairs maintenance", TopicRepairsMaintenance},
		{"hyphen separated", "security-deposit", TopicSecurityDeposit},
		{"slash separated", "assignment/subletting", TopicAssignmentSubletting},
		{"alias", "Common Area Maintenance", TopicCAM},
		{"alias lessee style", "indemnity", TopicIndemnification},
		{"unknown", "WATERBEDS", TopicOther},
		{"empty", "", TopicOther},
		{"punctuation only", "!!", TopicOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTopic(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestParseTopicStrict(t *testing.T) {
	topic, ok := ParseTopicStrict("cam")
	assert.True(t, ok)
	assert.Equal(t, TopicCAM, topic)

	_, ok = ParseTopicStrict("common area maintenance")
	assert.False(t, ok)
}

func TestParseResponsibleParty(t *testing.T) {
	tests := []struct {
		input    string
		expected ResponsibleParty
	}{
		{"LANDLORD", PartyLandlord},
		{"tenant", PartyTenant},
		{" Shared ", PartyShared},
		{"unknown", PartyUnknown},
		{"Lessor", PartyLandlord},
		{"lessee", PartyTenant},
		{"both", PartyShared},
		{"the city", PartyUnknown},
		{"", PartyUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseResponsibleParty(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestParseResponsiblePartyStrict(t *testing.T) {
	party, ok := ParseResponsiblePartyStrict("landlord")
	assert.True(t, ok)
	assert.Equal(t, PartyLandlord, party)

	_, ok = ParseResponsiblePartyStrict("lessor")
	assert.False(t, ok)

	_, ok = ParseResponsiblePartyStrict("")
	assert.False(t, ok)
}

func TestResponsibleParty_IsValid(t *testing.T) {
	for _, p := range AllParties() {
		assert.True(t, p.IsValid())
	}
	assert.False(t, ResponsibleParty("OWNER").IsValid())
}
