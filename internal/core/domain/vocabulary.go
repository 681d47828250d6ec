package domain

import (
	"strings"
	"unicode"
)

// Topic is the subject matter of a clause, drawn from a closed vocabulary.
// Changing the vocabulary requires re-classifying every stored clause.
type Topic string

// Available topics.
const (
	TopicRent                 Topic = "RENT"
	TopicSecurityDeposit      Topic = "SECURITY_DEPOSIT"
	TopicCAM                  Topic = "CAM"
	TopicTaxes                Topic = "TAXES"
	TopicInsurance            Topic = "INSURANCE"
	TopicUtilities            Topic = "UTILITIES"
	TopicHVAC                 Topic = "HVAC"
	TopicRoof                 Topic = "ROOF"
	TopicStructural           Topic = "STRUCTURAL"
	TopicPlumbing             Topic = "PLUMBING"
	TopicElectrical           Topic = "ELECTRICAL"
	TopicRepairsMaintenance   Topic = "REPAIRS_MAINTENANCE"
	TopicJanitorial           Topic = "JANITORIAL"
	TopicLandscaping          Topic = "LANDSCAPING"
	TopicParking              Topic = "PARKING"
	TopicSignage              Topic = "SIGNAGE"
	TopicUse                  Topic = "USE"
	TopicAlterations          Topic = "ALTERATIONS"
	TopicAssignmentSubletting Topic = "ASSIGNMENT_SUBLETTING"
	TopicTermRenewal          Topic = "TERM_RENEWAL"
	TopicTermination          Topic = "TERMINATION"
	TopicDefaultRemedies      Topic = "DEFAULT_REMEDIES"
	TopicIndemnification      Topic = "INDEMNIFICATION"
	TopicCompliance           Topic = "COMPLIANCE"
	TopicCasualty             Topic = "CASUALTY"
	TopicOther                Topic = "OTHER"
)

var allTopics = []Topic{
	TopicRent, TopicSecurityDeposit, TopicCAM, TopicTaxes, TopicInsurance,
	TopicUtilities, TopicHVAC, TopicRoof, TopicStructural, TopicPlumbing,
	TopicElectrical, TopicRepairsMaintenance, TopicJanitorial, TopicLandscaping,
	TopicParking, TopicSignage, TopicUse, TopicAlterations, TopicAssignmentSubletting,
	TopicTermRenewal, TopicTermination, TopicDefaultRemedies, TopicIndemnification,
	TopicCompliance, TopicCasualty, TopicOther,
}

// AllTopics returns the topic vocabulary in canonical order.
func AllTopics() []Topic {
	out := make([]Topic, len(allTopics))
	copy(out, allTopics)
	return out
}

// IsValid returns true if the topic is a member of the vocabulary.
func (t Topic) IsValid() bool {
	for _, v := range allTopics {
		if v == t {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (t Topic) String() string {
	return string(t)
}

// ResponsibleParty is who bears an obligation described by a clause.
type ResponsibleParty string

// Available parties.
const (
	PartyLandlord ResponsibleParty = "LANDLORD"
	PartyTenant   ResponsibleParty = "TENANT"
	PartyShared   ResponsibleParty = "SHARED"
	PartyUnknown  ResponsibleParty = "UNKNOWN"
)

// AllParties returns the party vocabulary in canonical order.
func AllParties() []ResponsibleParty {
	return []ResponsibleParty{PartyLandlord, PartyTenant, PartyShared, PartyUnknown}
}

// IsValid returns true if the party is a member of the vocabulary.
func (p ResponsibleParty) IsValid() bool {
	switch p {
	case PartyLandlord, PartyTenant, PartyShared, PartyUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p ResponsibleParty) String() string {
	return string(p)
}

var topicAliases = map[string]Topic{
	"COMMON_AREA_MAINTENANCE":   TopicCAM,
	"COMMON_AREA":               TopicCAM,
	"OPERATING_EXPENSES":        TopicCAM,
	"REAL_ESTATE_TAXES":         TopicTaxes,
	"PROPERTY_TAX":              TopicTaxes,
	"PROPERTY_TAXES":            TopicTaxes,
	"REPAIRS":                   TopicRepairsMaintenance,
	"MAINTENANCE":               TopicRepairsMaintenance,
	"REPAIR_AND_MAINTENANCE":    TopicRepairsMaintenance,
	"REPAIRS_AND_MAINTENANCE":   TopicRepairsMaintenance,
	"ASSIGNMENT":                TopicAssignmentSubletting,
	"SUBLETTING":                TopicAssignmentSubletting,
	"ASSIGNMENT_AND_SUBLETTING": TopicAssignmentSubletting,
	"RENEWAL":                   TopicTermRenewal,
	"TERM":                      TopicTermRenewal,
	"DEFAULT":                   TopicDefaultRemedies,
	"REMEDIES":                  TopicDefaultRemedies,
	"INDEMNITY":                 TopicIndemnification,
	"DEPOSIT":                   TopicSecurityDeposit,
	"UTILITY":                   TopicUtilities,
	"SIGNS":                     TopicSignage,
	"PERMITTED_USE":             TopicUse,
	"DAMAGE_AND_DESTRUCTION":    TopicCasualty,
	"CONDEMNATION":              TopicCasualty,
	"LEGAL_COMPLIANCE":          TopicCompliance,
	"ENVIRONMENTAL":             TopicCompliance,
}

var partyAliases = map[string]ResponsibleParty{
	"LESSOR": PartyLandlord,
	"OWNER":  PartyLandlord,
	"LESSEE": PartyTenant,
	"BOTH":   PartyShared,
	"MUTUAL": PartyShared,
}

// normalizeLabel upper-cases s and collapses whitespace and separator
// runs into single underscores.
func normalizeLabel(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsSpace(r) || strings.ContainsRune("_-/&.", r):
			pendingSep = true
		}
	}
	return b.String()
}

// ParseTopic normalises an untrusted topic label. Anything outside the
// vocabulary collapses to TopicOther.
func ParseTopic(s string) Topic {
	norm := normalizeLabel(s)
	if t := Topic(norm); t.IsValid() {
		return t
	}
	if t, ok := topicAliases[norm]; ok {
		return t
	}
	return TopicOther
}

// ParseTopicStrict returns the topic and true only for exact vocabulary
// members after normalisation, without aliasing.
func ParseTopicStrict(s string) (Topic, bool) {
	t := Topic(normalizeLabel(s))
	return t, t.IsValid()
}

// ParseResponsibleParty normalises an untrusted party label. Anything
// outside the vocabulary collapses to PartyUnknown.
func ParseResponsibleParty(s string) ResponsibleParty {
	norm := normalizeLabel(s)
	if p := ResponsibleParty(norm); p.IsValid() {
		return p
	}
	if p, ok := partyAliases[norm]; ok {
		return p
	}
	return PartyUnknown
}

// ParseResponsiblePartyStrict accepts only the four literal party values.
func ParseResponsiblePartyStrict(s string) (ResponsibleParty, bool) {
	p := ResponsibleParty(normalizeLabel(s))
	return p, p.IsValid()
}
