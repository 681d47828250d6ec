package domain

import "strings"

// TopicKeywords maps a topic to the lower-case substrings that signal it.
type TopicKeywords struct {
	Topic    Topic
	Keywords []string
}

// topicKeywordTable is ordered; earlier rows win ties.
var topicKeywordTable = []TopicKeywords{
	{TopicHVAC, []string{"hvac", "heating", "air condition", "air-condition", "ventilation", "furnace", "boiler"}},
	{TopicRoof, []string{"roof"}},
	{TopicStructural, []string{"structural", "foundation", "load-bearing", "load bearing", "exterior wall"}},
	{TopicPlumbing, []string{"plumbing", "pipe", "sewer", "drain", "water heater"}},
	{TopicElectrical, []string{"electrical", "wiring", "lighting"}},
	{TopicCAM, []string{"common area", "cam charge", "cam reconciliation", "operating expense"}},
	{TopicTaxes, []string{"tax", "assessment"}},
	{TopicInsurance, []string{"insurance", "insured", "liability coverage"}},
	{TopicUtilities, []string{"utilit", "electricity bill", "water bill", "gas service"}},
	{TopicSecurityDeposit, []string{"security deposit", "deposit", "letter of credit"}},
	{TopicRent, []string{"base rent", "monthly rent", "annual rent", "rent increase", "rent escalation", "late fee", "late charge", "rental rate"}},
	{TopicJanitorial, []string{"janitorial", "cleaning", "trash", "garbage", "pest control"}},
	{TopicLandscaping, []string{"landscap", "snow removal", "lawn"}},
	{TopicParking, []string{"parking"}},
	{TopicSignage, []string{"signage", "pylon", "storefront sign"}},
	{TopicUse, []string{"permitted use", "use of the premises", "exclusive use", "operating hours"}},
	{TopicAlterations, []string{"alteration", "improvement", "renovat", "build-out"}},
	{TopicAssignmentSubletting, []string{"assign", "sublet", "sublease"}},
	{TopicTermRenewal, []string{"renew", "option to extend", "extension term", "lease term", "expiration"}},
	{TopicTermination, []string{"terminat", "early exit"}},
	{TopicDefaultRemedies, []string{"default", "remed", "evict", "breach"}},
	{TopicIndemnification, []string{"indemn", "hold harmless"}},
	{TopicCompliance, []string{"complian", "americans with disabilities", "environmental", "hazardous", "laws and regulations"}},
	{TopicCasualty, []string{"casualty", "fire", "damage or destruction", "destroyed", "flood", "condemnation", "eminent domain"}},
	{TopicRepairsMaintenance, []string{"repair", "maintain", "maintenance"}},
}

// genericTopics only win when no more specific topic matched.
var genericTopics = map[Topic]bool{
	TopicRepairsMaintenance: true,
}

// TopicKeywordTable returns a copy of the topic keyword table.
func TopicKeywordTable() []TopicKeywords {
	out := make([]TopicKeywords, len(topicKeywordTable))
	copy(out, topicKeywordTable)
	return out
}

// InferTopics returns every topic with at least one keyword appearing in
// text (case-insensitive substring match), in table order. Generic topics
// are dropped when a specific topic also matched.
func InferTopics(text string) []Topic {
	lower := strings.ToLower(text)
	var specific, generic []Topic
	for _, row := range topicKeywordTable {
		for _, kw := range row.Keywords {
			if !strings.Contains(lower, kw) {
				continue
			}
			if genericTopics[row.Topic] {
				generic = append(generic, row.Topic)
			} else {
				specific = append(specific, row.Topic)
			}
			break
		}
	}
	if len(specific) > 0 {
		return specific
	}
	return generic
}

// BestTopic picks the single most-mentioned topic in text. Specific topics
// beat generic ones; ties go to the earlier table row. The second return
// value is the keyword hit count of the winner.
func BestTopic(text string) (Topic, int) {
	lower := strings.ToLower(text)
	best, bestHits := TopicOther, 0
	generic, genericHits := TopicOther, 0
	for _, row := range topicKeywordTable {
		hits := 0
		for _, kw := range row.Keywords {
			hits += strings.Count(lower, kw)
		}
		if hits == 0 {
			continue
		}
		if genericTopics[row.Topic] {
			if hits > genericHits {
				generic, genericHits = row.Topic, hits
			}
			continue
		}
		if hits > bestHits {
			best, bestHits = row.Topic, hits
		}
	}
	if bestHits == 0 {
		return generic, genericHits
	}
	return best, bestHits
}
