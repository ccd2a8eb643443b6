package notice

import (
	"strings"

	"github.com/vanshsharma/civicsense/internal/rules"
)

// AnalyzeSeverity assigns an urgency tier by scanning the tiered trigger
// phrases against the lowercased text. The urgent tier is checked strictly
// before the action-required tier: urgent language dominates even when
// action-required phrases also appear. The first substring hit in a tier
// short-circuits. No hit in either tier means Informational.
func AnalyzeSeverity(tiers rules.SeverityTiers, text string) Severity {
	lower := strings.ToLower(text)
	for _, phrase := range tiers.Urgent {
		if phrase != "" && strings.Contains(lower, strings.ToLower(phrase)) {
			return SeverityUrgent
		}
	}
	for _, phrase := range tiers.ActionRequired {
		if phrase != "" && strings.Contains(lower, strings.ToLower(phrase)) {
			return SeverityActionRequired
		}
	}
	return SeverityInformational
}
