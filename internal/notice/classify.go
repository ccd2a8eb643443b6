package notice

import (
	"strings"

	"github.com/vanshsharma/civicsense/internal/rules"
)

// Classify scores the text against every category's keywords and resolves
// the winner to a notice type label. It is pure and deterministic for a
// given category table.
//
// Scoring: a category's score is the number of its keywords occurring as
// substrings of the lowercased text. The strictly highest score wins; when
// several categories tie on the same nonzero score, the first declared
// category in the table wins. Zero score everywhere, or an empty table,
// yields DefaultTypeLabel.
func Classify(categories []rules.Category, text string) string {
	lower := strings.ToLower(text)

	bestIdx := -1
	bestScore := 0
	for i, cat := range categories {
		if cat.Name == rules.ReservedSeverityCategory {
			continue
		}
		score := 0
		for _, kw := range cat.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(kw)) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx < 0 || bestScore == 0 {
		return DefaultTypeLabel
	}

	winner := categories[bestIdx]
	if len(winner.Types) == 0 {
		return winner.Name
	}
	return refineType(winner.Types, lower)
}

// refineType picks the first declared type with any of its words present in
// the text. The any-word (not all-words) match is deliberate: it is the
// looser semantic the ruleset was written against. No word match falls back
// to the first declared type.
func refineType(types []string, lowerText string) string {
	for _, label := range types {
		for _, word := range strings.Fields(strings.ToLower(label)) {
			if strings.Contains(lowerText, word) {
				return label
			}
		}
	}
	return types[0]
}
