package notice

import (
	"fmt"
	"strings"
)

// BuildReport renders an analysis result as a markdown report suitable for
// saving or PDF rendering.
func BuildReport(res Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Notice Analysis Report\n\n")
	if res.Metadata.SourceFilename != "" {
		fmt.Fprintf(&b, "- Source: %s\n", res.Metadata.SourceFilename)
	}
	fmt.Fprintf(&b, "- Notice type: **%s**\n", res.NoticeType)
	fmt.Fprintf(&b, "- Severity: **%s**\n", res.Severity)
	fmt.Fprintf(&b, "- Analyzed: %s\n\n", res.Metadata.CompletedAt.Format("2 Jan 2006 15:04 MST"))
	fmt.Fprintf(&b, "%s\n\n", res.Disclaimer)

	if !res.Explanation.IsNotice {
		fmt.Fprintf(&b, "## Result\n\n")
		fmt.Fprintf(&b, "%s\n\n%s\n", res.Explanation.English.Summary, res.Explanation.Hinglish.Summary)
		return b.String()
	}

	appendLanguage(&b, "What this notice means", res.Explanation.English)
	appendLanguage(&b, "Aasaan bhasha mein (Hinglish)", res.Explanation.Hinglish)

	fmt.Fprintf(&b, "## Schemes you may want to check\n\n")
	if len(res.SuggestedSchemes) == 0 {
		fmt.Fprintf(&b, "No scheme suggestions available.\n\n")
	}
	for _, s := range res.SuggestedSchemes {
		fmt.Fprintf(&b, "- **%s** — %s\n", s.Name, s.Description)
	}
	if len(res.SuggestedSchemes) > 0 {
		fmt.Fprintf(&b, "\nThese are general suggestions; use the eligibility check with your age and income for a personalized list.\n")
	}
	return b.String()
}

func appendLanguage(b *strings.Builder, heading string, body ExplanationBody) {
	fmt.Fprintf(b, "## %s\n\n", heading)
	fmt.Fprintf(b, "%s\n\n", body.Summary)
	fmt.Fprintf(b, "**Why you received it:** %s\n\n", body.Reason)
	fmt.Fprintf(b, "**Next steps:**\n\n")
	for _, step := range body.NextSteps {
		fmt.Fprintf(b, "- %s\n", step)
	}
	fmt.Fprintf(b, "\n**Deadlines:** %s\n\n", body.Deadlines)
}
