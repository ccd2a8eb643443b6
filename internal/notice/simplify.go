package notice

import (
	"context"
	"fmt"
	"strings"
)

const explanationSchemaPrompt = `Required JSON schema:
{
  "is_notice": "boolean — false if the text is clearly not a government/legal notice",
  "english": {
    "summary": "string (2-4 sentences, plain English)",
    "reason": "string — why the person likely received this notice",
    "next_steps": ["string (2-5 entries, actionable)"],
    "deadlines": "string — deadlines or consequences, or 'No immediate deadline'"
  },
  "hinglish": {
    "summary": "string (2-4 sentences, everyday Hinglish)",
    "reason": "string (Hinglish)",
    "next_steps": ["string (2-5 entries, Hinglish)"],
    "deadlines": "string (Hinglish)"
  }
}`

// Simplifier turns raw notice text into the normalized bilingual
// Explanation via the LLM caller. Any failure — transport, timeout,
// malformed or invalid JSON — is reported as an error so the pipeline can
// substitute the deterministic fallback; partially parsed content is never
// forwarded.
type Simplifier struct {
	exec *Executor
}

func NewSimplifier(caller Caller) *Simplifier {
	return &Simplifier{exec: NewExecutor(caller)}
}

func (s *Simplifier) Simplify(ctx context.Context, text, noticeType string, severity Severity) (Explanation, int, error) {
	out := Explanation{}
	prompt := fmt.Sprintf(
		"Explain this notice to a citizen in plain English and in Hinglish (Hindi + English mix).\n"+
			"Keep the tone friendly and reassuring. Use common Hinglish words that everyday people understand.\n\n%s\n\n"+
			"Notice type: %s\nSeverity: %s\n\nNotice text:\n%s",
		explanationSchemaPrompt,
		noticeType,
		severity,
		text,
	)
	calls, err := s.exec.RunJSON(ctx, "simplify", prompt, &out, func() error { return validateExplanation(out) })
	if err != nil {
		return Explanation{}, calls, err
	}
	out.Source = "llm"
	return out, calls, nil
}

func validateExplanation(e Explanation) error {
	if err := validateBody("english", e.English); err != nil {
		return err
	}
	return validateBody("hinglish", e.Hinglish)
}

func validateBody(lang string, b ExplanationBody) error {
	if len(strings.TrimSpace(b.Summary)) < 20 {
		return fmt.Errorf("%s summary too short", lang)
	}
	if strings.TrimSpace(b.Reason) == "" {
		return fmt.Errorf("%s reason missing", lang)
	}
	if len(b.NextSteps) < 1 || len(b.NextSteps) > 8 {
		return fmt.Errorf("%s next_steps count", lang)
	}
	for _, step := range b.NextSteps {
		if strings.TrimSpace(step) == "" {
			return fmt.Errorf("%s next_steps has an empty entry", lang)
		}
	}
	if strings.TrimSpace(b.Deadlines) == "" {
		return fmt.Errorf("%s deadlines missing", lang)
	}
	return nil
}

// FallbackExplanation is the deterministic rule-based substitute used when
// the LLM is unavailable or returns unusable content. It keys off the same
// text/type/severity the LLM would have seen.
func FallbackExplanation(text, noticeType string, severity Severity) Explanation {
	lower := strings.ToLower(text)

	var english, hinglish string
	var reasonEN, reasonHI string
	switch {
	case strings.Contains(lower, "income tax"):
		english = "This is a notice from the Income Tax department. Some action related to your tax filing or verification is pending."
		hinglish = "Yeh Income Tax department ka notice hai. Aapki tax filing ya verification related kuch action pending hai."
		reasonEN = "The department needs a response or clarification about your tax records."
		reasonHI = "Department ko aapke tax records ke baare mein response ya clarification chahiye."
	case strings.Contains(lower, "court") || strings.Contains(lower, "legal"):
		english = "This is a legal or court notice. You are involved in a legal matter or a response is required from you."
		hinglish = "Yeh legal/court notice hai. Kisi legal matter mein aapki involvement hai ya response chahiye."
		reasonEN = "A court or legal authority requires your attention in an ongoing matter."
		reasonHI = "Court ya legal authority ko kisi matter mein aapka dhyan chahiye."
	case strings.Contains(lower, "bill") || strings.Contains(lower, "payment"):
		english = "This is a payment or bill related notice. Some payment may be due."
		hinglish = "Yeh payment ya bill related notice hai. Kuch payment due ho sakta hai."
		reasonEN = "A payment appears to be pending against your account or connection."
		reasonHI = "Aapke account ya connection par koi payment pending lag raha hai."
	default:
		english = "This is a government notice informing you about important information or a required action."
		hinglish = "Yeh sarkari notice hai jo aapko kuch important information ya action ke baare mein bata raha hai."
		reasonEN = "A government office has sent you an official communication."
		reasonHI = "Kisi sarkari office ne aapko official communication bheja hai."
	}

	var stepsEN, stepsHI []string
	if severity == SeverityUrgent {
		stepsEN = []string{
			"Read and understand the notice immediately",
			"Act before any stated deadline",
			"Consult a CA or lawyer if needed",
			"Gather the related documents",
		}
		stepsHI = []string{
			"Turant notice padho aur samjho",
			"Agar deadline hai toh usse pehle action lo",
			"Zarurat ho toh CA/lawyer se consult karo",
			"Related documents gather karo",
		}
	} else {
		stepsEN = []string{
			"Read the notice carefully",
			"Check for any deadline",
			"Take expert advice if anything is unclear",
			"Respond on time",
		}
		stepsHI = []string{
			"Notice ko carefully padho",
			"Deadline check karo",
			"Agar confusion hai toh expert advice lo",
			"Time pe response do",
		}
	}

	deadlineEN := "Check the notice for dates. Do not ignore it; acting on time matters."
	deadlineHI := "Notice mein dates check karo. Inko ignore mat karo, time pe action lena zaroori hai."
	if severity == SeverityInformational {
		deadlineEN = "No immediate deadline"
		deadlineHI = "Koi turant deadline nahi hai"
	}

	return Explanation{
		IsNotice: true,
		English: ExplanationBody{
			Summary:   english,
			Reason:    reasonEN,
			NextSteps: stepsEN,
			Deadlines: deadlineEN,
		},
		Hinglish: ExplanationBody{
			Summary:   hinglish,
			Reason:    reasonHI,
			NextSteps: stepsHI,
			Deadlines: deadlineHI,
		},
		Source: "fallback",
	}
}
