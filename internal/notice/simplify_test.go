package notice

import (
	"context"
	"strings"
	"testing"
)

const validExplanationJSON = `{
	"is_notice": true,
	"english": {
		"summary": "This notice asks you to verify your income tax return for the last year.",
		"reason": "The department found a mismatch in your reported income.",
		"next_steps": ["Log in to the e-filing portal", "Respond before the stated date"],
		"deadlines": "Respond within 15 days of receiving this notice."
	},
	"hinglish": {
		"summary": "Yeh notice aapko pichle saal ki income tax return verify karne ko keh raha hai.",
		"reason": "Department ko aapki reported income mein mismatch mila hai.",
		"next_steps": ["E-filing portal pe login karo", "Date se pehle respond karo"],
		"deadlines": "Notice milne ke 15 din ke andar respond karo."
	}
}`

func TestSimplifySuccess(t *testing.T) {
	caller := &fakeCaller{responses: []string{validExplanationJSON}}
	s := NewSimplifier(caller)
	got, calls, err := s.Simplify(context.Background(), "notice text", "Income Tax Notice", SeverityActionRequired)
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if calls != 1 {
		t.Fatalf("want 1 call, got %d", calls)
	}
	if got.Source != "llm" {
		t.Fatalf("want source llm, got %q", got.Source)
	}
	if !got.IsNotice {
		t.Fatal("is_notice lost in translation")
	}
	if len(got.Hinglish.NextSteps) != 2 {
		t.Fatalf("unexpected hinglish steps: %+v", got.Hinglish.NextSteps)
	}
}

func TestSimplifyRejectsIncompleteContent(t *testing.T) {
	// Valid JSON, but the english summary is too short to be useful.
	caller := &fakeCaller{responses: []string{
		`{"is_notice": true, "english": {"summary": "short", "reason": "r", "next_steps": ["a"], "deadlines": "d"}, "hinglish": {"summary": "short", "reason": "r", "next_steps": ["a"], "deadlines": "d"}}`,
		`{"is_notice": true, "english": {"summary": "short", "reason": "r", "next_steps": ["a"], "deadlines": "d"}, "hinglish": {"summary": "short", "reason": "r", "next_steps": ["a"], "deadlines": "d"}}`,
		`{"is_notice": true, "english": {"summary": "short", "reason": "r", "next_steps": ["a"], "deadlines": "d"}, "hinglish": {"summary": "short", "reason": "r", "next_steps": ["a"], "deadlines": "d"}}`,
	}}
	_, calls, err := NewSimplifier(caller).Simplify(context.Background(), "text", "t", SeverityInformational)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if calls != 3 {
		t.Fatalf("want 3 attempts, got %d", calls)
	}
}

func TestValidateBody(t *testing.T) {
	good := ExplanationBody{
		Summary:   "A summary that is comfortably long enough to pass.",
		Reason:    "because",
		NextSteps: []string{"do the thing"},
		Deadlines: "soon",
	}
	if err := validateBody("english", good); err != nil {
		t.Fatalf("valid body rejected: %v", err)
	}

	noSteps := good
	noSteps.NextSteps = nil
	if err := validateBody("english", noSteps); err == nil {
		t.Fatal("body without steps must fail")
	}

	blankStep := good
	blankStep.NextSteps = []string{"ok", "   "}
	if err := validateBody("english", blankStep); err == nil {
		t.Fatal("blank step must fail")
	}
}

func TestFallbackExplanationIncomeTax(t *testing.T) {
	got := FallbackExplanation("Income Tax verification required", "Income Tax Notice", SeverityActionRequired)
	if got.Source != "fallback" || !got.IsNotice {
		t.Fatalf("unexpected envelope: %+v", got)
	}
	if !strings.Contains(got.Hinglish.Summary, "Income Tax department ka notice") {
		t.Fatalf("hinglish summary not specialized: %q", got.Hinglish.Summary)
	}
	if len(got.English.NextSteps) == 0 || len(got.Hinglish.NextSteps) == 0 {
		t.Fatal("fallback must always include next steps")
	}
}

func TestFallbackExplanationUrgentSteps(t *testing.T) {
	got := FallbackExplanation("court hearing scheduled", "Legal / Court Notice", SeverityUrgent)
	joined := strings.Join(got.English.NextSteps, " | ")
	if !strings.Contains(joined, "deadline") {
		t.Fatalf("urgent steps should press on deadlines: %q", joined)
	}
}

func TestFallbackExplanationInformationalDeadline(t *testing.T) {
	got := FallbackExplanation("general circular", "General Government Notice", SeverityInformational)
	if got.English.Deadlines != "No immediate deadline" {
		t.Fatalf("informational deadline: got %q", got.English.Deadlines)
	}
}
