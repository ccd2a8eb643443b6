package notice

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vanshsharma/civicsense/internal/rules"
)

func defaultStore() *rules.Store {
	return rules.NewStore("", "")
}

func TestAnalyzeNearEmptyInputRejected(t *testing.T) {
	p := NewPipeline(defaultStore(), nil)
	res, err := p.Analyze(context.Background(), Input{Text: "  a  ", SourceFilename: "blank.jpg"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.NoticeType != TypeNoText {
		t.Fatalf("want %q, got %q", TypeNoText, res.NoticeType)
	}
	if res.Severity != SeverityRejected {
		t.Fatalf("want Rejected, got %q", res.Severity)
	}
	if res.Explanation.IsNotice {
		t.Fatal("sentinel result must report is_notice false")
	}
	if len(res.SuggestedSchemes) != 0 {
		t.Fatal("sentinel result must not suggest schemes")
	}
	if res.Metadata.SourceFilename != "blank.jpg" {
		t.Fatalf("provenance lost: %+v", res.Metadata)
	}
}

func TestAnalyzeWithoutSimplifierUsesFallback(t *testing.T) {
	p := NewPipeline(defaultStore(), nil)
	text := "Income Tax notice: penalty applies if you do not respond to this demand notice."
	res, err := p.Analyze(context.Background(), Input{Text: text})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.NoticeType != "Income Tax Notice" {
		t.Fatalf("classification: got %q", res.NoticeType)
	}
	if res.Severity != SeverityUrgent {
		t.Fatalf("severity: got %q", res.Severity)
	}
	if res.Explanation.Source != "fallback" {
		t.Fatalf("want fallback explanation, got %q", res.Explanation.Source)
	}
	if len(res.SuggestedSchemes) != SuggestedSchemeLimit {
		t.Fatalf("want %d suggestions, got %d", SuggestedSchemeLimit, len(res.SuggestedSchemes))
	}
	if res.Disclaimer == "" {
		t.Fatal("disclaimer missing")
	}
	if res.Metadata.SimplifierCalls != 0 {
		t.Fatalf("no simplifier configured, got %d calls", res.Metadata.SimplifierCalls)
	}
}

func TestAnalyzeSimplifierFailureDegradesToFallback(t *testing.T) {
	// Client-class errors fail fast, so this stays quick.
	caller := &fakeCaller{errs: []error{errors.New("status code: 401, bad key")}}
	p := NewPipeline(defaultStore(), NewSimplifier(caller))
	res, err := p.Analyze(context.Background(), Input{Text: "electricity bill due, disconnection warning"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Explanation.Source != "fallback" {
		t.Fatalf("want fallback after LLM failure, got %q", res.Explanation.Source)
	}
	if res.Metadata.SimplifierCalls != 1 {
		t.Fatalf("want 1 recorded call, got %d", res.Metadata.SimplifierCalls)
	}
	if res.NoticeType == "" || res.Severity == "" {
		t.Fatal("type and severity must survive an LLM outage")
	}
}

func TestAnalyzeSimplifierSuccessUsed(t *testing.T) {
	caller := &fakeCaller{responses: []string{validExplanationJSON}}
	p := NewPipeline(defaultStore(), NewSimplifier(caller))
	res, err := p.Analyze(context.Background(), Input{Text: "income tax verification notice for assessment year"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Explanation.Source != "llm" {
		t.Fatalf("want llm explanation, got %q", res.Explanation.Source)
	}
	if res.Metadata.SimplifierCalls != 1 {
		t.Fatalf("want 1 call, got %d", res.Metadata.SimplifierCalls)
	}
}

func TestAnalyzeTruncatesOversizeInput(t *testing.T) {
	p := NewPipeline(defaultStore(), nil)
	text := "income tax " + strings.Repeat("x", MaxNoticeChars)
	res, err := p.Analyze(context.Background(), Input{Text: text})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !res.Metadata.InputTruncated {
		t.Fatal("oversize input must be flagged as truncated")
	}
	if res.NoticeType != "Income Tax Notice" {
		t.Fatalf("truncation must keep the leading text: got %q", res.NoticeType)
	}
}

func TestAnalyzeEmptyRulesetStillCompletes(t *testing.T) {
	dir := t.TempDir()
	// A configured-but-missing rules source serves empty tables.
	store := rules.NewStore(dir+"/missing.json", dir+"/missing.json")
	p := NewPipeline(store, nil)
	res, err := p.Analyze(context.Background(), Input{Text: "court summons with penalty"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.NoticeType != DefaultTypeLabel {
		t.Fatalf("empty categories must fall back, got %q", res.NoticeType)
	}
	// Severity fallback tiers keep urgency detection alive.
	if res.Severity != SeverityUrgent {
		t.Fatalf("severity fallback: got %q", res.Severity)
	}
	if len(res.SuggestedSchemes) != 0 {
		t.Fatal("empty catalog must yield no suggestions")
	}
}
