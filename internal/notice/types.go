package notice

import (
	"time"

	"github.com/vanshsharma/civicsense/internal/rules"
)

const Disclaimer = "This is an automated plain-language explanation, not legal advice. " +
	"Consult the issuing authority or a qualified professional before acting on it."

const (
	// DefaultTypeLabel is returned when no category scores above zero or no
	// rules are loaded.
	DefaultTypeLabel = "General Government Notice"

	// TypeNoText is the sentinel notice type for uploads where extraction
	// produced no usable text.
	TypeNoText = "No_Text_Detected"

	// MinAnalyzableChars is the floor below which trimmed input is rejected
	// without running the pipeline.
	MinAnalyzableChars = 5

	MaxNoticeChars = 100000

	SuggestedSchemeLimit = 3
)

type Severity string

const (
	SeverityUrgent         Severity = "Urgent"
	SeverityActionRequired Severity = "Action Required"
	SeverityInformational  Severity = "Informational"
	// SeverityRejected marks the sentinel result for near-empty input.
	SeverityRejected Severity = "Rejected"
)

// ExplanationBody is one language's rendering of the explanation.
type ExplanationBody struct {
	Summary   string   `json:"summary"`
	Reason    string   `json:"reason"`
	NextSteps []string `json:"next_steps"`
	Deadlines string   `json:"deadlines"`
}

// Explanation is the normalized simplifier output. The LLM adapter and the
// rule-based fallback both produce exactly this shape; malformed LLM output
// never leaks past the adapter boundary.
type Explanation struct {
	IsNotice bool            `json:"is_notice"`
	English  ExplanationBody `json:"english"`
	Hinglish ExplanationBody `json:"hinglish"`
	// Source is "llm" or "fallback".
	Source string `json:"source"`
}

type ResultMetadata struct {
	SourceFilename   string    `json:"source_filename,omitempty"`
	ExtractionMethod string    `json:"extraction_method,omitempty"`
	InputTruncated   bool      `json:"input_truncated,omitempty"`
	SimplifierCalls  int       `json:"simplifier_calls"`
	StartedAt        time.Time `json:"started_at"`
	CompletedAt      time.Time `json:"completed_at"`
}

// Result is the full outcome of one analysis request. Constructed fresh per
// request, never cached.
type Result struct {
	NoticeType       string         `json:"notice_type"`
	Severity         Severity       `json:"severity"`
	Explanation      Explanation    `json:"explanation"`
	SuggestedSchemes []rules.Scheme `json:"scheme_suggestions"`
	Metadata         ResultMetadata `json:"metadata"`
	Disclaimer       string         `json:"disclaimer"`
}
