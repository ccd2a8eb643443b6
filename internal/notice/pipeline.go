package notice

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vanshsharma/civicsense/internal/rules"
	"github.com/vanshsharma/civicsense/internal/schemes"
)

// ErrProcessingFailed is the generic user-facing signal for unexpected
// pipeline failures. Internal detail is logged, never surfaced.
var ErrProcessingFailed = errors.New("processing failed, please retry")

// Pipeline composes classification, severity analysis, simplification and
// scheme suggestion into one request cycle over a single rule snapshot.
type Pipeline struct {
	store      *rules.Store
	simplifier *Simplifier
	// llmTimeout bounds the one genuinely blocking step in the path.
	llmTimeout time.Duration
}

// NewPipeline wires the pipeline. simplifier may be nil, in which case every
// explanation comes from the deterministic fallback.
func NewPipeline(store *rules.Store, simplifier *Simplifier) *Pipeline {
	return &Pipeline{
		store:      store,
		simplifier: simplifier,
		llmTimeout: 60 * time.Second,
	}
}

// Input carries the extracted text plus provenance for the result metadata.
type Input struct {
	Text             string
	SourceFilename   string
	ExtractionMethod string
}

// Analyze runs the full cycle. Near-empty input short-circuits to the
// sentinel result without touching the classifier, analyzer or simplifier:
// running them on a handful of characters produces meaningless labels.
// Unexpected panics are converted into ErrProcessingFailed.
func (p *Pipeline) Analyze(ctx context.Context, in Input) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("notice pipeline panic (file=%s): %v", in.SourceFilename, r)
			res = Result{}
			err = ErrProcessingFailed
		}
	}()

	ctx, span := otel.Tracer("civicsense/notice").Start(ctx, "notice.analyze")
	defer span.End()

	started := time.Now()
	trimmed := strings.TrimSpace(in.Text)
	if len(trimmed) < MinAnalyzableChars {
		return p.rejected(in, started), nil
	}

	text := in.Text
	truncated := false
	if len(text) > MaxNoticeChars {
		text = text[:MaxNoticeChars]
		truncated = true
	}

	// One snapshot for the whole request: classification, severity and
	// suggestions all see the same consistent tables.
	snap := p.store.Snapshot()

	noticeType := Classify(snap.Categories, text)
	severity := AnalyzeSeverity(snap.Severity, text)
	span.SetAttributes(
		attribute.String("notice.type", noticeType),
		attribute.String("notice.severity", string(severity)),
	)

	explanation, calls := p.explain(ctx, text, noticeType, severity)

	return Result{
		NoticeType:       noticeType,
		Severity:         severity,
		Explanation:      explanation,
		SuggestedSchemes: schemes.Suggest(snap.Schemes, text, SuggestedSchemeLimit),
		Metadata: ResultMetadata{
			SourceFilename:   in.SourceFilename,
			ExtractionMethod: in.ExtractionMethod,
			InputTruncated:   truncated,
			SimplifierCalls:  calls,
			StartedAt:        started,
			CompletedAt:      time.Now(),
		},
		Disclaimer: Disclaimer,
	}, nil
}

// explain calls the LLM simplifier under a timeout and degrades to the
// rule-based fallback on any failure. Type, severity and suggestions remain
// useful even when this dependency is down, so its errors never abort the
// request.
func (p *Pipeline) explain(ctx context.Context, text, noticeType string, severity Severity) (Explanation, int) {
	if p.simplifier == nil {
		return FallbackExplanation(text, noticeType, severity), 0
	}
	llmCtx, cancel := context.WithTimeout(ctx, p.llmTimeout)
	defer cancel()
	explanation, calls, err := p.simplifier.Simplify(llmCtx, text, noticeType, severity)
	if err != nil {
		log.Printf("simplifier unavailable, using fallback: %v", err)
		return FallbackExplanation(text, noticeType, severity), calls
	}
	return explanation, calls
}

func (p *Pipeline) rejected(in Input, started time.Time) Result {
	return Result{
		NoticeType: TypeNoText,
		Severity:   SeverityRejected,
		Explanation: Explanation{
			IsNotice: false,
			English: ExplanationBody{
				Summary:   "No readable text was found in the uploaded document. Please upload a clearer photo or a text-based PDF.",
				Reason:    "The scan quality may be too low, or the page may be blank.",
				NextSteps: []string{"Retake the photo in good light", "Upload the original PDF if available"},
				Deadlines: "Not applicable",
			},
			Hinglish: ExplanationBody{
				Summary:   "Document mein koi readable text nahi mila. Kripya ek saaf photo ya text-wala PDF upload karo.",
				Reason:    "Scan ki quality bahut kam ho sakti hai, ya page khaali hai.",
				NextSteps: []string{"Acchi roshni mein photo dobara lo", "Original PDF ho toh woh upload karo"},
				Deadlines: "Lagu nahi hota",
			},
			Source: "fallback",
		},
		SuggestedSchemes: nil,
		Metadata: ResultMetadata{
			SourceFilename:   in.SourceFilename,
			ExtractionMethod: in.ExtractionMethod,
			StartedAt:        started,
			CompletedAt:      time.Now(),
		},
		Disclaimer: Disclaimer,
	}
}
