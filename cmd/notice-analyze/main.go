package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vanshsharma/civicsense/internal/extract"
	"github.com/vanshsharma/civicsense/internal/notice"
	"github.com/vanshsharma/civicsense/internal/rules"
)

func main() {
	inputPath := flag.String("input", "", "Path to a notice file (.txt, .pdf, or an image)")
	rulesPath := flag.String("rules", "", "Classification rules JSON (empty uses built-in defaults)")
	schemesPath := flag.String("schemes", "", "Scheme catalog JSON (empty uses built-in defaults)")
	outputPath := flag.String("output", "", "Path to write the analysis JSON (defaults to stdout)")
	markdownPath := flag.String("markdown", "", "Optional path to write a markdown report")
	timeout := flag.Duration("timeout", 3*time.Minute, "Overall analysis timeout")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing required -input")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	text, method, err := loadText(ctx, *inputPath)
	if err != nil {
		log.Fatalf("read notice: %v", err)
	}

	ruleStore := rules.NewStore(*rulesPath, *schemesPath)
	if snap := ruleStore.Snapshot(); snap.LastError != "" {
		log.Printf("rule load degraded: %s", snap.LastError)
	}

	var simplifier *notice.Simplifier
	if caller, err := notice.NewAnthropicCallerFromEnv(); err != nil {
		log.Printf("LLM simplifier disabled, using fallback explanations: %v", err)
	} else {
		simplifier = notice.NewSimplifier(caller)
	}

	pipeline := notice.NewPipeline(ruleStore, simplifier)
	res, err := pipeline.Analyze(ctx, notice.Input{
		Text:             text,
		SourceFilename:   filepath.Base(*inputPath),
		ExtractionMethod: method,
	})
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	if err := writeResult(*outputPath, res); err != nil {
		log.Fatalf("write output: %v", err)
	}
	if *markdownPath != "" {
		if err := os.WriteFile(*markdownPath, []byte(notice.BuildReport(res)), 0o644); err != nil {
			log.Fatalf("write markdown: %v", err)
		}
	}
}

func loadText(ctx context.Context, path string) (string, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text", "":
		return string(raw), "plain", nil
	}
	return extract.NewExtractor().Text(ctx, raw, "", filepath.Base(path))
}

func writeResult(outputPath string, res notice.Result) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	if outputPath == "" {
		_, err := fmt.Println(string(b))
		return err
	}
	return os.WriteFile(outputPath, b, 0o644)
}
