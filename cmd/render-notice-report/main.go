package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/vanshsharma/civicsense/internal/notice"
	"github.com/vanshsharma/civicsense/internal/report"
)

func main() {
	inputPath := flag.String("input", "", "Path to saved notice analysis result JSON")
	outputPath := flag.String("output", "", "Path to write rebuilt markdown (defaults to stdout)")
	pdfPath := flag.String("pdf", "", "Optional path to write a PDF rendering (requires Chrome/Chromium)")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing required -input")
	}

	in, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}

	var res notice.Result
	if err := json.Unmarshal(in, &res); err != nil {
		log.Fatalf("decode input JSON: %v", err)
	}

	if err := writeMarkdown(*outputPath, notice.BuildReport(res)); err != nil {
		log.Fatalf("write markdown: %v", err)
	}

	if *pdfPath != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		pdf, err := report.NewPDFRenderer().Render(ctx, res)
		if err != nil {
			log.Fatalf("render pdf: %v", err)
		}
		if err := os.WriteFile(*pdfPath, pdf, 0o644); err != nil {
			log.Fatalf("write pdf: %v", err)
		}
	}
}

func writeMarkdown(outputPath, markdown string) error {
	if outputPath == "" {
		_, err := fmt.Print(markdown)
		return err
	}
	return os.WriteFile(outputPath, []byte(markdown), 0o644)
}
