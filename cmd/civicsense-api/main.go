package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vanshsharma/civicsense/internal/auth"
	"github.com/vanshsharma/civicsense/internal/extract"
	"github.com/vanshsharma/civicsense/internal/httpapi"
	"github.com/vanshsharma/civicsense/internal/notice"
	"github.com/vanshsharma/civicsense/internal/observability"
	"github.com/vanshsharma/civicsense/internal/report"
	"github.com/vanshsharma/civicsense/internal/rules"
	"github.com/vanshsharma/civicsense/internal/schemes"
	"github.com/vanshsharma/civicsense/internal/store"
)

func main() {
	addr := flag.String("addr", ":8000", "Listen address")
	dbPath := flag.String("db", "civicsense.db", "SQLite database path (empty disables accounts)")
	rulesPath := flag.String("rules", "", "Classification rules JSON (empty uses built-in defaults)")
	schemesPath := flag.String("schemes", "", "Scheme catalog JSON (empty uses built-in defaults)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := observability.Setup(ctx, "civicsense-api")
	if err != nil {
		log.Fatalf("tracing setup: %v", err)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		_ = shutdownTracing(flushCtx)
	}()

	ruleStore := rules.NewStore(*rulesPath, *schemesPath)
	if snap := ruleStore.Snapshot(); snap.LastError != "" {
		log.Printf("rule load degraded, serving defaults/empty tables: %s", snap.LastError)
	}

	var caller notice.Caller
	if anthropicCaller, err := notice.NewAnthropicCallerFromEnv(); err != nil {
		log.Printf("LLM simplifier disabled: %v", err)
	} else {
		caller = anthropicCaller
	}
	var simplifier *notice.Simplifier
	if caller != nil {
		simplifier = notice.NewSimplifier(caller)
	}

	cfg := httpapi.Config{
		Rules:     ruleStore,
		Pipeline:  notice.NewPipeline(ruleStore, simplifier),
		Matcher:   schemes.NewMatcher(ruleStore),
		Extractor: extract.NewExtractor(),
		Caller:    caller,
		Renderer:  report.NewPDFRenderer(),
	}

	if *dbPath != "" {
		secret := strings.TrimSpace(os.Getenv("CIVICSENSE_JWT_SECRET"))
		if secret == "" {
			log.Printf("CIVICSENSE_JWT_SECRET not set; accounts and history disabled")
		} else {
			db, err := store.Open(*dbPath)
			if err != nil {
				log.Fatalf("open store: %v", err)
			}
			defer db.Close()
			tokens, err := auth.NewTokens(secret)
			if err != nil {
				log.Fatalf("token setup: %v", err)
			}
			cfg.Store = db
			cfg.Tokens = tokens
		}
	}

	server := &http.Server{
		Addr:              *addr,
		Handler:           httpapi.NewServer(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("civicsense-api listening on %s", *addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
