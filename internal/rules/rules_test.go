package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestNewStoreBuiltInDefaults(t *testing.T) {
	s := NewStore("", "")
	snap := s.Snapshot()
	if !snap.RulesLoaded || !snap.SchemesLoaded {
		t.Fatalf("expected defaults to load, got %+v", snap)
	}
	if snap.RulesSource != "built-in defaults" || snap.SchemesSource != "built-in defaults" {
		t.Fatalf("unexpected sources: %q / %q", snap.RulesSource, snap.SchemesSource)
	}
	if len(snap.Categories) == 0 || len(snap.Schemes) == 0 {
		t.Fatal("default tables should not be empty")
	}
	if len(snap.Severity.Urgent) == 0 || len(snap.Severity.ActionRequired) == 0 {
		t.Fatal("default severity tiers should not be empty")
	}
	if snap.LastError != "" {
		t.Fatalf("unexpected load error: %s", snap.LastError)
	}
}

func TestNewStoreFromFiles(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeFile(t, dir, "rules.json", `{
		"categories": [
			{"name": "traffic", "keywords": ["challan", "traffic"], "types": ["Traffic Challan"]}
		],
		"severity": {"urgent": ["seizure"], "action_required": ["pay"]}
	}`)
	schemesPath := writeFile(t, dir, "schemes.json", `[
		{"name": "Test Scheme", "description": "d", "max_income": 100, "age_min": 18}
	]`)

	snap := NewStore(rulesPath, schemesPath).Snapshot()
	if !snap.RulesLoaded || !snap.SchemesLoaded {
		t.Fatalf("expected configured files to load: %+v", snap)
	}
	if len(snap.Categories) != 1 || snap.Categories[0].Name != "traffic" {
		t.Fatalf("unexpected categories: %+v", snap.Categories)
	}
	if len(snap.Schemes) != 1 || snap.Schemes[0].Name != "Test Scheme" {
		t.Fatalf("unexpected schemes: %+v", snap.Schemes)
	}
	if snap.RulesSource != rulesPath {
		t.Fatalf("source should echo the path, got %q", snap.RulesSource)
	}
}

func TestMalformedRulesDegradeToEmptyWithDefaultSeverity(t *testing.T) {
	dir := t.TempDir()
	rulesPath := writeFile(t, dir, "rules.json", `{not json`)

	snap := NewStore(rulesPath, "").Snapshot()
	if snap.RulesLoaded {
		t.Fatal("malformed rules must not report loaded")
	}
	if len(snap.Categories) != 0 {
		t.Fatalf("malformed rules must yield empty categories, got %d", len(snap.Categories))
	}
	if snap.LastError == "" {
		t.Fatal("expected a recorded load error")
	}
	// Severity keeps its safety fallback so urgency detection still works.
	if len(snap.Severity.Urgent) == 0 {
		t.Fatal("severity fallback missing")
	}
	// Schemes side was unconfigured and loads defaults independently.
	if !snap.SchemesLoaded || len(snap.Schemes) == 0 {
		t.Fatal("scheme defaults should still load")
	}
}

func TestMissingSchemesFileRecordsError(t *testing.T) {
	snap := NewStore("", filepath.Join(t.TempDir(), "missing.json")).Snapshot()
	if snap.SchemesLoaded {
		t.Fatal("missing schemes file must not report loaded")
	}
	if len(snap.Schemes) != 0 {
		t.Fatalf("expected empty catalog, got %d", len(snap.Schemes))
	}
	if snap.LastError == "" {
		t.Fatal("expected a recorded load error")
	}
}

func TestSchemeEntryWithoutNameRejected(t *testing.T) {
	dir := t.TempDir()
	schemesPath := writeFile(t, dir, "schemes.json", `[{"description": "nameless"}]`)
	snap := NewStore("", schemesPath).Snapshot()
	if snap.SchemesLoaded {
		t.Fatal("nameless scheme entry must fail the whole load")
	}
}

func TestRefreshPicksUpFileChanges(t *testing.T) {
	dir := t.TempDir()
	schemesPath := writeFile(t, dir, "schemes.json", `[{"name": "One", "description": "d"}]`)

	s := NewStore("", schemesPath)
	if got := len(s.Snapshot().Schemes); got != 1 {
		t.Fatalf("initial load: want 1 scheme, got %d", got)
	}

	writeFile(t, dir, "schemes.json", `[
		{"name": "One", "description": "d"},
		{"name": "Two", "description": "d"}
	]`)
	next := s.Refresh()
	if len(next.Schemes) != 2 {
		t.Fatalf("refresh: want 2 schemes, got %d", len(next.Schemes))
	}
	if got := len(s.Snapshot().Schemes); got != 2 {
		t.Fatalf("snapshot after refresh: want 2 schemes, got %d", got)
	}
}

func TestRefreshUnchangedSourceIsIdentical(t *testing.T) {
	s := NewStore("", "")
	before := s.Snapshot()
	after := s.Refresh()
	if len(before.Categories) != len(after.Categories) || len(before.Schemes) != len(after.Schemes) {
		t.Fatal("refresh with unchanged sources changed table sizes")
	}
	for i := range before.Categories {
		if before.Categories[i].Name != after.Categories[i].Name {
			t.Fatalf("category order changed at %d: %s vs %s", i, before.Categories[i].Name, after.Categories[i].Name)
		}
	}
}
