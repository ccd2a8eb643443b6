package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
	"time"
)

// ReservedSeverityCategory is a pseudo-category name some rule files use to
// inline severity trigger words. The classifier must never score it.
const ReservedSeverityCategory = "severity_keywords"

// Category is one classification bucket: substring keywords that vote for it
// and the finer-grained notice type labels it can resolve to. Categories are
// kept as an ordered slice because ties between equal scores resolve to the
// first declared category.
type Category struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Types    []string `json:"types,omitempty"`
}

// SeverityTiers holds the trigger phrases for the two escalated tiers.
// Urgent is always evaluated before ActionRequired.
type SeverityTiers struct {
	Urgent         []string `json:"urgent"`
	ActionRequired []string `json:"action_required"`
}

// Scheme is a welfare program with eligibility bounds. A zero MaxIncome or
// AgeMax means the bound is unset and always passes.
type Scheme struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MaxIncome   int    `json:"max_income,omitempty"`
	AgeMin      int    `json:"age_min,omitempty"`
	AgeMax      int    `json:"age_max,omitempty"`
}

type ruleFile struct {
	Categories []Category    `json:"categories"`
	Severity   SeverityTiers `json:"severity"`
}

// Snapshot is one immutable, fully consistent view of every loaded table.
// Readers hold a *Snapshot for the duration of a request; Refresh builds a
// replacement and swaps the pointer, so a reader never observes a mix of old
// and new entries.
type Snapshot struct {
	Categories []Category
	Severity   SeverityTiers
	Schemes    []Scheme

	RulesLoaded   bool
	SchemesLoaded bool
	RulesSource   string
	SchemesSource string
	LastError     string
	LoadedAt      time.Time
}

// Store loads and holds the rule tables and scheme catalog. All reads go
// through Snapshot(); the only mutation is the wholesale swap in Refresh.
type Store struct {
	rulesPath   string
	schemesPath string
	snap        atomic.Pointer[Snapshot]
}

// NewStore builds a store and performs the initial load. A load failure is
// recorded on the snapshot, never returned: the service degrades to safe
// defaults instead of refusing to start.
func NewStore(rulesPath, schemesPath string) *Store {
	s := &Store{rulesPath: rulesPath, schemesPath: schemesPath}
	s.snap.Store(s.build())
	return s
}

// Snapshot returns the current consistent view. Safe for unlimited
// concurrent callers.
func (s *Store) Snapshot() *Snapshot {
	return s.snap.Load()
}

// Refresh re-reads the configured sources and atomically swaps in the new
// snapshot. With unchanged sources the result is identical to the previous
// snapshot (same contents, same order).
func (s *Store) Refresh() *Snapshot {
	next := s.build()
	s.snap.Store(next)
	return next
}

func (s *Store) build() *Snapshot {
	snap := &Snapshot{
		RulesSource:   sourceDescriptor(s.rulesPath),
		SchemesSource: sourceDescriptor(s.schemesPath),
		LoadedAt:      time.Now().UTC(),
	}

	categories, severity, err := loadRules(s.rulesPath)
	if err != nil {
		// Serve an empty rule set rather than half-applied state. Severity
		// keeps its built-in safety fallback regardless.
		snap.Categories = nil
		snap.Severity = DefaultSeverityTiers()
		snap.LastError = err.Error()
	} else {
		snap.Categories = categories
		snap.Severity = severity
		snap.RulesLoaded = true
	}

	schemes, err := loadSchemes(s.schemesPath)
	if err != nil {
		snap.Schemes = nil
		if snap.LastError != "" {
			snap.LastError += "; "
		}
		snap.LastError += err.Error()
	} else {
		snap.Schemes = schemes
		snap.SchemesLoaded = true
	}
	return snap
}

func sourceDescriptor(path string) string {
	if path == "" {
		return "built-in defaults"
	}
	return path
}

// loadRules returns the built-in tables when no path is configured, and a
// ConfigError-style failure when a configured file is missing or malformed.
func loadRules(path string) ([]Category, SeverityTiers, error) {
	if path == "" {
		return DefaultCategories(), DefaultSeverityTiers(), nil
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, SeverityTiers{}, fmt.Errorf("rules source %s: %w", path, err)
	}
	var rf ruleFile
	if err := json.Unmarshal(blob, &rf); err != nil {
		return nil, SeverityTiers{}, fmt.Errorf("rules source %s: malformed: %w", path, err)
	}
	for _, c := range rf.Categories {
		if c.Name == "" {
			return nil, SeverityTiers{}, fmt.Errorf("rules source %s: category with empty name", path)
		}
	}
	severity := rf.Severity
	if len(severity.Urgent) == 0 && len(severity.ActionRequired) == 0 {
		severity = DefaultSeverityTiers()
	}
	return rf.Categories, severity, nil
}

func loadSchemes(path string) ([]Scheme, error) {
	if path == "" {
		return DefaultSchemes(), nil
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemes source %s: %w", path, err)
	}
	var schemes []Scheme
	if err := json.Unmarshal(blob, &schemes); err != nil {
		return nil, fmt.Errorf("schemes source %s: malformed: %w", path, err)
	}
	for i, sc := range schemes {
		if sc.Name == "" {
			return nil, fmt.Errorf("schemes source %s: entry %d has no name", path, i)
		}
	}
	return schemes, nil
}
