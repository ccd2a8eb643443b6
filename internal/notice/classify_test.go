package notice

import (
	"testing"

	"github.com/vanshsharma/civicsense/internal/rules"
)

func TestClassifyHighestScoreWins(t *testing.T) {
	categories := []rules.Category{
		{Name: "alpha", Keywords: []string{"alpha"}},
		{Name: "beta", Keywords: []string{"beta", "second"}},
	}
	got := Classify(categories, "this mentions alpha once but beta appears second time")
	if got != "beta" {
		t.Fatalf("want beta, got %q", got)
	}
}

func TestClassifyTieGoesToFirstDeclared(t *testing.T) {
	categories := []rules.Category{
		{Name: "first", Keywords: []string{"shared"}},
		{Name: "second", Keywords: []string{"shared"}},
	}
	if got := Classify(categories, "text containing shared keyword"); got != "first" {
		t.Fatalf("tie must resolve to the first declared category, got %q", got)
	}
}

func TestClassifyNoMatchFallsBack(t *testing.T) {
	categories := []rules.Category{
		{Name: "alpha", Keywords: []string{"alpha"}},
	}
	if got := Classify(categories, "nothing relevant here"); got != DefaultTypeLabel {
		t.Fatalf("want %q, got %q", DefaultTypeLabel, got)
	}
}

func TestClassifyEmptyTableFallsBack(t *testing.T) {
	if got := Classify(nil, "income tax notice with everything"); got != DefaultTypeLabel {
		t.Fatalf("want %q, got %q", DefaultTypeLabel, got)
	}
}

func TestClassifySkipsReservedCategory(t *testing.T) {
	categories := []rules.Category{
		{Name: rules.ReservedSeverityCategory, Keywords: []string{"penalty", "fine"}},
		{Name: "real", Keywords: []string{"penalty"}},
	}
	if got := Classify(categories, "a penalty and a fine both appear"); got != "real" {
		t.Fatalf("reserved pseudo-category must never win, got %q", got)
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	categories := []rules.Category{
		{Name: "tax", Keywords: []string{"Income Tax"}},
	}
	if got := Classify(categories, "INCOME TAX DEPARTMENT"); got != "tax" {
		t.Fatalf("matching must be case-insensitive, got %q", got)
	}
}

func TestClassifyRefinesToDeclaredType(t *testing.T) {
	categories := []rules.Category{
		{
			Name:     "tax",
			Keywords: []string{"assessment"},
			Types:    []string{"Demand Order", "Refund Advice"},
		},
	}
	if got := Classify(categories, "assessment complete, refund processed"); got != "Refund Advice" {
		t.Fatalf("want refined type, got %q", got)
	}
	// No type word present: fall back to the first declared type.
	if got := Classify(categories, "assessment pending"); got != "Demand Order" {
		t.Fatalf("want first declared type, got %q", got)
	}
}

func TestClassifyDefaultRulesIncomeTax(t *testing.T) {
	text := "Notice under section 143 of the Income Tax Act. Your ITR for the assessment year requires attention."
	got := Classify(rules.DefaultCategories(), text)
	if got != "Income Tax Notice" {
		t.Fatalf("want Income Tax Notice, got %q", got)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	categories := rules.DefaultCategories()
	text := "court summons issued, appear before the magistrate"
	first := Classify(categories, text)
	for i := 0; i < 50; i++ {
		if got := Classify(categories, text); got != first {
			t.Fatalf("classification not deterministic: %q vs %q", first, got)
		}
	}
}
