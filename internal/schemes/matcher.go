package schemes

import (
	"github.com/vanshsharma/civicsense/internal/rules"
)

// Profile is the request-scoped citizen profile used for eligibility
// matching. It is validated at the API boundary and never persisted here.
type Profile struct {
	Age        int    `json:"age"`
	Income     int    `json:"income"`
	Occupation string `json:"occupation"`
	State      string `json:"state"`
	Category   string `json:"category"`
}

// Match filters the catalog down to schemes the profile is eligible for.
// Eligibility is a conjunction of two independent range checks: income must
// not exceed the scheme's cap (a zero cap means unbounded and always
// passes), and age must lie within [AgeMin, AgeMax] (zero AgeMax means
// unbounded). Output preserves catalog order. An empty catalog yields an
// empty result, not an error.
func Match(catalog []rules.Scheme, p Profile) []rules.Scheme {
	var eligible []rules.Scheme
	for _, s := range catalog {
		if s.MaxIncome > 0 && p.Income > s.MaxIncome {
			continue
		}
		if p.Age < s.AgeMin {
			continue
		}
		if s.AgeMax > 0 && p.Age > s.AgeMax {
			continue
		}
		eligible = append(eligible, s)
	}
	return eligible
}

// Suggest returns up to limit schemes for the non-personalized upload path,
// before any profile is known. It deliberately does not analyze the notice
// text: the contract is "first N of whatever order the catalog holds". The
// text parameter stays in the signature so relevance ranking can land later
// without an API break.
func Suggest(catalog []rules.Scheme, text string, limit int) []rules.Scheme {
	_ = text
	if limit <= 0 || len(catalog) == 0 {
		return nil
	}
	if limit > len(catalog) {
		limit = len(catalog)
	}
	out := make([]rules.Scheme, limit)
	copy(out, catalog[:limit])
	return out
}

// Status is the observational view of the loaded catalog.
type Status struct {
	SchemesLoaded int    `json:"schemes_loaded"`
	DataAvailable bool   `json:"data_available"`
	DataSource    string `json:"data_source"`
}

// Matcher binds the pure matching logic to a rule store for the API
// surface's status and refresh operations.
type Matcher struct {
	store *rules.Store
}

func NewMatcher(store *rules.Store) *Matcher {
	return &Matcher{store: store}
}

func (m *Matcher) Match(p Profile) []rules.Scheme {
	return Match(m.store.Snapshot().Schemes, p)
}

func (m *Matcher) Suggest(text string, limit int) []rules.Scheme {
	return Suggest(m.store.Snapshot().Schemes, text, limit)
}

func (m *Matcher) Catalog() []rules.Scheme {
	return m.store.Snapshot().Schemes
}

func (m *Matcher) Status() Status {
	snap := m.store.Snapshot()
	return Status{
		SchemesLoaded: len(snap.Schemes),
		DataAvailable: len(snap.Schemes) > 0,
		DataSource:    snap.SchemesSource,
	}
}

// Refresh swaps in a freshly loaded catalog and reports the new count.
func (m *Matcher) Refresh() int {
	return len(m.store.Refresh().Schemes)
}
