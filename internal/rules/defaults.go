package rules

// DefaultCategories is the built-in classification table used when no rule
// file is configured. Order matters: equal scores resolve to the earliest
// entry.
func DefaultCategories() []Category {
	return []Category{
		{
			Name: "income_tax",
			Keywords: []string{
				"income tax", "itr", "assessment year", "tds", "pan card",
				"tax return", "e-filing", "section 143", "demand notice",
			},
			Types: []string{
				"Income Tax Notice",
				"Income Tax Verification Notice",
				"Income Tax Demand Notice",
			},
		},
		{
			Name: "legal_court",
			Keywords: []string{
				"court", "summons", "legal action", "hearing", "magistrate",
				"tribunal", "advocate", "petition", "respondent",
			},
			Types: []string{
				"Legal / Court Notice",
				"Court Summons",
			},
		},
		{
			Name: "police",
			Keywords: []string{
				"police", "fir", "investigation", "charge sheet", "statement",
				"station house officer",
			},
			Types: []string{
				"Police Notice",
			},
		},
		{
			Name: "banking_loan",
			Keywords: []string{
				"loan", "emi", "foreclosure", "npa", "repayment", "credit",
				"outstanding amount", "recovery",
			},
			Types: []string{
				"Bank / Loan Notice",
			},
		},
		{
			Name: "property_municipal",
			Keywords: []string{
				"property tax", "municipal", "encroachment", "land records",
				"registry", "water bill", "building plan",
			},
			Types: []string{
				"Municipal / Property Notice",
			},
		},
		{
			Name: "utility_bill",
			Keywords: []string{
				"electricity", "power connection", "meter reading",
				"units consumed", "bill due", "disconnection",
			},
			Types: []string{
				"Utility Bill Notice",
			},
		},
		{
			Name: "welfare_scheme",
			Keywords: []string{
				"scheme", "subsidy", "ration card", "pension", "aadhaar",
				"beneficiary", "entitlement",
			},
			Types: []string{
				"Welfare / Scheme Notice",
			},
		},
	}
}

// DefaultSeverityTiers is the built-in safety fallback. These trigger lists
// are load-bearing policy: urgent language always dominates, so the urgent
// tier is scanned first.
func DefaultSeverityTiers() SeverityTiers {
	return SeverityTiers{
		Urgent: []string{
			"penalty", "fine", "legal action", "court", "arrest", "warrant",
			"immediate", "deadline", "last notice", "foreclosure", "eviction",
		},
		ActionRequired: []string{
			"submit", "response required", "verification", "clarification",
			"documents needed", "appear", "within days", "compliance",
		},
	}
}

// DefaultSchemes is the built-in welfare catalog used when no schemes file
// is configured. Catalog order is meaningful: Suggest returns a prefix.
func DefaultSchemes() []Scheme {
	return []Scheme{
		{
			Name:        "PM-KISAN Samman Nidhi",
			Description: "Income support of Rs 6,000 per year for land-holding farmer families.",
			MaxIncome:   200000,
			AgeMin:      18,
		},
		{
			Name:        "Ayushman Bharat PM-JAY",
			Description: "Health cover of Rs 5 lakh per family per year for low-income households.",
			MaxIncome:   250000,
		},
		{
			Name:        "PM Awas Yojana (Gramin)",
			Description: "Housing assistance for families without a pucca house.",
			MaxIncome:   300000,
			AgeMin:      18,
		},
		{
			Name:        "National Social Assistance - Old Age Pension",
			Description: "Monthly pension for senior citizens below the poverty line.",
			MaxIncome:   100000,
			AgeMin:      60,
		},
		{
			Name:        "PM Scholarship Scheme",
			Description: "Scholarships for higher technical education of eligible students.",
			MaxIncome:   600000,
			AgeMin:      17,
			AgeMax:      25,
		},
		{
			Name:        "Atal Pension Yojana",
			Description: "Guaranteed pension scheme for workers in the unorganised sector.",
			AgeMin:      18,
			AgeMax:      40,
		},
	}
}
