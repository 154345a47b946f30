package model

import "time"

// VerificationStatus tracks a report through its review lifecycle.
// A signed report gates further edits.
type VerificationStatus string

// Report verification statuses.
const (
	StatusDraft       VerificationStatus = "DRAFT"
	StatusUnderReview VerificationStatus = "UNDER_REVIEW"
	StatusSigned      VerificationStatus = "SIGNED"
	StatusRejected    VerificationStatus = "REJECTED"
)

// CategoryBreakdown is one line of the ranked per-category emission split.
type CategoryBreakdown struct {
	Category   string  `json:"category"`
	KgCo2e     float64 `json:"kg_co2e"`
	Percentage float64 `json:"percentage"`
}

// SupplierBreakdown is one line of the ranked per-supplier emission split.
type SupplierBreakdown struct {
	SupplierName     string  `json:"supplier_name"`
	TotalSpending    float64 `json:"total_spending"`
	TotalKgCo2e      float64 `json:"total_kg_co2e"`
	CarbonIntensity  float64 `json:"carbon_intensity"`
	TransactionCount int     `json:"transaction_count"`
}

// ReductionAction is a suggested emission-reduction measure derived from the
// report's top categories.
type ReductionAction struct {
	Title               string  `json:"title"`
	Description         string  `json:"description"`
	Difficulty          string  `json:"difficulty"`
	PotentialSavingKg   float64 `json:"potential_saving_kg_co2e"`
	PotentialSavingEuro float64 `json:"potential_saving_euro"`
}

// Report is a period snapshot of an organization's classified entries:
// scope totals, financial metrics, breakdowns and a reduction plan.
// Immutable once signed.
type Report struct {
	PeriodStart         time.Time
	PeriodEnd           time.Time
	GeneratedAt         time.Time
	AverageRatioByScope map[Scope]float64
	ID                  string
	OrganizationID      string
	TopCategories       []CategoryBreakdown
	TopSuppliers        []SupplierBreakdown
	ReductionPlan       []ReductionAction
	Status              VerificationStatus
	TotalKgCo2e         float64
	Scope1Kg            float64
	Scope2Kg            float64
	Scope3Kg            float64
	TotalSpending       float64
	CarbonIntensity     float64
}
