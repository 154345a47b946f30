package model

import "time"

// Entry is the persisted outcome of classifying and normalizing one
// transaction. Entries are never mutated after creation, only deleted.
type Entry struct {
	Date             time.Time
	CreatedAt        time.Time
	ID               string
	OrganizationID   string
	Category         string
	Unit             string
	FactorSource     string
	TransactionLabel string
	SupplierName     string
	OriginalCurrency string
	Note             string
	Provenance       Provenance
	Scope            Scope
	Amount           float64 // normalized to the reporting currency
	OriginalAmount   float64
	ExchangeRate     float64
	FactorKgCo2e     float64 // factor snapshot at classification time
	KgCo2e           float64
	CarbonIntensity  float64 // kgCO2e per normalized currency unit
	Confidence       Confidence
}

// IntensityRatio computes kgCO2e per unit of normalized spending,
// zero by convention when the amount is zero.
func (e *Entry) IntensityRatio() float64 {
	if e.Amount <= 0 {
		return 0
	}
	return e.KgCo2e / e.Amount
}
