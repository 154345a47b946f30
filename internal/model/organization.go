package model

import "time"

// Sector classifies an organization's line of business, with the sector
// benchmark used for intensity comparisons (kgCO2e per euro of revenue).
type Sector string

// Business sectors.
const (
	SectorServices     Sector = "SERVICES"
	SectorCommerce     Sector = "COMMERCE"
	SectorIndustry     Sector = "INDUSTRIE"
	SectorConstruction Sector = "CONSTRUCTION"
	SectorTransport    Sector = "TRANSPORT"
	SectorCatering     Sector = "RESTAURATION"
	SectorAgriculture  Sector = "AGRICULTURE"
	SectorTech         Sector = "TECH"
	SectorHealth       Sector = "SANTE"
	SectorEducation    Sector = "EDUCATION"
	SectorOther        Sector = "AUTRE"
)

var sectorBenchmarks = map[Sector]float64{
	SectorServices:     0.05,
	SectorCommerce:     0.08,
	SectorIndustry:     0.15,
	SectorConstruction: 0.12,
	SectorTransport:    0.18,
	SectorCatering:     0.10,
	SectorAgriculture:  0.20,
	SectorTech:         0.04,
	SectorHealth:       0.06,
	SectorEducation:    0.03,
	SectorOther:        0.10,
}

// BenchmarkKgCo2ePerEuro returns the sector's reference carbon intensity.
func (s Sector) BenchmarkKgCo2ePerEuro() float64 {
	if v, ok := sectorBenchmarks[s]; ok {
		return v
	}
	return sectorBenchmarks[SectorOther]
}

// Organization is the profile a report is generated against.
type Organization struct {
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ID            string
	Name          string
	Currency      string
	Country       string
	Sector        Sector
	Employees     int
	AnnualRevenue float64
}

// CarbonIntensity divides total emissions by annual revenue,
// zero when revenue is zero so callers never see a division error.
func (o *Organization) CarbonIntensity(totalKgCo2e float64) float64 {
	if o.AnnualRevenue <= 0 {
		return 0
	}
	return totalKgCo2e / o.AnnualRevenue
}
