// Package model defines the core domain models used throughout the application.
package model

import "time"

// Scope identifies the GHG Protocol scope an emission belongs to.
type Scope string

// GHG Protocol scope constants.
const (
	// ScopeDirect covers emissions from sources the organization owns or controls.
	ScopeDirect Scope = "SCOPE1"
	// ScopeEnergyIndirect covers emissions from purchased energy.
	ScopeEnergyIndirect Scope = "SCOPE2"
	// ScopeValueChain covers all other indirect emissions (suppliers, travel, waste).
	ScopeValueChain Scope = "SCOPE3"
)

// Valid reports whether s is one of the three GHG scopes.
func (s Scope) Valid() bool {
	switch s {
	case ScopeDirect, ScopeEnergyIndirect, ScopeValueChain:
		return true
	}
	return false
}

// Category is an emission category with its factor, seeded per country and
// never mutated in place (a country re-sync replaces the set wholesale).
type Category struct {
	UpdatedAt    time.Time
	ID           string // stable uppercase identifier, e.g. "SERVICES_CLOUD"
	Label        string
	Unit         string
	Country      string
	Source       string
	Description  string
	Keywords     []string
	Scope        Scope
	FactorKgCo2e float64 // kg CO2e per Unit
}
