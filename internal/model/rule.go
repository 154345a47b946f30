package model

import "time"

// ClassificationRule maps a label keyword to an emission category.
//
// Rules are scanned in insertion order and the first keyword that is a
// substring of the normalized label wins. Keywords are not unique across
// rules; ties are resolved by insertion order, not specificity.
type ClassificationRule struct {
	LastUsedAt   time.Time
	Keyword      string // normalized lowercase
	Category     string
	SupplierName string
	Country      string // "ALL" or ISO country code
	MinAmount    *float64
	MaxAmount    *float64
	Scope        Scope
	Confidence   Confidence
	ID           int64
	UsageCount   int
	IsLearned    bool
}

// AppliesTo reports whether the rule's optional country and amount bounds
// admit the given transaction. The keyword match itself is the caller's job.
func (r *ClassificationRule) AppliesTo(country string, amount float64) bool {
	if r.Country != "" && r.Country != "ALL" && r.Country != country {
		return false
	}
	if r.MinAmount != nil && amount < *r.MinAmount {
		return false
	}
	if r.MaxAmount != nil && amount > *r.MaxAmount {
		return false
	}
	return true
}
