package model

// Confidence is a bounded [0,1] trust score attached to a classification
// suggestion. It drives the auto-apply decision and the review queue.
type Confidence float64

// AutoApplyThreshold is the fixed confidence at or above which a suggestion
// may be applied without human review. It is deliberately not configurable.
const AutoApplyThreshold Confidence = 0.90

// ConfidenceBand is the human-facing label for a confidence range.
type ConfidenceBand string

// Confidence bands.
const (
	BandVeryHigh ConfidenceBand = "very high"
	BandHigh     ConfidenceBand = "high"
	BandMedium   ConfidenceBand = "medium"
	BandLow      ConfidenceBand = "low"
	BandVeryLow  ConfidenceBand = "very low"
)

// Valid reports whether the confidence is within [0,1].
func (c Confidence) Valid() bool {
	return c >= 0 && c <= 1
}

// Band maps the confidence to its display band.
func (c Confidence) Band() ConfidenceBand {
	switch {
	case c >= 0.90:
		return BandVeryHigh
	case c >= 0.75:
		return BandHigh
	case c >= 0.60:
		return BandMedium
	case c >= 0.40:
		return BandLow
	default:
		return BandVeryLow
	}
}

// ShouldAutoApply reports whether the suggestion is eligible for unattended
// application. True iff confidence >= 0.90, including exactly 0.90.
func (c Confidence) ShouldAutoApply() bool {
	return c >= AutoApplyThreshold
}

// Provenance records which stage of the pipeline produced a classification.
type Provenance string

// Provenance constants.
const (
	ProvenanceManual          Provenance = "manual"
	ProvenanceDictionary      Provenance = "dictionary"
	ProvenanceSemantic        Provenance = "semantic"
	ProvenanceAmountHeuristic Provenance = "amount-heuristic"
	ProvenanceLearned         Provenance = "learned"
)

// Suggestion is a ranked classification proposal for a transaction label.
// Factor is nil when the category has no emission factor for the engine's
// country (the caller must treat such rows as needing review).
type Suggestion struct {
	Factor     *Category
	Category   string
	Rationale  string
	Provenance Provenance
	Scope      Scope
	Confidence Confidence
}
