package model

import "time"

// CorrectionRecord is one append-only entry in the learning history: a human
// overrode a suggested category for a transaction label. The label is stored
// raw, not normalized. Records are only written when the suggestion and the
// correction differ, and are immutable once written.
type CorrectionRecord struct {
	CreatedAt         time.Time
	OrganizationID    string
	TransactionLabel  string
	SuggestedCategory string
	CorrectedCategory string
	Amount            float64
	ID                int64
}
