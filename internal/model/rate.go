package model

import "time"

// ExchangeRate is one persisted currency rate observation. Duplicate rows
// for the same day are tolerated; reads take the latest by date.
type ExchangeRate struct {
	RateDate     time.Time
	CreatedAt    time.Time
	FromCurrency string
	ToCurrency   string
	Source       string
	Rate         float64
	ID           int64
}

// Conversion provenance values, from strongest to weakest.
const (
	ConversionDirect   = "direct"   // already in the reporting currency
	ConversionCache    = "cache"    // in-memory cache, rate fresh
	ConversionDatabase = "database" // persisted rate, fresh
	ConversionAPI      = "api"      // live fetch
	ConversionFallback = "fallback" // stale persisted rate, fetch failed
	ConversionError    = "error"    // identity rate, nothing else available
)

// Conversion is the result of normalizing an amount to the reporting
// currency. Err is a degraded-data annotation, not a failure: fallback and
// error conversions carry the reason the rate may be untrustworthy.
type Conversion struct {
	RateDate        time.Time
	FromCurrency    string
	ToCurrency      string
	Source          string
	Err             string
	OriginalAmount  float64
	ConvertedAmount float64
	Rate            float64
}

// Degraded reports whether the conversion should not be trusted for
// reporting-grade output without review.
func (c Conversion) Degraded() bool {
	return c.Source == ConversionFallback || c.Source == ConversionError
}
