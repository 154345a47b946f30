// Package currency normalizes transaction amounts to a reporting currency,
// degrading from cached rates through persisted rates to a live fetch, and
// finally to stale or identity rates when nothing better exists.
package currency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Kameltalbi/Carboscan-mobile/internal/common"
	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
	"github.com/Kameltalbi/Carboscan-mobile/internal/service"
)

const (
	// rateFreshness is how old a cached or persisted rate may be and still
	// count as current.
	rateFreshness = 24 * time.Hour

	// rateRetention is how long persisted rates are kept before purging.
	rateRetention = 30 * 24 * time.Hour
)

// commonCurrencies are pre-synced so offline conversions rarely hit the
// fallback stages.
var commonCurrencies = []string{"USD", "GBP", "CHF", "CAD", "TND", "MAD", "DZD", "JPY", "CNY"}

// RateStore is the persistence surface the converter needs.
type RateStore interface {
	SaveRate(ctx context.Context, rate *model.ExchangeRate) error
	LatestRate(ctx context.Context, from, to string) (*model.ExchangeRate, error)
	PurgeRatesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type cachedRate struct {
	fetchedAt time.Time
	rateDate  time.Time
	rate      float64
}

// Converter resolves exchange rates through a cache, the database and a live
// provider, in that order. Safe for concurrent use.
type Converter struct {
	store    RateStore
	provider service.RateProvider
	now      func() time.Time
	cache    map[string]cachedRate
	mu       sync.Mutex
}

// NewConverter creates a currency converter.
func NewConverter(store RateStore, provider service.RateProvider) *Converter {
	return &Converter{
		store:    store,
		provider: provider,
		now:      time.Now,
		cache:    make(map[string]cachedRate),
	}
}

// Convert normalizes an amount from one currency to another. It never returns
// an error for a missing rate: the result degrades through fallback and
// identity sources instead, with the reason recorded on the conversion.
func (c *Converter) Convert(ctx context.Context, amount float64, from, to string) (model.Conversion, error) {
	if err := ctx.Err(); err != nil {
		return model.Conversion{}, err
	}

	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == "" || to == "" {
		return model.Conversion{}, fmt.Errorf("%w: currency codes are required", common.ErrInvalidConfig)
	}

	now := c.now()
	conversion := model.Conversion{
		FromCurrency:   from,
		ToCurrency:     to,
		OriginalAmount: amount,
	}

	// Stage 1: same currency, nothing to do.
	if from == to {
		conversion.Rate = 1.0
		conversion.ConvertedAmount = amount
		conversion.Source = model.ConversionDirect
		conversion.RateDate = now
		return conversion, nil
	}

	// Stage 2: in-memory cache.
	if cached, ok := c.lookupCache(from, to, now); ok {
		conversion.Rate = cached.rate
		conversion.ConvertedAmount = amount * cached.rate
		conversion.Source = model.ConversionCache
		conversion.RateDate = cached.rateDate
		return conversion, nil
	}

	// Stage 3: fresh persisted rate.
	persisted, dbErr := c.store.LatestRate(ctx, from, to)
	if dbErr == nil && now.Sub(persisted.RateDate) <= rateFreshness {
		c.storeCache(from, to, persisted.Rate, persisted.RateDate, now)
		conversion.Rate = persisted.Rate
		conversion.ConvertedAmount = amount * persisted.Rate
		conversion.Source = model.ConversionDatabase
		conversion.RateDate = persisted.RateDate
		return conversion, nil
	}
	if dbErr != nil && !errors.Is(dbErr, common.ErrRateUnavailable) {
		return model.Conversion{}, dbErr
	}

	// Stage 4: live fetch, persisted for next time.
	rate, fetchErr := c.fetchRate(ctx, from, to, now)
	if fetchErr == nil {
		conversion.Rate = rate
		conversion.ConvertedAmount = amount * rate
		conversion.Source = model.ConversionAPI
		conversion.RateDate = now
		return conversion, nil
	}

	// Stage 5: stale persisted rate is better than nothing.
	if persisted != nil {
		slog.Warn("using stale exchange rate",
			"pair", from+"/"+to,
			"rate_date", persisted.RateDate,
			"error", fetchErr)
		conversion.Rate = persisted.Rate
		conversion.ConvertedAmount = amount * persisted.Rate
		conversion.Source = model.ConversionFallback
		conversion.RateDate = persisted.RateDate
		conversion.Err = fmt.Sprintf("live fetch failed, rate from %s", persisted.RateDate.Format("2006-01-02"))
		return conversion, nil
	}

	// Stage 6: identity rate, flagged so the caller can quarantine the row.
	slog.Error("no exchange rate available, using identity rate",
		"pair", from+"/"+to,
		"error", fetchErr)
	conversion.Rate = 1.0
	conversion.ConvertedAmount = amount
	conversion.Source = model.ConversionError
	conversion.RateDate = now
	conversion.Err = fetchErr.Error()
	return conversion, nil
}

func (c *Converter) lookupCache(from, to string, now time.Time) (cachedRate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cached, ok := c.cache[from+"/"+to]
	if !ok || now.Sub(cached.fetchedAt) > rateFreshness {
		return cachedRate{}, false
	}
	return cached, true
}

func (c *Converter) storeCache(from, to string, rate float64, rateDate, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[from+"/"+to] = cachedRate{rate: rate, rateDate: rateDate, fetchedAt: now}
}

func (c *Converter) fetchRate(ctx context.Context, from, to string, now time.Time) (float64, error) {
	if c.provider == nil {
		return 0, fmt.Errorf("%w: no rate provider configured", common.ErrRateUnavailable)
	}

	rates, err := c.provider.FetchLatestRates(ctx, from)
	if err != nil {
		return 0, err
	}

	rate, ok := rates[to]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("%w: provider has no %s rate for %s", common.ErrRateUnavailable, to, from)
	}

	persisted := &model.ExchangeRate{
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         rate,
		RateDate:     now,
		Source:       model.ConversionAPI,
	}
	if saveErr := c.store.SaveRate(ctx, persisted); saveErr != nil {
		slog.Warn("failed to persist fetched rate", "pair", from+"/"+to, "error", saveErr)
	}
	c.storeCache(from, to, rate, now, now)
	return rate, nil
}

// PurgeOldRates deletes persisted rates older than the retention window and
// returns the number of rows removed.
func (c *Converter) PurgeOldRates(ctx context.Context) (int64, error) {
	return c.store.PurgeRatesBefore(ctx, c.now().Add(-rateRetention))
}

// SyncCommonCurrencies pre-fetches rates from the usual foreign currencies
// into the reporting currency. Individual pair failures are logged and
// skipped; the sync is best effort.
func (c *Converter) SyncCommonCurrencies(ctx context.Context, reportingCurrency string) error {
	reportingCurrency = strings.ToUpper(strings.TrimSpace(reportingCurrency))
	if reportingCurrency == "" {
		return fmt.Errorf("%w: reporting currency is required", common.ErrInvalidConfig)
	}

	now := c.now()
	var failed int
	for _, from := range commonCurrencies {
		if from == reportingCurrency {
			continue
		}
		if _, err := c.fetchRate(ctx, from, reportingCurrency, now); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			slog.Warn("failed to sync rate", "pair", from+"/"+reportingCurrency, "error", err)
			failed++
		}
	}

	slog.Info("synced common currency rates",
		"reporting_currency", reportingCurrency,
		"failed", failed)
	return nil
}
