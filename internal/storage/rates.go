package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Kameltalbi/Carboscan-mobile/internal/common"
	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
)

// SaveRate persists one exchange rate observation. Duplicate rows for the
// same pair and day are tolerated; reads take the latest.
func (s *SQLiteStorage) SaveRate(ctx context.Context, rate *model.ExchangeRate) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if rate == nil {
		return fmt.Errorf("%w: rate", ErrNilParameter)
	}
	if err := validateString(rate.FromCurrency, "fromCurrency"); err != nil {
		return err
	}
	if err := validateString(rate.ToCurrency, "toCurrency"); err != nil {
		return err
	}
	if rate.Rate <= 0 {
		return fmt.Errorf("rate must be positive, got %v", rate.Rate)
	}

	rateDate := rate.RateDate
	if rateDate.IsZero() {
		rateDate = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO exchange_rates (from_currency, to_currency, rate, rate_date, source)
		VALUES (?, ?, ?, ?, ?)`,
		strings.ToUpper(rate.FromCurrency), strings.ToUpper(rate.ToCurrency),
		rate.Rate, rateDate, nullString(rate.Source))
	if err != nil {
		return fmt.Errorf("failed to save rate %s/%s: %w", rate.FromCurrency, rate.ToCurrency, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read rate id: %w", err)
	}
	rate.ID = id
	rate.RateDate = rateDate
	return nil
}

// LatestRate returns the most recent persisted rate for a currency pair,
// regardless of age. Callers decide whether a stale rate is acceptable.
func (s *SQLiteStorage) LatestRate(ctx context.Context, from, to string) (*model.ExchangeRate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(from, "from"); err != nil {
		return nil, err
	}
	if err := validateString(to, "to"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, from_currency, to_currency, rate, rate_date, created_at, source
		FROM exchange_rates
		WHERE from_currency = ? AND to_currency = ?
		ORDER BY rate_date DESC, id DESC
		LIMIT 1`, strings.ToUpper(from), strings.ToUpper(to))

	var r model.ExchangeRate
	var source sql.NullString
	err := row.Scan(&r.ID, &r.FromCurrency, &r.ToCurrency, &r.Rate, &r.RateDate, &r.CreatedAt, &source)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", common.ErrRateUnavailable, from, to)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rate: %w", err)
	}
	r.Source = source.String
	return &r, nil
}

// PurgeRatesBefore deletes rate observations older than the cutoff and
// returns the number of rows removed.
func (s *SQLiteStorage) PurgeRatesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM exchange_rates WHERE rate_date < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge rates: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected, nil
}
