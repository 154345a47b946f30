package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/Kameltalbi/Carboscan-mobile/internal/common"
	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
)

const entryColumns = `id, organization_id, date, transaction_label, supplier_name, category, scope,
	amount, original_amount, original_currency, exchange_rate, unit, factor_kg_co2e, factor_source,
	kg_co2e, carbon_intensity, confidence, provenance, note, created_at`

// SaveEntry persists one classified entry.
func (s *SQLiteStorage) SaveEntry(ctx context.Context, entry *model.Entry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateEntry(entry); err != nil {
		return err
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.OrganizationID, entry.Date, entry.TransactionLabel,
		nullString(entry.SupplierName), nullString(entry.Category), nullString(string(entry.Scope)),
		entry.Amount, entry.OriginalAmount, nullString(entry.OriginalCurrency), entry.ExchangeRate,
		nullString(entry.Unit), entry.FactorKgCo2e, nullString(entry.FactorSource),
		entry.KgCo2e, entry.CarbonIntensity, float64(entry.Confidence),
		nullString(string(entry.Provenance)), nullString(entry.Note), createdAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: entry %s", common.ErrDuplicateEntry, entry.ID)
		}
		return fmt.Errorf("failed to save entry %s: %w", entry.ID, err)
	}
	entry.CreatedAt = createdAt
	return nil
}

// GetEntriesByPeriod lists an organization's entries with a date inside
// [start, end], ordered by date.
func (s *SQLiteStorage) GetEntriesByPeriod(ctx context.Context, organizationID string, start, end time.Time) ([]model.Entry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(organizationID, "organizationID"); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+` FROM entries
		WHERE organization_id = ? AND date >= ? AND date <= ?
		ORDER BY date, id`, organizationID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectEntries(rows)
}

// GetEntriesByOrganization lists all of an organization's entries, newest first.
func (s *SQLiteStorage) GetEntriesByOrganization(ctx context.Context, organizationID string) ([]model.Entry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(organizationID, "organizationID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+` FROM entries
		WHERE organization_id = ?
		ORDER BY date DESC, id`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectEntries(rows)
}

// GetLowConfidenceEntries lists entries below a confidence threshold, the
// review queue feed. Lowest confidence first.
func (s *SQLiteStorage) GetLowConfidenceEntries(ctx context.Context, organizationID string, below model.Confidence) ([]model.Entry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(organizationID, "organizationID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+` FROM entries
		WHERE organization_id = ? AND confidence < ?
		ORDER BY confidence, date`, organizationID, float64(below))
	if err != nil {
		return nil, fmt.Errorf("failed to query low-confidence entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectEntries(rows)
}

// DeleteEntry removes one entry by id.
func (s *SQLiteStorage) DeleteEntry(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: entry %s", common.ErrNotFound, id)
	}
	return nil
}

func collectEntries(rows *sql.Rows) ([]model.Entry, error) {
	var entries []model.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

func scanEntry(row rowScanner) (*model.Entry, error) {
	var e model.Entry
	var supplier, category, scope, currency, unit, factorSource, provenance, note sql.NullString
	var confidence float64

	if err := row.Scan(&e.ID, &e.OrganizationID, &e.Date, &e.TransactionLabel,
		&supplier, &category, &scope,
		&e.Amount, &e.OriginalAmount, &currency, &e.ExchangeRate,
		&unit, &e.FactorKgCo2e, &factorSource,
		&e.KgCo2e, &e.CarbonIntensity, &confidence,
		&provenance, &note, &e.CreatedAt); err != nil {
		return nil, err
	}

	e.SupplierName = supplier.String
	e.Category = category.String
	e.Scope = model.Scope(scope.String)
	e.OriginalCurrency = currency.String
	e.Unit = unit.String
	e.FactorSource = factorSource.String
	e.Confidence = model.Confidence(confidence)
	e.Provenance = model.Provenance(provenance.String)
	e.Note = note.String
	return &e, nil
}
