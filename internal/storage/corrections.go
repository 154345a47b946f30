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

// AppendCorrection writes one correction to the append-only learning history.
func (s *SQLiteStorage) AppendCorrection(ctx context.Context, record *model.CorrectionRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if err := validateString(record.OrganizationID, "organizationID"); err != nil {
		return err
	}
	if err := validateString(record.TransactionLabel, "transactionLabel"); err != nil {
		return err
	}
	if err := validateString(record.CorrectedCategory, "correctedCategory"); err != nil {
		return err
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO corrections (organization_id, transaction_label, suggested_category, corrected_category, amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		record.OrganizationID, record.TransactionLabel,
		nullString(record.SuggestedCategory), record.CorrectedCategory,
		record.Amount, createdAt)
	if err != nil {
		return fmt.Errorf("failed to append correction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read correction id: %w", err)
	}
	record.ID = id
	record.CreatedAt = createdAt
	return nil
}

// FindLatestCorrection looks up the most recent correction whose stored label
// matches the given label by case-insensitive substring containment in either
// direction. "STATION ABC PARIS" matches a correction recorded for
// "station abc" and vice versa; the newest match wins.
func (s *SQLiteStorage) FindLatestCorrection(ctx context.Context, organizationID, label string) (*model.CorrectionRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(organizationID, "organizationID"); err != nil {
		return nil, err
	}
	if err := validateString(label, "label"); err != nil {
		return nil, err
	}

	normalized := strings.ToLower(strings.TrimSpace(label))
	row := s.db.QueryRowContext(ctx, `
		SELECT id, organization_id, transaction_label, suggested_category, corrected_category, amount, created_at
		FROM corrections
		WHERE organization_id = ?
		  AND (instr(lower(transaction_label), ?) > 0 OR instr(?, lower(transaction_label)) > 0)
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, organizationID, normalized, normalized)

	record, err := scanCorrection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: correction for %q", common.ErrNotFound, label)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find correction: %w", err)
	}
	return record, nil
}

// RecentCorrections lists an organization's corrections, newest first.
func (s *SQLiteStorage) RecentCorrections(ctx context.Context, organizationID string, limit int) ([]model.CorrectionRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(organizationID, "organizationID"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, organization_id, transaction_label, suggested_category, corrected_category, amount, created_at
		FROM corrections
		WHERE organization_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, organizationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query corrections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.CorrectionRecord
	for rows.Next() {
		record, scanErr := scanCorrection(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan correction: %w", scanErr)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

func scanCorrection(row rowScanner) (*model.CorrectionRecord, error) {
	var r model.CorrectionRecord
	var suggested sql.NullString

	if err := row.Scan(&r.ID, &r.OrganizationID, &r.TransactionLabel,
		&suggested, &r.CorrectedCategory, &r.Amount, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.SuggestedCategory = suggested.String
	return &r, nil
}
