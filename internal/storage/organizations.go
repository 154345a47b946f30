package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Kameltalbi/Carboscan-mobile/internal/common"
	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
)

// SaveOrganization upserts an organization profile.
func (s *SQLiteStorage) SaveOrganization(ctx context.Context, org *model.Organization) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if org == nil {
		return fmt.Errorf("%w: org", ErrNilParameter)
	}
	if err := validateString(org.ID, "org.ID"); err != nil {
		return err
	}
	if err := validateString(org.Name, "org.Name"); err != nil {
		return err
	}

	now := time.Now().UTC()
	createdAt := org.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO organizations (id, name, sector, country, currency, employees, annual_revenue, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			sector = excluded.sector,
			country = excluded.country,
			currency = excluded.currency,
			employees = excluded.employees,
			annual_revenue = excluded.annual_revenue,
			updated_at = excluded.updated_at`,
		org.ID, org.Name, string(org.Sector), org.Country, org.Currency,
		org.Employees, org.AnnualRevenue, createdAt, now)
	if err != nil {
		return fmt.Errorf("failed to save organization %s: %w", org.ID, err)
	}

	org.CreatedAt = createdAt
	org.UpdatedAt = now
	return nil
}

// GetOrganization fetches one organization by id.
func (s *SQLiteStorage) GetOrganization(ctx context.Context, id string) (*model.Organization, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, sector, country, currency, employees, annual_revenue, created_at, updated_at
		FROM organizations WHERE id = ?`, id)

	org, err := scanOrganization(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", common.ErrOrganizationNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return org, nil
}

// ListOrganizations lists every organization by name.
func (s *SQLiteStorage) ListOrganizations(ctx context.Context) ([]model.Organization, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, sector, country, currency, employees, annual_revenue, created_at, updated_at
		FROM organizations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query organizations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var orgs []model.Organization
	for rows.Next() {
		org, scanErr := scanOrganization(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", scanErr)
		}
		orgs = append(orgs, *org)
	}
	return orgs, rows.Err()
}

func scanOrganization(row rowScanner) (*model.Organization, error) {
	var o model.Organization
	var sector string

	if err := row.Scan(&o.ID, &o.Name, &sector, &o.Country, &o.Currency,
		&o.Employees, &o.AnnualRevenue, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Sector = model.Sector(sector)
	return &o, nil
}
