package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Kameltalbi/Carboscan-mobile/internal/common"
	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
)

const reportColumns = `id, organization_id, period_start, period_end, generated_at, status,
	total_kg_co2e, scope1_kg, scope2_kg, scope3_kg, total_spending, carbon_intensity,
	avg_ratio_by_scope, top_categories, top_suppliers, reduction_plan`

// SaveReport upserts a generated report snapshot. Breakdown slices are stored
// as JSON columns; they are read back whole, never queried into.
func (s *SQLiteStorage) SaveReport(ctx context.Context, report *model.Report) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if report == nil {
		return fmt.Errorf("%w: report", ErrNilParameter)
	}
	if err := validateString(report.ID, "report.ID"); err != nil {
		return err
	}
	if err := validateString(report.OrganizationID, "report.OrganizationID"); err != nil {
		return err
	}

	ratios, err := json.Marshal(report.AverageRatioByScope)
	if err != nil {
		return fmt.Errorf("failed to marshal scope ratios: %w", err)
	}
	categories, err := json.Marshal(report.TopCategories)
	if err != nil {
		return fmt.Errorf("failed to marshal category breakdown: %w", err)
	}
	suppliers, err := json.Marshal(report.TopSuppliers)
	if err != nil {
		return fmt.Errorf("failed to marshal supplier breakdown: %w", err)
	}
	plan, err := json.Marshal(report.ReductionPlan)
	if err != nil {
		return fmt.Errorf("failed to marshal reduction plan: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (`+reportColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			period_start = excluded.period_start,
			period_end = excluded.period_end,
			generated_at = excluded.generated_at,
			status = excluded.status,
			total_kg_co2e = excluded.total_kg_co2e,
			scope1_kg = excluded.scope1_kg,
			scope2_kg = excluded.scope2_kg,
			scope3_kg = excluded.scope3_kg,
			total_spending = excluded.total_spending,
			carbon_intensity = excluded.carbon_intensity,
			avg_ratio_by_scope = excluded.avg_ratio_by_scope,
			top_categories = excluded.top_categories,
			top_suppliers = excluded.top_suppliers,
			reduction_plan = excluded.reduction_plan`,
		report.ID, report.OrganizationID, report.PeriodStart, report.PeriodEnd,
		report.GeneratedAt, string(report.Status),
		report.TotalKgCo2e, report.Scope1Kg, report.Scope2Kg, report.Scope3Kg,
		report.TotalSpending, report.CarbonIntensity,
		string(ratios), string(categories), string(suppliers), string(plan))
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", report.ID, err)
	}
	return nil
}

// GetReport fetches one report by id.
func (s *SQLiteStorage) GetReport(ctx context.Context, id string) (*model.Report, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)

	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: report %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return report, nil
}

// LatestReportForOrganization fetches an organization's most recently
// generated report.
func (s *SQLiteStorage) LatestReportForOrganization(ctx context.Context, organizationID string) (*model.Report, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(organizationID, "organizationID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+reportColumns+` FROM reports
		WHERE organization_id = ?
		ORDER BY generated_at DESC
		LIMIT 1`, organizationID)

	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no report for organization %s", common.ErrNotFound, organizationID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest report: %w", err)
	}
	return report, nil
}

// UpdateReportStatus moves a report through its verification lifecycle.
func (s *SQLiteStorage) UpdateReportStatus(ctx context.Context, id string, status model.VerificationStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `UPDATE reports SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update report status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: report %s", common.ErrNotFound, id)
	}
	return nil
}

func scanReport(row rowScanner) (*model.Report, error) {
	var r model.Report
	var status string
	var ratios, categories, suppliers, plan sql.NullString

	if err := row.Scan(&r.ID, &r.OrganizationID, &r.PeriodStart, &r.PeriodEnd,
		&r.GeneratedAt, &status,
		&r.TotalKgCo2e, &r.Scope1Kg, &r.Scope2Kg, &r.Scope3Kg,
		&r.TotalSpending, &r.CarbonIntensity,
		&ratios, &categories, &suppliers, &plan); err != nil {
		return nil, err
	}

	r.Status = model.VerificationStatus(status)
	if ratios.Valid && ratios.String != "" {
		if err := json.Unmarshal([]byte(ratios.String), &r.AverageRatioByScope); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scope ratios: %w", err)
		}
	}
	if categories.Valid && categories.String != "" {
		if err := json.Unmarshal([]byte(categories.String), &r.TopCategories); err != nil {
			return nil, fmt.Errorf("failed to unmarshal category breakdown: %w", err)
		}
	}
	if suppliers.Valid && suppliers.String != "" {
		if err := json.Unmarshal([]byte(suppliers.String), &r.TopSuppliers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal supplier breakdown: %w", err)
		}
	}
	if plan.Valid && plan.String != "" {
		if err := json.Unmarshal([]byte(plan.String), &r.ReductionPlan); err != nil {
			return nil, fmt.Errorf("failed to unmarshal reduction plan: %w", err)
		}
	}
	return &r, nil
}
