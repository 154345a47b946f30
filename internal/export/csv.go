// Package export writes entries and reports as CSV for spreadsheets and
// auditors.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
)

// WriteEntries writes classified entries as CSV.
func WriteEntries(w io.Writer, entries []model.Entry) error {
	cw := csv.NewWriter(w)

	header := []string{
		"id", "date", "label", "supplier", "category", "scope",
		"amount", "original_amount", "original_currency", "exchange_rate",
		"factor_kg_co2e", "kg_co2e", "confidence", "provenance", "note",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range entries {
		e := &entries[i]
		record := []string{
			e.ID,
			e.Date.Format("2006-01-02"),
			e.TransactionLabel,
			e.SupplierName,
			e.Category,
			string(e.Scope),
			formatFloat(e.Amount),
			formatFloat(e.OriginalAmount),
			e.OriginalCurrency,
			formatFloat(e.ExchangeRate),
			formatFloat(e.FactorKgCo2e),
			formatFloat(e.KgCo2e),
			formatFloat(float64(e.Confidence)),
			string(e.Provenance),
			e.Note,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write entry %s: %w", e.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteReport writes a report as sectioned CSV: totals, then the category
// breakdown, then suppliers, then the reduction plan.
func WriteReport(w io.Writer, report *model.Report) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"report_id", report.ID},
		{"organization_id", report.OrganizationID},
		{"period_start", report.PeriodStart.Format("2006-01-02")},
		{"period_end", report.PeriodEnd.Format("2006-01-02")},
		{"status", string(report.Status)},
		{"total_kg_co2e", formatFloat(report.TotalKgCo2e)},
		{"scope1_kg", formatFloat(report.Scope1Kg)},
		{"scope2_kg", formatFloat(report.Scope2Kg)},
		{"scope3_kg", formatFloat(report.Scope3Kg)},
		{"total_spending", formatFloat(report.TotalSpending)},
		{"carbon_intensity", formatFloat(report.CarbonIntensity)},
		{},
		{"category", "kg_co2e", "percentage"},
	}
	for _, line := range report.TopCategories {
		rows = append(rows, []string{line.Category, formatFloat(line.KgCo2e), formatFloat(line.Percentage)})
	}

	rows = append(rows, []string{}, []string{"supplier", "total_spending", "total_kg_co2e", "carbon_intensity", "transactions"})
	for _, line := range report.TopSuppliers {
		rows = append(rows, []string{
			line.SupplierName,
			formatFloat(line.TotalSpending),
			formatFloat(line.TotalKgCo2e),
			formatFloat(line.CarbonIntensity),
			strconv.Itoa(line.TransactionCount),
		})
	}

	rows = append(rows, []string{}, []string{"action", "difficulty", "potential_saving_kg_co2e", "potential_saving_euro"})
	for _, action := range report.ReductionPlan {
		rows = append(rows, []string{
			action.Title,
			action.Difficulty,
			formatFloat(action.PotentialSavingKg),
			formatFloat(action.PotentialSavingEuro),
		})
	}

	for _, row := range rows {
		if len(row) == 0 {
			row = []string{""}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
