// Package report aggregates classified entries into period emission reports:
// scope totals, breakdowns, intensity metrics and a reduction plan.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
)

// topSupplierCount caps the supplier ranking. The category breakdown is
// never truncated: its percentages must cover the whole period total.
const topSupplierCount = 10

// Store is the persistence surface the generator needs.
type Store interface {
	GetOrganization(ctx context.Context, id string) (*model.Organization, error)
	GetEntriesByPeriod(ctx context.Context, organizationID string, start, end time.Time) ([]model.Entry, error)
	GetEntriesByOrganization(ctx context.Context, organizationID string) ([]model.Entry, error)
	SaveReport(ctx context.Context, report *model.Report) error
}

// Generator builds and persists emission reports.
type Generator struct {
	store Store
	newID func() string
	now   func() time.Time
}

// NewGenerator creates a report generator.
func NewGenerator(store Store) *Generator {
	return &Generator{
		store: store,
		newID: uuid.NewString,
		now:   time.Now,
	}
}

// Generate builds a report over [start, end] and persists it as a draft.
// A missing organization is a hard error; an empty period is not, it yields
// a valid all-zero report.
func (g *Generator) Generate(ctx context.Context, organizationID string, start, end time.Time) (*model.Report, error) {
	org, err := g.store.GetOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	entries, err := g.store.GetEntriesByPeriod(ctx, organizationID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}

	report := &model.Report{
		ID:             g.newID(),
		OrganizationID: org.ID,
		PeriodStart:    start,
		PeriodEnd:      end,
		GeneratedAt:    g.now().UTC(),
		Status:         model.StatusDraft,
	}

	byScope := make(map[model.Scope]float64)
	for i := range entries {
		e := &entries[i]
		report.TotalKgCo2e += e.KgCo2e
		report.TotalSpending += e.Amount
		byScope[e.Scope] += e.KgCo2e
	}
	report.Scope1Kg = byScope[model.ScopeDirect]
	report.Scope2Kg = byScope[model.ScopeEnergyIndirect]
	report.Scope3Kg = byScope[model.ScopeValueChain]

	report.CarbonIntensity = org.CarbonIntensity(report.TotalKgCo2e)
	report.AverageRatioByScope = scopeRatios(byScope, report.TotalSpending)
	report.TopCategories = categoryBreakdown(entries, report.TotalKgCo2e)
	report.TopSuppliers = supplierBreakdown(entries)
	report.ReductionPlan = reductionPlan(report.TopCategories)

	if err := g.store.SaveReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to persist report: %w", err)
	}

	slog.Info("generated emission report",
		"organization", org.ID,
		"report", report.ID,
		"entries", len(entries),
		"total_kg_co2e", report.TotalKgCo2e)
	return report, nil
}

// scopeRatios divides each scope's emissions by total period spending. A
// scope with no emissions reports zero rather than a meaningless ratio.
func scopeRatios(byScope map[model.Scope]float64, totalSpending float64) map[model.Scope]float64 {
	ratios := make(map[model.Scope]float64, 3)
	for _, scope := range []model.Scope{model.ScopeDirect, model.ScopeEnergyIndirect, model.ScopeValueChain} {
		kg := byScope[scope]
		if kg > 0 && totalSpending > 0 {
			ratios[scope] = kg / totalSpending
		} else {
			ratios[scope] = 0
		}
	}
	return ratios
}

func categoryBreakdown(entries []model.Entry, totalKg float64) []model.CategoryBreakdown {
	byCategory := make(map[string]float64)
	for i := range entries {
		if entries[i].Category == "" {
			continue
		}
		byCategory[entries[i].Category] += entries[i].KgCo2e
	}

	breakdown := make([]model.CategoryBreakdown, 0, len(byCategory))
	for category, kg := range byCategory {
		line := model.CategoryBreakdown{Category: category, KgCo2e: kg}
		if totalKg > 0 {
			line.Percentage = kg / totalKg * 100
		}
		breakdown = append(breakdown, line)
	}

	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].KgCo2e != breakdown[j].KgCo2e {
			return breakdown[i].KgCo2e > breakdown[j].KgCo2e
		}
		return breakdown[i].Category < breakdown[j].Category
	})
	return breakdown
}

func supplierBreakdown(entries []model.Entry) []model.SupplierBreakdown {
	bySupplier := make(map[string]*model.SupplierBreakdown)
	for i := range entries {
		name := strings.TrimSpace(entries[i].SupplierName)
		if name == "" {
			continue
		}
		line, ok := bySupplier[name]
		if !ok {
			line = &model.SupplierBreakdown{SupplierName: name}
			bySupplier[name] = line
		}
		line.TotalSpending += entries[i].Amount
		line.TotalKgCo2e += entries[i].KgCo2e
		line.TransactionCount++
	}

	breakdown := make([]model.SupplierBreakdown, 0, len(bySupplier))
	for _, line := range bySupplier {
		if line.TotalSpending > 0 {
			line.CarbonIntensity = line.TotalKgCo2e / line.TotalSpending
		}
		breakdown = append(breakdown, *line)
	}

	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].TotalKgCo2e != breakdown[j].TotalKgCo2e {
			return breakdown[i].TotalKgCo2e > breakdown[j].TotalKgCo2e
		}
		return breakdown[i].SupplierName < breakdown[j].SupplierName
	})
	if len(breakdown) > topSupplierCount {
		breakdown = breakdown[:topSupplierCount]
	}
	return breakdown
}
