package report

import (
	"context"
	"fmt"

	"github.com/Kameltalbi/Carboscan-mobile/internal/entries"
)

// Stats is the all-time dashboard summary for one organization.
type Stats struct {
	OrganizationID     string
	TotalKgCo2e        float64
	TotalSpending      float64
	CarbonIntensity    float64
	SectorBenchmark    float64
	EntryCount         int
	LowConfidenceCount int // entries below the review threshold
}

// AboveBenchmark reports whether the organization emits more per euro of
// revenue than its sector reference.
func (s *Stats) AboveBenchmark() bool {
	return s.CarbonIntensity > s.SectorBenchmark
}

// OrganizationStats summarizes all of an organization's entries, regardless
// of period. The low-confidence count uses the same threshold as the review
// queue so the dashboard number matches what 'entries review' lists.
func (g *Generator) OrganizationStats(ctx context.Context, organizationID string) (*Stats, error) {
	org, err := g.store.GetOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	all, err := g.store.GetEntriesByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}

	stats := &Stats{
		OrganizationID:  org.ID,
		SectorBenchmark: org.Sector.BenchmarkKgCo2ePerEuro(),
		EntryCount:      len(all),
	}
	for i := range all {
		stats.TotalKgCo2e += all[i].KgCo2e
		stats.TotalSpending += all[i].Amount
		if all[i].Confidence < entries.ReviewThreshold {
			stats.LowConfidenceCount++
		}
	}
	stats.CarbonIntensity = org.CarbonIntensity(stats.TotalKgCo2e)
	return stats, nil
}
