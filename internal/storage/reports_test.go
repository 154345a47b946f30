package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kameltalbi/Carboscan-mobile/internal/common"
	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
)

func createTestReport(id, orgID string, generatedAt time.Time) *model.Report {
	return &model.Report{
		ID:             id,
		OrganizationID: orgID,
		PeriodStart:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:      time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		GeneratedAt:    generatedAt,
		Status:         model.StatusDraft,
		TotalKgCo2e:    1234.5,
		Scope1Kg:       200,
		Scope2Kg:       34.5,
		Scope3Kg:       1000,
		TotalSpending:  25000,
		AverageRatioByScope: map[model.Scope]float64{
			model.ScopeDirect:     0.008,
			model.ScopeValueChain: 0.04,
		},
		TopCategories: []model.CategoryBreakdown{
			{Category: "SERVICES_CLOUD", KgCo2e: 600, Percentage: 48.6},
			{Category: "VEHICULE_ENTREPRISE_ESSENCE", KgCo2e: 200, Percentage: 16.2},
		},
		TopSuppliers: []model.SupplierBreakdown{
			{SupplierName: "AWS", TotalSpending: 12000, TotalKgCo2e: 600, CarbonIntensity: 0.05, TransactionCount: 12},
		},
		ReductionPlan: []model.ReductionAction{
			{Title: "Optimiser le cloud", Difficulty: "Moyen", PotentialSavingKg: 180},
		},
	}
}

func TestSaveAndGetReport(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	report := createTestReport("rep-1", "org-1", time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, store.SaveReport(ctx, report))

	got, err := store.GetReport(ctx, "rep-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, got.Status)
	assert.InDelta(t, 1234.5, got.TotalKgCo2e, 1e-9)
	require.Len(t, got.TopCategories, 2)
	assert.Equal(t, "SERVICES_CLOUD", got.TopCategories[0].Category)
	require.Len(t, got.TopSuppliers, 1)
	assert.Equal(t, 12, got.TopSuppliers[0].TransactionCount)
	require.Len(t, got.ReductionPlan, 1)
	assert.InDelta(t, 0.04, got.AverageRatioByScope[model.ScopeValueChain], 1e-9)

	_, err = store.GetReport(ctx, "rep-missing")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestLatestReportForOrganization(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	base := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveReport(ctx, createTestReport("rep-1", "org-1", base)))
	require.NoError(t, store.SaveReport(ctx, createTestReport("rep-2", "org-1", base.Add(time.Hour))))
	require.NoError(t, store.SaveReport(ctx, createTestReport("rep-3", "org-2", base.Add(2*time.Hour))))

	got, err := store.LatestReportForOrganization(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, "rep-2", got.ID)

	_, err = store.LatestReportForOrganization(ctx, "org-9")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestUpdateReportStatus(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	report := createTestReport("rep-1", "org-1", time.Now().UTC())
	require.NoError(t, store.SaveReport(ctx, report))

	require.NoError(t, store.UpdateReportStatus(ctx, "rep-1", model.StatusSigned))

	got, err := store.GetReport(ctx, "rep-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusSigned, got.Status)

	err = store.UpdateReportStatus(ctx, "rep-missing", model.StatusSigned)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestSaveAndGetOrganization(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	org := createTestOrganization("org-1")
	require.NoError(t, store.SaveOrganization(ctx, org))
	assert.False(t, org.CreatedAt.IsZero())

	got, err := store.GetOrganization(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, "Test SARL", got.Name)
	assert.Equal(t, model.SectorTech, got.Sector)

	// Upsert updates in place.
	org.Employees = 20
	require.NoError(t, store.SaveOrganization(ctx, org))

	got, err = store.GetOrganization(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, 20, got.Employees)

	orgs, err := store.ListOrganizations(ctx)
	require.NoError(t, err)
	assert.Len(t, orgs, 1)

	_, err = store.GetOrganization(ctx, "org-missing")
	assert.True(t, errors.Is(err, common.ErrOrganizationNotFound))
}
