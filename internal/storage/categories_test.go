package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kameltalbi/Carboscan-mobile/internal/common"
	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
)

func testCategories() []model.Category {
	return []model.Category{
		{
			ID:           "SERVICES_CLOUD",
			Country:      "FR",
			Label:        "Services cloud",
			Scope:        model.ScopeValueChain,
			Unit:         "€",
			FactorKgCo2e: 0.05,
			Source:       "ADEME Base Carbone 2024",
			Keywords:     []string{"services", "cloud"},
		},
		{
			ID:           "ELECTRICITE_LOCAUX",
			Country:      "FR",
			Label:        "Électricité locaux",
			Scope:        model.ScopeEnergyIndirect,
			Unit:         "kWh",
			FactorKgCo2e: 0.052,
			Source:       "ADEME Base Carbone 2024",
		},
	}
}

func TestSaveAndGetCategories(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.SaveCategories(ctx, testCategories()))

	got, err := store.GetCategory(ctx, "SERVICES_CLOUD", "FR")
	require.NoError(t, err)
	assert.InDelta(t, 0.05, got.FactorKgCo2e, 1e-9)
	assert.Equal(t, []string{"services", "cloud"}, got.Keywords)

	count, err := store.CategoryCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = store.GetCategory(ctx, "UNKNOWN", "FR")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestGetCategoryFallsBackToReferenceCountry(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.SaveCategories(ctx, testCategories()))

	// No DE row for SERVICES_CLOUD, so the FR factor applies.
	got, err := store.GetCategory(ctx, "SERVICES_CLOUD", "DE")
	require.NoError(t, err)
	assert.Equal(t, "FR", got.Country)
}

func TestReplaceCategoriesForCountry(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.SaveCategories(ctx, testCategories()))

	replacement := []model.Category{
		{
			ID:           "ELECTRICITE_LOCAUX",
			Country:      "FR",
			Label:        "Électricité locaux",
			Scope:        model.ScopeEnergyIndirect,
			Unit:         "kWh",
			FactorKgCo2e: 0.048,
			Source:       "ADEME Base Carbone 2025",
		},
	}
	require.NoError(t, store.ReplaceCategoriesForCountry(ctx, "FR", replacement))

	all, err := store.GetCategoriesByCountry(ctx, "FR")
	require.NoError(t, err)
	require.Len(t, all, 1, "replacement is wholesale")
	assert.InDelta(t, 0.048, all[0].FactorKgCo2e, 1e-9)
}
