package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
	"github.com/Kameltalbi/Carboscan-mobile/internal/storage"
)

func createTestStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestFranceCatalogShape(t *testing.T) {
	categories := CategoriesForCountry("FR")
	assert.Len(t, categories, 22)

	byID := make(map[string]model.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
		assert.True(t, c.Scope.Valid(), c.ID)
		assert.Positive(t, c.FactorKgCo2e, c.ID)
		assert.Equal(t, "FR", c.Country)
	}

	assert.InDelta(t, 0.052, byID["ELECTRICITE_LOCAUX"].FactorKgCo2e, 1e-9)
	assert.InDelta(t, 0.218, byID["VEHICULE_ENTREPRISE_ESSENCE"].FactorKgCo2e, 1e-9)
	assert.Equal(t, model.ScopeEnergyIndirect, byID["ELECTRICITE_LOCAUX"].Scope)
	assert.Equal(t, model.ScopeValueChain, byID["SERVICES_CLOUD"].Scope)
}

func TestUnknownCountryFallsBackToFrance(t *testing.T) {
	categories := CategoriesForCountry("BR")
	assert.Len(t, categories, 22)
	assert.Equal(t, "FR", categories[0].Country)
}

func TestCountrySpecificFactors(t *testing.T) {
	us := CategoriesForCountry("US")
	require.NotEmpty(t, us)
	var found bool
	for _, c := range us {
		if c.ID == "ELECTRICITE_LOCAUX" {
			assert.InDelta(t, 0.385, c.FactorKgCo2e, 1e-9)
			assert.Equal(t, "US", c.Country)
			found = true
		}
	}
	assert.True(t, found)
}

func TestKeywordsFromLabel(t *testing.T) {
	keywords := keywordsFromLabel("Déplacement avion court-courrier")
	assert.Equal(t, []string{"déplacement", "avion", "court", "courrier"}, keywords)

	// Short fragments are dropped.
	assert.Equal(t, []string{"taxi", "vtc"}, keywordsFromLabel("Taxi / VTC"))
}

func TestSeedIsIdempotent(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, store))
	count, err := store.CategoryCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 22, count)

	// Second seed must not duplicate or overwrite.
	require.NoError(t, Seed(ctx, store))
	count, err = store.CategoryCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 22, count)
}

func TestSeedDictionaryPreservesOrder(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, SeedDictionary(ctx, store))

	rules, err := store.ListRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, DictionarySize())

	// Declaration order survives the round trip.
	assert.Equal(t, "edf", rules[0].Keyword)
	for i, seed := range dictionaryRules {
		assert.Equal(t, seed.keyword, rules[i].Keyword)
		assert.False(t, rules[i].IsLearned)
		assert.Equal(t, "ALL", rules[i].Country)
	}

	// Reseeding inserts nothing new.
	require.NoError(t, SeedDictionary(ctx, store))
	count, err := store.RuleCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, DictionarySize(), count)
}
