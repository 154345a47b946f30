package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kameltalbi/Carboscan-mobile/internal/catalog"
	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
	"github.com/Kameltalbi/Carboscan-mobile/internal/storage"
)

func createTestEngine(t *testing.T) (*Engine, *storage.SQLiteStorage, *model.Organization) {
	t.Helper()
	ctx := context.Background()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, catalog.Seed(ctx, store))
	require.NoError(t, catalog.SeedDictionary(ctx, store))

	org := &model.Organization{
		ID:       "org-1",
		Name:     "Test SARL",
		Country:  "FR",
		Currency: "EUR",
		Sector:   model.SectorTech,
	}
	require.NoError(t, store.SaveOrganization(ctx, org))

	return New(store, store, store), store, org
}

func TestClassifyDictionaryMatch(t *testing.T) {
	eng, _, org := createTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		label      string
		category   string
		scope      model.Scope
		confidence model.Confidence
		amount     float64
	}{
		{"PAIEMENT CB SHELL STATION 75011", "VEHICULE_ENTREPRISE_ESSENCE", model.ScopeDirect, 0.90, 85.50},
		{"AWS EMEA FACTURE 03/2024", "SERVICES_CLOUD", model.ScopeValueChain, 0.95, 1240.00},
		{"AIR FRANCE VOL AF1234", "DEPLACEMENT_AVION_LONG", model.ScopeValueChain, 0.95, 450.00},
		{"SNCF BILLET TGV PARIS LYON", "DEPLACEMENT_TRAIN", model.ScopeValueChain, 0.95, 89.00},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			suggestion, err := eng.Classify(ctx, org, tt.label, tt.amount)
			require.NoError(t, err)
			require.NotNil(t, suggestion)

			assert.Equal(t, tt.category, suggestion.Category)
			assert.Equal(t, tt.scope, suggestion.Scope)
			assert.Equal(t, tt.confidence, suggestion.Confidence)
			assert.Equal(t, model.ProvenanceDictionary, suggestion.Provenance)
			assert.Contains(t, suggestion.Rationale, "exact match")
			require.NotNil(t, suggestion.Factor)
			assert.Equal(t, tt.category, suggestion.Factor.ID)
		})
	}
}

func TestClassifyFirstMatchWinsInInsertionOrder(t *testing.T) {
	eng, _, org := createTestEngine(t)
	ctx := context.Background()

	// "TOTAL STATION" contains both "total" and "station service" material;
	// "total" was seeded first, so the diesel rule wins.
	suggestion, err := eng.Classify(ctx, org, "TOTAL STATION A6", 60.00)
	require.NoError(t, err)
	require.NotNil(t, suggestion)
	assert.Equal(t, "VEHICULE_ENTREPRISE_DIESEL", suggestion.Category)
	assert.Equal(t, "exact match: 'total'", suggestion.Rationale)
}

func TestClassifyIncrementsRuleUsage(t *testing.T) {
	eng, store, org := createTestEngine(t)
	ctx := context.Background()

	_, err := eng.Classify(ctx, org, "UBER TRIP PARIS", 18.40)
	require.NoError(t, err)

	rule, err := store.FindRuleByKeyword(ctx, "uber")
	require.NoError(t, err)
	assert.Equal(t, 1, rule.UsageCount)
}

func TestClassifySemanticFallback(t *testing.T) {
	eng, _, org := createTestEngine(t)
	ctx := context.Background()

	// No dictionary keyword, but invoice wording plus an electricity fragment.
	suggestion, err := eng.Classify(ctx, org, "FACTURE ELECT 2024-117", 230.00)
	require.NoError(t, err)
	require.NotNil(t, suggestion)
	assert.Equal(t, "ELECTRICITE_LOCAUX", suggestion.Category)
	assert.Equal(t, model.ScopeEnergyIndirect, suggestion.Scope)
	assert.Equal(t, model.Confidence(0.85), suggestion.Confidence)
	assert.Equal(t, model.ProvenanceSemantic, suggestion.Provenance)
}

func TestClassifyTravelSemanticsByAmount(t *testing.T) {
	eng, _, org := createTestEngine(t)
	ctx := context.Background()

	small, err := eng.Classify(ctx, org, "REMBOURSEMENT VOYAGE 2024", 120.00)
	require.NoError(t, err)
	require.NotNil(t, small)
	assert.Equal(t, "DEPLACEMENT_TRAIN", small.Category)

	large, err := eng.Classify(ctx, org, "REMBOURSEMENT VOYAGE 2024", 850.00)
	require.NoError(t, err)
	require.NotNil(t, large)
	assert.Equal(t, "DEPLACEMENT_AVION_LONG", large.Category)
}

func TestClassifyAmountBucketFallback(t *testing.T) {
	eng, _, org := createTestEngine(t)
	ctx := context.Background()

	suggestion, err := eng.Classify(ctx, org, "VIREMENT 42-00", 42.00)
	require.NoError(t, err)
	require.NotNil(t, suggestion)
	assert.Equal(t, "VEHICULE_ENTREPRISE_ESSENCE", suggestion.Category)
	assert.Equal(t, model.Confidence(0.50), suggestion.Confidence)
	assert.Equal(t, model.ScopeValueChain, suggestion.Scope, "amount buckets always land in scope 3")
	assert.Equal(t, model.ProvenanceAmountHeuristic, suggestion.Provenance)
	assert.False(t, suggestion.Confidence.ShouldAutoApply())
}

func TestClassifyLargeAmountBuckets(t *testing.T) {
	eng, _, org := createTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		label    string
		category string
		amount   float64
		want     model.Confidence
	}{
		{"ACHAT XZY-99", "PRESTATIONS_EXTERNES", 9000, 0.60},
		{"ACHAT XZY-99", "PRESTATIONS_EXTERNES", 1200, 0.55},
	}
	for _, tt := range tests {
		suggestion, err := eng.Classify(ctx, org, tt.label, tt.amount)
		require.NoError(t, err)
		require.NotNil(t, suggestion)
		assert.Equal(t, tt.category, suggestion.Category)
		assert.Equal(t, tt.want, suggestion.Confidence)
	}
}

func TestClassifyNothingMatches(t *testing.T) {
	eng, _, org := createTestEngine(t)
	ctx := context.Background()

	// Zero amount disables the bucket stage.
	suggestion, err := eng.Classify(ctx, org, "XZQJW", 0)
	require.NoError(t, err)
	assert.Nil(t, suggestion)

	suggestion, err = eng.Classify(ctx, org, "   ", 100)
	require.NoError(t, err)
	assert.Nil(t, suggestion)
}

func TestLearnedCorrectionBeatsDictionary(t *testing.T) {
	eng, _, org := createTestEngine(t)
	ctx := context.Background()

	err := eng.LearnFromCorrection(ctx, org, "Station ABC", "VEHICULE_ENTREPRISE_ESSENCE", "PRESTATIONS_EXTERNES", 45.00)
	require.NoError(t, err)

	suggestion, err := eng.Classify(ctx, org, "STATION ABC PARIS", 45.00)
	require.NoError(t, err)
	require.NotNil(t, suggestion)
	assert.Equal(t, "PRESTATIONS_EXTERNES", suggestion.Category)
	assert.Equal(t, LearnedConfidence, suggestion.Confidence)
	assert.Equal(t, model.ProvenanceLearned, suggestion.Provenance)
	assert.Equal(t, "learned from prior correction", suggestion.Rationale)
}

func TestLearnFromCorrectionIgnoresAgreement(t *testing.T) {
	eng, store, org := createTestEngine(t)
	ctx := context.Background()

	err := eng.LearnFromCorrection(ctx, org, "UBER TRIP", "TAXI_VTC", "TAXI_VTC", 18.40)
	require.NoError(t, err)

	records, err := store.RecentCorrections(ctx, org.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, records, "confirming a suggestion teaches nothing")
}

func TestClassifyBatch(t *testing.T) {
	eng, _, org := createTestEngine(t)
	ctx := context.Background()

	labels := []string{"SHELL STATION", "XZQJW", "OVH HEBERGEMENT"}
	amounts := []float64{60, 0, 45}

	suggestions, err := eng.ClassifyBatch(ctx, org, labels, amounts)
	require.NoError(t, err)
	require.Len(t, suggestions, 3)
	assert.Equal(t, "VEHICULE_ENTREPRISE_ESSENCE", suggestions[0].Category)
	assert.Nil(t, suggestions[1])
	assert.Equal(t, "SERVICES_CLOUD", suggestions[2].Category)

	_, err = eng.ClassifyBatch(ctx, org, labels, amounts[:2])
	assert.Error(t, err)
}

func TestAutoApplyBoundary(t *testing.T) {
	assert.True(t, model.Confidence(0.90).ShouldAutoApply())
	assert.True(t, model.Confidence(0.95).ShouldAutoApply())
	assert.False(t, model.Confidence(0.899).ShouldAutoApply())
}
