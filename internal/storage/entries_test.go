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

func TestSaveAndGetEntries(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	entries := createTestEntries("org-1", 5)
	for i := range entries {
		require.NoError(t, store.SaveEntry(ctx, &entries[i]))
	}

	got, err := store.GetEntriesByOrganization(ctx, "org-1")
	require.NoError(t, err)
	assert.Len(t, got, 5)

	// Round-trip fidelity on one row.
	first := got[len(got)-1]
	assert.Equal(t, "entry-001", first.ID)
	assert.Equal(t, "SERVICES_CLOUD", first.Category)
	assert.Equal(t, model.ScopeValueChain, first.Scope)
	assert.Equal(t, model.ProvenanceDictionary, first.Provenance)
	assert.InDelta(t, 10.50*0.05, first.KgCo2e, 1e-9)
}

func TestGetEntriesByPeriod(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	entries := createTestEntries("org-1", 10)
	for i := range entries {
		require.NoError(t, store.SaveEntry(ctx, &entries[i]))
	}

	start := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)

	got, err := store.GetEntriesByPeriod(ctx, "org-1", start, end)
	require.NoError(t, err)
	assert.Len(t, got, 4, "period bounds are inclusive")

	_, err = store.GetEntriesByPeriod(ctx, "org-1", end, start)
	assert.True(t, errors.Is(err, ErrInvalidDateRange))
}

func TestGetLowConfidenceEntries(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	confidences := []model.Confidence{0.95, 0.50, 0.72, 0.90}
	for i, c := range confidences {
		entry := createTestEntries("org-1", i+1)[i]
		entry.Confidence = c
		require.NoError(t, store.SaveEntry(ctx, &entry))
	}

	got, err := store.GetLowConfidenceEntries(ctx, "org-1", 0.90)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.Confidence(0.50), got[0].Confidence, "lowest confidence first")
	assert.Equal(t, model.Confidence(0.72), got[1].Confidence)
}

func TestDeleteEntry(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	entries := createTestEntries("org-1", 1)
	require.NoError(t, store.SaveEntry(ctx, &entries[0]))

	require.NoError(t, store.DeleteEntry(ctx, entries[0].ID))

	err := store.DeleteEntry(ctx, entries[0].ID)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestSaveEntryDuplicateID(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	entry := createTestEntries("org-1", 1)[0]
	require.NoError(t, store.SaveEntry(ctx, &entry))

	err := store.SaveEntry(ctx, &entry)
	assert.True(t, errors.Is(err, common.ErrDuplicateEntry))
}

func TestSaveEntryValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	entry := createTestEntries("org-1", 1)[0]
	entry.ID = ""
	assert.Error(t, store.SaveEntry(ctx, &entry))

	entry = createTestEntries("org-1", 1)[0]
	entry.Confidence = 1.5
	assert.Error(t, store.SaveEntry(ctx, &entry))

	entry = createTestEntries("org-1", 1)[0]
	entry.Scope = "SCOPE9"
	assert.Error(t, store.SaveEntry(ctx, &entry))
}
