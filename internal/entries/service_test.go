package entries

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kameltalbi/Carboscan-mobile/internal/common"
	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
)

type fakeStore struct {
	categories map[string]*model.Category
	saved      []model.Entry
	deleted    []string
	lowConf    []model.Entry
	lastBelow  model.Confidence
}

func (s *fakeStore) GetCategory(_ context.Context, id, _ string) (*model.Category, error) {
	if category, ok := s.categories[id]; ok {
		return category, nil
	}
	return nil, fmt.Errorf("%w: %s", common.ErrNotFound, id)
}

func (s *fakeStore) SaveEntry(_ context.Context, entry *model.Entry) error {
	s.saved = append(s.saved, *entry)
	return nil
}

func (s *fakeStore) GetLowConfidenceEntries(_ context.Context, _ string, below model.Confidence) ([]model.Entry, error) {
	s.lastBelow = below
	return s.lowConf, nil
}

func (s *fakeStore) DeleteEntry(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type fakeNormalizer struct {
	rate     float64
	degraded bool
}

func (n *fakeNormalizer) Convert(_ context.Context, amount float64, from, to string) (model.Conversion, error) {
	conversion := model.Conversion{
		FromCurrency:    from,
		ToCurrency:      to,
		OriginalAmount:  amount,
		ConvertedAmount: amount * n.rate,
		Rate:            n.rate,
		Source:          model.ConversionDirect,
	}
	if n.degraded {
		conversion.Source = model.ConversionFallback
		conversion.Err = "live fetch failed, rate from 2024-05-01"
	}
	return conversion, nil
}

func testOrg() *model.Organization {
	return &model.Organization{
		ID:       "org-1",
		Name:     "Test SARL",
		Country:  "FR",
		Currency: "EUR",
	}
}

func createTestService(normalizer Normalizer) (*Service, *fakeStore) {
	store := &fakeStore{categories: map[string]*model.Category{
		"SERVICES_CLOUD": {ID: "SERVICES_CLOUD", Unit: "€", FactorKgCo2e: 0.05, Scope: model.ScopeValueChain, Source: "ADEME"},
	}}
	return NewService(store, normalizer), store
}

func TestAddManualEntry(t *testing.T) {
	service, store := createTestService(&fakeNormalizer{rate: 1.0})

	entry, err := service.AddManualEntry(context.Background(), testOrg(), ManualEntry{
		Date:         time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Label:        "OVH FACTURE MARS",
		SupplierName: "OVH",
		Category:     "SERVICES_CLOUD",
		Amount:       120,
	})
	require.NoError(t, err)
	require.Len(t, store.saved, 1)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "org-1", entry.OrganizationID)
	assert.Equal(t, "SERVICES_CLOUD", entry.Category)
	assert.Equal(t, model.ScopeValueChain, entry.Scope)
	assert.InDelta(t, 120*0.05, entry.KgCo2e, 1e-9)
	assert.Equal(t, model.Confidence(1.0), entry.Confidence)
	assert.Equal(t, model.ProvenanceManual, entry.Provenance)
	assert.Equal(t, "EUR", entry.OriginalCurrency, "defaults to the organization's currency")
	assert.InDelta(t, 0.05, entry.CarbonIntensity, 1e-9)
}

func TestAddManualEntryUnknownCategory(t *testing.T) {
	service, store := createTestService(&fakeNormalizer{rate: 1.0})

	_, err := service.AddManualEntry(context.Background(), testOrg(), ManualEntry{
		Date:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Label:    "MYSTERE",
		Category: "CATEGORIE_INCONNUE",
		Amount:   50,
	})
	require.ErrorIs(t, err, common.ErrMissingEmissionFactor)
	assert.Empty(t, store.saved)
}

func TestAddManualEntryValidation(t *testing.T) {
	service, _ := createTestService(&fakeNormalizer{rate: 1.0})
	ctx := context.Background()
	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := service.AddManualEntry(ctx, nil, ManualEntry{Date: date, Label: "X", Category: "SERVICES_CLOUD"})
	assert.Error(t, err)

	_, err = service.AddManualEntry(ctx, testOrg(), ManualEntry{Date: date, Category: "SERVICES_CLOUD"})
	assert.Error(t, err)

	_, err = service.AddManualEntry(ctx, testOrg(), ManualEntry{Date: date, Label: "X"})
	assert.Error(t, err)

	_, err = service.AddManualEntry(ctx, testOrg(), ManualEntry{Label: "X", Category: "SERVICES_CLOUD"})
	assert.Error(t, err)
}

func TestAddManualEntryRecordsDegradedConversion(t *testing.T) {
	service, store := createTestService(&fakeNormalizer{rate: 1.1, degraded: true})

	entry, err := service.AddManualEntry(context.Background(), testOrg(), ManualEntry{
		Date:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Label:    "AWS INVOICE",
		Category: "SERVICES_CLOUD",
		Currency: "USD",
		Amount:   100,
	})
	require.NoError(t, err)
	require.Len(t, store.saved, 1)

	assert.Equal(t, "USD", entry.OriginalCurrency)
	assert.InDelta(t, 110, entry.Amount, 1e-9)
	assert.Contains(t, entry.Note, "live fetch failed")
}

func TestReviewQueueUsesThreshold(t *testing.T) {
	service, store := createTestService(&fakeNormalizer{rate: 1.0})
	store.lowConf = []model.Entry{{ID: "e-1", Confidence: 0.50}}

	got, err := service.ReviewQueue(context.Background(), "org-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ReviewThreshold, store.lastBelow)
}

func TestDelete(t *testing.T) {
	service, store := createTestService(&fakeNormalizer{rate: 1.0})

	require.NoError(t, service.Delete(context.Background(), "e-42"))
	assert.Equal(t, []string{"e-42"}, store.deleted)
}
