package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
)

func TestWriteEntries(t *testing.T) {
	entries := []model.Entry{
		{
			ID:               "e1",
			Date:             time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			TransactionLabel: "PAIEMENT CB SHELL, 75011",
			SupplierName:     "Shell",
			Category:         "VEHICULE_ENTREPRISE_ESSENCE",
			Scope:            model.ScopeDirect,
			Amount:           85.5,
			OriginalAmount:   85.5,
			OriginalCurrency: "EUR",
			ExchangeRate:     1,
			FactorKgCo2e:     0.218,
			KgCo2e:           18.639,
			Confidence:       0.9,
			Provenance:       model.ProvenanceDictionary,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteEntries(&buf, entries))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "id", records[0][0])
	assert.Equal(t, "e1", records[1][0])
	assert.Equal(t, "2024-03-01", records[1][1])
	assert.Equal(t, "PAIEMENT CB SHELL, 75011", records[1][2], "embedded commas survive quoting")
	assert.Equal(t, "18.639", records[1][11])
}

func TestWriteReport(t *testing.T) {
	report := &model.Report{
		ID:             "rep-1",
		OrganizationID: "org-1",
		PeriodStart:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:      time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Status:         model.StatusDraft,
		TotalKgCo2e:    271.4,
		Scope1Kg:       109,
		Scope2Kg:       62.4,
		Scope3Kg:       100,
		TotalSpending:  4700,
		TopCategories: []model.CategoryBreakdown{
			{Category: "SERVICES_CLOUD", KgCo2e: 100, Percentage: 36.8},
		},
		TopSuppliers: []model.SupplierBreakdown{
			{SupplierName: "AWS", TotalSpending: 2400, TotalKgCo2e: 100, CarbonIntensity: 0.0417, TransactionCount: 2},
		},
		ReductionPlan: []model.ReductionAction{
			{Title: "Optimiser l'infrastructure cloud", Difficulty: "Moyen", PotentialSavingKg: 30, PotentialSavingEuro: 1.5},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, report))

	out := buf.String()
	assert.Contains(t, out, "report_id,rep-1")
	assert.Contains(t, out, "total_kg_co2e,271.4")
	assert.Contains(t, out, "SERVICES_CLOUD,100,36.8")
	assert.Contains(t, out, "AWS,2400,100,0.0417,2")
	assert.Contains(t, out, "Optimiser l'infrastructure cloud,Moyen,30,1.5")
}
