package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

// Helper function to create test entries.
func createTestEntries(orgID string, count int) []model.Entry {
	entries := make([]model.Entry, count)
	baseTime := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < count; i++ {
		entries[i] = model.Entry{
			ID:               fmt.Sprintf("entry-%03d", i+1),
			OrganizationID:   orgID,
			Date:             baseTime.Add(time.Duration(i) * 24 * time.Hour),
			TransactionLabel: fmt.Sprintf("Transaction %d", i+1),
			SupplierName:     fmt.Sprintf("Supplier %d", (i%3)+1),
			Category:         "SERVICES_CLOUD",
			Scope:            model.ScopeValueChain,
			Amount:           float64(i+1) * 10.50,
			OriginalAmount:   float64(i+1) * 10.50,
			OriginalCurrency: "EUR",
			ExchangeRate:     1.0,
			FactorKgCo2e:     0.05,
			KgCo2e:           float64(i+1) * 10.50 * 0.05,
			Confidence:       0.95,
			Provenance:       model.ProvenanceDictionary,
		}
	}
	return entries
}

func createTestOrganization(id string) *model.Organization {
	return &model.Organization{
		ID:            id,
		Name:          "Test SARL",
		Sector:        model.SectorTech,
		Country:       "FR",
		Currency:      "EUR",
		Employees:     12,
		AnnualRevenue: 1_500_000,
	}
}

func TestMigrate(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	// Migrating twice must be a no-op.
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Second migrate failed: %v", err)
	}

	var version int
	if err := store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("Failed to read schema version: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("Schema version = %d, want %d", version, ExpectedSchemaVersion)
	}
}

func TestNewSQLiteStorageValidation(t *testing.T) {
	if _, err := NewSQLiteStorage(""); err == nil {
		t.Error("Expected error for empty dbPath")
	}
	if _, err := NewSQLiteStorage("   "); err == nil {
		t.Error("Expected error for whitespace dbPath")
	}
}
