package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/Kameltalbi/Carboscan-mobile/internal/catalog"
	"github.com/Kameltalbi/Carboscan-mobile/internal/common"
	"github.com/Kameltalbi/Carboscan-mobile/internal/currency"
	"github.com/Kameltalbi/Carboscan-mobile/internal/engine"
	"github.com/Kameltalbi/Carboscan-mobile/internal/entries"
	"github.com/Kameltalbi/Carboscan-mobile/internal/importer"
	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
	"github.com/Kameltalbi/Carboscan-mobile/internal/report"
	"github.com/Kameltalbi/Carboscan-mobile/internal/storage"
)

const defaultRateProviderURL = "https://open.er-api.com/v6/latest"

// initStorage opens the database, migrates it and seeds the catalog and
// keyword dictionary on first run.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".local", "share", "carboscan", "carboscan.db")
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := catalog.Seed(ctx, store); err != nil {
		_ = store.Close()
		return nil, err
	}
	if err := catalog.SeedDictionary(ctx, store); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

func newEngine(store *storage.SQLiteStorage) *engine.Engine {
	return engine.New(store, store, store)
}

func newConverter(store *storage.SQLiteStorage) *currency.Converter {
	providerURL := viper.GetString("rates.provider_url")
	if providerURL == "" {
		providerURL = defaultRateProviderURL
	}
	return currency.NewConverter(store, currency.NewHTTPRateProvider(providerURL))
}

func newEntryService(store *storage.SQLiteStorage) *entries.Service {
	return entries.NewService(store, newConverter(store))
}

func newImporter(store *storage.SQLiteStorage) *importer.Importer {
	return importer.New(newEngine(store), newConverter(store), store, store)
}

func newReportGenerator(store *storage.SQLiteStorage) *report.Generator {
	return report.NewGenerator(store)
}

// resolveOrg loads the organization named by --org, falling back to the
// configured default, and finally to the only organization if there is
// exactly one.
func resolveOrg(ctx context.Context, store *storage.SQLiteStorage, orgID string) (*model.Organization, error) {
	if orgID == "" {
		orgID = viper.GetString("organization.id")
	}
	if orgID != "" {
		return store.GetOrganization(ctx, orgID)
	}

	orgs, err := store.ListOrganizations(ctx)
	if err != nil {
		return nil, err
	}
	switch len(orgs) {
	case 0:
		return nil, common.NewUserError("no organization configured, create one with 'carboscan orgs create'", common.ErrOrganizationNotFound)
	case 1:
		return &orgs[0], nil
	default:
		return nil, common.NewUserError("multiple organizations exist, pick one with --org", nil)
	}
}
