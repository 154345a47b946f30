// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Category catalog
	SaveCategories(ctx context.Context, categories []model.Category) error
	GetCategory(ctx context.Context, id, country string) (*model.Category, error)
	GetCategoriesByCountry(ctx context.Context, country string) ([]model.Category, error)
	ReplaceCategoriesForCountry(ctx context.Context, country string, categories []model.Category) error
	CategoryCount(ctx context.Context) (int, error)

	// Classification rules
	InsertRuleIfAbsent(ctx context.Context, rule *model.ClassificationRule) error
	FindRuleByKeyword(ctx context.Context, keyword string) (*model.ClassificationRule, error)
	ListRules(ctx context.Context) ([]model.ClassificationRule, error)
	IncrementRuleUsage(ctx context.Context, ruleID int64) error
	RuleCount(ctx context.Context) (int, error)

	// Correction history
	AppendCorrection(ctx context.Context, record *model.CorrectionRecord) error
	FindLatestCorrection(ctx context.Context, organizationID, label string) (*model.CorrectionRecord, error)
	RecentCorrections(ctx context.Context, organizationID string, limit int) ([]model.CorrectionRecord, error)

	// Classified entries
	SaveEntry(ctx context.Context, entry *model.Entry) error
	GetEntriesByPeriod(ctx context.Context, organizationID string, start, end time.Time) ([]model.Entry, error)
	GetEntriesByOrganization(ctx context.Context, organizationID string) ([]model.Entry, error)
	GetLowConfidenceEntries(ctx context.Context, organizationID string, below model.Confidence) ([]model.Entry, error)
	DeleteEntry(ctx context.Context, id string) error

	// Exchange rates
	SaveRate(ctx context.Context, rate *model.ExchangeRate) error
	LatestRate(ctx context.Context, from, to string) (*model.ExchangeRate, error)
	PurgeRatesBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Organizations
	SaveOrganization(ctx context.Context, org *model.Organization) error
	GetOrganization(ctx context.Context, id string) (*model.Organization, error)
	ListOrganizations(ctx context.Context) ([]model.Organization, error)

	// Reports
	SaveReport(ctx context.Context, report *model.Report) error
	GetReport(ctx context.Context, id string) (*model.Report, error)
	LatestReportForOrganization(ctx context.Context, organizationID string) (*model.Report, error)
	UpdateReportStatus(ctx context.Context, id string, status model.VerificationStatus) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RateProvider fetches live exchange rates from an external source.
// Implementations must bound the call with explicit timeouts; callers degrade
// through the converter's fallback chain on failure.
type RateProvider interface {
	FetchLatestRates(ctx context.Context, from string) (map[string]float64, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
