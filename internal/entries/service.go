// Package entries manages classified entries outside the bulk import flow:
// manual additions, the low-confidence review queue and deletion.
package entries

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Kameltalbi/Carboscan-mobile/internal/common"
	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
)

// ReviewThreshold is the confidence below which an entry lands in the review
// queue.
const ReviewThreshold model.Confidence = 0.70

// manualConfidence is assigned to entries the operator categorized by hand.
const manualConfidence model.Confidence = 1.0

// Store is the persistence surface the service needs.
type Store interface {
	GetCategory(ctx context.Context, id, country string) (*model.Category, error)
	SaveEntry(ctx context.Context, entry *model.Entry) error
	GetLowConfidenceEntries(ctx context.Context, organizationID string, below model.Confidence) ([]model.Entry, error)
	DeleteEntry(ctx context.Context, id string) error
}

// Normalizer converts amounts into the reporting currency.
type Normalizer interface {
	Convert(ctx context.Context, amount float64, from, to string) (model.Conversion, error)
}

// ManualEntry is the operator-provided input for a hand-entered transaction.
type ManualEntry struct {
	Date         time.Time
	Label        string
	SupplierName string
	Category     string
	Currency     string
	Note         string
	Amount       float64
}

// Service adds, lists and deletes classified entries.
type Service struct {
	store      Store
	normalizer Normalizer
	newID      func() string
}

// NewService creates an entry service.
func NewService(store Store, normalizer Normalizer) *Service {
	return &Service{
		store:      store,
		normalizer: normalizer,
		newID:      uuid.NewString,
	}
}

// AddManualEntry normalizes and persists a hand-categorized transaction.
// Unlike the import flow, a category without an emission factor is a hard
// error here: the operator named the category explicitly and deserves to know
// it cannot be measured.
func (s *Service) AddManualEntry(ctx context.Context, org *model.Organization, input ManualEntry) (*model.Entry, error) {
	if org == nil {
		return nil, fmt.Errorf("organization is required")
	}
	if strings.TrimSpace(input.Label) == "" {
		return nil, fmt.Errorf("transaction label is required")
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, fmt.Errorf("category is required")
	}
	if input.Date.IsZero() {
		return nil, fmt.Errorf("transaction date is required")
	}

	factor, err := s.store.GetCategory(ctx, input.Category, org.Country)
	if errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingEmissionFactor, input.Category)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve factor for %s: %w", input.Category, err)
	}

	sourceCurrency := input.Currency
	if sourceCurrency == "" {
		sourceCurrency = org.Currency
	}
	conversion, err := s.normalizer.Convert(ctx, input.Amount, sourceCurrency, org.Currency)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize amount: %w", err)
	}

	note := input.Note
	if note == "" {
		note = conversion.Err
	}

	entry := &model.Entry{
		ID:               s.newID(),
		OrganizationID:   org.ID,
		Date:             input.Date,
		TransactionLabel: input.Label,
		SupplierName:     input.SupplierName,
		Category:         factor.ID,
		Scope:            factor.Scope,
		Amount:           conversion.ConvertedAmount,
		OriginalAmount:   input.Amount,
		OriginalCurrency: conversion.FromCurrency,
		ExchangeRate:     conversion.Rate,
		Unit:             factor.Unit,
		FactorKgCo2e:     factor.FactorKgCo2e,
		FactorSource:     factor.Source,
		KgCo2e:           conversion.ConvertedAmount * factor.FactorKgCo2e,
		Confidence:       manualConfidence,
		Provenance:       model.ProvenanceManual,
		Note:             note,
	}
	entry.CarbonIntensity = entry.IntensityRatio()

	if err := s.store.SaveEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	slog.Info("added manual entry",
		"organization", org.ID,
		"category", entry.Category,
		"kg_co2e", entry.KgCo2e)
	return entry, nil
}

// ReviewQueue lists an organization's entries whose classification confidence
// falls below the review threshold, least confident first.
func (s *Service) ReviewQueue(ctx context.Context, organizationID string) ([]model.Entry, error) {
	return s.store.GetLowConfidenceEntries(ctx, organizationID, ReviewThreshold)
}

// Delete removes one entry by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteEntry(ctx, id)
}
