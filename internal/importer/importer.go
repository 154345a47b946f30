// Package importer reads delimited bank exports into classified rows and
// persists confirmed rows as emission entries.
package importer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Kameltalbi/Carboscan-mobile/internal/common"
	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
)

// DefaultDelimiter is the field separator most bank exports use.
const DefaultDelimiter = ';'

// ManualConfidence is assigned when the file itself names the category.
const ManualConfidence model.Confidence = 1.0

// Classifier produces category suggestions for transaction labels.
type Classifier interface {
	Classify(ctx context.Context, org *model.Organization, label string, amount float64) (*model.Suggestion, error)
}

// Normalizer converts amounts into the reporting currency.
type Normalizer interface {
	Convert(ctx context.Context, amount float64, from, to string) (model.Conversion, error)
}

// FactorStore resolves manual categories to emission factors.
type FactorStore interface {
	GetCategory(ctx context.Context, id, country string) (*model.Category, error)
}

// EntryStore persists confirmed entries.
type EntryStore interface {
	SaveEntry(ctx context.Context, entry *model.Entry) error
}

// Row is one accepted line of an import, classified but not yet persisted.
type Row struct {
	Date           time.Time
	Label          string
	SupplierName   string
	ManualCategory string
	Suggestion     *model.Suggestion
	Amount         float64
}

// RejectedRow is one line the importer refused, with its 1-indexed line
// number in the original file (the header is line 1).
type RejectedRow struct {
	Raw    string
	Reason string
	Line   int
}

// Result is the outcome of parsing and classifying an import file.
type Result struct {
	Accepted []Row
	Rejected []RejectedRow
}

// PersistResult summarizes a confirmed import.
type PersistResult struct {
	EntryIDs        []string
	Saved           int
	SkippedNoFactor int
	Degraded        int
}

// Importer turns delimited exports into classified emission entries.
type Importer struct {
	classifier Classifier
	normalizer Normalizer
	factors    FactorStore
	entries    EntryStore
	newID      func() string
	delimiter  rune
	hasHeader  bool
}

// New creates an importer with the default delimiter, expecting a header row.
func New(classifier Classifier, normalizer Normalizer, factors FactorStore, entries EntryStore) *Importer {
	return &Importer{
		classifier: classifier,
		normalizer: normalizer,
		factors:    factors,
		entries:    entries,
		newID:      uuid.NewString,
		delimiter:  DefaultDelimiter,
		hasHeader:  true,
	}
}

// SetDelimiter overrides the field separator.
func (imp *Importer) SetDelimiter(delimiter rune) {
	imp.delimiter = delimiter
}

// SetHasHeader controls whether the first line is skipped as a header.
func (imp *Importer) SetHasHeader(hasHeader bool) {
	imp.hasHeader = hasHeader
}

// ImportTabular parses a delimited export and classifies every parseable row.
// The first line is skipped as a header unless SetHasHeader(false); line
// numbers in rejections always count it. Nothing is persisted; the caller
// reviews the result and then calls ConfirmAndPersist.
func (imp *Importer) ImportTabular(ctx context.Context, org *model.Organization, r io.Reader) (*Result, error) {
	if org == nil {
		return nil, fmt.Errorf("organization is required")
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	result := &Result{}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if (imp.hasHeader && lineNo == 1) || strings.TrimSpace(line) == "" {
			continue
		}

		row, reason := imp.parseLine(line)
		if reason != "" {
			result.Rejected = append(result.Rejected, RejectedRow{Line: lineNo, Raw: line, Reason: reason})
			continue
		}

		if row.ManualCategory == "" {
			suggestion, err := imp.classifier.Classify(ctx, org, row.Label, row.Amount)
			if err != nil {
				return nil, fmt.Errorf("failed to classify line %d: %w", lineNo, err)
			}
			row.Suggestion = suggestion
		}
		result.Accepted = append(result.Accepted, *row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	slog.Info("parsed import file",
		"accepted", len(result.Accepted),
		"rejected", len(result.Rejected))
	return result, nil
}

func (imp *Importer) parseLine(line string) (*Row, string) {
	fields := splitFields(line, imp.delimiter)
	if len(fields) < 3 {
		return nil, fmt.Sprintf("expected at least 3 columns, got %d", len(fields))
	}

	date, ok := parseDate(fields[0])
	if !ok {
		return nil, fmt.Sprintf("unparseable date %q", fields[0])
	}

	row := &Row{
		Date:   date,
		Label:  fields[1],
		Amount: parseAmount(fields[2]),
	}
	if len(fields) > 3 {
		row.SupplierName = fields[3]
	}
	if len(fields) > 4 {
		row.ManualCategory = fields[4]
	}
	return row, ""
}

// ConfirmAndPersist normalizes each accepted row to the organization's
// currency, resolves its emission factor and saves it as an entry.
//
// Rows whose category resolves to no factor are counted and skipped rather
// than failing the batch. Suggested rows are classified again here so
// corrections recorded between parse and confirm take effect.
func (imp *Importer) ConfirmAndPersist(ctx context.Context, org *model.Organization, rows []Row, sourceCurrency string) (*PersistResult, error) {
	if org == nil {
		return nil, fmt.Errorf("organization is required")
	}
	if sourceCurrency == "" {
		sourceCurrency = org.Currency
	}

	result := &PersistResult{}
	for i := range rows {
		row := &rows[i]

		category, scope, confidence, provenance, err := imp.resolveClassification(ctx, org, row)
		if err != nil {
			return nil, err
		}
		if category == "" {
			result.SkippedNoFactor++
			continue
		}

		factor, err := imp.factors.GetCategory(ctx, category, org.Country)
		if errors.Is(err, common.ErrNotFound) {
			slog.Warn("no emission factor for category, skipping row",
				"category", category,
				"label", row.Label)
			result.SkippedNoFactor++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve factor for %s: %w", category, err)
		}
		if scope == "" {
			scope = factor.Scope
		}

		conversion, err := imp.normalizer.Convert(ctx, row.Amount, sourceCurrency, org.Currency)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize amount for %q: %w", row.Label, err)
		}
		if conversion.Degraded() {
			result.Degraded++
		}

		entry := &model.Entry{
			ID:               imp.newID(),
			OrganizationID:   org.ID,
			Date:             row.Date,
			TransactionLabel: row.Label,
			SupplierName:     row.SupplierName,
			Category:         category,
			Scope:            scope,
			Amount:           conversion.ConvertedAmount,
			OriginalAmount:   row.Amount,
			OriginalCurrency: conversion.FromCurrency,
			ExchangeRate:     conversion.Rate,
			Unit:             factor.Unit,
			FactorKgCo2e:     factor.FactorKgCo2e,
			FactorSource:     factor.Source,
			KgCo2e:           conversion.ConvertedAmount * factor.FactorKgCo2e,
			Confidence:       confidence,
			Provenance:       provenance,
			Note:             conversion.Err,
		}
		entry.CarbonIntensity = entry.IntensityRatio()

		if err := imp.entries.SaveEntry(ctx, entry); err != nil {
			return nil, fmt.Errorf("failed to save entry for %q: %w", row.Label, err)
		}
		result.Saved++
		result.EntryIDs = append(result.EntryIDs, entry.ID)
	}

	slog.Info("persisted import",
		"organization", org.ID,
		"saved", result.Saved,
		"skipped_no_factor", result.SkippedNoFactor,
		"degraded_conversions", result.Degraded)
	return result, nil
}

func (imp *Importer) resolveClassification(ctx context.Context, org *model.Organization, row *Row) (string, model.Scope, model.Confidence, model.Provenance, error) {
	if row.ManualCategory != "" {
		return row.ManualCategory, "", ManualConfidence, model.ProvenanceManual, nil
	}

	suggestion := row.Suggestion
	if suggestion != nil {
		// Fresh classification picks up corrections made since parsing.
		fresh, err := imp.classifier.Classify(ctx, org, row.Label, row.Amount)
		if err != nil {
			return "", "", 0, "", fmt.Errorf("failed to classify %q: %w", row.Label, err)
		}
		if fresh != nil {
			suggestion = fresh
		}
	}
	if suggestion == nil {
		return "", "", 0, "", nil
	}
	return suggestion.Category, suggestion.Scope, suggestion.Confidence, suggestion.Provenance, nil
}

// Template returns a sample file in the expected layout.
func Template() string {
	return strings.Join([]string{
		"date;libelle;montant;fournisseur;categorie",
		"2024-03-01;PAIEMENT CB SHELL STATION 75011;85,50;Shell;",
		"15/03/2024;AWS EMEA FACTURE 03/2024;1240,00;Amazon Web Services;",
		"2024-03-20;LOYER BUREAUX MARS;2500,00;SCI Les Lilas;PRESTATIONS_EXTERNES",
		"",
	}, "\n")
}
