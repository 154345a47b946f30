// Package engine implements the multi-stage transaction classification chain:
// learned corrections, then the keyword dictionary, then semantic heuristics,
// then amount buckets. The first stage that produces a suggestion wins.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Kameltalbi/Carboscan-mobile/internal/common"
	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
)

// LearnedConfidence is the fixed confidence of a suggestion replayed from the
// correction history. It sits above every dictionary rule but below manual.
const LearnedConfidence model.Confidence = 0.98

// RuleStore provides the keyword dictionary.
type RuleStore interface {
	ListRules(ctx context.Context) ([]model.ClassificationRule, error)
	IncrementRuleUsage(ctx context.Context, ruleID int64) error
}

// CorrectionStore provides the learning history.
type CorrectionStore interface {
	FindLatestCorrection(ctx context.Context, organizationID, label string) (*model.CorrectionRecord, error)
	AppendCorrection(ctx context.Context, record *model.CorrectionRecord) error
}

// FactorStore resolves categories to emission factors.
type FactorStore interface {
	GetCategory(ctx context.Context, id, country string) (*model.Category, error)
}

// Engine classifies transaction labels into emission categories.
type Engine struct {
	rules       RuleStore
	corrections CorrectionStore
	factors     FactorStore
}

// New creates a classification engine.
func New(rules RuleStore, corrections CorrectionStore, factors FactorStore) *Engine {
	return &Engine{
		rules:       rules,
		corrections: corrections,
		factors:     factors,
	}
}

// Classify runs the full chain for one transaction. A nil suggestion with a
// nil error means no stage matched; the caller decides what an unclassified
// transaction becomes.
func (e *Engine) Classify(ctx context.Context, org *model.Organization, label string, amount float64) (*model.Suggestion, error) {
	rules, err := e.rules.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	return e.classify(ctx, org, label, amount, rules)
}

// ClassifyBatch classifies a batch of labels against one rule snapshot.
// Result slots are nil where no stage matched.
func (e *Engine) ClassifyBatch(ctx context.Context, org *model.Organization, labels []string, amounts []float64) ([]*model.Suggestion, error) {
	if len(labels) != len(amounts) {
		return nil, fmt.Errorf("labels and amounts length mismatch: %d vs %d", len(labels), len(amounts))
	}

	rules, err := e.rules.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	suggestions := make([]*model.Suggestion, len(labels))
	for i, label := range labels {
		suggestion, classifyErr := e.classify(ctx, org, label, amounts[i], rules)
		if classifyErr != nil {
			return nil, classifyErr
		}
		suggestions[i] = suggestion
	}
	return suggestions, nil
}

func (e *Engine) classify(ctx context.Context, org *model.Organization, label string, amount float64, rules []model.ClassificationRule) (*model.Suggestion, error) {
	if org == nil {
		return nil, fmt.Errorf("organization is required")
	}
	normalized := strings.ToLower(strings.TrimSpace(label))
	if normalized == "" {
		return nil, nil
	}

	// Stage 1: learned corrections beat everything else.
	if suggestion, err := e.fromCorrections(ctx, org, label); err != nil {
		return nil, err
	} else if suggestion != nil {
		return suggestion, nil
	}

	// Stage 2: keyword dictionary, first match in insertion order.
	if suggestion, err := e.fromDictionary(ctx, org, normalized, amount, rules); err != nil {
		return nil, err
	} else if suggestion != nil {
		return suggestion, nil
	}

	// Stage 3: semantic heuristics on label shape.
	if suggestion := semanticMatch(normalized, amount); suggestion != nil {
		return e.attachFactor(ctx, org, suggestion)
	}

	// Stage 4: amount buckets.
	if suggestion := amountMatch(normalized, amount); suggestion != nil {
		return e.attachFactor(ctx, org, suggestion)
	}

	return nil, nil
}

func (e *Engine) fromCorrections(ctx context.Context, org *model.Organization, label string) (*model.Suggestion, error) {
	record, err := e.corrections.FindLatestCorrection(ctx, org.ID, label)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up corrections: %w", err)
	}

	suggestion := &model.Suggestion{
		Category:   record.CorrectedCategory,
		Confidence: LearnedConfidence,
		Rationale:  "learned from prior correction",
		Provenance: model.ProvenanceLearned,
	}
	return e.attachFactor(ctx, org, suggestion)
}

func (e *Engine) fromDictionary(ctx context.Context, org *model.Organization, normalized string, amount float64, rules []model.ClassificationRule) (*model.Suggestion, error) {
	for i := range rules {
		rule := &rules[i]
		if !strings.Contains(normalized, rule.Keyword) {
			continue
		}
		if !rule.AppliesTo(org.Country, amount) {
			continue
		}

		// Usage stats are advisory; a failed bump never blocks classification.
		if err := e.rules.IncrementRuleUsage(ctx, rule.ID); err != nil {
			slog.Warn("failed to increment rule usage", "rule_id", rule.ID, "error", err)
		}

		suggestion := &model.Suggestion{
			Category:   rule.Category,
			Scope:      rule.Scope,
			Confidence: rule.Confidence,
			Rationale:  fmt.Sprintf("exact match: '%s'", rule.Keyword),
			Provenance: model.ProvenanceDictionary,
		}
		return e.attachFactor(ctx, org, suggestion)
	}
	return nil, nil
}

// attachFactor resolves the suggestion's category to an emission factor for
// the organization's country. A missing factor leaves Factor nil rather than
// failing; the row then needs review before it can produce emissions.
func (e *Engine) attachFactor(ctx context.Context, org *model.Organization, suggestion *model.Suggestion) (*model.Suggestion, error) {
	category, err := e.factors.GetCategory(ctx, suggestion.Category, org.Country)
	if errors.Is(err, common.ErrNotFound) {
		return suggestion, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve factor for %s: %w", suggestion.Category, err)
	}

	suggestion.Factor = category
	if suggestion.Scope == "" {
		suggestion.Scope = category.Scope
	}
	return suggestion, nil
}

// LearnFromCorrection records a human override so future classifications of
// similar labels replay it. Confirming the suggestion unchanged records
// nothing: only disagreement teaches.
func (e *Engine) LearnFromCorrection(ctx context.Context, org *model.Organization, label, suggestedCategory, correctedCategory string, amount float64) error {
	if org == nil {
		return fmt.Errorf("organization is required")
	}
	if correctedCategory == "" {
		return fmt.Errorf("corrected category is required")
	}
	if suggestedCategory == correctedCategory {
		return nil
	}

	record := &model.CorrectionRecord{
		OrganizationID:    org.ID,
		TransactionLabel:  label,
		SuggestedCategory: suggestedCategory,
		CorrectedCategory: correctedCategory,
		Amount:            amount,
	}
	if err := e.corrections.AppendCorrection(ctx, record); err != nil {
		return fmt.Errorf("failed to record correction: %w", err)
	}

	slog.Info("recorded classification correction",
		"organization", org.ID,
		"label", label,
		"from", suggestedCategory,
		"to", correctedCategory)
	return nil
}
