package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Kameltalbi/Carboscan-mobile/internal/common"
	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
)

// InsertRuleIfAbsent inserts a keyword rule unless the keyword already exists.
// On insert the rule's ID is populated; when the keyword was already present
// the rule is left untouched with a zero ID.
func (s *SQLiteStorage) InsertRuleIfAbsent(ctx context.Context, rule *model.ClassificationRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRule(rule); err != nil {
		return err
	}

	keyword := strings.ToLower(strings.TrimSpace(rule.Keyword))
	country := rule.Country
	if country == "" {
		country = "ALL"
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO classification_rules
			(keyword, category, scope, confidence, country, supplier_name, min_amount, max_amount, is_learned)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		keyword, rule.Category, string(rule.Scope), float64(rule.Confidence), country,
		nullString(rule.SupplierName), rule.MinAmount, rule.MaxAmount, rule.IsLearned)
	if err != nil {
		return fmt.Errorf("failed to insert rule %q: %w", keyword, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted rule id: %w", err)
	}
	rule.ID = id
	rule.Keyword = keyword
	rule.Country = country
	return nil
}

// FindRuleByKeyword fetches one rule by its exact normalized keyword.
func (s *SQLiteStorage) FindRuleByKeyword(ctx context.Context, keyword string) (*model.ClassificationRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(keyword, "keyword"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, keyword, category, scope, confidence, country, supplier_name,
			min_amount, max_amount, is_learned, usage_count, last_used_at
		FROM classification_rules WHERE keyword = ?`,
		strings.ToLower(strings.TrimSpace(keyword)))

	rule, err := scanRule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: rule %q", common.ErrNotFound, keyword)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}
	return rule, nil
}

// ListRules returns every rule in insertion order. The order is load-bearing:
// the engine's first-match scan depends on it.
func (s *SQLiteStorage) ListRules(ctx context.Context) ([]model.ClassificationRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, keyword, category, scope, confidence, country, supplier_name,
			min_amount, max_amount, is_learned, usage_count, last_used_at
		FROM classification_rules ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rules []model.ClassificationRule
	for rows.Next() {
		rule, scanErr := scanRule(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", scanErr)
		}
		rules = append(rules, *rule)
	}
	return rules, rows.Err()
}

// IncrementRuleUsage bumps a rule's usage counter and last-used timestamp.
// Usage stats are advisory; lost updates under concurrency are acceptable.
func (s *SQLiteStorage) IncrementRuleUsage(ctx context.Context, ruleID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE classification_rules
		SET usage_count = usage_count + 1, last_used_at = ?
		WHERE id = ?`, time.Now().UTC(), ruleID)
	if err != nil {
		return fmt.Errorf("failed to increment rule usage: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: rule %d", common.ErrNotFound, ruleID)
	}
	return nil
}

// RuleCount returns the total number of classification rules.
func (s *SQLiteStorage) RuleCount(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM classification_rules`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rules: %w", err)
	}
	return count, nil
}

func scanRule(row rowScanner) (*model.ClassificationRule, error) {
	var r model.ClassificationRule
	var scope string
	var confidence float64
	var supplier sql.NullString
	var minAmount, maxAmount sql.NullFloat64
	var lastUsed sql.NullTime

	if err := row.Scan(&r.ID, &r.Keyword, &r.Category, &scope, &confidence, &r.Country,
		&supplier, &minAmount, &maxAmount, &r.IsLearned, &r.UsageCount, &lastUsed); err != nil {
		return nil, err
	}

	r.Scope = model.Scope(scope)
	r.Confidence = model.Confidence(confidence)
	r.SupplierName = supplier.String
	if minAmount.Valid {
		v := minAmount.Float64
		r.MinAmount = &v
	}
	if maxAmount.Valid {
		v := maxAmount.Float64
		r.MaxAmount = &v
	}
	if lastUsed.Valid {
		r.LastUsedAt = lastUsed.Time
	}
	return &r, nil
}

func nullString(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
