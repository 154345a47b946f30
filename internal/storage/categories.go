package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Kameltalbi/Carboscan-mobile/internal/common"
	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
)

// SaveCategories upserts a batch of emission categories in one transaction.
func (s *SQLiteStorage) SaveCategories(ctx context.Context, categories []model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if categories == nil {
		return fmt.Errorf("%w: categories", ErrNilParameter)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO categories (id, country, label, scope, unit, factor_kg_co2e, source, description, keywords, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id, country) DO UPDATE SET
			label = excluded.label,
			scope = excluded.scope,
			unit = excluded.unit,
			factor_kg_co2e = excluded.factor_kg_co2e,
			source = excluded.source,
			description = excluded.description,
			keywords = excluded.keywords,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	for i := range categories {
		c := &categories[i]
		keywords, marshalErr := json.Marshal(c.Keywords)
		if marshalErr != nil {
			return fmt.Errorf("failed to marshal keywords for %s: %w", c.ID, marshalErr)
		}
		if _, execErr := stmt.ExecContext(ctx,
			c.ID, c.Country, c.Label, string(c.Scope), c.Unit, c.FactorKgCo2e,
			c.Source, c.Description, string(keywords), now); execErr != nil {
			return fmt.Errorf("failed to save category %s: %w", c.ID, execErr)
		}
	}

	return tx.Commit()
}

// GetCategory fetches one category by id and country, falling back to the
// reference country when the requested country has no row.
func (s *SQLiteStorage) GetCategory(ctx context.Context, id, country string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	category, err := s.getCategoryExact(ctx, id, country)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, common.ErrNotFound) || country == "FR" {
		return nil, err
	}
	return s.getCategoryExact(ctx, id, "FR")
}

func (s *SQLiteStorage) getCategoryExact(ctx context.Context, id, country string) (*model.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, country, label, scope, unit, factor_kg_co2e, source, description, keywords, updated_at
		FROM categories WHERE id = ? AND country = ?`, id, country)

	category, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %s (%s)", common.ErrNotFound, id, country)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// GetCategoriesByCountry lists a country's full factor set ordered by scope
// then id, so catalog listings are stable.
func (s *SQLiteStorage) GetCategoriesByCountry(ctx context.Context, country string) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(country, "country"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, country, label, scope, unit, factor_kg_co2e, source, description, keywords, updated_at
		FROM categories WHERE country = ? ORDER BY scope, id`, country)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		category, scanErr := scanCategory(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan category: %w", scanErr)
		}
		categories = append(categories, *category)
	}
	return categories, rows.Err()
}

// ReplaceCategoriesForCountry swaps a country's factor set wholesale.
func (s *SQLiteStorage) ReplaceCategoriesForCountry(ctx context.Context, country string, categories []model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(country, "country"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE country = ?`, country); err != nil {
		return fmt.Errorf("failed to clear categories for %s: %w", country, err)
	}

	now := time.Now().UTC()
	for i := range categories {
		c := &categories[i]
		keywords, marshalErr := json.Marshal(c.Keywords)
		if marshalErr != nil {
			return fmt.Errorf("failed to marshal keywords for %s: %w", c.ID, marshalErr)
		}
		if _, execErr := tx.ExecContext(ctx, `
			INSERT INTO categories (id, country, label, scope, unit, factor_kg_co2e, source, description, keywords, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, country, c.Label, string(c.Scope), c.Unit, c.FactorKgCo2e,
			c.Source, c.Description, string(keywords), now); execErr != nil {
			return fmt.Errorf("failed to insert category %s: %w", c.ID, execErr)
		}
	}

	return tx.Commit()
}

// CategoryCount returns the total number of seeded categories across countries.
func (s *SQLiteStorage) CategoryCount(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*model.Category, error) {
	var c model.Category
	var scope, keywords string
	var source, description sql.NullString

	if err := row.Scan(&c.ID, &c.Country, &c.Label, &scope, &c.Unit, &c.FactorKgCo2e,
		&source, &description, &keywords, &c.UpdatedAt); err != nil {
		return nil, err
	}

	c.Scope = model.Scope(scope)
	c.Source = source.String
	c.Description = description.String
	if keywords != "" {
		if err := json.Unmarshal([]byte(keywords), &c.Keywords); err != nil {
			return nil, fmt.Errorf("failed to unmarshal keywords: %w", err)
		}
	}
	return &c, nil
}
