// Package storage provides the data persistence layer for the carboscan application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidDateRange = errors.New("start date must be before end date")
	ErrInvalidScope     = errors.New("invalid emission scope")
	ErrInvalidEntry     = errors.New("invalid entry")
	ErrInvalidRule      = errors.New("invalid classification rule")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateEntry validates a classified entry before persistence.
func validateEntry(entry *model.Entry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry", ErrNilParameter)
	}
	if entry.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidEntry)
	}
	if entry.OrganizationID == "" {
		return fmt.Errorf("%w: missing organization id", ErrInvalidEntry)
	}
	if entry.Scope != "" && !entry.Scope.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidScope, entry.Scope)
	}
	if !entry.Confidence.Valid() {
		return fmt.Errorf("%w: confidence %v out of range", ErrInvalidEntry, entry.Confidence)
	}
	return nil
}

// validateRule validates a classification rule before persistence.
func validateRule(rule *model.ClassificationRule) error {
	if rule == nil {
		return fmt.Errorf("%w: rule", ErrNilParameter)
	}
	if strings.TrimSpace(rule.Keyword) == "" {
		return fmt.Errorf("%w: missing keyword", ErrInvalidRule)
	}
	if rule.Category == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidRule)
	}
	if !rule.Confidence.Valid() {
		return fmt.Errorf("%w: confidence %v out of range", ErrInvalidRule, rule.Confidence)
	}
	return nil
}
