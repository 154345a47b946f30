package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kameltalbi/Carboscan-mobile/internal/common"
	"github.com/Kameltalbi/Carboscan-mobile/internal/model"
)

func TestInsertRuleIfAbsent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	rule := &model.ClassificationRule{
		Keyword:    "AWS",
		Category:   "SERVICES_CLOUD",
		Scope:      model.ScopeValueChain,
		Confidence: 0.95,
	}
	require.NoError(t, store.InsertRuleIfAbsent(ctx, rule))
	assert.NotZero(t, rule.ID)
	assert.Equal(t, "aws", rule.Keyword, "keyword should be normalized to lowercase")
	assert.Equal(t, "ALL", rule.Country, "empty country should default to ALL")

	// Same keyword again: no insert, ID stays zero.
	dup := &model.ClassificationRule{
		Keyword:    "aws",
		Category:   "PRESTATIONS_EXTERNES",
		Scope:      model.ScopeValueChain,
		Confidence: 0.50,
	}
	require.NoError(t, store.InsertRuleIfAbsent(ctx, dup))
	assert.Zero(t, dup.ID)

	// Original rule untouched.
	got, err := store.FindRuleByKeyword(ctx, "aws")
	require.NoError(t, err)
	assert.Equal(t, "SERVICES_CLOUD", got.Category)
	assert.Equal(t, model.Confidence(0.95), got.Confidence)
}

func TestInsertRuleValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	tests := []struct {
		rule *model.ClassificationRule
		name string
	}{
		{nil, "nil rule"},
		{&model.ClassificationRule{Category: "X", Confidence: 0.5}, "missing keyword"},
		{&model.ClassificationRule{Keyword: "x", Confidence: 0.5}, "missing category"},
		{&model.ClassificationRule{Keyword: "x", Category: "X", Confidence: 1.5}, "confidence out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, store.InsertRuleIfAbsent(ctx, tt.rule))
		})
	}
}

func TestListRulesPreservesInsertionOrder(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	keywords := []string{"edf", "engie", "shell", "total", "aws"}
	for _, kw := range keywords {
		rule := &model.ClassificationRule{
			Keyword:    kw,
			Category:   "SERVICES_CLOUD",
			Scope:      model.ScopeValueChain,
			Confidence: 0.9,
		}
		require.NoError(t, store.InsertRuleIfAbsent(ctx, rule))
	}

	rules, err := store.ListRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, len(keywords))
	for i, kw := range keywords {
		assert.Equal(t, kw, rules[i].Keyword)
	}
}

func TestIncrementRuleUsage(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	rule := &model.ClassificationRule{
		Keyword:    "sncf",
		Category:   "DEPLACEMENT_TRAIN",
		Scope:      model.ScopeValueChain,
		Confidence: 0.95,
	}
	require.NoError(t, store.InsertRuleIfAbsent(ctx, rule))

	require.NoError(t, store.IncrementRuleUsage(ctx, rule.ID))
	require.NoError(t, store.IncrementRuleUsage(ctx, rule.ID))

	got, err := store.FindRuleByKeyword(ctx, "sncf")
	require.NoError(t, err)
	assert.Equal(t, 2, got.UsageCount)
	assert.False(t, got.LastUsedAt.IsZero())

	err = store.IncrementRuleUsage(ctx, 99999)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestRuleCount(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()

	count, err := store.RuleCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	rule := &model.ClassificationRule{
		Keyword:    "uber",
		Category:   "TAXI_VTC",
		Scope:      model.ScopeValueChain,
		Confidence: 0.95,
	}
	require.NoError(t, store.InsertRuleIfAbsent(ctx, rule))

	count, err = store.RuleCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
