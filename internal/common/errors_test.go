package common

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError(t *testing.T) {
	wrapped := NewUserError("no organization configured", ErrOrganizationNotFound)
	assert.Equal(t, "no organization configured: organization not found", wrapped.Error())
	assert.True(t, errors.Is(wrapped, ErrOrganizationNotFound))

	bare := NewUserError("pick one with --org", nil)
	assert.Equal(t, "pick one with --org", bare.Error())

	var userErr *UserError
	assert.True(t, errors.As(wrapped, &userErr))
	assert.Equal(t, "no organization configured", userErr.UserMessage)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrRateFetch))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("boom"), Retryable: true}))
	assert.False(t, IsRetryable(&RetryableError{Err: errors.New("boom"), Retryable: false}))
	assert.False(t, IsRetryable(ErrDuplicateEntry))
	assert.False(t, IsRetryable(errors.New("plain")))
}
