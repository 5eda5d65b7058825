package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSimError_Format tests the categorized error string with and without a cause
func TestSimError_Format(t *testing.T) {
	bare := NewSimError(ErrorCategoryFunds, "portfolio", "apply trade", "not enough cash")
	assert.Equal(t, "[FUNDS:portfolio] apply trade: not enough cash", bare.Error())

	wrapped := WrapError(fmt.Errorf("boom"), ErrorCategoryStrategy, "engine", "execute strategy")
	assert.Contains(t, wrapped.Error(), "[STRATEGY:engine]")
	assert.Contains(t, wrapped.Error(), "boom")
}

// TestWrapError_Unwrap tests that the cause survives wrapping
func TestWrapError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying failure")
	wrapped := WrapError(cause, ErrorCategoryDataSource, "engine", "resolve bars")

	assert.ErrorIs(t, wrapped, cause)
	assert.Nil(t, WrapError(nil, ErrorCategoryDataSource, "engine", "resolve bars"))
}

// TestIsValidation tests detection through wrapping layers
func TestIsValidation(t *testing.T) {
	ve := NewValidationError("fee_rate", "must be within [0,0.1]")
	assert.True(t, IsValidation(ve))
	assert.True(t, IsValidation(fmt.Errorf("loading config: %w", ve)))
	assert.False(t, IsValidation(fmt.Errorf("some other error")))
	assert.False(t, IsValidation(nil))
}

// TestDomainErrors_As tests that trade rejections are matchable by type
func TestDomainErrors_As(t *testing.T) {
	var fundsErr *InsufficientFundsError
	err := error(&InsufficientFundsError{Symbol: "BTCUSDT", Required: 500, Available: 100})
	require.True(t, errors.As(err, &fundsErr))
	assert.Contains(t, err.Error(), "BTCUSDT")

	var posErr *InsufficientPositionError
	err = fmt.Errorf("sell rejected: %w", &InsufficientPositionError{Symbol: "ETHUSDT", Requested: 2, Held: 1})
	assert.True(t, errors.As(err, &posErr))
	assert.Equal(t, 1.0, posErr.Held)
}
