package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomError_WrapKeepsIdentity(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("classify: %w", ErrClassifierError.Wrap(cause))

	assert.True(t, errors.Is(err, ErrClassifierError))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrQueueFull))

	ce, ok := AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, ce.Status)
	assert.Contains(t, ce.Error(), "connection refused")
}

func TestCustomError_Response(t *testing.T) {
	err := ErrInvalidQuery.Wrap(errors.New("limit must be positive"))

	assert.Empty(t, err.Response(false).Details)
	assert.Equal(t, "limit must be positive", err.Response(true).Details)
	assert.Equal(t, "INVALID_QUERY", err.Response(true).Code)
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("bind: %w", NewValidationError("ingredients is required"))

	assert.True(t, IsValidationError(err))
	assert.False(t, IsValidationError(errors.New("other")))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "****", MaskSecret("short"))
	assert.Equal(t, "abcd...wxyz", MaskSecret("abcdefghijklmnopqrstuvwxyz"))
}

func TestParseJSON_RejectsTrailingData(t *testing.T) {
	var v map[string]int

	assert.NoError(t, ParseJSON(`{"a": 1}`, &v))
	assert.Error(t, ParseJSON(`{"a": 1} {"b": 2}`, &v))
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Len(t, GenerateUUID(), 36)
}
