package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardError_IsMatchesByCode(t *testing.T) {
	err := NewEmptyBatchError(3)
	wrapped := fmt.Errorf("capture input: %w", err)

	assert.True(t, stderrors.Is(wrapped, ErrEmptyBatch))
	assert.False(t, stderrors.Is(wrapped, ErrEmptyInput))
	assert.Equal(t, ErrCodeEmptyBatch, CodeOf(wrapped))
}

func TestStandardError_ErrorString(t *testing.T) {
	assert.Equal(t, "StandardError[EMPTY_INPUT]: Search entry is empty", NewEmptyInputError().Error())
	assert.Equal(t,
		"StandardError[ENGINE_REJECTED]: Resolution engine rejected the request: no such county",
		NewEngineRejectedError("set_search_input", "no such county").Error())
}

func TestCodeOf_NonStandardError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), CodeOf(stderrors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}

func TestGetErrorCategory(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected string
	}{
		{ErrCodeEmptyInput, "VALIDATION"},
		{ErrCodeEmptyBatch, "VALIDATION"},
		{ErrCodeInvalidInputSource, "VALIDATION"},
		{ErrCodeEngineUnreachable, "ENGINE"},
		{ErrCodeEngineRejected, "ENGINE"},
		{ErrCodeEngineResponseMalformed, "ENGINE"},
		{ErrCodeInvalidRequest, "ENGINE"},
		{ErrCodeInvalidTransition, "SESSION"},
		{ErrCodeAlreadySubmitting, "SESSION"},
		{ErrCodeUnknownMode, "SESSION"},
		{ErrCodeSessionAbandoned, "SESSION"},
		{ErrCodeSpreadsheetUnreadable, "INFRASTRUCTURE"},
		{ErrCodeCatalogLoadFailed, "INFRASTRUCTURE"},
		{ErrorCode("SOMETHING_ELSE"), "OTHER"},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, GetErrorCategory(tt.code))
		})
	}
}

func TestRetryability(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeEngineUnreachable))
	assert.True(t, IsRetryableErrorCode(ErrCodeEngineRejected))
	assert.True(t, IsRetryableErrorCode(ErrCodeEngineResponseMalformed))
	assert.False(t, IsRetryableErrorCode(ErrCodeInvalidRequest))
	assert.False(t, IsRetryableErrorCode(ErrCodeEmptyInput))

	assert.True(t, IsDefect(ErrCodeInvalidRequest))
	assert.False(t, IsDefect(ErrCodeEngineRejected))
}
