package inputnormalizer

import (
	stderrors "errors"
	"testing"

	"records-search/internal/common/errors"
	"records-search/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Individual Mode
// ==========================

func TestNormalizeIndividual(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr error
	}{
		{name: "padded entry", input: " jane doe ", want: []string{"jane doe"}},
		{name: "inner spacing kept", input: "\tSmith,  J\n", want: []string{"Smith,  J"}},
		{name: "already trimmed", input: "Lee, A", want: []string{"Lee, A"}},
		{name: "empty", input: "", wantErr: errors.ErrEmptyInput},
		{name: "whitespace only", input: " \t\r\n ", wantErr: errors.ErrEmptyInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeIndividual(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ==========================
// Batch Mode
// ==========================

func TestNormalizeBatch(t *testing.T) {
	tests := []struct {
		name    string
		cells   []interface{}
		want    []string
		wantErr error
	}{
		{
			name:  "drops missing and empty cells in order",
			cells: []interface{}{nil, "Smith, J", "", "Lee, A", nil},
			want:  []string{"Smith, J", "Lee, A"},
		},
		{
			name:  "keeps duplicates",
			cells: []interface{}{"A", "B", "A"},
			want:  []string{"A", "B", "A"},
		},
		{
			name:  "coerces numbers and booleans",
			cells: []interface{}{float64(5), 3.25, 42, int64(7), true},
			want:  []string{"5", "3.25", "42", "7", "true"},
		},
		{
			name:  "does not trim",
			cells: []interface{}{" padded "},
			want:  []string{" padded "},
		},
		{
			name:    "only missing cells",
			cells:   []interface{}{nil, nil, ""},
			wantErr: errors.ErrEmptyBatch,
		},
		{
			name:    "no cells",
			cells:   []interface{}{},
			wantErr: errors.ErrEmptyBatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeBatch(tt.cells)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeBatch_DoesNotMutateInput(t *testing.T) {
	cells := []interface{}{nil, "x", ""}
	_, err := NormalizeBatch(cells)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{nil, "x", ""}, cells)
}

// ==========================
// Dispatch
// ==========================

func TestNormalize_Dispatch(t *testing.T) {
	got, err := Normalize(models.SearchModeIndividual, "  a ")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)

	got, err = Normalize(models.SearchModeBatch, []string{"", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, got)

	_, err = Normalize(models.SearchModeIndividual, []interface{}{"a"})
	assert.ErrorIs(t, err, errors.ErrInvalidInputSource)

	_, err = Normalize(models.SearchModeBatch, "a")
	assert.ErrorIs(t, err, errors.ErrInvalidInputSource)

	_, err = Normalize(models.SearchMode("group-ish"), "a")
	assert.ErrorIs(t, err, errors.ErrUnknownMode)
}

func TestNormalize_ErrorsAreValidationCategory(t *testing.T) {
	_, err := Normalize(models.SearchModeBatch, []interface{}{nil})
	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, "VALIDATION", errors.GetErrorCategory(stdErr.Code))
	assert.False(t, stdErr.Retryable)
}
