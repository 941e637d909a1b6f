package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"type": "object",
	"required": ["searchInput", "searchType"],
	"properties": {
		"searchInput": {"type": "array", "minItems": 1, "items": {"type": "string"}},
		"searchType": {"type": "string", "enum": ["individual", "batch"]}
	}
}`

type testPayload struct {
	SearchInput []string `json:"searchInput"`
	SearchType  string   `json:"searchType"`
}

func TestSchema_Validate(t *testing.T) {
	schema := MustCompileSchema(testSchema)

	tests := []struct {
		name      string
		doc       interface{}
		wantValid bool
		badField  string
	}{
		{
			name:      "valid struct",
			doc:       testPayload{SearchInput: []string{"Jane Doe"}, SearchType: "individual"},
			wantValid: true,
		},
		{
			name:     "empty input",
			doc:      testPayload{SearchInput: []string{}, SearchType: "batch"},
			badField: "searchInput",
		},
		{
			name:     "bad enum",
			doc:      testPayload{SearchInput: []string{"x"}, SearchType: "group"},
			badField: "searchType",
		},
		{
			name:     "missing field in map",
			doc:      map[string]interface{}{"searchType": "batch"},
			badField: "(root)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := schema.Validate(tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, res.Valid)
			if !tt.wantValid {
				assert.True(t, res.HasErrors(tt.badField), res.Summary())
				assert.NotEmpty(t, res.GetErrorMessages())
			}
		})
	}
}

func TestCompileSchema_Invalid(t *testing.T) {
	_, err := CompileSchema(`{"type": 12}`)
	assert.Error(t, err)
}

func TestValidateInput_SchemaMap(t *testing.T) {
	schema := map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"id"},
	}
	res, err := ValidateInput(map[string]interface{}{"id": 1}, schema)
	require.NoError(t, err)
	assert.True(t, res.Valid)

	res, err = ValidateInput(map[string]interface{}{}, schema)
	require.NoError(t, err)
	assert.False(t, res.Valid)
}
