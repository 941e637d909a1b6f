// Package inputnormalizer turns raw operator input into ordered search terms.
package inputnormalizer

import (
	"fmt"
	"strconv"
	"strings"

	"records-search/internal/common/errors"
	"records-search/internal/models"
)

// Normalize dispatches on mode. Individual expects a string; batch expects
// the raw cell values of one spreadsheet column.
func Normalize(mode models.SearchMode, raw interface{}) ([]string, error) {
	switch mode {
	case models.SearchModeIndividual:
		s, ok := raw.(string)
		if !ok {
			return nil, errors.NewInvalidInputSourceError(string(mode), raw)
		}
		return NormalizeIndividual(s)

	case models.SearchModeBatch:
		switch cells := raw.(type) {
		case []interface{}:
			return NormalizeBatch(cells)
		case []string:
			values := make([]interface{}, len(cells))
			for i, c := range cells {
				values[i] = c
			}
			return NormalizeBatch(values)
		default:
			return nil, errors.NewInvalidInputSourceError(string(mode), raw)
		}

	default:
		return nil, errors.NewUnknownModeError(string(mode))
	}
}

// NormalizeIndividual trims the entry and yields it as the only term.
func NormalizeIndividual(entry string) ([]string, error) {
	term := strings.TrimSpace(entry)
	if term == "" {
		return nil, errors.NewEmptyInputError()
	}
	return []string{term}, nil
}

// NormalizeBatch drops nil and empty-string cells and stringifies the rest,
// keeping source order and duplicates. Values are not trimmed.
func NormalizeBatch(cells []interface{}) ([]string, error) {
	terms := make([]string, 0, len(cells))
	for _, cell := range cells {
		if cell == nil {
			continue
		}
		s := stringify(cell)
		if s == "" {
			continue
		}
		terms = append(terms, s)
	}

	if len(terms) == 0 {
		return nil, errors.NewEmptyBatchError(len(cells))
	}
	return terms, nil
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
