package spreadsheetreader

import (
	"os"
	"path/filepath"
	"testing"

	"records-search/internal/common/errors"
	inputnormalizer "records-search/internal/search/input-normalizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes column A of the first sheet; nil leaves the cell empty.
func buildWorkbook(t *testing.T, column []interface{}, extra func(f *excelize.File)) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, v := range column {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("Sheet1", cell, v))
	}
	if extra != nil {
		extra(f)
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestFirstColumn(t *testing.T) {
	payload := buildWorkbook(t, []interface{}{nil, "Smith, J", nil, "Lee, A", 5, 3.5}, func(f *excelize.File) {
		require.NoError(t, f.SetCellValue("Sheet1", "B3", "ignored"))
	})

	column, err := FirstColumn(payload)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{nil, "Smith, J", nil, "Lee, A", "5", "3.5"}, column)

	terms, err := inputnormalizer.NormalizeBatch(column)
	require.NoError(t, err)
	assert.Equal(t, []string{"Smith, J", "Lee, A", "5", "3.5"}, terms)
}

func TestFirstColumn_OnlyFirstSheet(t *testing.T) {
	payload := buildWorkbook(t, []interface{}{"first"}, func(f *excelize.File) {
		_, err := f.NewSheet("Other")
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("Other", "A1", "second"))
	})

	wb, err := Open(payload)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"Sheet1", "Other"}, wb.SheetNames())

	column, err := wb.FirstColumn()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"first"}, column)

	rows, err := wb.Rows("Other")
	require.NoError(t, err)
	assert.Equal(t, [][]interface{}{{"second"}}, rows)
}

func TestFirstColumn_EmptySheetFeedsEmptyBatch(t *testing.T) {
	column, err := FirstColumn(buildWorkbook(t, nil, nil))
	require.NoError(t, err)
	assert.Empty(t, column)

	_, err = inputnormalizer.NormalizeBatch(column)
	assert.ErrorIs(t, err, errors.ErrEmptyBatch)
}

func TestOpen_Unreadable(t *testing.T) {
	_, err := Open([]byte("name\nSmith, J\n"))
	assert.ErrorIs(t, err, errors.ErrSpreadsheetUnreadable)

	_, err = Open(nil)
	assert.ErrorIs(t, err, errors.ErrSpreadsheetUnreadable)
}

func TestRows_UnknownSheet(t *testing.T) {
	wb, err := Open(buildWorkbook(t, []interface{}{"a"}, nil))
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.Rows("Missing")
	assert.ErrorIs(t, err, errors.ErrSpreadsheetUnreadable)
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "roster.xlsx")
	require.NoError(t, os.WriteFile(good, buildWorkbook(t, []interface{}{"Doe, J"}, nil), 0o600))
	wb, err := OpenFile(good)
	require.NoError(t, err)
	column, err := wb.FirstColumn()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"Doe, J"}, column)
	require.NoError(t, wb.Close())

	legacy := filepath.Join(dir, "roster.xls")
	require.NoError(t, os.WriteFile(legacy, []byte("binary"), 0o600))
	_, err = OpenFile(legacy)
	assert.ErrorIs(t, err, errors.ErrSpreadsheetUnreadable)

	_, err = OpenFile(filepath.Join(dir, "missing.xlsx"))
	assert.ErrorIs(t, err, errors.ErrSpreadsheetUnreadable)
}
