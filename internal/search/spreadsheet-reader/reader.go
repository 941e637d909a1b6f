// Package spreadsheetreader decodes uploaded workbooks into header-less rows.
package spreadsheetreader

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"records-search/internal/common/errors"

	"github.com/xuri/excelize/v2"
)

// Workbook is an opened spreadsheet. Close it when done.
type Workbook struct {
	file *excelize.File
}

// Open decodes an OOXML workbook (.xlsx, .xlsm) from memory.
func Open(payload []byte) (*Workbook, error) {
	if len(payload) == 0 {
		return nil, errors.NewSpreadsheetUnreadableError(fmt.Errorf("empty payload"))
	}
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, errors.NewSpreadsheetUnreadableError(err)
	}
	return &Workbook{file: f}, nil
}

// OpenFile reads path and decodes it.
func OpenFile(path string) (*Workbook, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
	default:
		return nil, errors.NewSpreadsheetUnreadableError(
			fmt.Errorf("%s: only Excel workbooks (.xlsx, .xlsm) are supported", filepath.Base(path)))
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewSpreadsheetUnreadableError(err)
	}
	return Open(payload)
}

// SheetNames lists the sheets in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Rows returns every row of sheet as raw cell values. The first row is data,
// not a header. Blank cells come back as nil.
func (w *Workbook) Rows(sheet string) ([][]interface{}, error) {
	rows, err := w.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.NewSpreadsheetUnreadableError(err)
	}

	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			if v != "" {
				cells[j] = v
			}
		}
		out[i] = cells
	}
	return out, nil
}

// FirstColumn returns column 0 of the first sheet, one entry per row, with
// nil for rows that have no value there.
func (w *Workbook) FirstColumn() ([]interface{}, error) {
	sheets := w.SheetNames()
	if len(sheets) == 0 {
		return []interface{}{}, nil
	}

	rows, err := w.Rows(sheets[0])
	if err != nil {
		return nil, err
	}

	column := make([]interface{}, len(rows))
	for i, row := range rows {
		if len(row) > 0 {
			column[i] = row[0]
		}
	}
	return column, nil
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

// FirstColumn decodes payload and extracts column 0 of its first sheet.
func FirstColumn(payload []byte) ([]interface{}, error) {
	wb, err := Open(payload)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	return wb.FirstColumn()
}
