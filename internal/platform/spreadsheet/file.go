package spreadsheet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// ErrNotFound is returned by ReadTable when the workbook does not exist.
// Callers decide whether an absent file is an error or an empty table.
var ErrNotFound = errors.New("workbook not found")

const maxXLSRows = 100000

// ReadTable loads the first worksheet of a workbook. The first row is
// treated as the header row.
func ReadTable(path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}

	var rows [][]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xls":
		workbook, err := xls.Open(path, "utf-8")
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		if workbook.NumSheets() == 0 {
			return nil, fmt.Errorf("no worksheet in %s", path)
		}
		rows = workbook.ReadAllCells(maxXLSRows)
	default:
		file, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer func() { _ = file.Close() }()

		sheetName := file.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("no worksheet in %s", path)
		}
		rows, err = file.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if len(rows) == 0 {
		return NewTable(nil, nil), nil
	}
	return NewTable(rows[0], rows[1:]), nil
}

// WriteTable writes the full table back as a single-sheet .xlsx workbook.
// The write goes through a temp file and a rename so a crash mid-write
// never leaves a truncated workbook behind.
func WriteTable(path string, t *Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	file := excelize.NewFile()
	defer func() { _ = file.Close() }()
	sheetName := file.GetSheetName(0)

	header := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := setRow(file, sheetName, 1, header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		if err := setRow(file, sheetName, i+2, cells); err != nil {
			return err
		}
	}

	// SaveAs rejects unknown extensions, so the temp name keeps the xlsx suffix.
	tmp := path + ".tmp.xlsx"
	if err := file.SaveAs(tmp); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return os.Rename(tmp, path)
}

func setRow(file *excelize.File, sheet string, rowNum int, cells []any) error {
	start, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return file.SetSheetRow(sheet, start, &cells)
}
