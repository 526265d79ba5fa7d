package spreadsheet

import (
	"strconv"
	"strings"
)

// Table is an ordered, header-indexed view over one worksheet. Headers are
// whitespace-trimmed on construction; column lookups are case-insensitive.
type Table struct {
	Headers []string
	Rows    [][]string

	index map[string]int
}

// Numeric is a coerced cell value. Unparseable or empty cells are reported
// as invalid rather than raising an error.
type Numeric struct {
	Value float64
	Valid bool
}

func NewTable(headers []string, rows [][]string) *Table {
	t := &Table{
		Headers: make([]string, len(headers)),
		Rows:    rows,
		index:   make(map[string]int, len(headers)),
	}
	for i, h := range headers {
		trimmed := strings.TrimSpace(h)
		t.Headers[i] = trimmed
		key := strings.ToLower(trimmed)
		if _, exists := t.index[key]; !exists {
			t.index[key] = i
		}
	}
	return t
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// Col returns the column position for a header name.
func (t *Table) Col(name string) (int, bool) {
	idx, ok := t.index[strings.ToLower(strings.TrimSpace(name))]
	return idx, ok
}

// Cell returns the trimmed cell value at (row, column name), or "" when the
// row is short or the column is unknown.
func (t *Table) Cell(row int, name string) string {
	idx, ok := t.Col(name)
	if !ok || row < 0 || row >= len(t.Rows) {
		return ""
	}
	cells := t.Rows[row]
	if idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

// Number coerces a cell to a numeric value.
func (t *Table) Number(row int, name string) Numeric {
	raw := t.Cell(row, name)
	if raw == "" {
		return Numeric{}
	}
	raw = strings.ReplaceAll(raw, ",", "")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Numeric{}
	}
	return Numeric{Value: value, Valid: true}
}

// Append adds a row, padding or truncating it to the header width.
func (t *Table) Append(row []string) {
	cells := make([]string, len(t.Headers))
	for i := range cells {
		if i < len(row) {
			cells[i] = row[i]
		}
	}
	t.Rows = append(t.Rows, cells)
}
