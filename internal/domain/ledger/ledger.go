package ledger

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"leaveportal/internal/domain/leave"
	"leaveportal/internal/platform/spreadsheet"
)

// Log workbook columns, in stored order.
const (
	ColClinicianName = "Clinician Name"
	ColDate          = "Date"
	ColBalanceBefore = "Balance Before"
	ColBalanceAfter  = "Balance After"
	ColCategory      = "Category"
	ColPay           = "Pay"
)

const dateLayout = "2006-01-02"

var logHeaders = []string{ColClinicianName, ColDate, ColBalanceBefore, ColBalanceAfter, ColCategory, ColPay}

// Entry is one append-only record of a confirmed leave transaction.
type Entry struct {
	Clinician     string          `json:"clinicianName"`
	Date          string          `json:"date"`
	BalanceBefore float64         `json:"balanceBefore"`
	BalanceAfter  float64         `json:"balanceAfter"`
	Category      string          `json:"category"`
	Pay           decimal.Decimal `json:"pay"`
}

// Log appends confirmed leave transactions to the log workbook. Every
// append loads the persisted log in full, adds one row preserving prior
// order, and writes the whole table back. Appends within this process are
// serialized; across processes the last writer wins (accepted limitation).
type Log struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Log {
	return &Log{path: path}
}

// Append records a confirmed transaction and returns the written entry.
// Unpaid leave never draws down the balance; everything else subtracts the
// requested hours.
func (l *Log) Append(clinician, category string, hours, balanceBefore float64, pay decimal.Decimal, date time.Time) (Entry, error) {
	balanceAfter := balanceBefore - hours
	if strings.EqualFold(strings.TrimSpace(category), leave.CategoryUnpaid) {
		balanceAfter = balanceBefore
	}

	entry := Entry{
		Clinician:     clinician,
		Date:          date.Format(dateLayout),
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		Category:      category,
		Pay:           pay,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	table, err := l.load()
	if err != nil {
		return Entry{}, err
	}
	table.Append([]string{
		entry.Clinician,
		entry.Date,
		formatHours(entry.BalanceBefore),
		formatHours(entry.BalanceAfter),
		entry.Category,
		entry.Pay.StringFixed(2),
	})
	if err := spreadsheet.WriteTable(l.path, table); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Entries returns the log in stored order. An absent log file reads as an
// empty log, not an error.
func (l *Log) Entries() ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	table, err := l.load()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		pay := decimal.Zero
		if cell := table.Cell(i, ColPay); cell != "" {
			if parsed, err := decimal.NewFromString(cell); err == nil {
				pay = parsed
			}
		}
		entries = append(entries, Entry{
			Clinician:     table.Cell(i, ColClinicianName),
			Date:          table.Cell(i, ColDate),
			BalanceBefore: balanceCell(table, i, ColBalanceBefore),
			BalanceAfter:  balanceCell(table, i, ColBalanceAfter),
			Category:      table.Cell(i, ColCategory),
			Pay:           pay,
		})
	}
	return entries, nil
}

// Table returns the raw log table for admin views and exports.
func (l *Log) Table() (*spreadsheet.Table, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

func (l *Log) load() (*spreadsheet.Table, error) {
	table, err := spreadsheet.ReadTable(l.path)
	if errors.Is(err, spreadsheet.ErrNotFound) {
		return spreadsheet.NewTable(logHeaders, nil), nil
	}
	if err != nil {
		return nil, err
	}
	return table, nil
}

// balanceCell tolerates hand-edited log rows: an unparseable balance reads
// as zero, with a warning so the bad cell can be found and fixed.
func balanceCell(table *spreadsheet.Table, row int, column string) float64 {
	n := table.Number(row, column)
	if !n.Valid && table.Cell(row, column) != "" {
		slog.Warn("unparseable balance in leave log", "row", row+1, "column", column, "cell", table.Cell(row, column))
	}
	return n.Value
}

func formatHours(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
