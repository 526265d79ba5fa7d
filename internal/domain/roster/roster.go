package roster

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"leaveportal/internal/platform/spreadsheet"
)

// Workbook column names as maintained by the HR team. Header matching is
// case-insensitive and whitespace-trimmed, so only casing drift is tolerated.
const (
	ColClinicianName    = "Clinician Name"
	ColCategory         = "Time Off: Category"
	ColAvailableBalance = "Time Off: Available Balance"
	ColCurrentBalance   = "Time Off: Current Balance"
	ColSickPayRate      = "Sick Pay Rate"
)

// BalanceRecord is one (clinician, category) row from the balance workbook.
// Clinician and Category carry the canonical spelling from the file.
type BalanceRecord struct {
	Clinician string
	Category  string
	Available spreadsheet.Numeric
	Current   spreadsheet.Numeric
}

// Store holds the externally maintained balance and rate tables. Both
// workbooks are read-only to this service; Reload picks up edits made
// between sessions.
type Store struct {
	balancePath string
	ratePath    string

	mu           sync.RWMutex
	balances     []BalanceRecord
	rates        map[string]decimal.Decimal
	names        []string
	balanceTable *spreadsheet.Table
	rateTable    *spreadsheet.Table
}

func Load(balancePath, ratePath string) (*Store, error) {
	s := &Store{balancePath: balancePath, ratePath: ratePath}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads both workbooks wholesale and swaps the in-memory view.
func (s *Store) Reload() error {
	balanceTable, err := spreadsheet.ReadTable(s.balancePath)
	if err != nil {
		return fmt.Errorf("load balance table: %w", err)
	}
	rateTable, err := spreadsheet.ReadTable(s.ratePath)
	if err != nil {
		return fmt.Errorf("load rate table: %w", err)
	}

	var balances []BalanceRecord
	var names []string
	seen := map[string]bool{}
	for i := 0; i < balanceTable.Len(); i++ {
		name := balanceTable.Cell(i, ColClinicianName)
		if name == "" {
			continue
		}
		balances = append(balances, BalanceRecord{
			Clinician: name,
			Category:  balanceTable.Cell(i, ColCategory),
			Available: balanceTable.Number(i, ColAvailableBalance),
			Current:   balanceTable.Number(i, ColCurrentBalance),
		})
		key := normalize(name)
		if !seen[key] {
			seen[key] = true
			names = append(names, name)
		}
	}

	rates := make(map[string]decimal.Decimal)
	for i := 0; i < rateTable.Len(); i++ {
		name := rateTable.Cell(i, ColClinicianName)
		if name == "" {
			continue
		}
		rate := rateTable.Number(i, ColSickPayRate)
		if !rate.Valid {
			continue
		}
		rates[normalize(name)] = decimal.NewFromFloat(rate.Value)
	}

	s.mu.Lock()
	s.balances = balances
	s.rates = rates
	s.names = names
	s.balanceTable = balanceTable
	s.rateTable = rateTable
	s.mu.Unlock()
	return nil
}

// Names returns the canonical clinician names in balance-table order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Categories returns the sorted leave categories known for a clinician.
func (s *Store) Categories(clinician string) []string {
	key := normalize(clinician)
	s.mu.RLock()
	defer s.mu.RUnlock()

	var categories []string
	seen := map[string]bool{}
	for _, rec := range s.balances {
		if normalize(rec.Clinician) != key || rec.Category == "" {
			continue
		}
		ck := normalize(rec.Category)
		if !seen[ck] {
			seen[ck] = true
			categories = append(categories, rec.Category)
		}
	}
	sort.Strings(categories)
	return categories
}

// Balance returns the available balance for a (clinician, category) pair.
// A missing record or an unparseable balance reads as 0 hours.
func (s *Store) Balance(clinician, category string) (float64, bool) {
	nameKey := normalize(clinician)
	categoryKey := normalize(category)
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.balances {
		if normalize(rec.Clinician) == nameKey && normalize(rec.Category) == categoryKey {
			if !rec.Available.Valid {
				return 0, true
			}
			return rec.Available.Value, true
		}
	}
	return 0, false
}

// Rate returns the clinician's hourly sick-pay rate. Absent clinicians get
// a zero rate; no error is raised.
func (s *Store) Rate(clinician string) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rate, ok := s.rates[normalize(clinician)]; ok {
		return rate
	}
	return decimal.Zero
}

// BalanceTable returns the loaded balance workbook for admin views.
func (s *Store) BalanceTable() *spreadsheet.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balanceTable
}

// RateTable returns the loaded rate workbook for admin views.
func (s *Store) RateTable() *spreadsheet.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rateTable
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
