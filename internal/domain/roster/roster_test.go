package roster

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"leaveportal/internal/platform/spreadsheet"
)

func writeFixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	balancePath := filepath.Join(dir, "Sick_Leave_Data.xlsx")
	ratePath := filepath.Join(dir, "Sick_Pay_rates.xlsx")

	balances := spreadsheet.NewTable(
		[]string{" Clinician Name ", "Time Off: Category", "Time Off: Available Balance", "Time Off: Current Balance"},
		[][]string{
			{"Jane Doe", "Sick", "20.0", "20.0"},
			{"Jane Doe", "Unpaid Leave", "0", ""},
			{"Jane Doe", "Vacation F/T", "40", "40"},
			{"John Roe", "Sick", "bad-number", "10"},
		},
	)
	if err := spreadsheet.WriteTable(balancePath, balances); err != nil {
		t.Fatalf("write balance fixture: %v", err)
	}

	rates := spreadsheet.NewTable(
		[]string{"Clinician Name", " Sick Pay Rate "},
		[][]string{{"Jane Doe", "25.00"}},
	)
	if err := spreadsheet.WriteTable(ratePath, rates); err != nil {
		t.Fatalf("write rate fixture: %v", err)
	}
	return balancePath, ratePath
}

func TestLoadNamesAndCategories(t *testing.T) {
	balancePath, ratePath := writeFixtures(t)
	store, err := Load(balancePath, ratePath)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	names := store.Names()
	if len(names) != 2 || names[0] != "Jane Doe" || names[1] != "John Roe" {
		t.Fatalf("unexpected names: %v", names)
	}

	categories := store.Categories("jane doe")
	if len(categories) != 3 {
		t.Fatalf("expected 3 categories, got %v", categories)
	}
	if categories[0] != "Sick" || categories[1] != "Unpaid Leave" || categories[2] != "Vacation F/T" {
		t.Fatalf("expected sorted categories, got %v", categories)
	}
}

func TestBalanceLookup(t *testing.T) {
	balancePath, ratePath := writeFixtures(t)
	store, err := Load(balancePath, ratePath)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	available, ok := store.Balance(" JANE DOE ", "sick")
	if !ok || available != 20.0 {
		t.Fatalf("expected 20.0 available, got %v (ok=%v)", available, ok)
	}

	// Unparseable balances read as zero hours rather than failing.
	available, ok = store.Balance("John Roe", "Sick")
	if !ok || available != 0 {
		t.Fatalf("expected unparseable balance to read as 0, got %v (ok=%v)", available, ok)
	}

	if _, ok := store.Balance("Jane Doe", "Jury Duty"); ok {
		t.Fatal("expected unknown category to report no record")
	}
}

func TestRateFailsSoft(t *testing.T) {
	balancePath, ratePath := writeFixtures(t)
	store, err := Load(balancePath, ratePath)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if rate := store.Rate("jane doe"); !rate.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("expected rate 25.00, got %s", rate)
	}
	if rate := store.Rate("John Roe"); !rate.IsZero() {
		t.Fatalf("expected zero rate for clinician missing from rate table, got %s", rate)
	}
}

func TestLoadMissingWorkbook(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "absent.xlsx"), filepath.Join(dir, "absent2.xlsx")); err == nil {
		t.Fatal("expected error for missing balance workbook")
	}
}
