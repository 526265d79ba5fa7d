package clinicianhandler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"leaveportal/internal/domain/leave"
	"leaveportal/internal/domain/ledger"
	"leaveportal/internal/domain/roster"
	"leaveportal/internal/platform/metrics"
	"leaveportal/internal/platform/spreadsheet"
)

type testEnv struct {
	router  chi.Router
	logPath string
	ledger  *ledger.Log
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	balancePath := filepath.Join(dir, "balances.xlsx")
	balanceTable := spreadsheet.NewTable(
		[]string{roster.ColClinicianName, roster.ColCategory, roster.ColAvailableBalance, roster.ColCurrentBalance},
		[][]string{
			{"Jane Doe", "Sick", "20.0", "20.0"},
			{"Jane Doe", "Unpaid Leave", "0", "0"},
			{"John Roe", "Sick", "5.0", "5.0"},
		},
	)
	if err := spreadsheet.WriteTable(balancePath, balanceTable); err != nil {
		t.Fatalf("write balance fixture: %v", err)
	}

	ratePath := filepath.Join(dir, "rates.xlsx")
	rateTable := spreadsheet.NewTable(
		[]string{roster.ColClinicianName, roster.ColSickPayRate},
		[][]string{{"Jane Doe", "25.00"}},
	)
	if err := spreadsheet.WriteTable(ratePath, rateTable); err != nil {
		t.Fatalf("write rate fixture: %v", err)
	}

	store, err := roster.Load(balancePath, ratePath)
	if err != nil {
		t.Fatalf("load roster: %v", err)
	}

	logPath := filepath.Join(dir, "log.xlsx")
	log := ledger.New(logPath)

	h := NewHandler(store, leave.NewPendingStore(15*time.Minute), log, nil, metrics.New(), "")
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	return &testEnv{router: r, logPath: logPath, ledger: log}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	return rec, env
}

func TestMatchExactAndFuzzy(t *testing.T) {
	env := newTestEnv(t)

	for _, input := range []string{"Jane Doe", "  jane doe  ", "Jane Do"} {
		rec, body := env.do(t, http.MethodPost, "/clinicians/match", map[string]string{"name": input})
		if rec.Code != http.StatusOK {
			t.Fatalf("match %q: status %d, want 200", input, rec.Code)
		}
		var data struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(body.Data, &data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
		if data.Name != "Jane Doe" {
			t.Fatalf("match %q: got %q, want canonical Jane Doe", input, data.Name)
		}
	}
}

func TestMatchUnknownName(t *testing.T) {
	env := newTestEnv(t)
	rec, body := env.do(t, http.MethodPost, "/clinicians/match", map[string]string{"name": "Zzyzx Qqq"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if body.Error == nil || body.Error.Code != "clinician_not_found" {
		t.Fatalf("error = %+v, want clinician_not_found", body.Error)
	}
}

func TestCategoriesListsBalances(t *testing.T) {
	env := newTestEnv(t)
	rec, body := env.do(t, http.MethodGet, "/clinicians/jane%20doe/categories", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var data struct {
		Name       string `json:"name"`
		Categories []struct {
			Category         string  `json:"category"`
			AvailableBalance float64 `json:"availableBalance"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.Categories) != 2 {
		t.Fatalf("categories = %d, want 2", len(data.Categories))
	}
}

func TestCheckAndConfirmWritesLog(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/leave/check", map[string]any{
		"name": "jane doe", "category": "Sick", "hours": 8,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("check status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var check struct {
		Eligible bool   `json:"eligible"`
		Pay      string `json:"pay"`
		Token    string `json:"token"`
	}
	if err := json.Unmarshal(body.Data, &check); err != nil {
		t.Fatalf("decode check: %v", err)
	}
	if !check.Eligible || check.Pay != "200.00" || check.Token == "" {
		t.Fatalf("check = %+v, want eligible pay 200.00 with token", check)
	}

	rec, body = env.do(t, http.MethodPost, "/leave/confirm", map[string]string{"token": check.Token})
	if rec.Code != http.StatusCreated {
		t.Fatalf("confirm status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	var entry struct {
		BalanceAfter float64 `json:"balanceAfter"`
	}
	if err := json.Unmarshal(body.Data, &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry.BalanceAfter != 12.0 {
		t.Fatalf("balanceAfter = %v, want 12.0", entry.BalanceAfter)
	}

	entries, err := env.ledger.Entries()
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(entries) != 1 || entries[0].Clinician != "Jane Doe" {
		t.Fatalf("log entries = %+v, want one Jane Doe row", entries)
	}
}

func TestConfirmTokenConsumedOnce(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.do(t, http.MethodPost, "/leave/check", map[string]any{
		"name": "Jane Doe", "category": "Sick", "hours": 2,
	})
	var check struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body.Data, &check); err != nil {
		t.Fatalf("decode check: %v", err)
	}

	rec, _ := env.do(t, http.MethodPost, "/leave/confirm", map[string]string{"token": check.Token})
	if rec.Code != http.StatusCreated {
		t.Fatalf("first confirm status = %d, want 201", rec.Code)
	}
	rec, body = env.do(t, http.MethodPost, "/leave/confirm", map[string]string{"token": check.Token})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second confirm status = %d, want 404", rec.Code)
	}
	if body.Error == nil || body.Error.Code != "pending_not_found" {
		t.Fatalf("error = %+v, want pending_not_found", body.Error)
	}
}

func TestCheckInsufficientBalanceWritesNothing(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/leave/check", map[string]any{
		"name": "Jane Doe", "category": "Sick", "hours": 25,
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if body.Error == nil || body.Error.Code != "insufficient_balance" {
		t.Fatalf("error = %+v, want insufficient_balance", body.Error)
	}
	if _, err := os.Stat(env.logPath); !os.IsNotExist(err) {
		t.Fatalf("log file exists after rejected check, stat err = %v", err)
	}
}

func TestCheckUnpaidLeaveSkipsBalance(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/leave/check", map[string]any{
		"name": "Jane Doe", "category": "Unpaid Leave", "hours": 40,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var check struct {
		Eligible bool   `json:"eligible"`
		Pay      string `json:"pay"`
		Token    string `json:"token"`
	}
	if err := json.Unmarshal(body.Data, &check); err != nil {
		t.Fatalf("decode check: %v", err)
	}
	if !check.Eligible || check.Pay != "0.00" {
		t.Fatalf("check = %+v, want eligible unpaid with zero pay", check)
	}

	_, body = env.do(t, http.MethodPost, "/leave/confirm", map[string]string{"token": check.Token})
	var entry struct {
		BalanceBefore float64 `json:"balanceBefore"`
		BalanceAfter  float64 `json:"balanceAfter"`
	}
	if err := json.Unmarshal(body.Data, &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry.BalanceAfter != entry.BalanceBefore {
		t.Fatalf("unpaid leave changed balance: before %v after %v", entry.BalanceBefore, entry.BalanceAfter)
	}
}

func TestCheckMissingRatePaysZero(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/leave/check", map[string]any{
		"name": "John Roe", "category": "Sick", "hours": 4,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var check struct {
		Pay string `json:"pay"`
	}
	if err := json.Unmarshal(body.Data, &check); err != nil {
		t.Fatalf("decode check: %v", err)
	}
	if check.Pay != "0.00" {
		t.Fatalf("pay = %q, want 0.00 when no rate is on file", check.Pay)
	}
}

func TestCheckInvalidHours(t *testing.T) {
	env := newTestEnv(t)

	for _, hours := range []any{0, -3, "abc"} {
		rec, _ := env.do(t, http.MethodPost, "/leave/check", map[string]any{
			"name": "Jane Doe", "category": "Sick", "hours": hours,
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("hours %v: status = %d, want 400", hours, rec.Code)
		}
	}
}
