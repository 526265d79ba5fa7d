package adminhandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jung-kurt/gofpdf"

	"leaveportal/internal/auth"
	"leaveportal/internal/domain/faq"
	"leaveportal/internal/domain/ledger"
	"leaveportal/internal/domain/roster"
	"leaveportal/internal/platform/config"
	"leaveportal/internal/platform/metrics"
	"leaveportal/internal/platform/spreadsheet"
	"leaveportal/internal/transport/http/api"
	"leaveportal/internal/transport/http/middleware"
	"leaveportal/internal/transport/http/shared"
)

type Handler struct {
	Cfg       config.Config
	Roster    *roster.Store
	Ledger    *ledger.Log
	Responder *faq.Responder
	Metrics   *metrics.Collector
}

func NewHandler(cfg config.Config, rosterStore *roster.Store, log *ledger.Log, responder *faq.Responder, collector *metrics.Collector) *Handler {
	return &Handler{Cfg: cfg, Roster: rosterStore, Ledger: log, Responder: responder, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/admin/login", h.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/admin/balances", h.handleBalances)
		r.Get("/admin/rates", h.handleRates)
		r.Get("/admin/log", h.handleLog)
		r.Get("/admin/log/export.pdf", h.handleLogExportPDF)
		r.Post("/admin/insights", h.handleInsights)
		r.Post("/admin/reload", h.handleReload)
		r.Get("/admin/metrics", h.handleMetrics)
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if h.Cfg.AdminEmail == "" || h.Cfg.AdminPasswordHash == "" || h.Cfg.JWTSecret == "" {
		api.Fail(w, http.StatusServiceUnavailable, "admin_not_configured", "admin access is not configured", middleware.GetRequestID(r.Context()))
		return
	}

	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "is required")
	v.Required("password", payload.Password, "is required")
	if !v.OK() {
		api.Fail(w, http.StatusBadRequest, "invalid_input", v.Message(), middleware.GetRequestID(r.Context()))
		return
	}

	if !strings.EqualFold(strings.TrimSpace(payload.Email), h.Cfg.AdminEmail) ||
		auth.CheckPassword(h.Cfg.AdminPasswordHash, payload.Password) != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", middleware.GetRequestID(r.Context()))
		return
	}

	token, err := auth.GenerateToken(h.Cfg.JWTSecret, auth.Claims{Email: h.Cfg.AdminEmail, Role: auth.RoleAdmin}, h.Cfg.SessionTTL)
	if err != nil {
		slog.Error("token generation failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "login_failed", "failed to create session", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"token": token}, middleware.GetRequestID(r.Context()))
}

type tableView struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

func viewOf(t *spreadsheet.Table) tableView {
	if t == nil {
		return tableView{}
	}
	return tableView{Headers: t.Headers, Rows: t.Rows}
}

func (h *Handler) handleBalances(w http.ResponseWriter, r *http.Request) {
	api.Success(w, viewOf(h.Roster.BalanceTable()), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRates(w http.ResponseWriter, r *http.Request) {
	api.Success(w, viewOf(h.Roster.RateTable()), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleLog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Ledger.Entries()
	if err != nil {
		slog.Error("leave log read failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "log_read_failed", "failed to read leave log", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, entries, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleLogExportPDF(w http.ResponseWriter, r *http.Request) {
	table, err := h.Ledger.Table()
	if err != nil {
		slog.Error("leave log read failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "log_read_failed", "failed to read leave log", middleware.GetRequestID(r.Context()))
		return
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Leave Log")
	pdf.Ln(12)

	colWidth := 277.0 / float64(len(table.Headers))
	pdf.SetFont("Helvetica", "B", 10)
	for _, header := range table.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range table.Rows {
		for i := range table.Headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(colWidth, 7, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="leave_log.pdf"`)
	if err := pdf.Output(w); err != nil {
		slog.Warn("pdf output failed", "err", err)
	}
}

type insightsRequest struct {
	Question string `json:"question"`
}

func (h *Handler) handleInsights(w http.ResponseWriter, r *http.Request) {
	if h.Responder == nil {
		api.Fail(w, http.StatusServiceUnavailable, "external_service_error", "ai insights are not configured", middleware.GetRequestID(r.Context()))
		return
	}

	var payload insightsRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("question", payload.Question, "is required")
	if !v.OK() {
		api.Fail(w, http.StatusBadRequest, "invalid_input", v.Message(), middleware.GetRequestID(r.Context()))
		return
	}

	if h.Metrics != nil {
		h.Metrics.RecordFAQRequest()
	}

	tables := renderTable(h.Roster.BalanceTable()) + "\n" + renderTable(h.Roster.RateTable())
	answer := h.Responder.Insights(r.Context(), payload.Question, tables)
	api.Success(w, map[string]string{"answer": answer}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.Roster.Reload(); err != nil {
		slog.Error("roster reload failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "reload_failed", "failed to reload workbooks", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"clinicians": len(h.Roster.Names())}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if h.Metrics == nil {
		api.Fail(w, http.StatusNotFound, "metrics_disabled", "metrics are disabled", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, h.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
}

func renderTable(t *spreadsheet.Table) string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.Join(t.Headers, "\t"))
	b.WriteString("\n")
	for _, row := range t.Rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteString("\n")
	}
	return b.String()
}
