package clinicianhandler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"leaveportal/internal/domain/leave"
	"leaveportal/internal/domain/ledger"
	"leaveportal/internal/domain/roster"
	"leaveportal/internal/platform/email"
	"leaveportal/internal/platform/metrics"
	"leaveportal/internal/transport/http/api"
	"leaveportal/internal/transport/http/middleware"
	"leaveportal/internal/transport/http/shared"
)

type Handler struct {
	Roster      *roster.Store
	Pending     *leave.PendingStore
	Ledger      *ledger.Log
	Mailer      email.Mailer
	Metrics     *metrics.Collector
	NotifyEmail string
}

func NewHandler(rosterStore *roster.Store, pending *leave.PendingStore, log *ledger.Log, mailer email.Mailer, collector *metrics.Collector, notifyEmail string) *Handler {
	return &Handler{
		Roster:      rosterStore,
		Pending:     pending,
		Ledger:      log,
		Mailer:      mailer,
		Metrics:     collector,
		NotifyEmail: notifyEmail,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/clinicians/match", h.handleMatch)
	r.Get("/clinicians/{name}/categories", h.handleCategories)
	r.Post("/leave/check", h.handleCheck)
	r.Post("/leave/confirm", h.handleConfirm)
}

type matchRequest struct {
	Name string `json:"name"`
}

type categoryBalance struct {
	Category         string  `json:"category"`
	AvailableBalance float64 `json:"availableBalance"`
}

func (h *Handler) handleMatch(w http.ResponseWriter, r *http.Request) {
	var payload matchRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "is required")
	if !v.OK() {
		api.Fail(w, http.StatusBadRequest, "invalid_input", v.Message(), middleware.GetRequestID(r.Context()))
		return
	}

	matched, ok := roster.Match(payload.Name, h.Roster.Names())
	if !ok {
		api.Fail(w, http.StatusNotFound, "clinician_not_found", "clinician name not found, please check spelling", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]any{
		"name":       matched,
		"categories": h.categoriesFor(matched),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	matched, ok := roster.Match(name, h.Roster.Names())
	if !ok {
		api.Fail(w, http.StatusNotFound, "clinician_not_found", "clinician name not found, please check spelling", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"name":       matched,
		"categories": h.categoriesFor(matched),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) categoriesFor(clinician string) []categoryBalance {
	categories := h.Roster.Categories(clinician)
	out := make([]categoryBalance, 0, len(categories))
	for _, category := range categories {
		available, _ := h.Roster.Balance(clinician, category)
		out = append(out, categoryBalance{Category: category, AvailableBalance: available})
	}
	return out
}

type checkRequest struct {
	Name     string      `json:"name"`
	Category string      `json:"category"`
	Hours    json.Number `json:"hours"`
}

type checkResponse struct {
	Eligible         bool    `json:"eligible"`
	Reason           string  `json:"reason"`
	Pay              string  `json:"pay"`
	AvailableBalance float64 `json:"availableBalance"`
	Token            string  `json:"token,omitempty"`
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	var payload checkRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "is required")
	v.Required("category", payload.Category, "is required")
	hours, hoursOK := v.Hours("hours", payload.Hours.String())
	if !v.OK() || !hoursOK {
		api.Fail(w, http.StatusBadRequest, "invalid_input", v.Message(), middleware.GetRequestID(r.Context()))
		return
	}

	matched, ok := roster.Match(payload.Name, h.Roster.Names())
	if !ok {
		api.Fail(w, http.StatusNotFound, "clinician_not_found", "clinician name not found, please check spelling", middleware.GetRequestID(r.Context()))
		return
	}

	// Missing (clinician, category) rows read as a zero balance, same as an
	// exhausted one.
	available, _ := h.Roster.Balance(matched, payload.Category)
	decision := leave.Evaluate(payload.Category, hours, available, h.Roster.Rate(matched))

	switch decision.Reason {
	case leave.ReasonInvalidInput:
		api.Fail(w, http.StatusBadRequest, "invalid_input", "requested hours must be positive", middleware.GetRequestID(r.Context()))
		return
	case leave.ReasonInsufficientBalance:
		api.Fail(w, http.StatusUnprocessableEntity, "insufficient_balance", "insufficient balance for requested hours", middleware.GetRequestID(r.Context()))
		return
	}

	pending := h.Pending.Put(leave.PendingRequest{
		Clinician:     matched,
		Category:      payload.Category,
		Hours:         hours,
		Pay:           decision.Pay,
		BalanceBefore: available,
	})

	api.Success(w, checkResponse{
		Eligible:         true,
		Reason:           string(decision.Reason),
		Pay:              decision.Pay.StringFixed(2),
		AvailableBalance: available,
		Token:            pending.ID,
	}, middleware.GetRequestID(r.Context()))
}

type confirmRequest struct {
	Token string `json:"token"`
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var payload confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("token", payload.Token, "is required")
	if !v.OK() {
		api.Fail(w, http.StatusBadRequest, "invalid_input", v.Message(), middleware.GetRequestID(r.Context()))
		return
	}

	pending, ok := h.Pending.Consume(payload.Token)
	if !ok {
		api.Fail(w, http.StatusNotFound, "pending_not_found", "no pending eligibility check for this token", middleware.GetRequestID(r.Context()))
		return
	}

	entry, err := h.Ledger.Append(pending.Clinician, pending.Category, pending.Hours, pending.BalanceBefore, pending.Pay, time.Now())
	if err != nil {
		slog.Error("ledger append failed", "err", err, "clinician", pending.Clinician)
		api.Fail(w, http.StatusInternalServerError, "ledger_write_failed", "failed to log leave", middleware.GetRequestID(r.Context()))
		return
	}

	if h.Metrics != nil {
		h.Metrics.RecordLedgerAppend()
	}
	h.notify(r.Context(), entry)

	api.Created(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) notify(ctx context.Context, entry ledger.Entry) {
	if h.Mailer == nil || h.NotifyEmail == "" {
		return
	}
	subject := fmt.Sprintf("Leave logged: %s (%s)", entry.Clinician, entry.Category)
	body := fmt.Sprintf(
		"Clinician: %s\nDate: %s\nCategory: %s\nBalance before: %v\nBalance after: %v\nPay: %s\n",
		entry.Clinician, entry.Date, entry.Category, entry.BalanceBefore, entry.BalanceAfter, entry.Pay.StringFixed(2),
	)
	if err := h.Mailer.Send(ctx, h.NotifyEmail, subject, body); err != nil {
		slog.Warn("leave notification failed", "err", err, "to", h.NotifyEmail)
	}
}
