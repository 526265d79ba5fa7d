package faqhandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"leaveportal/internal/domain/faq"
	"leaveportal/internal/platform/metrics"
	"leaveportal/internal/transport/http/api"
	"leaveportal/internal/transport/http/middleware"
	"leaveportal/internal/transport/http/shared"
)

type Handler struct {
	Responder *faq.Responder
	Metrics   *metrics.Collector
}

func NewHandler(responder *faq.Responder, collector *metrics.Collector) *Handler {
	return &Handler{Responder: responder, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/faq", h.handleAsk)
	r.Get("/faq/common", h.handleCommon)
}

type askRequest struct {
	Question string `json:"question"`
}

func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	if h.Responder == nil {
		api.Fail(w, http.StatusServiceUnavailable, "external_service_error", "policy assistant is not configured", middleware.GetRequestID(r.Context()))
		return
	}

	var payload askRequest
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

	// Provider failures come back as a readable answer string; the FAQ
	// surface never takes the rest of the portal down with it.
	answer := h.Responder.Answer(r.Context(), payload.Question)
	api.Success(w, map[string]string{"answer": answer}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCommon(w http.ResponseWriter, r *http.Request) {
	api.Success(w, faq.CommonQuestions(), middleware.GetRequestID(r.Context()))
}
