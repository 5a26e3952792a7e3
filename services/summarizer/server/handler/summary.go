package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/recapd/backend/pkg/json"
	"github.com/recapd/backend/services/summarizer/entity"
)

func (h *Handler) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	var req entity.GenerateSummaryRequest
	if err := json.ParseJSON(r, &req); err != nil {
		json.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, err := h.usecase.GenerateSummary(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err, "failed to generate summary")
		return
	}

	h.log.Info("summary generated", slog.String("id", summary.ID))
	json.WriteJSON(w, http.StatusCreated, summary)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.usecase.GetSummary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err, "failed to get summary")
		return
	}

	json.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) UpdateSummary(w http.ResponseWriter, r *http.Request) {
	var req entity.UpdateSummaryRequest
	if err := json.ParseJSON(r, &req); err != nil {
		json.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, err := h.usecase.UpdateSummary(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeError(w, r, err, "failed to update summary")
		return
	}

	h.log.Info("summary updated", slog.String("id", summary.ID))
	json.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) ListSharesBySummary(w http.ResponseWriter, r *http.Request) {
	shares, err := h.usecase.ListSharesBySummary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err, "failed to list email shares")
		return
	}

	json.WriteJSON(w, http.StatusOK, shares)
}
