package handler

import (
	"log/slog"
	"net/http"

	"github.com/recapd/backend/pkg/json"
	"github.com/recapd/backend/services/summarizer/entity"
)

func (h *Handler) SendSummaryEmail(w http.ResponseWriter, r *http.Request) {
	var req entity.SendEmailRequest
	if err := json.ParseJSON(r, &req); err != nil {
		json.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.usecase.SendSummaryEmail(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err, "failed to send summary email")
		return
	}

	h.log.Info("summary email sent",
		slog.String("summary_id", req.SummaryID),
		slog.Int("recipients", len(req.Recipients)))
	json.WriteJSON(w, http.StatusOK, resp)
}
