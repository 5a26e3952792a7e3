package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/recapd/backend/pkg/json"
	"github.com/recapd/backend/pkg/logger"
	"github.com/recapd/backend/services/summarizer/entity"
	"github.com/recapd/backend/services/summarizer/usecase"
)

type Handler struct {
	usecase usecase.Usecase
	log     *slog.Logger
}

func New(usecase usecase.Usecase, log *slog.Logger) *Handler {
	return &Handler{
		usecase: usecase,
		log:     log,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/transcripts", func(r chi.Router) {
		r.Post("/", h.CreateTranscript)
		r.Post("/upload", h.UploadTranscript)
		r.Get("/{id}", h.GetTranscript)
		r.Get("/{id}/summaries", h.ListSummariesByTranscript)
	})

	r.Route("/summaries", func(r chi.Router) {
		r.Post("/generate", h.GenerateSummary)
		r.Post("/email", h.SendSummaryEmail)
		r.Get("/{id}", h.GetSummary)
		r.Patch("/{id}", h.UpdateSummary)
		r.Get("/{id}/shares", h.ListSharesBySummary)
	})

	r.Get("/health", h.HealthCheck)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	json.WriteJSON(w, http.StatusOK, map[string]bool{"status": true})
}

// writeError maps failures onto the three error classes: validation detail as
// 400, unknown ids as 404, and everything else as the endpoint's fixed 500
// message with the real cause kept server-side.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, serverFaultMsg string) {
	var vErr *entity.ValidationError
	switch {
	case errors.As(err, &vErr):
		json.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error":  vErr.Error(),
			"fields": vErr.Fields,
		})
	case errors.Is(err, entity.ErrNotFound):
		json.WriteError(w, http.StatusNotFound, "not found")
	default:
		logger.ErrorErr(r.Context(), "request failed",
			err,
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path))
		json.WriteError(w, http.StatusInternalServerError, serverFaultMsg)
	}
}
