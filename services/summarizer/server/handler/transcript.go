package handler

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/recapd/backend/pkg/json"
	"github.com/recapd/backend/services/summarizer/consts"
	"github.com/recapd/backend/services/summarizer/entity"
)

func (h *Handler) CreateTranscript(w http.ResponseWriter, r *http.Request) {
	var req entity.CreateTranscriptRequest
	if err := json.ParseJSON(r, &req); err != nil {
		json.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	transcript, err := h.usecase.CreateTranscript(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err, "failed to create transcript")
		return
	}

	h.log.Info("transcript created", slog.String("id", transcript.ID))
	json.WriteJSON(w, http.StatusCreated, transcript)
}

func (h *Handler) UploadTranscript(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, consts.MaxUploadSize)

	// Parts are streamed so an unsupported file type is rejected from its
	// headers alone, before any of its bytes are consumed.
	mr, err := r.MultipartReader()
	if err != nil {
		json.WriteError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			json.WriteError(w, http.StatusBadRequest, "invalid multipart request")
			return
		}
		if part.FormName() != "file" {
			part.Close()
			continue
		}

		h.uploadFilePart(w, r, part)
		return
	}

	json.WriteError(w, http.StatusBadRequest, "no file uploaded")
}

func (h *Handler) uploadFilePart(w http.ResponseWriter, r *http.Request, part *multipart.Part) {
	defer part.Close()

	contentType, _, _ := strings.Cut(part.Header.Get("Content-Type"), ";")
	contentType = strings.TrimSpace(contentType)
	if contentType != consts.MimeTextPlain && contentType != consts.MimeWordDocument {
		json.WriteError(w, http.StatusBadRequest, "unsupported file type")
		return
	}

	data, err := io.ReadAll(part)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			json.WriteError(w, http.StatusBadRequest, "file too large")
			return
		}
		h.log.Error("failed to read uploaded file", slog.String("error", err.Error()))
		json.WriteError(w, http.StatusInternalServerError, "failed to read uploaded file")
		return
	}

	transcript, err := h.usecase.UploadTranscript(r.Context(), &entity.UploadTranscriptRequest{
		FileName:    part.FileName(),
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		h.writeError(w, r, err, "failed to upload transcript")
		return
	}

	h.log.Info("transcript uploaded",
		slog.String("id", transcript.ID),
		slog.String("file_name", part.FileName()),
		slog.Int("size", len(data)))
	json.WriteJSON(w, http.StatusCreated, transcript)
}

func (h *Handler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	transcript, err := h.usecase.GetTranscript(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err, "failed to get transcript")
		return
	}

	json.WriteJSON(w, http.StatusOK, transcript)
}

func (h *Handler) ListSummariesByTranscript(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.usecase.ListSummariesByTranscript(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err, "failed to list summaries")
		return
	}

	json.WriteJSON(w, http.StatusOK, summaries)
}
