package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/recapd/backend/pkg/gen"
	"github.com/recapd/backend/pkg/logger"
	"github.com/recapd/backend/services/summarizer/entity"
	"github.com/recapd/backend/services/summarizer/storage"
	"github.com/recapd/backend/services/summarizer/usecase"
)

type stubCompleter struct {
	response string
	err      error
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return s.response, s.err
}

type stubMailer struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (s *stubMailer) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.err
}

func (s *stubMailer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type testEnv struct {
	router    chi.Router
	storage   storage.Storage
	completer *stubCompleter
	mailer    *stubMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	stg := storage.New(gen.UUID())
	completer := &stubCompleter{response: "Generated summary."}
	mailer := &stubMailer{}

	h := New(usecase.New(stg, completer, mailer), slog.New(slog.NewTextHandler(io.Discard, nil)))

	router := chi.NewRouter()
	h.RegisterRoutes(router)

	return &testEnv{
		router:    router,
		storage:   stg,
		completer: completer,
		mailer:    mailer,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rec.Body.String())
	}
	return v
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestCreateTranscript(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/transcripts", map[string]string{"content": "meeting notes"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}

	transcript := decode[entity.Transcript](t, rec)
	if transcript.ID == "" {
		t.Error("expected non-empty id")
	}
	if transcript.Content != "meeting notes" {
		t.Errorf("content = %q", transcript.Content)
	}
}

func TestCreateTranscript_MissingContent(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/transcripts", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateTranscript_WrongType(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/transcripts", map[string]any{"content": 123})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGenerateSummary(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/summaries/generate", map[string]string{
		"transcriptContent": "Alice: let's ship Friday. Bob: agreed.",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}

	summary := decode[entity.Summary](t, rec)
	if summary.Content != "Generated summary." {
		t.Errorf("content = %q", summary.Content)
	}
	if summary.TranscriptID == "" {
		t.Error("expected linked transcript id")
	}
	if summary.WordCount != "2" {
		t.Errorf("word count = %q, want 2", summary.WordCount)
	}
}

func TestGenerateSummary_ValidationDetail(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/summaries/generate", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	resp := decode[struct {
		Error  string              `json:"error"`
		Fields []entity.FieldError `json:"fields"`
	}](t, rec)
	if len(resp.Fields) != 1 || resp.Fields[0].Field != "transcriptContent" {
		t.Errorf("fields = %v, want transcriptContent detail", resp.Fields)
	}
}

func TestGenerateSummary_CollaboratorFailure(t *testing.T) {
	env := newTestEnv(t)
	env.completer.err = fmt.Errorf("api unavailable")

	rec := env.do(t, http.MethodPost, "/summaries/generate", map[string]string{
		"transcriptContent": "content",
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	resp := decode[map[string]string](t, rec)
	if resp["error"] != "failed to generate summary" {
		t.Errorf("error = %q, want the fixed message", resp["error"])
	}
}

func TestGenerateSummary_FailureLogsCause(t *testing.T) {
	env := newTestEnv(t)
	env.completer.err = fmt.Errorf("api unavailable")

	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf})

	raw, err := json.Marshal(map[string]string{"transcriptContent": "content"})
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/summaries/generate", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(logger.WithContext(req.Context(), log))

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(buf.String(), "request failed") {
		t.Errorf("log output missing failure record: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "api unavailable") {
		t.Errorf("log output missing cause: %q", buf.String())
	}
}

func TestGetSummary_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/summaries/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateSummary(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.storage.CreateSummary(context.Background(), "t-1", "original", nil)
	if err != nil {
		t.Fatalf("seed summary: %v", err)
	}

	rec := env.do(t, http.MethodPatch, "/summaries/"+created.ID, map[string]string{"content": "one two three"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	updated := decode[entity.Summary](t, rec)
	if updated.WordCount != "3" {
		t.Errorf("word count = %q, want 3", updated.WordCount)
	}
}

func TestUpdateSummary_EmptyContentLeavesStoreUnchanged(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.storage.CreateSummary(context.Background(), "t-1", "original", nil)
	if err != nil {
		t.Fatalf("seed summary: %v", err)
	}

	rec := env.do(t, http.MethodPatch, "/summaries/"+created.ID, map[string]string{"content": ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	get := env.do(t, http.MethodGet, "/summaries/"+created.ID, nil)
	if get.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", get.Code)
	}
	stored := decode[entity.Summary](t, get)
	if stored.Content != "original" {
		t.Errorf("stored content = %q, want untouched original", stored.Content)
	}
}

func TestUpdateSummary_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPatch, "/summaries/missing", map[string]string{"content": "new"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSendSummaryEmail(t *testing.T) {
	env := newTestEnv(t)

	summary, err := env.storage.CreateSummary(context.Background(), "t-1", "the summary", nil)
	if err != nil {
		t.Fatalf("seed summary: %v", err)
	}

	rec := env.do(t, http.MethodPost, "/summaries/email", map[string]any{
		"summaryId":  summary.ID,
		"recipients": []string{"alice@example.com", "bob@example.com"},
		"subject":    "Meeting summary",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	resp := decode[entity.SendEmailResponse](t, rec)
	if resp.Message != "Summary sent to 2 recipient(s)" {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.EmailShare == nil || resp.EmailShare.SummaryID != summary.ID {
		t.Errorf("email share = %+v", resp.EmailShare)
	}
	if env.mailer.callCount() != 2 {
		t.Errorf("mailer calls = %d, want 2", env.mailer.callCount())
	}
}

func TestSendSummaryEmail_UnknownSummary(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/summaries/email", map[string]any{
		"summaryId":  "missing",
		"recipients": []string{"alice@example.com"},
		"subject":    "Meeting summary",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSendSummaryEmail_EmptyRecipients(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/summaries/email", map[string]any{
		"summaryId":  "sum-1",
		"recipients": []string{},
		"subject":    "Meeting summary",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.mailer.callCount() != 0 {
		t.Errorf("mailer calls = %d, want 0", env.mailer.callCount())
	}
}

func TestSendSummaryEmail_SendFailure(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.err = fmt.Errorf("smtp down")

	summary, err := env.storage.CreateSummary(context.Background(), "t-1", "the summary", nil)
	if err != nil {
		t.Fatalf("seed summary: %v", err)
	}

	rec := env.do(t, http.MethodPost, "/summaries/email", map[string]any{
		"summaryId":  summary.ID,
		"recipients": []string{"alice@example.com"},
		"subject":    "Meeting summary",
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	shares, _ := env.storage.GetEmailSharesBySummaryID(context.Background(), summary.ID)
	if len(shares) != 0 {
		t.Errorf("expected no persisted share after send failure, got %d", len(shares))
	}
}

func multipartUpload(t *testing.T, fileName, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create multipart part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write multipart part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	return &buf, mw.FormDataContentType()
}

func TestUploadTranscript(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartUpload(t, "notes.txt", "text/plain", []byte("uploaded meeting notes"))
	req := httptest.NewRequest(http.MethodPost, "/transcripts/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}

	transcript := decode[entity.Transcript](t, rec)
	if transcript.Content != "uploaded meeting notes" {
		t.Errorf("content = %q", transcript.Content)
	}
	if transcript.FileName == nil || *transcript.FileName != "notes.txt" {
		t.Errorf("file name = %v, want notes.txt", transcript.FileName)
	}
}

func TestUploadTranscript_UnsupportedType(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartUpload(t, "deck.pdf", "application/pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/transcripts/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

func TestUploadTranscript_UnsupportedTypeSkipsBody(t *testing.T) {
	env := newTestEnv(t)

	payload := bytes.Repeat([]byte("x"), 1<<20)
	body, contentType := multipartUpload(t, "deck.pdf", "application/pdf", payload)
	total := body.Len()

	counter := &countingReader{r: body}
	req := httptest.NewRequest(http.MethodPost, "/transcripts/upload", counter)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	// The part headers fit in the multipart reader's buffer; rejecting on
	// type must not drain the megabyte of file content behind them.
	if counter.n > 64<<10 {
		t.Errorf("consumed %d of %d body bytes before rejecting", counter.n, total)
	}
}

func TestUploadTranscript_NoFile(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("other", "value")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/transcripts/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestListSummariesByTranscript(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.storage.CreateSummary(ctx, "t-1", "first", nil)
	env.storage.CreateSummary(ctx, "t-2", "other", nil)
	env.storage.CreateSummary(ctx, "t-1", "second", nil)

	rec := env.do(t, http.MethodGet, "/transcripts/t-1/summaries", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	summaries := decode[[]entity.Summary](t, rec)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Content != "first" || summaries[1].Content != "second" {
		t.Errorf("summaries out of insertion order: %q, %q", summaries[0].Content, summaries[1].Content)
	}
}

func TestListSharesBySummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.storage.CreateEmailShare(ctx, "sum-1", []string{"a@example.com"}, "subject", nil)

	rec := env.do(t, http.MethodGet, "/summaries/sum-1/shares", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	shares := decode[[]entity.EmailShare](t, rec)
	if len(shares) != 1 || shares[0].Subject != "subject" {
		t.Errorf("shares = %+v", shares)
	}
}
