package usecase

import (
	"context"
	"fmt"
	"html"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/recapd/backend/pkg/docx"
	"github.com/recapd/backend/pkg/logger"
	"github.com/recapd/backend/services/summarizer/consts"
	"github.com/recapd/backend/services/summarizer/entity"
	"github.com/recapd/backend/services/summarizer/storage"
)

// Completer is the external text-generation collaborator.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Mailer delivers a single email to a single recipient per call.
type Mailer interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
}

type Usecase interface {
	CreateTranscript(ctx context.Context, req *entity.CreateTranscriptRequest) (*entity.Transcript, error)
	UploadTranscript(ctx context.Context, req *entity.UploadTranscriptRequest) (*entity.Transcript, error)
	GetTranscript(ctx context.Context, id string) (*entity.Transcript, error)

	GenerateSummary(ctx context.Context, req *entity.GenerateSummaryRequest) (*entity.Summary, error)
	GetSummary(ctx context.Context, id string) (*entity.Summary, error)
	UpdateSummary(ctx context.Context, id string, req *entity.UpdateSummaryRequest) (*entity.Summary, error)
	ListSummariesByTranscript(ctx context.Context, transcriptID string) ([]*entity.Summary, error)

	SendSummaryEmail(ctx context.Context, req *entity.SendEmailRequest) (*entity.SendEmailResponse, error)
	ListSharesBySummary(ctx context.Context, summaryID string) ([]*entity.EmailShare, error)
}

type usecase struct {
	storage   storage.Storage
	completer Completer
	mailer    Mailer
}

func New(storage storage.Storage, completer Completer, mailer Mailer) Usecase {
	return &usecase{
		storage:   storage,
		completer: completer,
		mailer:    mailer,
	}
}

func (u *usecase) CreateTranscript(ctx context.Context, req *entity.CreateTranscriptRequest) (*entity.Transcript, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	transcript, err := u.storage.CreateTranscript(ctx, strings.TrimSpace(req.Content), nil)
	if err != nil {
		return nil, fmt.Errorf("create transcript: %w", err)
	}

	return transcript, nil
}

func (u *usecase) UploadTranscript(ctx context.Context, req *entity.UploadTranscriptRequest) (*entity.Transcript, error) {
	var (
		content string
		err     error
	)

	switch req.ContentType {
	case consts.MimeWordDocument:
		content, err = docx.Extract(req.Data)
		if err != nil {
			return nil, fmt.Errorf("extract document text: %w", err)
		}
	default:
		content = string(req.Data)
	}

	var fileName *string
	if req.FileName != "" {
		fileName = &req.FileName
	}

	transcript, err := u.storage.CreateTranscript(ctx, strings.TrimSpace(content), fileName)
	if err != nil {
		return nil, fmt.Errorf("create transcript: %w", err)
	}

	return transcript, nil
}

func (u *usecase) GetTranscript(ctx context.Context, id string) (*entity.Transcript, error) {
	return u.storage.GetTranscript(ctx, id)
}

func (u *usecase) GenerateSummary(ctx context.Context, req *entity.GenerateSummaryRequest) (*entity.Summary, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	transcript, err := u.storage.CreateTranscript(ctx, req.TranscriptContent, nil)
	if err != nil {
		return nil, fmt.Errorf("create transcript: %w", err)
	}

	// The summary records the instructions actually used, so a fallback to
	// the default text is stored as that text, not as absent.
	instructions := consts.DefaultInstructions
	if req.CustomInstructions != nil && strings.TrimSpace(*req.CustomInstructions) != "" {
		instructions = strings.TrimSpace(*req.CustomInstructions)
	}

	prompt := instructions + "\n\n" + transcript.Content

	content, err := u.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate summary: %w", err)
	}

	summary, err := u.storage.CreateSummary(ctx, transcript.ID, content, &instructions)
	if err != nil {
		return nil, fmt.Errorf("create summary: %w", err)
	}

	logger.FromContext(ctx).Info("summary generated",
		"summary_id", summary.ID,
		"transcript_id", transcript.ID,
		"word_count", summary.WordCount)

	return summary, nil
}

func (u *usecase) GetSummary(ctx context.Context, id string) (*entity.Summary, error) {
	return u.storage.GetSummary(ctx, id)
}

func (u *usecase) UpdateSummary(ctx context.Context, id string, req *entity.UpdateSummaryRequest) (*entity.Summary, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return u.storage.UpdateSummary(ctx, id, req.Content)
}

func (u *usecase) ListSummariesByTranscript(ctx context.Context, transcriptID string) ([]*entity.Summary, error) {
	return u.storage.GetSummariesByTranscriptID(ctx, transcriptID)
}

func (u *usecase) SendSummaryEmail(ctx context.Context, req *entity.SendEmailRequest) (*entity.SendEmailResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	summary, err := u.storage.GetSummary(ctx, req.SummaryID)
	if err != nil {
		return nil, err
	}

	textBody := composeEmailBody(req.Message, summary.Content)
	htmlBody := renderHTML(textBody)

	// All sends run concurrently and the whole operation fails on the first
	// error. The share is only recorded after every recipient succeeded.
	g, gctx := errgroup.WithContext(ctx)
	for _, recipient := range req.Recipients {
		recipient := recipient
		g.Go(func() error {
			return u.mailer.Send(gctx, recipient, req.Subject, textBody, htmlBody)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("send summary email: %w", err)
	}

	share, err := u.storage.CreateEmailShare(ctx, summary.ID, req.Recipients, req.Subject, req.Message)
	if err != nil {
		return nil, fmt.Errorf("create email share: %w", err)
	}

	logger.FromContext(ctx).Info("summary emailed",
		"summary_id", summary.ID,
		"share_id", share.ID,
		"recipients", len(req.Recipients))

	return &entity.SendEmailResponse{
		Message:    fmt.Sprintf("Summary sent to %d recipient(s)", len(req.Recipients)),
		EmailShare: share,
	}, nil
}

func (u *usecase) ListSharesBySummary(ctx context.Context, summaryID string) ([]*entity.EmailShare, error) {
	return u.storage.GetEmailSharesBySummaryID(ctx, summaryID)
}

func composeEmailBody(message *string, summaryContent string) string {
	var b strings.Builder

	if message != nil && strings.TrimSpace(*message) != "" {
		b.WriteString(strings.TrimSpace(*message))
		b.WriteString("\n\n")
	}

	b.WriteString(consts.EmailSeparator)
	b.WriteString("\n\n")
	b.WriteString(summaryContent)
	b.WriteString("\n\n")
	b.WriteString(consts.EmailSeparator)
	b.WriteString("\n\n")
	b.WriteString(consts.EmailDisclaimer)

	return b.String()
}

func renderHTML(textBody string) string {
	return strings.ReplaceAll(html.EscapeString(textBody), "\n", "<br>")
}
