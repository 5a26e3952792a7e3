package storage

import (
	"context"

	"github.com/recapd/backend/services/summarizer/entity"
)

// Storage owns all entity state: identifier generation, timestamps, and the
// create/read/update/filter operations. Read and update misses return
// entity.ErrNotFound. A durable implementation must honor the same contracts;
// orchestration code never depends on the in-memory variant directly.
//
// The store is deliberately permissive about cross-entity references:
// CreateSummary and CreateEmailShare do not check that the referenced row
// exists. Callers are responsible for only passing valid references.
type Storage interface {
	CreateTranscript(ctx context.Context, content string, fileName *string) (*entity.Transcript, error)
	GetTranscript(ctx context.Context, id string) (*entity.Transcript, error)

	CreateSummary(ctx context.Context, transcriptID, content string, customInstructions *string) (*entity.Summary, error)
	GetSummary(ctx context.Context, id string) (*entity.Summary, error)
	UpdateSummary(ctx context.Context, id, content string) (*entity.Summary, error)
	GetSummariesByTranscriptID(ctx context.Context, transcriptID string) ([]*entity.Summary, error)

	CreateEmailShare(ctx context.Context, summaryID string, recipients []string, subject string, message *string) (*entity.EmailShare, error)
	GetEmailSharesBySummaryID(ctx context.Context, summaryID string) ([]*entity.EmailShare, error)
}
