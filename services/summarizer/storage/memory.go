package storage

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/recapd/backend/pkg/gen"
	"github.com/recapd/backend/pkg/logger"
	"github.com/recapd/backend/services/summarizer/entity"
)

// memory is the map-backed store. Handlers run on concurrent goroutines, so
// every operation takes the lock. Insertion order is tracked per collection
// to keep the filter operations stable.
//
// Summaries mutate in place on update, so every summary path hands out a
// copy rather than the stored record; callers would otherwise encode a
// record the lock no longer guards. Transcripts and shares never change
// after creation.
type memory struct {
	mu sync.RWMutex

	ids gen.IDGenerator

	transcripts map[string]*entity.Transcript

	summaries    map[string]*entity.Summary
	summaryOrder []string

	shares     map[string]*entity.EmailShare
	shareOrder []string
}

func New(ids gen.IDGenerator) Storage {
	return &memory{
		ids:         ids,
		transcripts: make(map[string]*entity.Transcript),
		summaries:   make(map[string]*entity.Summary),
		shares:      make(map[string]*entity.EmailShare),
	}
}

func (s *memory) CreateTranscript(ctx context.Context, content string, fileName *string) (*entity.Transcript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	transcript := &entity.Transcript{
		ID:        s.ids.Next(),
		Content:   content,
		FileName:  fileName,
		CreatedAt: time.Now(),
	}
	s.transcripts[transcript.ID] = transcript

	logger.FromContext(ctx).Debug("created transcript", "id", transcript.ID)

	return transcript, nil
}

func (s *memory) GetTranscript(ctx context.Context, id string) (*entity.Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	transcript, ok := s.transcripts[id]
	if !ok {
		return nil, entity.ErrNotFound
	}

	return transcript, nil
}

func (s *memory) CreateSummary(ctx context.Context, transcriptID, content string, customInstructions *string) (*entity.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := &entity.Summary{
		ID:                 s.ids.Next(),
		TranscriptID:       transcriptID,
		Content:            content,
		CustomInstructions: customInstructions,
		WordCount:          countWords(content),
		CreatedAt:          time.Now(),
	}
	s.summaries[summary.ID] = summary
	s.summaryOrder = append(s.summaryOrder, summary.ID)

	logger.FromContext(ctx).Debug("created summary",
		"id", summary.ID,
		"transcript_id", transcriptID,
		"word_count", summary.WordCount)

	cp := *summary
	return &cp, nil
}

func (s *memory) GetSummary(ctx context.Context, id string) (*entity.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, ok := s.summaries[id]
	if !ok {
		return nil, entity.ErrNotFound
	}

	cp := *summary
	return &cp, nil
}

func (s *memory) UpdateSummary(ctx context.Context, id, content string) (*entity.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary, ok := s.summaries[id]
	if !ok {
		return nil, entity.ErrNotFound
	}

	summary.Content = content
	summary.WordCount = countWords(content)

	logger.FromContext(ctx).Debug("updated summary", "id", id, "word_count", summary.WordCount)

	cp := *summary
	return &cp, nil
}

func (s *memory) GetSummariesByTranscriptID(ctx context.Context, transcriptID string) ([]*entity.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := []*entity.Summary{}
	for _, id := range s.summaryOrder {
		if summary := s.summaries[id]; summary.TranscriptID == transcriptID {
			cp := *summary
			summaries = append(summaries, &cp)
		}
	}

	return summaries, nil
}

func (s *memory) CreateEmailShare(ctx context.Context, summaryID string, recipients []string, subject string, message *string) (*entity.EmailShare, error) {
	encoded, err := entity.EncodeRecipients(recipients)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	share := &entity.EmailShare{
		ID:         s.ids.Next(),
		SummaryID:  summaryID,
		Recipients: encoded,
		Subject:    subject,
		Message:    message,
		SentAt:     time.Now(),
	}
	s.shares[share.ID] = share
	s.shareOrder = append(s.shareOrder, share.ID)

	logger.FromContext(ctx).Debug("created email share",
		"id", share.ID,
		"summary_id", summaryID,
		"recipients", len(recipients))

	return share, nil
}

func (s *memory) GetEmailSharesBySummaryID(ctx context.Context, summaryID string) ([]*entity.EmailShare, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shares := []*entity.EmailShare{}
	for _, id := range s.shareOrder {
		if share := s.shares[id]; share.SummaryID == summaryID {
			shares = append(shares, share)
		}
	}

	return shares, nil
}

// countWords renders the stored word count: whitespace runs collapse, leading
// and trailing whitespace is ignored. Stored as text to match the wire shape.
func countWords(content string) string {
	return strconv.Itoa(len(strings.Fields(content)))
}
