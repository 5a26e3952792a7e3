package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound signals a read or update against an identifier the store does
// not hold. Handlers map it to 404 rather than a server fault.
var ErrNotFound = errors.New("not found")

type (
	// Transcript is the raw meeting record. Immutable after creation.
	Transcript struct {
		ID        string    `json:"id"`
		Content   string    `json:"content"`
		FileName  *string   `json:"fileName"`
		CreatedAt time.Time `json:"createdAt"`
	}

	// Summary is an AI-generated condensation of a transcript. Content and
	// word count change together through the update operation; every other
	// field is fixed at creation.
	Summary struct {
		ID                 string    `json:"id"`
		TranscriptID       string    `json:"transcriptId"`
		Content            string    `json:"content"`
		CustomInstructions *string   `json:"customInstructions"`
		WordCount          string    `json:"wordCount"`
		CreatedAt          time.Time `json:"createdAt"`
	}

	// EmailShare records a summary having been emailed. Recipients are kept
	// serialized, matching how the row would land in a database.
	EmailShare struct {
		ID         string    `json:"id"`
		SummaryID  string    `json:"summaryId"`
		Recipients string    `json:"recipients"`
		Subject    string    `json:"subject"`
		Message    *string   `json:"message"`
		SentAt     time.Time `json:"sentAt"`
	}
)

// EncodeRecipients serializes a recipient list for storage on an EmailShare.
func EncodeRecipients(recipients []string) (string, error) {
	raw, err := json.Marshal(recipients)
	if err != nil {
		return "", fmt.Errorf("encode recipients: %w", err)
	}
	return string(raw), nil
}

// RecipientList decodes the serialized recipient array.
func (e *EmailShare) RecipientList() ([]string, error) {
	var recipients []string
	if err := json.Unmarshal([]byte(e.Recipients), &recipients); err != nil {
		return nil, fmt.Errorf("decode recipients: %w", err)
	}
	return recipients, nil
}
