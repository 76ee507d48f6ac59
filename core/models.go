package core

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint returns a hex-encoded BLAKE2b-256 digest of raw content.
// Identical content always produces an identical fingerprint, which is what
// the change detector compares between fetch cycles.
func Fingerprint(data []byte) string {
	h, _ := blake2b.New(32, nil)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Status is the lifecycle state of a paper in the catalog.
type Status string

const (
	// StatusPending marks a paper that has been discovered but not processed.
	StatusPending Status = "pending"
	// StatusProcessing marks a paper currently moving through the pipeline.
	StatusProcessing Status = "processing"
	// StatusCompleted marks a paper with a persisted summary and index.
	StatusCompleted Status = "completed"
	// StatusFailed marks a paper whose last ingestion attempt failed.
	StatusFailed Status = "failed"
)

// Valid reports whether s is one of the defined lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether s is a successful terminal state.
// Failed papers are not terminal: they stay eligible for bounded retry.
func (s Status) Terminal() bool {
	return s == StatusCompleted
}

// CanTransition reports whether the move from s to next is allowed.
// Transitions run forward (pending, processing, completed) with a single
// backward edge: processing to failed, and failed back to pending for retry.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	case StatusFailed:
		return next == StatusPending
	}
	return false
}

// Summary is the structured result of summarizing a paper.
// All six fields are required; a summarizer response missing any of them
// is rejected before the paper can complete.
type Summary struct {
	Title      string   `json:"title"`
	ShortTitle string   `json:"short_title"`
	Topic      string   `json:"topic"`
	Abstract   []string `json:"abstract"`
	Analysis   string   `json:"analysis"`
	Conclusion string   `json:"conclusion"`
}

// Paper is one document's full record in the catalog.
// It is created when the change detector reports a new id, mutated only by
// the ingestion pipeline and the posting step, and never deleted.
type Paper struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Authors      []string  `json:"authors,omitempty"`
	SourceLink   string    `json:"source_link"`
	PDFLink      string    `json:"pdf_link"`
	LocalPDF     string    `json:"local_pdf,omitempty"`
	Upvotes      int       `json:"upvotes"`
	Comments     int       `json:"comments"`
	Summary      *Summary  `json:"summary,omitempty"`
	Topic        string    `json:"topic,omitempty"` // conversation thread key, set at most once
	Status       Status    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	RetryCount   int       `json:"retry_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Retryable reports whether the paper is eligible for another ingestion
// attempt under the given retry budget.
func (p *Paper) Retryable(maxRetries int) bool {
	return p.Status == StatusFailed && p.RetryCount < maxRetries
}
