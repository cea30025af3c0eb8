// Package message holds the domain model for outgoing SMS dispatches.
package message

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Dispatch is one send request: a message going to a list of recipients.
// It only lives for the duration of the call that created it.
type Dispatch struct {
	ID         uuid.UUID
	Recipients []string
	Content    string
	Status     Status
	// Batches is how many gateway requests the recipients need.
	Batches   int
	Error     string
	SentAt    *time.Time
	CreatedAt time.Time
}

// NewDispatch constructs a pending Dispatch. batchSize must be positive.
func NewDispatch(recipients []string, content string, batchSize int) *Dispatch {
	return &Dispatch{
		ID:         uuid.New(),
		Recipients: recipients,
		Content:    content,
		Status:     StatusPending,
		Batches:    (len(recipients) + batchSize - 1) / batchSize,
		CreatedAt:  time.Now(),
	}
}

// MarkSent marks the dispatch as accepted by the gateway.
func (d *Dispatch) MarkSent() {
	now := time.Now()
	d.SentAt = &now
	d.Status = StatusSuccess
	d.Error = ""
}

// MarkFailed marks the dispatch as failed. Some batches may still have
// been delivered before the failure.
func (d *Dispatch) MarkFailed(err error) {
	d.Status = StatusFailed
	if err != nil {
		d.Error = err.Error()
	}
}

// Quota is the remaining send allowance reported by the gateway.
type Quota struct {
	Remaining int
	CheckedAt time.Time
	// Cached is true when the value came from the cache rather than the gateway.
	Cached bool
}
