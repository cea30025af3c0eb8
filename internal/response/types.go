package response

import (
	"time"

	domain "github.com/oggyb/chuanglan-sms/internal/domain/message"
)

type WelcomePayload struct {
	Message string `json:"message"`
}

type HealthPayload struct {
	Status  string            `json:"status"`
	Failing map[string]string `json:"failing,omitempty"`
}

type WelcomeResponse struct {
	Success   bool           `json:"success"`
	Data      WelcomePayload `json:"data"`
	Timestamp string         `json:"timestamp"`
}

type HealthResponse struct {
	Success   bool          `json:"success"`
	Data      HealthPayload `json:"data"`
	Timestamp string        `json:"timestamp"`
}

type SchedulerControlPayload struct {
	Message string `json:"message"`
}

type SchedulerControlResponse struct {
	Success   bool                    `json:"success"`
	Data      SchedulerControlPayload `json:"data"`
	Timestamp string                  `json:"timestamp"`
}

// DispatchDTO is the public-facing representation of a dispatch.
type DispatchDTO struct {
	ID         string     `json:"id"`
	Recipients []string   `json:"recipients"`
	Content    string     `json:"content"`
	Status     string     `json:"status"`
	Batches    int        `json:"batches"`
	Error      string     `json:"error,omitempty"`
	SentAt     *time.Time `json:"sentAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type DispatchResponse struct {
	Success   bool        `json:"success"`
	Data      DispatchDTO `json:"data"`
	Timestamp string      `json:"timestamp"`
}

type QuotaPayload struct {
	Remaining int       `json:"remaining"`
	CheckedAt time.Time `json:"checkedAt"`
	Cached    bool      `json:"cached"`
}

type QuotaResponse struct {
	Success   bool         `json:"success"`
	Data      QuotaPayload `json:"data"`
	Timestamp string       `json:"timestamp"`
}

type SentCountPayload struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

type SentCountResponse struct {
	Success   bool             `json:"success"`
	Data      SentCountPayload `json:"data"`
	Timestamp string           `json:"timestamp"`
}

// FromDomainDispatch converts a dispatch into its DTO.
func FromDomainDispatch(d *domain.Dispatch) DispatchDTO {
	return DispatchDTO{
		ID:         d.ID.String(),
		Recipients: d.Recipients,
		Content:    d.Content,
		Status:     string(d.Status),
		Batches:    d.Batches,
		Error:      d.Error,
		SentAt:     d.SentAt,
		CreatedAt:  d.CreatedAt,
	}
}

// FromDomainQuota converts a quota into its DTO.
func FromDomainQuota(q *domain.Quota) QuotaPayload {
	return QuotaPayload{
		Remaining: q.Remaining,
		CheckedAt: q.CheckedAt,
		Cached:    q.Cached,
	}
}
