package request

// SchedulerRequest represents the JSON body for quota watcher control.
type SchedulerRequest struct {
	// Action controls the watcher. Allowed values:
	// - "start": start refreshing quota periodically
	// - "stop":  stop refreshing
	Action string `json:"action"`
}

// SendMessageRequest is the JSON body for POST /messages.
type SendMessageRequest struct {
	Recipients []string `json:"recipients"`
	Content    string   `json:"content"`
	// SendTime is YYYYMMDDHHMMSS. Optional.
	SendTime string `json:"sendTime,omitempty"`
	// SendType is "plain" (default) or "long".
	SendType string `json:"sendType,omitempty"`
	// ExpiresAt is YYYYMMDDHHMMSS. Optional.
	ExpiresAt string `json:"expiresAt,omitempty"`
}
