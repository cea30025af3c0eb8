package cache

import "fmt"

type Prefix string

const (
	// SentMessages counts recipients messaged per day, keyed by YYYYMMDD.
	SentMessages Prefix = "sent_messages"
	// Quota holds the last remaining quota read from the gateway.
	Quota Prefix = "quota"
)

func (p Prefix) Key(id string) string {
	return fmt.Sprintf("%s:%s", p, id)
}
