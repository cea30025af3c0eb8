// Package sms exposes a client for the Chuanglan (253) SMS gateway: sending
// messages to batches of recipients and querying the remaining send quota.
package sms

import "context"

// SendType selects how the gateway should deliver a message.
type SendType string

const (
	SendTypePlain SendType = "plain"
	SendTypeLong  SendType = "long"
)

// SendOptions are per-call options accepted by Send.
//
// The gateway's send endpoint has no fields for them, so they are carried
// through the API but not put on the wire.
type SendOptions struct {
	// SendTime is when the message should be delivered (YYYYMMDDHHMMSS).
	SendTime string
	// SendType defaults to SendTypePlain.
	SendType SendType
	// ExpiresAt is how long the gateway may hold the message (YYYYMMDDHHMMSS).
	ExpiresAt string
}

// Client is the contract for talking to the SMS gateway.
//
//go:generate mockgen -source=./sms.go -destination=./mocks/sms.mock.go -package=smsmocks Client
type Client interface {
	// Send delivers message to every recipient, splitting recipients into
	// batches the gateway accepts. It stops at the first failing batch.
	Send(ctx context.Context, message string, recipients []string, opts SendOptions) error

	// QueryQuota returns how many messages the account can still send.
	QueryQuota(ctx context.Context) (int, error)
}
