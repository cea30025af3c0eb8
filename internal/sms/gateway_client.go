package sms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ecodeclub/ekit/slice"
)

const (
	// DefaultSendURL is the gateway's send endpoint.
	DefaultSendURL = "https://sms.253.com/msg/send"
	// DefaultQuotaURL is the gateway's balance endpoint.
	DefaultQuotaURL = "https://sms.253.com/msg/balance"

	// MaxMessageLength is counted in characters, not bytes.
	MaxMessageLength = 500
	// MaxRecipientsPerBatch is the gateway's per-request recipient ceiling.
	MaxRecipientsPerBatch = 200

	requestTimeout = 5 * time.Second
)

var fieldSeparator = regexp.MustCompile(`[,\r\n]`)

// Config holds the gateway options. Zero values fall back to defaults.
type Config struct {
	SendURL  string
	QuotaURL string
	// Affix is the sender extension number (digits, at most 6), sent as "ex".
	Affix string
	// Name is the merchant signature appended to every message, e.g. "【XXX】".
	Name string
}

var _ Client = (*GatewayClient)(nil)

// GatewayClient talks to the Chuanglan HTTP API.
type GatewayClient struct {
	account   string
	password  string
	cfg       Config
	requester Requester
}

// NewGatewayClient creates a GatewayClient. password must already be hashed
// the way the gateway expects. A nil requester means a default HTTPRequester.
func NewGatewayClient(account, password string, cfg Config, requester Requester) *GatewayClient {
	if cfg.SendURL == "" {
		cfg.SendURL = DefaultSendURL
	}
	if cfg.QuotaURL == "" {
		cfg.QuotaURL = DefaultQuotaURL
	}
	if requester == nil {
		requester = NewHTTPRequester(nil)
	}

	return &GatewayClient{
		account:   account,
		password:  password,
		cfg:       cfg,
		requester: requester,
	}
}

// withTimeout wraps the context with a timeout if it doesn't already have one.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// Send implements Client.Send. Batches go out one after another; when one
// fails the rest are not sent and earlier batches are not reported.
func (c *GatewayClient) Send(ctx context.Context, message string, recipients []string, _ SendOptions) error {
	recipients = NormalizeRecipients(recipients)
	if len(recipients) == 0 {
		return ErrRecipientsNotSpecified
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return ErrMessageEmpty
	}
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return ErrMessageTooLong
	}
	message += c.cfg.Name

	for start := 0; start < len(recipients); start += MaxRecipientsPerBatch {
		end := min(start+MaxRecipientsPerBatch, len(recipients))
		if err := c.sendBatch(ctx, recipients[start:end], message); err != nil {
			return err
		}
	}
	return nil
}

func (c *GatewayClient) sendBatch(ctx context.Context, phones []string, message string) error {
	form := url.Values{}
	form.Set("un", c.account)
	form.Set("pw", c.password)
	form.Set("phone", strings.Join(phones, ","))
	form.Set("msg", message)
	form.Set("rd", "0")
	if c.cfg.Affix != "" {
		form.Set("ex", c.cfg.Affix)
	}

	fields, err := c.post(ctx, c.cfg.SendURL, form)
	if err != nil {
		return err
	}
	if code := fields[1]; code != CodeOK {
		return gatewayError(code, "send error (%s)")
	}
	return nil
}

// QueryQuota implements Client.QueryQuota.
func (c *GatewayClient) QueryQuota(ctx context.Context) (int, error) {
	form := url.Values{}
	form.Set("un", c.account)
	form.Set("pw", c.password)

	fields, err := c.post(ctx, c.cfg.QuotaURL, form)
	if err != nil {
		return 0, err
	}
	if code := fields[1]; code != CodeOK {
		return 0, gatewayError(code, "quota query error (%s)")
	}
	if len(fields) < 3 {
		return 0, transportError(msgMalformedResponse, errors.New("quota field missing"))
	}

	quota, err := strconv.Atoi(fields[2])
	if err != nil {
		return 0, transportError(msgMalformedResponse, err)
	}
	return quota, nil
}

// post sends form to endpoint and returns the response fields, trimmed.
// The result always has at least two fields.
func (c *GatewayClient) post(ctx context.Context, endpoint string, form url.Values) ([]string, error) {
	ctx, cancel := withTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.requester.PostForm(ctx, endpoint, form)
	if err != nil {
		return nil, transportError(msgGatewayError, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, transportError(msgGatewayError, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	fields := parseFields(resp.Body)
	if len(fields) < 2 {
		return nil, transportError(msgMalformedResponse, errors.New("status field missing"))
	}
	return fields, nil
}

// parseFields splits a gateway body on commas and line breaks. Empty fields
// are kept so positions stay stable; a CRLF counts as one break.
func parseFields(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	fields := fieldSeparator.Split(body, -1)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// NormalizeRecipients trims each phone number and drops blank entries,
// keeping order. It is the list Send actually delivers to.
func NormalizeRecipients(recipients []string) []string {
	return slice.FilterMap(recipients, func(_ int, src string) (string, bool) {
		phone := strings.TrimSpace(src)
		return phone, phone != ""
	})
}
