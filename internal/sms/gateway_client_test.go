package sms

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRequester records every request and answers with canned responses,
// one per call. The last response is reused once the list runs out.
type fakeRequester struct {
	responses []*Response
	err       error

	endpoints []string
	forms     []url.Values
}

func (f *fakeRequester) PostForm(_ context.Context, endpoint string, form url.Values) (*Response, error) {
	f.endpoints = append(f.endpoints, endpoint)
	f.forms = append(f.forms, form)
	if f.err != nil {
		return nil, f.err
	}
	idx := min(len(f.forms)-1, len(f.responses)-1)
	return f.responses[idx], nil
}

func ok(body string) *Response {
	return &Response{StatusCode: 200, Body: body}
}

func phones(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("138%08d", i+1)
	}
	return out
}

func TestGatewayClient_SendValidation(t *testing.T) {
	testCases := []struct {
		name       string
		message    string
		recipients []string
		wantErr    error
	}{
		{
			name:       "nil recipients",
			message:    "hello",
			recipients: nil,
			wantErr:    ErrRecipientsNotSpecified,
		},
		{
			name:       "empty recipients",
			message:    "hello",
			recipients: []string{},
			wantErr:    ErrRecipientsNotSpecified,
		},
		{
			name:       "blank recipient",
			message:    "hello",
			recipients: []string{""},
			wantErr:    ErrRecipientsNotSpecified,
		},
		{
			name:       "empty message",
			message:    "",
			recipients: []string{"13800000001"},
			wantErr:    ErrMessageEmpty,
		},
		{
			name:       "whitespace message",
			message:    " \t\n ",
			recipients: []string{"13800000001"},
			wantErr:    ErrMessageEmpty,
		},
		{
			name:       "message too long",
			message:    strings.Repeat("a", MaxMessageLength+1),
			recipients: []string{"13800000001"},
			wantErr:    ErrMessageTooLong,
		},
		{
			name:       "message too long in characters",
			message:    strings.Repeat("短", MaxMessageLength+1),
			recipients: []string{"13800000001"},
			wantErr:    ErrMessageTooLong,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := &fakeRequester{responses: []*Response{ok("20240101120000,0\n1")}}
			c := NewGatewayClient("acc", "pw", Config{}, req)

			err := c.Send(context.Background(), tc.message, tc.recipients, SendOptions{})
			assert.ErrorIs(t, err, tc.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, KindValidation, KindOf(err))
			assert.Empty(t, req.forms)
		})
	}
}

func TestGatewayClient_SendMessageAtLimit(t *testing.T) {
	req := &fakeRequester{responses: []*Response{ok("20240101120000,0\n1")}}
	c := NewGatewayClient("acc", "pw", Config{}, req)

	// Padding is trimmed before the length check.
	msg := "  " + strings.Repeat("短", MaxMessageLength) + "  "
	err := c.Send(context.Background(), msg, []string{"13800000001"}, SendOptions{})
	require.NoError(t, err)
	require.Len(t, req.forms, 1)
	assert.Equal(t, strings.Repeat("短", MaxMessageLength), req.forms[0].Get("msg"))
}

func TestGatewayClient_SendSingleRecipient(t *testing.T) {
	req := &fakeRequester{responses: []*Response{ok("20240101120000,0\n16012312345")}}
	c := NewGatewayClient("acc", "secret", Config{Name: "【Acme】", Affix: "1234"}, req)

	err := c.Send(context.Background(), "  your code is 1234 ", []string{"13800000001"}, SendOptions{})
	require.NoError(t, err)

	require.Len(t, req.forms, 1)
	assert.Equal(t, DefaultSendURL, req.endpoints[0])
	want := url.Values{
		"un":    {"acc"},
		"pw":    {"secret"},
		"phone": {"13800000001"},
		"msg":   {"your code is 1234【Acme】"},
		"rd":    {"0"},
		"ex":    {"1234"},
	}
	assert.Equal(t, want, req.forms[0])
}

func TestGatewayClient_SendWithoutAffix(t *testing.T) {
	req := &fakeRequester{responses: []*Response{ok("20240101120000,0\n1")}}
	c := NewGatewayClient("acc", "secret", Config{SendURL: "http://gw.local/send"}, req)

	err := c.Send(context.Background(), "hi", []string{"13800000001"}, SendOptions{SendType: SendTypeLong, SendTime: "20240101120000"})
	require.NoError(t, err)

	require.Len(t, req.forms, 1)
	assert.Equal(t, "http://gw.local/send", req.endpoints[0])
	assert.Equal(t, "hi", req.forms[0].Get("msg"))
	_, hasEx := req.forms[0]["ex"]
	assert.False(t, hasEx)
	// Per-call options are not part of the wire format.
	assert.Len(t, req.forms[0], 5)
}

func TestGatewayClient_SendMultipleRecipients(t *testing.T) {
	req := &fakeRequester{responses: []*Response{ok("20240101120000,0\n1")}}
	c := NewGatewayClient("acc", "pw", Config{}, req)

	rs := []string{"13800000003", " 13800000001", "", "13800000002"}
	err := c.Send(context.Background(), "hi", rs, SendOptions{})
	require.NoError(t, err)

	require.Len(t, req.forms, 1)
	assert.Equal(t, "13800000003,13800000001,13800000002", req.forms[0].Get("phone"))
}

func TestGatewayClient_SendBatches(t *testing.T) {
	testCases := []struct {
		name       string
		recipients int
		wantSizes  []int
	}{
		{name: "exactly one batch", recipients: 200, wantSizes: []int{200}},
		{name: "two batches", recipients: 300, wantSizes: []int{200, 100}},
		{name: "two full batches", recipients: 400, wantSizes: []int{200, 200}},
		{name: "three batches", recipients: 401, wantSizes: []int{200, 200, 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := &fakeRequester{responses: []*Response{ok("20240101120000,0\n1")}}
			c := NewGatewayClient("acc", "pw", Config{Affix: "88", Name: "【Acme】"}, req)
			rs := phones(tc.recipients)

			err := c.Send(context.Background(), "hi", rs, SendOptions{})
			require.NoError(t, err)
			require.Len(t, req.forms, len(tc.wantSizes))

			offset := 0
			for i, size := range tc.wantSizes {
				form := req.forms[i]
				assert.Equal(t, strings.Join(rs[offset:offset+size], ","), form.Get("phone"))
				assert.Equal(t, "hi【Acme】", form.Get("msg"))
				assert.Equal(t, "acc", form.Get("un"))
				assert.Equal(t, "pw", form.Get("pw"))
				assert.Equal(t, "88", form.Get("ex"))
				assert.Equal(t, "0", form.Get("rd"))
				offset += size
			}
		})
	}
}

func TestGatewayClient_SendStopsAtFailingBatch(t *testing.T) {
	req := &fakeRequester{responses: []*Response{
		ok("20240101120000,0\n1"),
		ok("20240101120000,109"),
		ok("20240101120000,0\n1"),
	}}
	c := NewGatewayClient("acc", "pw", Config{}, req)

	err := c.Send(context.Background(), "hi", phones(500), SendOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGateway)
	assert.Len(t, req.forms, 2)
}

func TestGatewayClient_SendResponses(t *testing.T) {
	phrase109, _ := Phrase("109")

	testCases := []struct {
		name     string
		resp     *Response
		reqErr   error
		wantKind Kind
		wantCode string
		wantMsg  string
	}{
		{
			name: "success",
			resp: ok("20240101120000,0\n16012312345"),
		},
		{
			name: "success with crlf",
			resp: ok("20240101120000,0\r\n16012312345\r\n"),
		},
		{
			name:     "no quota",
			resp:     ok("20240101120000,109"),
			wantKind: KindGateway,
			wantCode: "109",
			wantMsg:  phrase109,
		},
		{
			name:     "unknown code",
			resp:     ok("20240101120000,999"),
			wantKind: KindGateway,
			wantCode: "999",
			wantMsg:  "send error (999)",
		},
		{
			name:     "non-200 status",
			resp:     &Response{StatusCode: 502, Body: "bad gateway"},
			wantKind: KindTransport,
			wantMsg:  "gateway error",
		},
		{
			name:     "request failed",
			reqErr:   errors.New("connection refused"),
			wantKind: KindTransport,
			wantMsg:  "gateway error",
		},
		{
			name:     "no status field",
			resp:     ok("oops"),
			wantKind: KindTransport,
			wantMsg:  "malformed gateway response",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := &fakeRequester{responses: []*Response{tc.resp}, err: tc.reqErr}
			c := NewGatewayClient("acc", "pw", Config{}, req)

			err := c.Send(context.Background(), "hi", []string{"13800000001"}, SendOptions{})
			if tc.wantKind == 0 {
				require.NoError(t, err)
				return
			}

			var smsErr *Error
			require.ErrorAs(t, err, &smsErr)
			assert.Equal(t, tc.wantKind, smsErr.Kind)
			assert.Equal(t, tc.wantCode, smsErr.Code)
			assert.Equal(t, tc.wantMsg, smsErr.Message)
			if tc.reqErr != nil {
				assert.ErrorIs(t, err, tc.reqErr)
			}
		})
	}
}

func TestGatewayClient_QueryQuota(t *testing.T) {
	phrase109, _ := Phrase("109")

	testCases := []struct {
		name      string
		resp      *Response
		wantQuota int
		wantKind  Kind
		wantMsg   string
	}{
		{
			name:      "success",
			resp:      ok("20240101120000,0\n1000"),
			wantQuota: 1000,
		},
		{
			name:      "success with comma payload",
			resp:      ok("20240101120000,0,1000"),
			wantQuota: 1000,
		},
		{
			name:     "no quota",
			resp:     ok("20240101120000,109"),
			wantKind: KindGateway,
			wantMsg:  phrase109,
		},
		{
			name:     "wrong password",
			resp:     ok("20240101120000,102"),
			wantKind: KindGateway,
			wantMsg:  "密码错",
		},
		{
			name:     "unknown code",
			resp:     ok("20240101120000,999"),
			wantKind: KindGateway,
			wantMsg:  "quota query error (999)",
		},
		{
			name:     "non-200 status",
			resp:     &Response{StatusCode: 500},
			wantKind: KindTransport,
			wantMsg:  "gateway error",
		},
		{
			name:     "missing quota field",
			resp:     ok("20240101120000,0"),
			wantKind: KindTransport,
			wantMsg:  "malformed gateway response",
		},
		{
			name:     "quota not a number",
			resp:     ok("20240101120000,0\nlots"),
			wantKind: KindTransport,
			wantMsg:  "malformed gateway response",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := &fakeRequester{responses: []*Response{tc.resp}}
			c := NewGatewayClient("acc", "pw", Config{QuotaURL: "http://gw.local/balance"}, req)

			quota, err := c.QueryQuota(context.Background())

			require.Len(t, req.forms, 1)
			assert.Equal(t, "http://gw.local/balance", req.endpoints[0])
			assert.Equal(t, url.Values{"un": {"acc"}, "pw": {"pw"}}, req.forms[0])

			if tc.wantKind == 0 {
				require.NoError(t, err)
				assert.Equal(t, tc.wantQuota, quota)
				return
			}

			var smsErr *Error
			require.ErrorAs(t, err, &smsErr)
			assert.Equal(t, tc.wantKind, smsErr.Kind)
			assert.Equal(t, tc.wantMsg, smsErr.Message)
			assert.Zero(t, quota)
		})
	}
}

func TestError_Is(t *testing.T) {
	err := gatewayError("109", "send error (%s)")

	assert.ErrorIs(t, err, ErrGateway)
	assert.ErrorIs(t, err, &Error{Kind: KindGateway, Code: "109"})
	assert.NotErrorIs(t, err, &Error{Kind: KindGateway, Code: "110"})
	assert.NotErrorIs(t, err, ErrTransport)
	assert.NotErrorIs(t, ErrMessageEmpty, ErrMessageTooLong)

	wrapped := fmt.Errorf("send dispatch: %w", err)
	assert.Equal(t, KindGateway, KindOf(wrapped))
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
}

func TestPhrase(t *testing.T) {
	p, found := Phrase("0")
	assert.True(t, found)
	assert.Equal(t, "提交成功", p)

	assert.Len(t, phrases, 19)

	_, found = Phrase("114")
	assert.False(t, found)
}

func TestNormalizeRecipients(t *testing.T) {
	got := NormalizeRecipients([]string{" 13800000001", "", "\t", "13800000002 ", " "})
	assert.Equal(t, []string{"13800000001", "13800000002"}, got)
	assert.Empty(t, NormalizeRecipients(nil))
}
