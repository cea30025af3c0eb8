package sms

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	// KindValidation means the caller supplied bad input; nothing was sent.
	KindValidation Kind = iota + 1
	// KindTransport means the gateway could not be reached or answered with
	// a non-200 status or an unreadable body.
	KindTransport
	// KindGateway means the gateway answered with a non-zero status code.
	KindGateway
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	case KindGateway:
		return "gateway"
	default:
		return "unknown"
	}
}

// Error is returned by every Client operation that fails.
type Error struct {
	Kind Kind
	// Code is the gateway status code, set for KindGateway only.
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches target when it is an *Error of the same kind whose non-empty
// Code and Message also match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	if t.Code != "" && t.Code != e.Code {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

var (
	// ErrValidation matches every validation failure.
	ErrValidation = &Error{Kind: KindValidation}
	// ErrTransport matches every transport failure.
	ErrTransport = &Error{Kind: KindTransport}
	// ErrGateway matches every gateway status failure.
	ErrGateway = &Error{Kind: KindGateway}

	ErrRecipientsNotSpecified = &Error{Kind: KindValidation, Message: "recipients not specified"}
	ErrMessageEmpty           = &Error{Kind: KindValidation, Message: "message empty"}
	ErrMessageTooLong         = &Error{Kind: KindValidation, Message: "message too long"}
)

const (
	msgGatewayError      = "gateway error"
	msgMalformedResponse = "malformed gateway response"
)

// KindOf reports the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func transportError(msg string, err error) *Error {
	return &Error{Kind: KindTransport, Message: msg, Err: err}
}

func gatewayError(code, fallbackFormat string) *Error {
	msg, ok := phrases[code]
	if !ok {
		msg = fmt.Sprintf(fallbackFormat, code)
	}
	return &Error{Kind: KindGateway, Code: code, Message: msg}
}
