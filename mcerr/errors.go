// Package mcerr defines the single tagged error kind every dialect in
// mcstatus fails with. It has no dependency on protocol framing or
// transport so both protocol and lan can import it without a cycle.
package mcerr

import (
	"fmt"

	"emperror.dev/errors"
)

// Kind tags the category of failure a dialect call can produce.
type Kind int

const (
	// NetworkIO covers refused/unreachable/reset socket errors.
	NetworkIO Kind = iota
	// NetworkTimeout covers a read or write deadline expiring.
	NetworkTimeout
	// UnexpectedEOF covers a socket closed mid-frame.
	UnexpectedEOF
	// ProtocolMismatch covers magic bytes or framing assumptions violated.
	ProtocolMismatch
	// VarIntTooLarge covers a varint exceeding 5 bytes.
	VarIntTooLarge
	// InvalidUTF8 covers a UTF-8/UTF-16BE decode failure.
	InvalidUTF8
	// ChatComponentInvalid covers a MOTD JSON document with the wrong shape.
	ChatComponentInvalid
	// InvalidNumber covers an expected decimal ASCII field failing to parse.
	InvalidNumber
	// InvalidAddress covers a host resolution failure.
	InvalidAddress
)

func (k Kind) String() string {
	switch k {
	case NetworkIO:
		return "NetworkIO"
	case NetworkTimeout:
		return "NetworkTimeout"
	case UnexpectedEOF:
		return "UnexpectedEOF"
	case ProtocolMismatch:
		return "ProtocolMismatch"
	case VarIntTooLarge:
		return "VarIntTooLarge"
	case InvalidUTF8:
		return "InvalidUTF8"
	case ChatComponentInvalid:
		return "ChatComponentInvalid"
	case InvalidNumber:
		return "InvalidNumber"
	case InvalidAddress:
		return "InvalidAddress"
	default:
		return "Unknown"
	}
}

// Error is the error type every exported mcstatus call returns on failure.
type Error struct {
	Kind  Kind
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a Kind-tagged error with a plain message.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, cause: errors.New(msg)}
}

// Wrap tags an existing error with a Kind, preserving it as the cause.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, cause: errors.Wrap(err, msg)}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(kind Kind, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, cause: errors.Wrapf(err, format, args...)}
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
