package platform

import (
	"errors"
	"fmt"
)

// ErrorKind classifies platform failures.
type ErrorKind uint8

const (
	KindInit ErrorKind = iota + 1
	KindCapacity
	KindParameter
	KindUnsupported
	KindGone
	KindFatal
)

func (k ErrorKind) String() string {
	switch k {
	case KindInit:
		return "initialization"
	case KindCapacity:
		return "capacity"
	case KindParameter:
		return "parameter"
	case KindUnsupported:
		return "unsupported"
	case KindGone:
		return "gone"
	case KindFatal:
		return "fatal"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Sentinels for errors.Is. Every *Error matches the sentinel of its kind.
var (
	ErrInit        = errors.New("platform initialization failed")
	ErrCapacity    = errors.New("platform capacity exceeded")
	ErrParameter   = errors.New("invalid parameter")
	ErrUnsupported = errors.New("unsupported by platform")
	ErrGone        = errors.New("window is gone")
	ErrFatal       = errors.New("unrecoverable native condition")
)

var kindSentinels = map[ErrorKind]error{
	KindInit:        ErrInit,
	KindCapacity:    ErrCapacity,
	KindParameter:   ErrParameter,
	KindUnsupported: ErrUnsupported,
	KindGone:        ErrGone,
	KindFatal:       ErrFatal,
}

// Error is a platform failure with enough identity for the caller to decide
// between retrying and giving up.
type Error struct {
	Kind   ErrorKind
	Op     string
	Window WindowID
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Op
	if e.Window != 0 {
		msg = fmt.Sprintf("%s window %d", msg, e.Window)
	}
	base := kindSentinels[e.Kind]
	switch {
	case e.Err != nil && base != nil:
		return fmt.Sprintf("%s: %v: %v", msg, base, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", msg, e.Err)
	case base != nil:
		return fmt.Sprintf("%s: %v", msg, base)
	default:
		return msg
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	base, ok := kindSentinels[e.Kind]
	return ok && base == target
}

// NewError builds an *Error.
func NewError(kind ErrorKind, op string, window WindowID, err error) *Error {
	return &Error{Kind: kind, Op: op, Window: window, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or zero.
func KindOf(err error) ErrorKind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	for kind, base := range kindSentinels {
		if errors.Is(err, base) {
			return kind
		}
	}
	return 0
}
