// Package errs carries the error taxonomy shared by the server and client:
// a small set of kinds plus the operation that failed. Startup kinds are
// fatal to the process; everything else is handled in place.
package errs

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindSocket       // listen/dial/accept failures
	KindMap          // map file load or parse failures
	KindProtocol     // malformed or undersized frames, framing desync
	KindConfig       // bad flags or environment values
)

func (k Kind) String() string {
	switch k {
	case KindSocket:
		return "socket"
	case KindMap:
		return "map"
	case KindProtocol:
		return "protocol"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with a kind and the operation that produced it.
func New(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf builds a leaf error of the given kind.
func Newf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf reports the kind of err, or KindUnknown if err does not carry one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
