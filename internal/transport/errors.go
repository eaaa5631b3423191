package transport

import (
	"errors"
	"fmt"
)

// ClaimsVerificationFailed is the message the server sends with a 400 when the
// presented token no longer passes claims verification.
const ClaimsVerificationFailed = "User claims verification failed"

type Kind int

const (
	// KindNetwork means no response was received.
	KindNetwork Kind = iota
	// KindClaims means the token was rejected as stale; the only recoverable kind.
	KindClaims
	// KindStatus is any other non-2xx response.
	KindStatus
	// KindDecode means a 2xx response whose body could not be read.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindClaims:
		return "claims"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is returned by every Client call that fails.
type Error struct {
	Op     string // e.g. "PUT /api/games/{id}"
	Kind   Kind
	Status int    // zero for network errors
	Msg    string // server-reported message, if any
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindNetwork || e.Kind == KindDecode:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Msg)
	default:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// classify maps a non-2xx status and the server's message to a Kind. Only the
// exact claims message on a 400 counts as a claims failure.
func classify(status int, msg string) Kind {
	if status == 400 && msg == ClaimsVerificationFailed {
		return KindClaims
	}
	return KindStatus
}

// KindOf returns the Kind of err, and false if err is not a transport error.
func KindOf(err error) (Kind, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind, true
	}
	return 0, false
}

// IsClaimsFailure reports whether err means the presented token failed
// claims verification.
func IsClaimsFailure(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindClaims
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var te *Error
	if errors.As(err, &te) {
		return te.Status
	}
	return 0
}
