package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedCapability is returned by the capability registry before
	// any call reaches the wallet.
	ErrUnsupportedCapability = errors.New("capability not granted by the wallet")
	// ErrOperationInProgress is returned when a second exclusive operation is
	// issued before the pending one resolves.
	ErrOperationInProgress = errors.New("another operation is in progress")
	// ErrSessionNotActive is returned when using a session that is not enabled.
	ErrSessionNotActive = errors.New("session is not enabled")
	// ErrSessionAlreadyEnabled ...
	ErrSessionAlreadyEnabled = errors.New("session is already enabled")
	// ErrSessionTerminated is returned when enabling a disabled or failed
	// session; a fresh session must be negotiated instead.
	ErrSessionTerminated = errors.New("session is terminated, negotiate a new one")
	// ErrSessionNotEnabling is returned when completing or failing a handshake
	// that was never started.
	ErrSessionNotEnabling = errors.New("session has no handshake in progress")

	// ErrTxMustBeBuilding is returned by draft operations outside the building
	// stage.
	ErrTxMustBeBuilding = errors.New("transaction must be in the building stage")
	// ErrTxMustBeSigned is returned when submitting a transaction that has no
	// witnesses attached.
	ErrTxMustBeSigned = errors.New("transaction must be signed before submission")
	// ErrTxMustBeFailed is returned when reopening a transaction that did not
	// fail.
	ErrTxMustBeFailed = errors.New("transaction did not fail")
	// ErrTxNotSigning ...
	ErrTxNotSigning = errors.New("transaction has no signing request in progress")
	// ErrTxNotSubmitting ...
	ErrTxNotSubmitting = errors.New("transaction has no submission in progress")
	// ErrDraftFrozen is returned when modifying a draft after signing was
	// requested.
	ErrDraftFrozen = errors.New("draft is frozen")
	// ErrDraftIncomplete is returned when requesting a signature over a draft
	// with no inputs or no outputs.
	ErrDraftIncomplete = errors.New("draft needs at least one input and one output")
	// ErrDuplicateInput ...
	ErrDuplicateInput = errors.New("input already added to the draft")
	// ErrCannotPayFee is returned when the inputs of a sweep do not cover the
	// requested fee.
	ErrCannotPayFee = errors.New("inputs do not cover the fee")

	// ErrCancelled marks a pending request cancelled by the caller. Safe to
	// retry with a fresh request.
	ErrCancelled = errors.New("request cancelled")
	// ErrTimedOut marks a pending request abandoned by the timeout race. Safe
	// to retry with a fresh request.
	ErrTimedOut = errors.New("request timed out")
	// ErrAccountChanged signals that the wallet switched account and the
	// session must be re-negotiated.
	ErrAccountChanged = errors.New("wallet account changed, re-enable required")
)

// NegotiationReason discriminates why an enable handshake failed.
type NegotiationReason int

const (
	NegotiationUserDeclined NegotiationReason = iota
	NegotiationWalletLocked
	NegotiationUnsupportedExtension
	NegotiationCancelled
	NegotiationTimedOut
	NegotiationInternal
)

func (r NegotiationReason) String() string {
	switch r {
	case NegotiationUserDeclined:
		return "user declined"
	case NegotiationWalletLocked:
		return "wallet locked"
	case NegotiationUnsupportedExtension:
		return "unsupported extension"
	case NegotiationCancelled:
		return "cancelled"
	case NegotiationTimedOut:
		return "timed out"
	default:
		return "internal error"
	}
}

// NegotiationError is terminal for one enable attempt. It never corrupts
// previously established sessions.
type NegotiationError struct {
	Reason NegotiationReason
	Info   string
}

func (e *NegotiationError) Error() string {
	if e.Info == "" {
		return fmt.Sprintf("negotiation failed: %s", e.Reason)
	}
	return fmt.Sprintf("negotiation failed: %s: %s", e.Reason, e.Info)
}

// Unwrap maps the cancellation and timeout reasons onto the request-level
// sentinels so callers can test with errors.Is.
func (e *NegotiationError) Unwrap() error {
	switch e.Reason {
	case NegotiationCancelled:
		return ErrCancelled
	case NegotiationTimedOut:
		return ErrTimedOut
	default:
		return nil
	}
}

// ProtocolViolationError reports a cross-entity invariant breach, e.g. an
// address on the wrong network. It is kept distinct from decode failures: a
// violation means the wallet misbehaves, not that a message is malformed.
type ProtocolViolationError struct {
	Detail string
}

func (e *ProtocolViolationError) Error() string {
	return fmt.Sprintf("protocol violation: %s", e.Detail)
}

// NewProtocolViolation builds a ProtocolViolationError with the given detail.
func NewProtocolViolation(format string, args ...interface{}) *ProtocolViolationError {
	return &ProtocolViolationError{Detail: fmt.Sprintf(format, args...)}
}
