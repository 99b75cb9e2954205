package domain

import (
	"sync"

	"github.com/google/uuid"
)

// SessionState is the lifecycle stage of a wallet session.
type SessionState int

const (
	// SessionDiscovered is the initial state: the wallet is visible but no
	// handshake has been attempted.
	SessionDiscovered SessionState = iota
	// SessionEnabling means an enable request is pending at the wallet.
	SessionEnabling
	// SessionEnabled means the handshake succeeded and the session is usable.
	SessionEnabled
	// SessionDisabled is terminal: the session was explicitly torn down.
	SessionDisabled
	// SessionFailed is terminal: the handshake was rejected, cancelled or
	// timed out.
	SessionFailed
)

func (s SessionState) String() string {
	switch s {
	case SessionDiscovered:
		return "discovered"
	case SessionEnabling:
		return "enabling"
	case SessionEnabled:
		return "enabled"
	case SessionDisabled:
		return "disabled"
	case SessionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session is the outcome of one enable handshake with one wallet, scoped to
// the requesting origin. It is owned by the connector that created it and is
// never shared across connectors: the granted capability set belongs to this
// negotiation alone.
type Session struct {
	id         string
	walletName string
	origin     string
	descriptor WalletDescriptor

	mtx      sync.Mutex
	state    SessionState
	registry *CapabilityRegistry
	failure  error
}

// NewSession creates a session in the Discovered state for the given wallet
// and requesting origin.
func NewSession(descriptor WalletDescriptor, origin string) *Session {
	return &Session{
		id:         uuid.New().String(),
		walletName: descriptor.Name(),
		origin:     origin,
		descriptor: descriptor,
		state:      SessionDiscovered,
	}
}

// ID returns the unique id of this negotiation.
func (s *Session) ID() string { return s.id }

// WalletName returns the name of the wallet the session is scoped to.
func (s *Session) WalletName() string { return s.walletName }

// Origin returns the requesting origin the session is scoped to.
func (s *Session) Origin() string { return s.origin }

// Descriptor returns the descriptor of the wallet the session was negotiated
// with.
func (s *Session) Descriptor() WalletDescriptor { return s.descriptor }

// State returns the current lifecycle stage.
func (s *Session) State() SessionState {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.state
}

// BeginEnable moves Discovered to Enabling. A handshake already pending
// yields ErrOperationInProgress: the wallet prompt is a serialized,
// user-attention-bound resource. Terminal sessions cannot be re-enabled,
// a fresh Session must be negotiated instead.
func (s *Session) BeginEnable() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	switch s.state {
	case SessionDiscovered:
		s.state = SessionEnabling
		return nil
	case SessionEnabling:
		return ErrOperationInProgress
	case SessionEnabled:
		return ErrSessionAlreadyEnabled
	default:
		return ErrSessionTerminated
	}
}

// CompleteEnable moves Enabling to Enabled with the granted capability set.
// A wallet granting a capability it never advertised breaks the negotiation
// invariant and fails the session with a protocol violation.
func (s *Session) CompleteEnable(granted CapabilitySet) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.state != SessionEnabling {
		return ErrSessionNotEnabling
	}

	if !granted.SubsetOf(s.descriptor.Supported()) {
		violation := NewProtocolViolation(
			"wallet %s granted capabilities outside its advertised set", s.walletName,
		)
		s.state = SessionFailed
		s.failure = violation
		return violation
	}

	s.registry = NewCapabilityRegistry(granted)
	s.state = SessionEnabled
	return nil
}

// FailEnable moves Enabling to Failed, preserving the reason. The failure is
// terminal for this session; the caller starts over with a new one.
func (s *Session) FailEnable(reason error) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.state != SessionEnabling {
		return ErrSessionNotEnabling
	}
	s.state = SessionFailed
	s.failure = reason
	return nil
}

// Disable moves Enabled to Disabled. Any later use of the session fails fast
// with ErrSessionNotActive instead of reaching the wallet.
func (s *Session) Disable() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.state != SessionEnabled {
		return ErrSessionNotActive
	}
	s.state = SessionDisabled
	return nil
}

// Invalidate forces the session into the Failed state, e.g. when the wallet
// handle disappeared from the discovery registry.
func (s *Session) Invalidate(reason error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.state == SessionDisabled || s.state == SessionFailed {
		return
	}
	s.state = SessionFailed
	s.failure = reason
}

// EnsureActive fails fast unless the session is enabled.
func (s *Session) EnsureActive() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.state != SessionEnabled {
		return ErrSessionNotActive
	}
	return nil
}

// Registry returns the capability registry negotiated at enable time, or nil
// when the session never reached the Enabled state.
func (s *Session) Registry() *CapabilityRegistry {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.registry
}

// Granted returns the granted capability set, empty when not enabled.
func (s *Session) Granted() CapabilitySet {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.registry == nil {
		return CapabilitySet{}
	}
	return s.registry.Granted()
}

// Failure returns the reason the session failed, nil otherwise.
func (s *Session) Failure() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.failure
}
