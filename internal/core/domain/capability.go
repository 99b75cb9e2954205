package domain

import (
	"fmt"
	"sort"
)

// Capability identifies one optional operation of the connector protocol.
// The tags are the operation names of the wallet call surface.
type Capability string

const (
	CapGetNetworkID       Capability = "getNetworkId"
	CapGetUtxos           Capability = "getUtxos"
	CapGetBalance         Capability = "getBalance"
	CapGetUsedAddresses   Capability = "getUsedAddresses"
	CapGetUnusedAddresses Capability = "getUnusedAddresses"
	CapGetChangeAddress   Capability = "getChangeAddress"
	CapGetRewardAddresses Capability = "getRewardAddresses"
	CapSignTx             Capability = "signTx"
	CapSignData           Capability = "signData"
	CapSubmitTx           Capability = "submitTx"
)

// CapabilitySet is an immutable-by-convention set of capabilities. Mutating
// methods return a new set.
type CapabilitySet map[Capability]struct{}

// NewCapabilitySet builds a set from the given capabilities.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	s := make(CapabilitySet, len(caps))
	for _, c := range caps {
		s[c] = struct{}{}
	}
	return s
}

// CapabilitySetFromNames parses wallet-advertised operation names, silently
// keeping unknown ones: an unknown tag can never be required, so carrying it
// is harmless while dropping it would hide what the wallet advertised.
func CapabilitySetFromNames(names []string) CapabilitySet {
	s := make(CapabilitySet, len(names))
	for _, n := range names {
		s[Capability(n)] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// SubsetOf reports whether every capability of s is contained in other.
func (s CapabilitySet) SubsetOf(other CapabilitySet) bool {
	for c := range s {
		if !other.Has(c) {
			return false
		}
	}
	return true
}

// Intersect returns the capabilities present in both sets.
func (s CapabilitySet) Intersect(other CapabilitySet) CapabilitySet {
	out := CapabilitySet{}
	for c := range s {
		if other.Has(c) {
			out[c] = struct{}{}
		}
	}
	return out
}

// List returns the capabilities in lexical order.
func (s CapabilitySet) List() []Capability {
	out := make([]Capability, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Names returns the operation names in lexical order.
func (s CapabilitySet) Names() []string {
	list := s.List()
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, string(c))
	}
	return out
}

// CapabilityRegistry gates optional operations against the set a session was
// granted at enable time. The granted set is fixed for the session lifetime.
type CapabilityRegistry struct {
	granted CapabilitySet
}

// NewCapabilityRegistry builds a registry over the granted set.
func NewCapabilityRegistry(granted CapabilitySet) *CapabilityRegistry {
	copied := make(CapabilitySet, len(granted))
	for c := range granted {
		copied[c] = struct{}{}
	}
	return &CapabilityRegistry{granted: copied}
}

// Supports reports whether the capability was granted.
func (r *CapabilityRegistry) Supports(c Capability) bool {
	return r.granted.Has(c)
}

// Require returns ErrUnsupportedCapability for any capability outside the
// granted set. Gated operations must call it before issuing the wallet call:
// asking a wallet for an operation it did not agree to handle is a caller
// error, not a wallet error.
func (r *CapabilityRegistry) Require(c Capability) error {
	if !r.granted.Has(c) {
		return fmt.Errorf("%w: %s", ErrUnsupportedCapability, c)
	}
	return nil
}

// Granted returns a copy of the granted set.
func (r *CapabilityRegistry) Granted() CapabilitySet {
	copied := make(CapabilitySet, len(r.granted))
	for c := range r.granted {
		copied[c] = struct{}{}
	}
	return copied
}
