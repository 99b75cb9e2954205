package domain

import "errors"

var (
	// ErrMissingWalletName ...
	ErrMissingWalletName = errors.New("wallet descriptor must have a name")
	// ErrMissingWalletVersion ...
	ErrMissingWalletVersion = errors.New("wallet descriptor must have an api version")
)

// WalletDescriptor is the immutable metadata of a discovered wallet. It is
// created once per discovery-registry entry and never mutated; when the
// wallet disappears from the registry the descriptor is simply dropped.
type WalletDescriptor struct {
	name       string
	apiVersion string
	icon       string
	supported  CapabilitySet
}

// NewWalletDescriptor validates and builds a descriptor.
func NewWalletDescriptor(
	name, apiVersion, icon string, supported CapabilitySet,
) (WalletDescriptor, error) {
	if name == "" {
		return WalletDescriptor{}, ErrMissingWalletName
	}
	if apiVersion == "" {
		return WalletDescriptor{}, ErrMissingWalletVersion
	}
	copied := make(CapabilitySet, len(supported))
	for c := range supported {
		copied[c] = struct{}{}
	}
	return WalletDescriptor{
		name:       name,
		apiVersion: apiVersion,
		icon:       icon,
		supported:  copied,
	}, nil
}

// Name returns the wallet application name, e.g. "lace".
func (d WalletDescriptor) Name() string { return d.name }

// APIVersion returns the connector protocol version the wallet implements.
func (d WalletDescriptor) APIVersion() string { return d.apiVersion }

// Icon returns the image URI advertised by the wallet.
func (d WalletDescriptor) Icon() string { return d.icon }

// Supported returns a copy of the advertised capability set.
func (d WalletDescriptor) Supported() CapabilitySet {
	copied := make(CapabilitySet, len(d.supported))
	for c := range d.supported {
		copied[c] = struct{}{}
	}
	return copied
}
