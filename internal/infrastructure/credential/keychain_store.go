// Package credential provides credential storage implementations.
package credential

import (
	"errors"

	"github.com/altuslabsxyz/deployer/internal/domain/credential"
	"github.com/zalando/go-keyring"
)

const (
	// ServiceName is the keychain service identifier.
	ServiceName = "deployer"
)

// =============================================================================
// Keychain Store (Most Secure)
// =============================================================================
// Uses the system keychain:
// - macOS: Keychain Access
// - Linux: Secret Service API (GNOME Keyring, KWallet)
// - Windows: Windows Credential Manager

// KeychainStore stores private keys in the system keychain.
type KeychainStore struct {
	serviceName string
}

// NewKeychainStore creates a new keychain-based credential store.
func NewKeychainStore() *KeychainStore {
	return &KeychainStore{
		serviceName: ServiceName,
	}
}

// Get retrieves a credential from the system keychain.
func (s *KeychainStore) Get(name string) (*credential.Credential, error) {
	value, err := keyring.Get(s.serviceName, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, credential.ErrCredentialNotFound
		}
		return nil, credential.ErrStorageUnavailable
	}

	return &credential.Credential{
		Ref:    credential.Reference{Source: credential.SourceKeychain, Name: name},
		Value:  value,
		Source: credential.SourceKeychain,
	}, nil
}

// Set stores a credential in the system keychain.
func (s *KeychainStore) Set(name, value string) error {
	if err := keyring.Set(s.serviceName, name, value); err != nil {
		return credential.ErrStorageUnavailable
	}
	return nil
}

// Delete removes a credential from the system keychain.
func (s *KeychainStore) Delete(name string) error {
	err := keyring.Delete(s.serviceName, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return credential.ErrCredentialNotFound
		}
		return credential.ErrStorageUnavailable
	}
	return nil
}

// Source returns the storage source type.
func (s *KeychainStore) Source() credential.Source {
	return credential.SourceKeychain
}

// IsAvailable checks if keychain is available on this system.
func (s *KeychainStore) IsAvailable() bool {
	// ErrNotFound for a probe key means the backend answered.
	_, err := keyring.Get(s.serviceName, "__test_availability__")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// Ensure KeychainStore implements Store interface.
var _ credential.Store = (*KeychainStore)(nil)
