package credential

import (
	"os"

	"github.com/altuslabsxyz/deployer/internal/domain/credential"
)

// =============================================================================
// Environment Variable Store (Read-Only)
// =============================================================================
// Reads keys from environment variables named by "env:NAME" references.
// This is read-only - use shell configuration or a secret manager to set values.

// EnvironmentStore reads credentials from environment variables.
type EnvironmentStore struct {
	lookup func(string) (string, bool)
}

// NewEnvironmentStore creates a new environment variable credential store.
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{lookup: os.LookupEnv}
}

// Get retrieves a credential from the named environment variable.
func (s *EnvironmentStore) Get(name string) (*credential.Credential, error) {
	value, ok := s.lookup(name)
	if !ok || value == "" {
		return nil, credential.ErrCredentialNotFound
	}

	return &credential.Credential{
		Ref:    credential.Reference{Source: credential.SourceEnvironment, Name: name},
		Value:  value,
		Source: credential.SourceEnvironment,
	}, nil
}

// Set is not supported for environment variables.
func (s *EnvironmentStore) Set(name, value string) error {
	return credential.ErrStorageUnavailable
}

// Delete is not supported for environment variables.
func (s *EnvironmentStore) Delete(name string) error {
	return credential.ErrStorageUnavailable
}

// Source returns the storage source type.
func (s *EnvironmentStore) Source() credential.Source {
	return credential.SourceEnvironment
}

// IsAvailable always returns true since environment is always available.
func (s *EnvironmentStore) IsAvailable() bool {
	return true
}

// Ensure EnvironmentStore implements Store interface.
var _ credential.Store = (*EnvironmentStore)(nil)
